package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"motorpool/internal/domains/timeline/model"
)

func day(hour, minute int) time.Time {
	return time.Date(2026, 9, 7, hour, minute, 0, 0, time.UTC)
}

func TestSlotGrid_Labels(t *testing.T) {
	grid := model.NewSlotGrid(8, 18, 30)

	labels := grid.Labels()

	assert.Len(t, labels, 20)
	assert.Equal(t, "08:00", labels[0])
	assert.Equal(t, "08:30", labels[1])
	assert.Equal(t, "17:30", labels[len(labels)-1])
}

func TestSlotGrid_Labels_Extended(t *testing.T) {
	grid := model.NewSlotGrid(8, 20, 30)

	labels := grid.Labels()

	assert.Len(t, labels, 24)
	assert.Equal(t, "19:30", labels[len(labels)-1])
}

func TestSlotGrid_StartSlotIndex(t *testing.T) {
	grid := model.NewSlotGrid(8, 18, 30)
	reference := day(0, 0)

	tests := []struct {
		name  string
		start time.Time
		want  int
	}{
		{
			name:  "first slot",
			start: day(8, 0),
			want:  0,
		},
		{
			name:  "mid morning",
			start: day(10, 30),
			want:  5,
		},
		{
			name:  "between slot boundaries",
			start: day(10, 15),
			want:  -1,
		},
		{
			name:  "before grid start",
			start: day(7, 0),
			want:  -1,
		},
		{
			name:  "previous day",
			start: day(9, 0).AddDate(0, 0, -1),
			want:  -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, grid.StartSlotIndex(tt.start, reference))
		})
	}
}

func TestSlotGrid_EndSlotIndex(t *testing.T) {
	grid := model.NewSlotGrid(8, 18, 30)
	reference := day(0, 0)

	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{
			name: "exact slot boundary releases the slot",
			end:  day(10, 0),
			want: 3,
		},
		{
			name: "between boundaries claims the containing slot",
			end:  day(10, 15),
			want: 4,
		},
		{
			name: "grid end claims the last slot",
			end:  day(18, 0),
			want: 19,
		},
		{
			name: "past grid end claims the last slot",
			end:  day(21, 0),
			want: 19,
		},
		{
			name: "next day claims the last slot",
			end:  day(9, 0).AddDate(0, 0, 1),
			want: 19,
		},
		{
			name: "at grid start stays at slot zero",
			end:  day(8, 0),
			want: 0,
		},
		{
			name: "before grid start stays at slot zero",
			end:  day(6, 0),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, grid.EndSlotIndex(tt.end, reference))
		})
	}
}

func TestSlotGrid_Span(t *testing.T) {
	grid := model.NewSlotGrid(8, 18, 30)
	reference := day(0, 0)

	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		wantSlot  int
		wantWidth int
	}{
		{
			name:      "two hour reservation",
			start:     day(9, 0),
			end:       day(11, 0),
			wantSlot:  2,
			wantWidth: 4,
		},
		{
			name:      "single slot reservation",
			start:     day(9, 0),
			end:       day(9, 30),
			wantSlot:  2,
			wantWidth: 1,
		},
		{
			name:      "runs past the grid end",
			start:     day(17, 0),
			end:       day(19, 0),
			wantSlot:  18,
			wantWidth: 2,
		},
		{
			name:      "multi day reservation fills to the last slot",
			start:     day(14, 0),
			end:       day(10, 0).AddDate(0, 0, 2),
			wantSlot:  12,
			wantWidth: 8,
		},
		{
			name:      "width never drops below one",
			start:     day(8, 0),
			end:       day(8, 0),
			wantSlot:  0,
			wantWidth: 1,
		},
		{
			name:      "carried over from the previous day starts at slot zero",
			start:     day(14, 0).AddDate(0, 0, -1),
			end:       day(10, 0),
			wantSlot:  0,
			wantWidth: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, width := grid.Span(tt.start, tt.end, reference)

			assert.Equal(t, tt.wantSlot, slot)
			assert.Equal(t, tt.wantWidth, width)
		})
	}
}

func TestSlotGrid_MappingIsIdempotent(t *testing.T) {
	grid := model.NewSlotGrid(8, 18, 30)
	reference := day(0, 0)
	start := day(9, 30)
	end := day(12, 15)

	firstStart := grid.StartSlotIndex(start, reference)
	firstEnd := grid.EndSlotIndex(end, reference)
	firstSlot, firstWidth := grid.Span(start, end, reference)

	for i := 0; i < 3; i++ {
		assert.Equal(t, firstStart, grid.StartSlotIndex(start, reference))
		assert.Equal(t, firstEnd, grid.EndSlotIndex(end, reference))

		slot, width := grid.Span(start, end, reference)
		assert.Equal(t, firstSlot, slot)
		assert.Equal(t, firstWidth, width)
	}
}
