package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"motorpool/internal/domains/reservation/model"
)

func TestReservation_OverlapsRange(t *testing.T) {
	base := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)

	reservation := model.Reservation{
		StartTime: base,
		EndTime:   base.Add(2 * time.Hour),
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{
			name:  "identical window",
			start: base,
			end:   base.Add(2 * time.Hour),
			want:  true,
		},
		{
			name:  "contained inside",
			start: base.Add(30 * time.Minute),
			end:   base.Add(time.Hour),
			want:  true,
		},
		{
			name:  "overlaps the start",
			start: base.Add(-time.Hour),
			end:   base.Add(time.Hour),
			want:  true,
		},
		{
			name:  "overlaps the end",
			start: base.Add(time.Hour),
			end:   base.Add(3 * time.Hour),
			want:  true,
		},
		{
			name:  "surrounds the reservation",
			start: base.Add(-time.Hour),
			end:   base.Add(3 * time.Hour),
			want:  true,
		},
		{
			name:  "touching end does not overlap",
			start: base.Add(2 * time.Hour),
			end:   base.Add(3 * time.Hour),
			want:  false,
		},
		{
			name:  "touching start does not overlap",
			start: base.Add(-time.Hour),
			end:   base,
			want:  false,
		},
		{
			name:  "entirely before",
			start: base.Add(-3 * time.Hour),
			end:   base.Add(-2 * time.Hour),
			want:  false,
		},
		{
			name:  "entirely after",
			start: base.Add(4 * time.Hour),
			end:   base.Add(5 * time.Hour),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reservation.OverlapsRange(tt.start, tt.end))
		})
	}
}
