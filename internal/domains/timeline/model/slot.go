package model

import (
	"fmt"
	"motorpool/shared/constant"
	"time"
)

// SlotGrid maps clock times onto a fixed grid of half-open slots covering
// [StartHour, EndHour) at GranularityMinutes steps. Slot 0 starts at
// StartHour; the last slot ends at EndHour.
type SlotGrid struct {
	StartHour          int
	EndHour            int
	GranularityMinutes int
}

func NewSlotGrid(startHour, endHour, granularityMinutes int) SlotGrid {
	return SlotGrid{
		StartHour:          startHour,
		EndHour:            endHour,
		GranularityMinutes: granularityMinutes,
	}
}

func (g SlotGrid) SlotCount() int {
	return (g.EndHour - g.StartHour) * 60 / g.GranularityMinutes
}

// Labels returns the HH:MM label of every slot start.
func (g SlotGrid) Labels() []string {
	labels := make([]string, 0, g.SlotCount())

	for mins := g.StartHour * 60; mins < g.EndHour*60; mins += g.GranularityMinutes {
		labels = append(labels, fmt.Sprintf("%02d:%02d", mins/60, mins%60))
	}

	return labels
}

// StartSlotIndex returns the slot whose label matches the start time exactly,
// or -1 when the start falls on a different calendar day or between labels.
func (g SlotGrid) StartSlotIndex(start, day time.Time) int {
	if !sameDay(start, day) {
		return -1
	}

	label := start.Format(constant.SlotTimeFormat)
	for i, candidate := range g.Labels() {
		if candidate == label {
			return i
		}
	}

	return -1
}

// EndSlotIndex returns the last slot a reservation ending at the given time
// occupies. An end on a later day, or at or past the grid end, claims the
// last slot. An end exactly on a slot boundary releases that slot, so the
// previous one is returned (never below 0).
func (g SlotGrid) EndSlotIndex(end, day time.Time) int {
	last := g.SlotCount() - 1

	if end.Year() > day.Year() || (end.Year() == day.Year() && end.YearDay() > day.YearDay()) {
		return last
	}

	mins := end.Hour()*60 + end.Minute() - g.StartHour*60
	if mins >= g.SlotCount()*g.GranularityMinutes {
		return last
	}

	if mins <= 0 {
		return 0
	}

	idx := mins / g.GranularityMinutes
	if mins%g.GranularityMinutes == 0 {
		idx--
	}

	if idx < 0 {
		return 0
	}

	return idx
}

// Span converts a reservation window into a start slot and a width in slots.
// A start on an earlier day or off the grid claims slot 0, so the returned
// start slot is never negative. Width is never below 1 so even boundary
// cases stay visible.
func (g SlotGrid) Span(start, end, day time.Time) (startSlot, width int) {
	startSlot = g.StartSlotIndex(start, day)
	if startSlot < 0 {
		startSlot = 0
	}

	endSlot := g.EndSlotIndex(end, day)

	width = endSlot - startSlot + 1
	if width < 1 {
		width = 1
	}

	return startSlot, width
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
