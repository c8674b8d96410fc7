// Package schedule derives and revises the visit time slots of a day's jobs.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/kiranshivaraju/fieldplanner/pkg/models"
)

var (
	ErrInvalidTime  = errors.New("time must be HH:MM in 24-hour format")
	ErrSlotIndex    = errors.New("slot index out of range")
	ErrPastMidnight = errors.New("slot would end at or after midnight")
)

const minutesPerDay = 24 * 60

// Scheduler holds the slot business rules. The zero value is not usable;
// start from Default.
type Scheduler struct {
	FirstStart    string        // start of the fixed first slot
	FirstEnd      string        // end of the fixed first slot
	SequenceStart string        // start of the second slot; later slots follow on
	Duration      time.Duration // length of every derived or revised slot

	ChoicesFrom string // earliest selectable start time
	ChoicesTo   string // latest selectable start time
	ChoiceStep  time.Duration
}

// Default returns the standard day plan: 07:30–08:30, then two-hour windows from 08:00.
func Default() Scheduler {
	return Scheduler{
		FirstStart:    "07:30",
		FirstEnd:      "08:30",
		SequenceStart: "08:00",
		Duration:      120 * time.Minute,
		ChoicesFrom:   "07:30",
		ChoicesTo:     "18:00",
		ChoiceStep:    30 * time.Minute,
	}
}

// Validate checks that every configured time parses and the durations are positive.
func (s Scheduler) Validate() error {
	for _, v := range []string{s.FirstStart, s.FirstEnd, s.SequenceStart, s.ChoicesFrom, s.ChoicesTo} {
		if _, err := ParseClock(v); err != nil {
			return fmt.Errorf("%q: %w", v, err)
		}
	}
	if s.Duration <= 0 {
		return fmt.Errorf("slot duration must be positive, got %s", s.Duration)
	}
	if s.ChoiceStep <= 0 {
		return fmt.Errorf("choice step must be positive, got %s", s.ChoiceStep)
	}
	return nil
}

// DeriveInitial returns the default slots for jobCount jobs. Existing slots are
// returned untouched so that user edits are never regenerated away.
// Returns an empty slice when there are no jobs.
//
// At most Capacity slots are derived. Jobs past the end of the day get no
// slot, and their messages carry the missing-time marker until one is set.
func (s Scheduler) DeriveInitial(existing []models.TimeSlot, jobCount int) []models.TimeSlot {
	if len(existing) > 0 {
		return existing
	}
	if jobCount <= 0 {
		return []models.TimeSlot{}
	}
	jobCount = min(jobCount, s.Capacity())

	slots := make([]models.TimeSlot, 0, jobCount)
	slots = append(slots, models.TimeSlot{Start: s.FirstStart, End: s.FirstEnd})

	base := mustClock(s.SequenceStart)
	step := int(s.Duration / time.Minute)
	for i := 1; i < jobCount; i++ {
		start := base + (i-1)*step
		slots = append(slots, models.TimeSlot{
			Start: FormatClock(start),
			End:   FormatClock(start + step),
		})
	}
	return slots
}

// Capacity is the number of slots that fit in one day: the fixed first slot
// plus every sequential window that ends before midnight.
func (s Scheduler) Capacity() int {
	base := mustClock(s.SequenceStart)
	step := int(s.Duration / time.Minute)
	if base+step >= minutesPerDay {
		return 1
	}
	return 2 + (minutesPerDay-1-base-step)/step
}

// Revise returns a copy of slots with slot index starting at newStart and
// ending Duration later. The input slice is not modified.
//
// A window reaching 24:00 or later is rejected with ErrPastMidnight rather
// than wrapped into the next day.
func (s Scheduler) Revise(slots []models.TimeSlot, index int, newStart string) ([]models.TimeSlot, error) {
	if index < 0 || index >= len(slots) {
		return nil, fmt.Errorf("%w: %d of %d", ErrSlotIndex, index, len(slots))
	}

	start, err := ParseClock(newStart)
	if err != nil {
		return nil, err
	}
	end := start + int(s.Duration/time.Minute)
	if end >= minutesPerDay {
		return nil, fmt.Errorf("%w: %s + %s", ErrPastMidnight, newStart, s.Duration)
	}

	revised := make([]models.TimeSlot, len(slots))
	copy(revised, slots)
	revised[index] = models.TimeSlot{Start: FormatClock(start), End: FormatClock(end)}
	return revised, nil
}

// StartChoices lists the selectable start times, inclusive of both bounds.
func (s Scheduler) StartChoices() []string {
	from := mustClock(s.ChoicesFrom)
	to := mustClock(s.ChoicesTo)
	step := int(s.ChoiceStep / time.Minute)

	choices := []string{}
	for m := from; m <= to; m += step {
		choices = append(choices, FormatClock(m))
	}
	return choices
}

// ParseClock converts "H:MM" or "HH:MM" into minutes after midnight.
func ParseClock(v string) (int, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, v)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes after midnight as zero-padded "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func mustClock(v string) int {
	m, err := ParseClock(v)
	if err != nil {
		panic(err)
	}
	return m
}
