package board

import (
	"sort"

	"github.com/metroboard/metroboard/internal/models"
	"github.com/metroboard/metroboard/internal/timetable"
)

// NoTrain is the index value for a direction with no scheduled service.
const NoTrain = -1

// ResolveAll turns a direction's departure times into ordered train slots
// relative to the given minutes-of-day. Input order is not trusted; slots
// come back sorted ascending. A slot whose time is at or before now is past.
func ResolveAll(dir *models.Direction, now int) []models.TrainSlot {
	if dir == nil {
		return nil
	}

	slots := make([]models.TrainSlot, 0, len(dir.WeekdayTimes))
	for _, tm := range dir.WeekdayTimes {
		min, err := timetable.ParseMinutes(tm)
		if err != nil {
			// Resolution runs unattended every second; a bad time in the
			// catalog degrades to a missing slot, not a failed tick.
			continue
		}
		slots = append(slots, models.TrainSlot{
			Time:         tm,
			MinutesOfDay: min,
			IsPast:       min <= now,
		})
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].MinutesOfDay < slots[j].MinutesOfDay
	})

	return slots
}

// NextIndex returns the index of the first slot departing after now. When
// every slot has departed it wraps to 0, the first train of the day; an
// empty slot list yields NoTrain.
func NextIndex(slots []models.TrainSlot, now int) int {
	if len(slots) == 0 {
		return NoTrain
	}
	for i, slot := range slots {
		if slot.MinutesOfDay > now {
			return i
		}
	}
	return 0
}

// Advance moves the train index by delta, wrapping cyclically in both
// directions. An empty slot list yields NoTrain.
func Advance(slots []models.TrainSlot, index, delta int) int {
	n := len(slots)
	if n == 0 {
		return NoTrain
	}
	if index < 0 {
		index = 0
	}
	return ((index+delta)%n + n) % n
}

// Wrapped reports whether the whole day's service has departed, i.e. a
// NextIndex of 0 means "first train tomorrow" rather than a live departure.
func Wrapped(slots []models.TrainSlot) bool {
	return len(slots) > 0 && slots[len(slots)-1].IsPast
}
