package board

import "github.com/metroboard/metroboard/internal/models"

// CountdownState classifies the selected train relative to now.
type CountdownState string

const (
	StateNoService    CountdownState = "NO_SERVICE"
	StateDeparted     CountdownState = "DEPARTED"
	StateDepartingNow CountdownState = "DEPARTING_NOW"
	StateCountingDown CountdownState = "COUNTING_DOWN"
)

// Countdown is the display-ready remaining-time breakdown for one train.
// SecondsOnly is set when less than a whole minute remains.
type Countdown struct {
	State        CountdownState `json:"state"`
	TotalSeconds int            `json:"total_seconds,omitempty"`
	Minutes      int            `json:"minutes,omitempty"`
	Seconds      int            `json:"seconds,omitempty"`
	SecondsOnly  bool           `json:"seconds_only,omitempty"`
}

// FormatCountdown computes the countdown for a train slot at the given
// wall-clock position. It is recomputed from scratch on every tick, so it
// self-corrects across minute rollovers and clock adjustments.
func FormatCountdown(slot *models.TrainSlot, nowMinutes, nowSeconds int) Countdown {
	if slot == nil {
		return Countdown{State: StateNoService}
	}

	switch {
	case slot.MinutesOfDay < nowMinutes:
		return Countdown{State: StateDeparted}
	case slot.MinutesOfDay == nowMinutes:
		// Strictly past once the scheduled minute has any seconds on it.
		if nowSeconds > 0 {
			return Countdown{State: StateDeparted}
		}
		return Countdown{State: StateDepartingNow}
	}

	total := (slot.MinutesOfDay-nowMinutes)*60 - nowSeconds
	minutes := total / 60
	return Countdown{
		State:        StateCountingDown,
		TotalSeconds: total,
		Minutes:      minutes,
		Seconds:      total % 60,
		SecondsOnly:  minutes == 0,
	}
}
