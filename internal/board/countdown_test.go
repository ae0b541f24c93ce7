package board

import (
	"testing"

	"github.com/metroboard/metroboard/internal/models"
)

func slotAt(h, m int) *models.TrainSlot {
	return &models.TrainSlot{MinutesOfDay: h*60 + m}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		name       string
		slot       *models.TrainSlot
		nowMinutes int
		nowSeconds int
		want       Countdown
	}{
		{
			name: "no slot selected",
			slot: nil,
			want: Countdown{State: StateNoService},
		},
		{
			name:       "earlier minute departed",
			slot:       slotAt(8, 5),
			nowMinutes: minutesOf(8, 7),
			want:       Countdown{State: StateDeparted},
		},
		{
			name:       "exact scheduled second",
			slot:       slotAt(8, 5),
			nowMinutes: minutesOf(8, 5),
			nowSeconds: 0,
			want:       Countdown{State: StateDepartingNow},
		},
		{
			name:       "one second into scheduled minute",
			slot:       slotAt(8, 5),
			nowMinutes: minutesOf(8, 5),
			nowSeconds: 1,
			want:       Countdown{State: StateDeparted},
		},
		{
			name:       "minutes and seconds remaining",
			slot:       slotAt(8, 5),
			nowMinutes: minutesOf(8, 3),
			nowSeconds: 10,
			want: Countdown{
				State:        StateCountingDown,
				TotalSeconds: 110,
				Minutes:      1,
				Seconds:      50,
			},
		},
		{
			name:       "under a minute left",
			slot:       slotAt(8, 5),
			nowMinutes: minutesOf(8, 4),
			nowSeconds: 15,
			want: Countdown{
				State:        StateCountingDown,
				TotalSeconds: 45,
				Seconds:      45,
				SecondsOnly:  true,
			},
		},
		{
			name:       "whole minutes remaining",
			slot:       slotAt(9, 0),
			nowMinutes: minutesOf(8, 30),
			nowSeconds: 0,
			want: Countdown{
				State:        StateCountingDown,
				TotalSeconds: 1800,
				Minutes:      30,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCountdown(tt.slot, tt.nowMinutes, tt.nowSeconds)
			if got != tt.want {
				t.Errorf("FormatCountdown() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
