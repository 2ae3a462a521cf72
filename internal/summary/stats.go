// Package summary turns per-trial touch tables into the cross-trial summary
// report: foot fault counts per side, traversal time, and the time and
// distance to the first foot fault.
package summary

import (
	"fmt"

	"github.com/d-jones99/beam-task/internal/types"
)

// Params locates the reserved electrodes and describes the beam geometry
// used to convert a channel number into a distance along the beam.
type Params struct {
	StartChannel     int
	FinishChannel    int
	BeamLengthCM     int
	ElectrodePitchCM int
}

// DefaultParams matches the original 48-channel one-meter tapered beam with
// electrode pairs every 4 cm.
func DefaultParams() Params {
	return Params{
		StartChannel:     47,
		FinishChannel:    0,
		BeamLengthCM:     100,
		ElectrodePitchCM: 4,
	}
}

// Compute derives one trial's statistics from its filtered touch events,
// which must be in chronological order as read from the table. The returned
// notes say why a statistic could not be computed or may be unreliable; they
// belong in the summary log.
func Compute(events []types.TouchEvent, params Params) (types.TrialStats, []string) {
	var stats types.TrialStats
	var notes []string

	// Odd channels sit on the left edge of the beam, even channels on the
	// right. The start and finish electrodes span the full width and never
	// count as faults.
	for _, e := range events {
		if !betweenEnds(e.Channel, params) {
			continue
		}
		if e.Channel%2 == 0 {
			stats.RightFaults++
		} else {
			stats.LeftFaults++
		}
	}
	stats.TotalFaults = stats.LeftFaults + stats.RightFaults

	// Traversal runs from the last touch on the start electrode to the
	// release of the first touch on the finish electrode.
	var startTime *float64
	for _, e := range events {
		if e.Channel == params.StartChannel {
			t := e.Start
			startTime = &t
		}
	}

	if startTime == nil {
		notes = append(notes, noTouchNote(params.StartChannel))
	} else {
		var finish []types.TouchEvent
		for _, e := range events {
			if e.Channel == params.FinishChannel {
				finish = append(finish, e)
			}
		}
		if len(finish) == 0 {
			notes = append(notes, noTouchNote(params.FinishChannel))
		} else {
			last := finish[len(finish)-1]
			if last.Start+last.Duration < events[len(events)-1].Start {
				notes = append(notes, fmt.Sprintf(
					"At least one other channel was touched after channel %d was released. Calculation of traversion time may be incorrect.",
					params.FinishChannel))
			}
			trav := finish[0].Start + finish[0].Duration - *startTime
			stats.TraversalTime = &trav
		}
	}

	if stats.TotalFaults > 0 {
		for _, e := range events {
			if !betweenEnds(e.Channel, params) {
				continue
			}
			dist := params.BeamLengthCM - e.Channel/2*params.ElectrodePitchCM
			stats.DistToFirstFaultCM = &dist
			if startTime != nil {
				ttf := e.Start - *startTime
				stats.TimeToFirstFault = &ttf
			}
			break
		}
	}

	return stats, notes
}

func noTouchNote(ch int) string {
	return fmt.Sprintf("No touch recorded on channel %d. Could not calculate traversion time.", ch)
}

func betweenEnds(ch int, params Params) bool {
	return params.FinishChannel < ch && ch < params.StartChannel
}
