// Package filters removes sensor artifacts from extracted touch events: the
// same paw re-registering on one channel, and one paw straddling two
// physically adjacent electrodes. Both filters preserve every input event as
// either a survivor or a deletion, never both.
package filters

import (
	"sort"

	"github.com/d-jones99/beam-task/internal/types"
)

// DoubleElectrodeWindow is the fixed window within which touches on adjacent
// electrodes count as one physical contact.
const DoubleElectrodeWindow = 0.150

// adjacentStride is the channel-number distance between physically adjacent
// electrodes. Electrodes alternate sides along the beam, so same-side
// neighbors differ by exactly 2.
const adjacentStride = 2

// Params controls the filters.
type Params struct {
	// StartChannel and FinishChannel are the reserved beam-end electrodes.
	// They bias the repeated-touch tie-break and are exempt from
	// double-electrode collapsing.
	StartChannel  int
	FinishChannel int

	// RepeatedWindow is the window, in seconds, within which two touches on
	// the same channel collapse to one.
	RepeatedWindow float64
}

// DefaultParams returns the filter settings of the original 48-channel rig.
func DefaultParams() Params {
	return Params{
		StartChannel:   47,
		FinishChannel:  0,
		RepeatedWindow: 0.150,
	}
}

// sortEvents orders events chronologically, breaking start-time ties by
// channel number so repeated runs produce identical output.
func sortEvents(events []types.TouchEvent) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].Start != events[j].Start {
			return events[i].Start < events[j].Start
		}
		return events[i].Channel < events[j].Channel
	})
}

// sortDeletions orders deletions the same way as sortEvents.
func sortDeletions(deletions []types.Deletion) {
	sort.Slice(deletions, func(i, j int) bool {
		if deletions[i].Event.Start != deletions[j].Event.Start {
			return deletions[i].Event.Start < deletions[j].Event.Start
		}
		return deletions[i].Event.Channel < deletions[j].Event.Channel
	})
}
