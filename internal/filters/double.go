package filters

import (
	"github.com/d-jones99/beam-task/internal/types"
)

// DoubleElectrode collapses pairs of touches that start within 150 ms of each
// other on physically adjacent electrodes. A paw planted across two
// electrodes registers as two events but is one foot fault; the event on the
// lower channel (nearer the finish end, where channel numbers are smallest)
// is deleted and the other kept.
//
// The beam-end electrodes never participate: a touch on the start or finish
// channel is positional, not a fault, so a pair involving either one is left
// alone regardless of timing.
//
// After every deletion the scan restarts from the first event, because
// removing one event can bring other pairs inside the window. The filter
// terminates once a full pass deletes nothing. The input must be sorted by
// start time; survivors keep that order and deletions are returned in the
// order they were made.
func DoubleElectrode(events []types.TouchEvent, params Params) ([]types.TouchEvent, []types.Deletion) {
	kept := make([]types.TouchEvent, len(events))
	copy(kept, events)
	var deleted []types.Deletion

	for {
		removed := false

	scan:
		for i := 0; i < len(kept); i++ {
			for j := i + 1; j < len(kept) && kept[j].Start <= kept[i].Start+DoubleElectrodeWindow; j++ {
				if !adjacentPair(kept[i].Channel, kept[j].Channel, params) {
					continue
				}

				lose, keep := i, j
				if kept[j].Channel < kept[i].Channel {
					lose, keep = j, i
				}
				deleted = append(deleted, types.Deletion{
					Event:         kept[lose],
					Reason:        types.ReasonDoubleElectrode,
					PairedChannel: kept[keep].Channel,
				})
				kept = append(kept[:lose], kept[lose+1:]...)
				removed = true
				break scan
			}
		}

		if !removed {
			return kept, deleted
		}
	}
}

// adjacentPair reports whether two channels are physically adjacent
// electrodes with neither being a reserved beam-end channel.
func adjacentPair(ch1, ch2 int, params Params) bool {
	for _, ch := range [2]int{ch1, ch2} {
		if ch == params.StartChannel || ch == params.FinishChannel {
			return false
		}
	}
	diff := ch1 - ch2
	if diff < 0 {
		diff = -diff
	}
	return diff == adjacentStride
}
