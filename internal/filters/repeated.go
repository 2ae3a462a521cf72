package filters

import (
	"github.com/d-jones99/beam-task/internal/types"
)

// RepeatedTouches collapses touches on the same channel that start within
// RepeatedWindow of each other. These are almost always one physical contact
// re-registered by the sensor as the paw shifts.
//
// Each channel is processed independently: its events are scanned in start
// order as adjacent pairs, and whenever a pair falls inside the window one
// member is deleted and the scan restarts from that channel's first event, so
// three or more near-simultaneous touches cascade down to one. Normally the
// shorter touch of a pair loses; on the start channel the earlier touch always
// loses, because the last touch there anchors the traversal-time measurement.
//
// The input must be sorted by start time. Survivors and deletions are both
// returned in chronological order, and every input event appears in exactly
// one of them.
func RepeatedTouches(events []types.TouchEvent, params Params) ([]types.TouchEvent, []types.Deletion) {
	perChannel := make(map[int][]types.TouchEvent)
	for _, e := range events {
		perChannel[e.Channel] = append(perChannel[e.Channel], e)
	}

	kept := make([]types.TouchEvent, 0, len(events))
	var deleted []types.Deletion

	for _, sub := range perChannel {
		for len(sub) > 1 {
			removed := false
			for i := 0; i+1 < len(sub); i++ {
				a, b := sub[i], sub[i+1]
				if b.Start-a.Start > params.RepeatedWindow {
					continue
				}

				if a.Duration < b.Duration || a.Channel == params.StartChannel {
					deleted = append(deleted, types.Deletion{Event: a, Reason: types.ReasonRepeated})
					sub = append(sub[:i], sub[i+1:]...)
				} else {
					// a.Duration >= b.Duration, which also covers the
					// finish-channel bias toward keeping the earlier touch.
					deleted = append(deleted, types.Deletion{Event: b, Reason: types.ReasonRepeated})
					sub = append(sub[:i+1], sub[i+2:]...)
				}
				removed = true
				break
			}
			if !removed {
				break
			}
		}
		kept = append(kept, sub...)
	}

	sortEvents(kept)
	sortDeletions(deleted)
	return kept, deleted
}
