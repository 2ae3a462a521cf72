// Package extractor turns decoded raw samples into discrete touch events by
// scanning for rising and falling edges on each electrode channel.
package extractor

import (
	"errors"
	"fmt"
	"sort"

	"github.com/d-jones99/beam-task/internal/types"
)

// ErrUnreleasedTouch means one or more channels were still touched when the
// data ended, so their durations cannot be computed.
var ErrUnreleasedTouch = errors.New("touch not released by end of data")

// Params controls edge extraction and the short-touch rule.
type Params struct {
	// StartChannel and FinishChannel are the reserved beam-end electrodes.
	// Only channels strictly between them are checked for short touches.
	StartChannel  int
	FinishChannel int

	// DurationThreshold is the short-touch limit in seconds. Touches on
	// foot-fault-eligible channels shorter than this are deleted when
	// ThresholdSet is true, and logged as warnings (but kept) otherwise.
	DurationThreshold float64
	ThresholdSet      bool
}

// DefaultParams returns the extraction settings of the original rig: a
// 48-channel beam with a warn-only 100 ms short-touch threshold.
func DefaultParams() Params {
	return Params{
		StartChannel:      47,
		FinishChannel:     0,
		DurationThreshold: 0.1,
	}
}

// Result holds the touch events of one trial together with everything the
// scan flagged along the way.
type Result struct {
	// Events are the extracted touches, sorted by start time (channel number
	// breaks ties). Indexes are not assigned yet.
	Events []types.TouchEvent

	// Deletions are short touches removed because an explicit duration
	// threshold was configured.
	Deletions []types.Deletion

	// Warnings are non-destructive findings: short touches kept in warn-only
	// mode, and a first touch somewhere other than the start channel.
	Warnings []types.Warning
}

// Extract scans consecutive samples for edges. A 0->1 transition opens a
// touch on that channel; the matching 1->0 transition closes it and emits the
// event. Times are relative to the first sample.
func Extract(samples []types.RawSample, params Params) (*Result, error) {
	res := &Result{}
	if len(samples) == 0 {
		return res, nil
	}

	start := samples[0].Timestamp
	channels := len(samples[0].Bits)

	// open maps a touched channel to the relative time its touch began. It
	// is the only mutable scanning state and lives for this call only.
	open := make(map[int]float64)
	sawTouch := false

	for row := 1; row < len(samples); row++ {
		now := samples[row].Timestamp - start

		for ch := 0; ch < channels; ch++ {
			prev := samples[row-1].Bits[ch]
			cur := samples[row].Bits[ch]

			switch {
			case cur && !prev: // touched
				if !sawTouch {
					sawTouch = true
					// The rig is mounted so that a trial begins with the
					// subject on the start electrode.
					if ch != params.StartChannel {
						res.Warnings = append(res.Warnings, types.Warning{
							Kind:    types.WarningFirstTouch,
							Channel: ch,
							Time:    now,
						})
					}
				}
				open[ch] = now

			case !cur && prev: // released
				event := types.TouchEvent{
					Channel:  ch,
					Start:    open[ch],
					Duration: now - open[ch],
				}
				delete(open, ch)

				if event.Duration < params.DurationThreshold && faultEligible(ch, params) {
					if params.ThresholdSet {
						res.Deletions = append(res.Deletions, types.Deletion{
							Event:     event,
							Reason:    types.ReasonShortDuration,
							Threshold: params.DurationThreshold,
						})
						continue
					}
					res.Warnings = append(res.Warnings, types.Warning{
						Kind:     types.WarningShortTouch,
						Channel:  ch,
						Time:     event.Start,
						Duration: event.Duration,
					})
				}
				res.Events = append(res.Events, event)
			}
		}
	}

	if len(open) > 0 {
		chans := make([]int, 0, len(open))
		for ch := range open {
			chans = append(chans, ch)
		}
		sort.Ints(chans)
		return nil, fmt.Errorf("%w: channel(s) %v still touched", ErrUnreleasedTouch, chans)
	}

	// Downstream filters rely on chronological order. Channel number breaks
	// start-time ties so reruns are byte-identical.
	sort.Slice(res.Events, func(i, j int) bool {
		if res.Events[i].Start != res.Events[j].Start {
			return res.Events[i].Start < res.Events[j].Start
		}
		return res.Events[i].Channel < res.Events[j].Channel
	})

	return res, nil
}

// faultEligible reports whether ch lies strictly between the finish and start
// electrodes.
func faultEligible(ch int, params Params) bool {
	return params.FinishChannel < ch && ch < params.StartChannel
}
