// Package types holds the data model shared by the touch-processing pipeline
// stages: raw samples, touch events, deletions and warnings.
package types

// RawSample is one polling tick of the rig, decoded to one boolean per
// electrode channel. Bits is always a multiple of 12 long (12 channels per
// sensor board), ordered sensor 1 -> channels 0-11, sensor 2 -> 12-23, etc.
type RawSample struct {
	Timestamp float64
	Bits      []bool
}

// TouchEvent is a maximal interval during which one channel's touch bit was
// continuously set. Start is relative to the first sample of the trial.
// Index is the 1-based ordinal assigned after filtering, in time order; it is
// zero until then.
type TouchEvent struct {
	Index    int
	Channel  int
	Start    float64
	Duration float64
}

// DeletionReason tags why a filter or validation removed a touch event.
type DeletionReason string

const (
	ReasonShortDuration   DeletionReason = "short-duration"
	ReasonRepeated        DeletionReason = "repeated"
	ReasonDoubleElectrode DeletionReason = "double-electrode"
)

// Deletion records one touch event removed by a filter, with the reason and
// any reason-specific context. Deletions are immutable once created and are
// appended to the audit log rather than the event table.
type Deletion struct {
	Event  TouchEvent
	Reason DeletionReason

	// PairedChannel is the surviving channel of a double-electrode pair.
	// Only meaningful when Reason == ReasonDoubleElectrode.
	PairedChannel int

	// Threshold is the configured duration threshold that triggered a
	// short-duration deletion. Only meaningful for ReasonShortDuration.
	Threshold float64
}

// WarningKind tags non-destructive data-quality findings raised during
// extraction.
type WarningKind string

const (
	// WarningShortTouch flags a foot-fault-eligible touch shorter than the
	// threshold when no explicit threshold was configured; the event is kept.
	WarningShortTouch WarningKind = "short-touch"

	// WarningFirstTouch flags a trial whose first observed touch was not on
	// the start channel.
	WarningFirstTouch WarningKind = "first-touch"
)

// Warning is a logged, non-destructive condition found while scanning a trial.
type Warning struct {
	Kind     WarningKind
	Channel  int
	Time     float64
	Duration float64
}
