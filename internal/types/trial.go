package types

import "time"

// TrialStats are the per-trial statistics derived from the surviving touch
// events of one processed trial.
type TrialStats struct {
	TotalFaults int
	LeftFaults  int
	RightFaults int

	// TraversalTime is the elapsed time between the start of the last touch
	// on the start channel and the first release on the finish channel. Nil
	// when either side was never touched.
	TraversalTime *float64

	// TimeToFirstFault is the delay from the traversal start to the first
	// foot fault. Nil when there are no faults or no start-channel touch.
	TimeToFirstFault *float64

	// DistToFirstFaultCM is the distance along the beam, in centimeters, at
	// which the first foot fault occurred. Nil when there are no faults.
	DistToFirstFaultCM *int
}

// TrialRecord bundles everything known about one processed trial for storage
// in the results database.
type TrialRecord struct {
	RunID       string
	Day         string
	Subject     string
	Trial       int
	SourceFile  string
	ProcessedAt time.Time
	Sensors     int
	Filtered    bool

	// Threshold is the explicit short-touch deletion threshold, nil when the
	// run was warn-only.
	Threshold *float64

	Events    []TouchEvent
	Deletions []Deletion
	Stats     TrialStats
}
