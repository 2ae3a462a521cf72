package filters

import (
	"testing"

	"github.com/d-jones99/beam-task/internal/types"
)

func ev(ch int, start, duration float64) types.TouchEvent {
	return types.TouchEvent{Channel: ch, Start: start, Duration: duration}
}

func TestRepeatedTouchesTieBreak(t *testing.T) {
	tests := []struct {
		name        string
		events      []types.TouchEvent
		wantKept    []types.TouchEvent
		wantDeleted []types.TouchEvent
	}{
		{
			name:        "longer earlier touch wins",
			events:      []types.TouchEvent{ev(10, 1.00, 0.20), ev(10, 1.05, 0.05)},
			wantKept:    []types.TouchEvent{ev(10, 1.00, 0.20)},
			wantDeleted: []types.TouchEvent{ev(10, 1.05, 0.05)},
		},
		{
			name:        "longer later touch wins",
			events:      []types.TouchEvent{ev(10, 1.00, 0.05), ev(10, 1.05, 0.20)},
			wantKept:    []types.TouchEvent{ev(10, 1.05, 0.20)},
			wantDeleted: []types.TouchEvent{ev(10, 1.00, 0.05)},
		},
		{
			name:        "equal durations keep the earlier touch",
			events:      []types.TouchEvent{ev(10, 1.00, 0.10), ev(10, 1.05, 0.10)},
			wantKept:    []types.TouchEvent{ev(10, 1.00, 0.10)},
			wantDeleted: []types.TouchEvent{ev(10, 1.05, 0.10)},
		},
		{
			name:        "start channel always drops the earlier touch",
			events:      []types.TouchEvent{ev(47, 1.00, 0.20), ev(47, 1.05, 0.05)},
			wantKept:    []types.TouchEvent{ev(47, 1.05, 0.05)},
			wantDeleted: []types.TouchEvent{ev(47, 1.00, 0.20)},
		},
		{
			name:        "finish channel keeps the earlier touch",
			events:      []types.TouchEvent{ev(0, 1.00, 0.20), ev(0, 1.05, 0.05)},
			wantKept:    []types.TouchEvent{ev(0, 1.00, 0.20)},
			wantDeleted: []types.TouchEvent{ev(0, 1.05, 0.05)},
		},
		{
			name:   "pair outside the window is untouched",
			events: []types.TouchEvent{ev(10, 1.00, 0.05), ev(10, 1.20, 0.20)},
			wantKept: []types.TouchEvent{
				ev(10, 1.00, 0.05), ev(10, 1.20, 0.20),
			},
		},
		{
			name:        "window boundary is inclusive",
			events:      []types.TouchEvent{ev(10, 1.00, 0.05), ev(10, 1.15, 0.20)},
			wantKept:    []types.TouchEvent{ev(10, 1.15, 0.20)},
			wantDeleted: []types.TouchEvent{ev(10, 1.00, 0.05)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, deleted := RepeatedTouches(tt.events, DefaultParams())
			assertEventsEqual(t, "kept", kept, tt.wantKept)

			var deletedEvents []types.TouchEvent
			for _, d := range deleted {
				if d.Reason != types.ReasonRepeated {
					t.Errorf("expected reason %q, got %q", types.ReasonRepeated, d.Reason)
				}
				deletedEvents = append(deletedEvents, d.Event)
			}
			assertEventsEqual(t, "deleted", deletedEvents, tt.wantDeleted)
		})
	}
}

func TestRepeatedTouchesCascade(t *testing.T) {
	// Three touches on one channel inside one window collapse to a single
	// survivor: the first pair keeps the longer 0.50 s touch, then the
	// restarted scan pits it against the third and wins again.
	events := []types.TouchEvent{
		ev(8, 1.00, 0.30),
		ev(8, 1.05, 0.50),
		ev(8, 1.10, 0.20),
	}

	kept, deleted := RepeatedTouches(events, DefaultParams())
	if len(kept) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(kept))
	}
	if kept[0] != ev(8, 1.05, 0.50) {
		t.Errorf("expected the 0.50s touch to survive, got %+v", kept[0])
	}
	if len(deleted) != 2 {
		t.Fatalf("expected 2 deletions, got %d", len(deleted))
	}
}

func TestRepeatedTouchesChannelsIndependent(t *testing.T) {
	// A pair on channel 6 collapses; the interleaved single events on other
	// channels pass through and the output stays chronological.
	events := []types.TouchEvent{
		ev(47, 0.50, 0.40),
		ev(6, 1.00, 0.10),
		ev(12, 1.02, 0.30),
		ev(6, 1.05, 0.30),
		ev(0, 2.00, 0.50),
	}

	kept, deleted := RepeatedTouches(events, DefaultParams())
	assertEventsEqual(t, "kept", kept, []types.TouchEvent{
		ev(47, 0.50, 0.40),
		ev(12, 1.02, 0.30),
		ev(6, 1.05, 0.30),
		ev(0, 2.00, 0.50),
	})
	if len(deleted) != 1 || deleted[0].Event != ev(6, 1.00, 0.10) {
		t.Fatalf("expected only the short channel 6 touch deleted, got %+v", deleted)
	}
}

func TestRepeatedTouchesFixedPoint(t *testing.T) {
	events := []types.TouchEvent{
		ev(47, 0.10, 0.20),
		ev(47, 0.15, 0.10),
		ev(5, 1.00, 0.05),
		ev(5, 1.10, 0.40),
		ev(5, 1.50, 0.30),
		ev(9, 1.20, 0.15),
	}

	kept, deleted := RepeatedTouches(events, DefaultParams())
	if len(kept)+len(deleted) != len(events) {
		t.Fatalf("conservation violated: %d kept + %d deleted != %d input",
			len(kept), len(deleted), len(events))
	}

	again, moreDeleted := RepeatedTouches(kept, DefaultParams())
	if len(moreDeleted) != 0 {
		t.Errorf("second run deleted %d events; filter output is not a fixed point", len(moreDeleted))
	}
	assertEventsEqual(t, "rerun", again, kept)
}

func assertEventsEqual(t *testing.T, label string, got, want []types.TouchEvent) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: expected %d events, got %d (%+v)", label, len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d]: expected %+v, got %+v", label, i, want[i], got[i])
		}
	}
}
