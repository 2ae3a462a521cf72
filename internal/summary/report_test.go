package summary

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/d-jones99/beam-task/internal/auditlog"
	"github.com/d-jones99/beam-task/internal/touches"
	"github.com/d-jones99/beam-task/internal/types"
)

func TestBuild(t *testing.T) {
	dataDir := t.TempDir()
	dir := filepath.Join(dataDir, "20170605")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	events := []types.TouchEvent{
		{Index: 1, Channel: 47, Start: 0, Duration: 0.5},
		{Index: 2, Channel: 5, Start: 1.0, Duration: 0.3},
	}
	if err := touches.WriteFile(touches.TablePath(dir, "m1", 1), events); err != nil {
		t.Fatal(err)
	}

	logPath := filepath.Join(dataDir, "summary_log.txt")
	audit := auditlog.New(logPath)

	rows, err := Build(DirSource{Dir: dataDir}, []string{"20170605"}, []string{"m1"}, 1,
		map[string]string{"m1": "ctrl"}, DefaultParams(), audit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	r := rows[0]
	if r.Day != "20170605" || r.Group != "ctrl" || r.Subject != "m1" || r.Trial != 1 {
		t.Fatalf("unexpected row: %+v", r)
	}
	if r.Stats.TotalFaults != 1 || r.Stats.TraversalTime != nil {
		t.Errorf("unexpected stats: %+v", r.Stats)
	}

	logData, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "20170605/m1_001: No touch recorded on channel 0. Could not calculate traversion time.\n"
	if string(logData) != want {
		t.Errorf("expected log:\n%s\ngot:\n%s", want, logData)
	}
}

func TestWriteReport(t *testing.T) {
	rows := []Row{
		{
			Day: "20170605", Group: "ctrl", Subject: "m1", Trial: 1,
			Stats: statsOf(3, 1, 2, fptr(3.6), fptr(1.0), iptr(92)),
		},
		{
			Day: "20170605", Group: "", Subject: "m2", Trial: 2,
			Stats: statsOf(0, 0, 0, nil, nil, nil),
		},
	}

	path := filepath.Join(t.TempDir(), "summary.txt")
	if err := WriteReport(path, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Header + "\n" +
		"20170605,ctrl,m1,1,3,1,2,3.600,1.000,92\n" +
		"20170605,,m2,2,0,0,0,nan,nan,nan\n"
	if string(got) != want {
		t.Errorf("expected report:\n%s\ngot:\n%s", want, got)
	}
}

func TestAggregate(t *testing.T) {
	rows := []Row{
		{Day: "20170605", Group: "ctrl", Subject: "m1", Trial: 1,
			Stats: statsOf(2, 1, 1, fptr(3.0), nil, iptr(92))},
		{Day: "20170605", Group: "ctrl", Subject: "m1", Trial: 2,
			Stats: statsOf(4, 2, 2, nil, nil, nil)},
		{Day: "20170605", Group: "les", Subject: "m2", Trial: 1,
			Stats: statsOf(0, 0, 0, fptr(2.0), nil, nil)},
	}

	means := Aggregate(rows)
	if len(means) != 2 {
		t.Fatalf("expected 2 means, got %d", len(means))
	}

	m1 := means[0]
	if m1.Subject != "m1" || m1.Day != "20170605" || m1.Group != "ctrl" || m1.Trials != 2 {
		t.Fatalf("unexpected first mean: %+v", m1)
	}
	if m1.Total != 3 || m1.Left != 1.5 || m1.Right != 1.5 {
		t.Errorf("expected counts 3/1.5/1.5, got %v/%v/%v", m1.Total, m1.Left, m1.Right)
	}
	if m1.TotalSD == nil || math.Abs(*m1.TotalSD-math.Sqrt2) > 1e-9 {
		t.Errorf("expected total sd sqrt(2), got %v", m1.TotalSD)
	}
	if m1.TravTime == nil || *m1.TravTime != 3.0 {
		t.Errorf("expected traversal mean 3.0 from the single defined trial, got %v", m1.TravTime)
	}
	if m1.TravTimeSD != nil {
		t.Errorf("expected no traversal sd from a single defined trial, got %v", *m1.TravTimeSD)
	}
	if m1.TimeToFirst != nil {
		t.Errorf("expected no time-to-first mean, got %v", *m1.TimeToFirst)
	}
	if m1.DistToFirst == nil || *m1.DistToFirst != 92 {
		t.Errorf("expected distance mean 92, got %v", m1.DistToFirst)
	}

	m2 := means[1]
	if m2.Subject != "m2" || m2.Group != "les" || m2.Trials != 1 {
		t.Fatalf("unexpected second mean: %+v", m2)
	}
	if m2.Total != 0 || m2.TravTime == nil || *m2.TravTime != 2.0 {
		t.Errorf("unexpected second mean statistics: %+v", m2)
	}
}

func TestWriteMeans(t *testing.T) {
	means := []Mean{
		{
			Day: "20170605", Group: "ctrl", Subject: "m1", Trials: 2,
			Total: 3, TotalSD: fptr(math.Sqrt2), Left: 1.5, Right: 1.5,
			TravTime: fptr(3.0), DistToFirst: fptr(92),
		},
	}

	path := filepath.Join(t.TempDir(), "summary_means.txt")
	if err := WriteMeans(path, means); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := MeansHeader + "\n" +
		"20170605,ctrl,m1,2,3.000,1.414,1.500,1.500,3.000,nan,nan,92.000\n"
	if string(got) != want {
		t.Errorf("expected report:\n%s\ngot:\n%s", want, got)
	}
}

func statsOf(total, left, right int, trav, first *float64, dist *int) types.TrialStats {
	return types.TrialStats{
		TotalFaults:        total,
		LeftFaults:         left,
		RightFaults:        right,
		TraversalTime:      trav,
		TimeToFirstFault:   first,
		DistToFirstFaultCM: dist,
	}
}
