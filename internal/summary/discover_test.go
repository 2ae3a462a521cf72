package summary

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/d-jones99/beam-task/internal/touches"
)

func writeTable(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(touches.Header+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDays(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		count    int
		interval int
		want     []string
	}{
		{
			name:     "daily sessions",
			start:    time.Date(2017, 6, 5, 0, 0, 0, 0, time.UTC),
			count:    3,
			interval: 1,
			want:     []string{"20170605", "20170606", "20170607"},
		},
		{
			name:     "every other day across a month boundary",
			start:    time.Date(2017, 6, 29, 0, 0, 0, 0, time.UTC),
			count:    3,
			interval: 2,
			want:     []string{"20170629", "20170701", "20170703"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Days(tt.start, tt.count, tt.interval)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d days, got %d", len(tt.want), len(got))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("day %d: expected %s, got %s", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestDiscover(t *testing.T) {
	dataDir := t.TempDir()

	writeTable(t, filepath.Join(dataDir, "20170605"), "m1_001_touches.txt")
	writeTable(t, filepath.Join(dataDir, "20170605"), "m1_002_touches.txt")
	writeTable(t, filepath.Join(dataDir, "20170605"), "m2_001_touches.txt")
	// Unfiltered tables and the audit log must not count as subjects.
	writeTable(t, filepath.Join(dataDir, "20170605"), "m3_001_touches_no_filter.txt")
	writeTable(t, filepath.Join(dataDir, "20170606"), "m1_001_touches.txt")

	roster, err := Discover(dataDir, []string{"20170605", "20170606"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(roster.Subjects) != 1 || roster.Subjects[0] != "m1" {
		t.Errorf("expected subjects [m1], got %v", roster.Subjects)
	}
	missing := roster.Incomplete["20170606"]
	if len(missing) != 1 || missing[0] != "m2" {
		t.Errorf("expected m2 missing on 20170606, got %v", missing)
	}
	if _, found := roster.Incomplete["20170605"]; found {
		t.Errorf("no subject should be missing on 20170605, got %v", roster.Incomplete["20170605"])
	}
}

func TestMissingTables(t *testing.T) {
	dataDir := t.TempDir()
	writeTable(t, filepath.Join(dataDir, "20170605"), "m1_001_touches.txt")
	writeTable(t, filepath.Join(dataDir, "20170605"), "m1_002_touches.txt")
	writeTable(t, filepath.Join(dataDir, "20170606"), "m1_001_touches.txt")

	missing := MissingTables(dataDir, []string{"20170605", "20170606"}, []string{"m1"}, 2)
	want := touches.TablePath(filepath.Join(dataDir, "20170606"), "m1", 2)
	if len(missing) != 1 || missing[0] != want {
		t.Errorf("expected missing tables [%s], got %v", want, missing)
	}
}
