package summary

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/d-jones99/beam-task/internal/touches"
)

// Roster is the result of scanning day folders for filtered touch tables.
type Roster struct {
	// Subjects lists, sorted, every subject with a touch table in all of the
	// requested day folders. Only these subjects can be summarized.
	Subjects []string

	// Incomplete maps a day folder to the sorted subjects that have tables
	// on other days but not that one.
	Incomplete map[string][]string
}

// Days expands a testing schedule into day folder names: count sessions
// starting at start, interval days apart.
func Days(start time.Time, count, interval int) []string {
	days := make([]string, count)
	for i := range days {
		days[i] = start.AddDate(0, 0, i*interval).Format("20060102")
	}
	return days
}

// Discover scans dataDir's day folders and reports which subjects have
// filtered touch tables on every requested day.
func Discover(dataDir string, days []string) (*Roster, error) {
	perDay := make(map[string]map[string]bool, len(days))
	for _, day := range days {
		matches, err := filepath.Glob(filepath.Join(dataDir, day, "*_touches.txt"))
		if err != nil {
			return nil, fmt.Errorf("error scanning day folder %v: %v", day, err)
		}
		found := map[string]bool{}
		for _, path := range matches {
			subject, _, ok := touches.ParseTableName(filepath.Base(path))
			if !ok {
				continue
			}
			found[subject] = true
		}
		perDay[day] = found
	}
	return BuildRoster(days, perDay), nil
}

// BuildRoster derives the complete/incomplete subject split from the set of
// subjects seen on each day, however those sets were obtained.
func BuildRoster(days []string, perDay map[string]map[string]bool) *Roster {
	all := map[string]bool{}
	for _, found := range perDay {
		for subject := range found {
			all[subject] = true
		}
	}

	roster := &Roster{Incomplete: map[string][]string{}}
	for subject := range all {
		complete := true
		for _, day := range days {
			if !perDay[day][subject] {
				complete = false
				roster.Incomplete[day] = append(roster.Incomplete[day], subject)
			}
		}
		if complete {
			roster.Subjects = append(roster.Subjects, subject)
		}
	}
	sort.Strings(roster.Subjects)
	for _, subjects := range roster.Incomplete {
		sort.Strings(subjects)
	}
	return roster
}

// MissingTables returns the trial tables that should exist for the requested
// days, subjects, and trials per day but are absent from disk, in day,
// subject, trial order.
func MissingTables(dataDir string, days, subjects []string, trials int) []string {
	var missing []string
	for _, day := range days {
		dir := filepath.Join(dataDir, day)
		for _, subject := range subjects {
			for trial := 1; trial <= trials; trial++ {
				path := touches.TablePath(dir, subject, trial)
				if _, err := os.Stat(path); err != nil {
					missing = append(missing, path)
				}
			}
		}
	}
	return missing
}
