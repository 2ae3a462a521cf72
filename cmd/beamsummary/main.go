// Package main provides the beamsummary command, which integrates the touch
// tables of a test series into a single summary file with per-trial
// statistics and per-subject means.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/d-jones99/beam-task/internal/auditlog"
	"github.com/d-jones99/beam-task/internal/log"
	"github.com/d-jones99/beam-task/internal/storage/sqlite"
	"github.com/d-jones99/beam-task/internal/summary"
	"github.com/d-jones99/beam-task/internal/types"
)

func main() {
	dir := flag.String("dir", "data", "Data directory holding one YYYYMMDD folder per test day")
	start := flag.String("start", "", "First data folder to include (YYYYMMDD)")
	days := flag.Int("days", 0, "Total number of data folders to include")
	interval := flag.Int("interval", 1, "Interval between data folders, in days")
	dates := flag.String("dates", "", "Comma-separated data folders to include, instead of -start/-days/-interval")
	trials := flag.Int("trials", 3, "Number of trials per day")
	groupsArg := flag.String("groups", "", "Comma-separated subject=group assignments")
	out := flag.String("out", "summary", "Output filename (without extension)")
	dbFile := flag.String("db", "", "Read trials from this SQLite results database instead of touch tables")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	flag.Parse()

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	dayList, err := resolveDays(*dates, *start, *days, *interval)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	groups, err := parseGroups(*groupsArg)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	fmt.Printf("Including the following folders with %d trials per day: %s.\n",
		*trials, strings.Join(dayList, ", "))

	ctx := context.Background()

	var src summary.Source
	var roster *summary.Roster
	if *dbFile != "" {
		store, err := sqlite.Open(*dbFile)
		if err != nil {
			log.Errorf("Failed to open results database: %v", err)
			os.Exit(1)
		}
		defer store.Close()

		perDay := make(map[string]map[string]bool)
		for _, day := range dayList {
			subjects, err := store.Subjects(ctx, day)
			if err != nil {
				log.Errorf("Failed to list subjects for %s: %v", day, err)
				os.Exit(1)
			}
			set := make(map[string]bool, len(subjects))
			for _, s := range subjects {
				set[s] = true
			}
			perDay[day] = set
		}
		roster = summary.BuildRoster(dayList, perDay)
		src = storeSource{ctx: ctx, store: store}
	} else {
		roster, err = summary.Discover(*dir, dayList)
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}
		src = summary.DirSource{Dir: *dir}
	}

	if len(roster.Subjects) == 0 {
		log.Errorf("could not find subjects with data for all dates specified")
		os.Exit(1)
	}
	if len(roster.Incomplete) > 0 {
		fmt.Println("\nWarning: the following subject(s) could not be found:")
		incompleteDays := make([]string, 0, len(roster.Incomplete))
		for day := range roster.Incomplete {
			incompleteDays = append(incompleteDays, day)
		}
		sort.Strings(incompleteDays)
		for _, day := range incompleteDays {
			fmt.Printf("%s: %s\n", day, strings.Join(roster.Incomplete[day], ", "))
		}
	}

	fmt.Println("\nThe following subjects were found:")
	for _, subject := range roster.Subjects {
		fmt.Println(subject)
	}

	// With touch tables on disk, make sure every expected table exists before
	// computing anything.
	if *dbFile == "" {
		if missing := summary.MissingTables(*dir, dayList, roster.Subjects, *trials); len(missing) > 0 {
			fmt.Println("\nError: the following file(s) could not be found:")
			for _, f := range missing {
				fmt.Println(f)
			}
			os.Exit(1)
		}
	}

	audit := auditlog.New(filepath.Join(*dir, *out+"_log.txt"))
	rows, err := summary.Build(src, dayList, roster.Subjects, *trials, groups, summary.DefaultParams(), audit)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	reportPath := filepath.Join(*dir, *out+".txt")
	if err := summary.WriteReport(reportPath, rows); err != nil {
		log.Errorf("Failed to write summary: %v", err)
		os.Exit(1)
	}

	means := summary.Aggregate(rows)
	meansPath := filepath.Join(*dir, *out+"_means.txt")
	if err := summary.WriteMeans(meansPath, means); err != nil {
		log.Errorf("Failed to write means: %v", err)
		os.Exit(1)
	}
	printMeans(means)

	fmt.Printf("\nSaved to %s\n", reportPath)
	fmt.Printf("Saved means to %s\n", meansPath)
}

// resolveDays turns the date flags into the list of YYYYMMDD folder names.
func resolveDays(dates, start string, days, interval int) ([]string, error) {
	if dates != "" {
		list := strings.Split(dates, ",")
		for i, day := range list {
			list[i] = strings.TrimSpace(day)
			if _, err := time.Parse("20060102", list[i]); err != nil {
				return nil, fmt.Errorf("error in folder name '%s': format should be YYYYMMDD", list[i])
			}
		}
		return list, nil
	}
	if start == "" || days <= 0 {
		return nil, fmt.Errorf("specify either -dates or -start and -days")
	}
	first, err := time.Parse("20060102", start)
	if err != nil {
		return nil, fmt.Errorf("error in start date '%s': format should be YYYYMMDD", start)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("-interval must be positive, got %d", interval)
	}
	return summary.Days(first, days, interval), nil
}

// parseGroups reads subject=group pairs. Subjects without an assignment end
// up with an empty group column.
func parseGroups(arg string) (map[string]string, error) {
	groups := make(map[string]string)
	if arg == "" {
		return groups, nil
	}
	for _, pair := range strings.Split(arg, ",") {
		subject, group, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid -groups entry %q: format is subject=group", pair)
		}
		groups[strings.TrimSpace(subject)] = strings.TrimSpace(group)
	}
	return groups, nil
}

func printMeans(means []summary.Mean) {
	if len(means) == 0 {
		return
	}
	fmt.Println("\nPer-subject means (± SD where defined):")
	for _, m := range means {
		fmt.Printf("%s %s (%d trials): total %s", m.Day, m.Subject, m.Trials, types.FormatSeconds(m.Total))
		if m.TotalSD != nil {
			fmt.Printf(" ± %s", types.FormatSeconds(*m.TotalSD))
		}
		if m.TravTime != nil {
			fmt.Printf(", trav_time %s", types.FormatSeconds(*m.TravTime))
			if m.TravTimeSD != nil {
				fmt.Printf(" ± %s", types.FormatSeconds(*m.TravTimeSD))
			}
		}
		fmt.Println()
	}
}

// storeSource adapts the results database to the summary.Source interface.
type storeSource struct {
	ctx   context.Context
	store *sqlite.Store
}

func (s storeSource) TrialEvents(day, subject string, trial int) ([]types.TouchEvent, error) {
	return s.store.Events(s.ctx, day, subject, trial)
}
