package summary

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/d-jones99/beam-task/internal/auditlog"
	"github.com/d-jones99/beam-task/internal/touches"
	"github.com/d-jones99/beam-task/internal/types"
)

// Header is the first line of the per-trial summary report.
const Header = "day,group,subject,trial,total,left,right,trav_time,time_to_first,dist_to_first"

// MeansHeader is the first line of the per-day means report.
const MeansHeader = "day,group,subject,trials,total,total_sd,left,right,trav_time,trav_time_sd,time_to_first,dist_to_first"

// Row is one trial's line in the summary report.
type Row struct {
	Day     string
	Group   string
	Subject string
	Trial   int
	Stats   types.TrialStats
}

// Mean holds one subject's averages across the trials of a single day.
// Pointer fields are nil when no trial of the day had the statistic defined;
// standard deviations also need at least two defined trials.
type Mean struct {
	Day     string
	Group   string
	Subject string
	Trials  int

	Total   float64
	TotalSD *float64
	Left    float64
	Right   float64

	TravTime    *float64
	TravTimeSD  *float64
	TimeToFirst *float64
	DistToFirst *float64
}

// Source yields the filtered touch events of one trial, wherever they are
// kept.
type Source interface {
	TrialEvents(day, subject string, trial int) ([]types.TouchEvent, error)
}

// DirSource reads trials from the touch tables under a data directory laid
// out as Dir/day/subject_NNN_touches.txt.
type DirSource struct {
	Dir string
}

func (s DirSource) TrialEvents(day, subject string, trial int) ([]types.TouchEvent, error) {
	return touches.ReadFile(touches.TablePath(filepath.Join(s.Dir, day), subject, trial))
}

// Build computes every trial's summary row, in day, subject, trial order.
// Notes about incomputable statistics go to the summary log under a
// day/subject_trial prefix.
func Build(src Source, days, subjects []string, trials int, groups map[string]string, params Params, audit *auditlog.Logger) ([]Row, error) {
	rows := make([]Row, 0, len(days)*len(subjects)*trials)
	for _, day := range days {
		for _, subject := range subjects {
			for trial := 1; trial <= trials; trial++ {
				events, err := src.TrialEvents(day, subject, trial)
				if err != nil {
					return nil, err
				}
				stats, notes := Compute(events, params)

				source := fmt.Sprintf("%s/%s_%03d", day, subject, trial)
				for _, note := range notes {
					if err := audit.Note(source, note); err != nil {
						return nil, err
					}
				}

				rows = append(rows, Row{
					Day:     day,
					Group:   groups[subject],
					Subject: subject,
					Trial:   trial,
					Stats:   stats,
				})
			}
		}
	}
	return rows, nil
}

// Aggregate collapses per-trial rows into per-day means for each subject,
// preserving the order in which (day, subject) pairs first appear. Trials
// with an undefined statistic are left out of that statistic's mean.
func Aggregate(rows []Row) []Mean {
	type key struct{ day, subject string }
	var order []key
	byKey := map[key][]Row{}
	for _, r := range rows {
		k := key{r.Day, r.Subject}
		if _, seen := byKey[k]; !seen {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], r)
	}

	means := make([]Mean, 0, len(order))
	for _, k := range order {
		trials := byKey[k]
		m := Mean{
			Day:     k.day,
			Group:   trials[0].Group,
			Subject: k.subject,
			Trials:  len(trials),
		}

		totals := make([]float64, len(trials))
		lefts := make([]float64, len(trials))
		rights := make([]float64, len(trials))
		var travs, firsts, dists []float64
		for i, r := range trials {
			totals[i] = float64(r.Stats.TotalFaults)
			lefts[i] = float64(r.Stats.LeftFaults)
			rights[i] = float64(r.Stats.RightFaults)
			if r.Stats.TraversalTime != nil {
				travs = append(travs, *r.Stats.TraversalTime)
			}
			if r.Stats.TimeToFirstFault != nil {
				firsts = append(firsts, *r.Stats.TimeToFirstFault)
			}
			if r.Stats.DistToFirstFaultCM != nil {
				dists = append(dists, float64(*r.Stats.DistToFirstFaultCM))
			}
		}

		m.Total = stat.Mean(totals, nil)
		m.TotalSD = stddev(totals)
		m.Left = stat.Mean(lefts, nil)
		m.Right = stat.Mean(rights, nil)
		m.TravTime = mean(travs)
		m.TravTimeSD = stddev(travs)
		m.TimeToFirst = mean(firsts)
		m.DistToFirst = mean(dists)
		means = append(means, m)
	}
	return means
}

// WriteReport writes the per-trial summary table to path, replacing any
// previous report.
func WriteReport(path string, rows []Row) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, Header)
	for _, r := range rows {
		fmt.Fprintf(&buf, "%s,%s,%s,%d,%d,%d,%d,%s,%s,%s\n",
			r.Day, r.Group, r.Subject, r.Trial,
			r.Stats.TotalFaults, r.Stats.LeftFaults, r.Stats.RightFaults,
			seconds(r.Stats.TraversalTime),
			seconds(r.Stats.TimeToFirstFault),
			centimeters(r.Stats.DistToFirstFaultCM))
	}
	return replaceFile(path, buf.Bytes())
}

// WriteMeans writes the per-day means table to path, replacing any previous
// report.
func WriteMeans(path string, means []Mean) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, MeansHeader)
	for _, m := range means {
		fmt.Fprintf(&buf, "%s,%s,%s,%d,%s,%s,%s,%s,%s,%s,%s,%s\n",
			m.Day, m.Group, m.Subject, m.Trials,
			types.FormatSeconds(m.Total), seconds(m.TotalSD),
			types.FormatSeconds(m.Left), types.FormatSeconds(m.Right),
			seconds(m.TravTime), seconds(m.TravTimeSD),
			seconds(m.TimeToFirst), seconds(m.DistToFirst))
	}
	return replaceFile(path, buf.Bytes())
}

func mean(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	v := stat.Mean(vals, nil)
	return &v
}

func stddev(vals []float64) *float64 {
	if len(vals) < 2 {
		return nil
	}
	v := stat.StdDev(vals, nil)
	return &v
}

func seconds(v *float64) string {
	if v == nil {
		return "nan"
	}
	return types.FormatSeconds(*v)
}

func centimeters(v *int) string {
	if v == nil {
		return "nan"
	}
	return strconv.Itoa(*v)
}

func replaceFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("error creating report %v: %v", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing report %v: %v", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error writing report %v: %v", path, err)
	}
	return os.Rename(tmp.Name(), path)
}
