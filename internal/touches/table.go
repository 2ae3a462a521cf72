package touches

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/d-jones99/beam-task/internal/types"
)

// Header is the first line of every touch table.
const Header = "touch,ch,time,duration"

// Write renders events as a touch table on w, one line per touch. Times and
// durations are serialized with three decimal places.
func Write(w io.Writer, events []types.TouchEvent) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, Header)
	for _, e := range events {
		fmt.Fprintf(bw, "%d,%d,%s,%s\n", e.Index, e.Channel,
			types.FormatSeconds(e.Start), types.FormatSeconds(e.Duration))
	}
	return bw.Flush()
}

// WriteFile writes a touch table to path, replacing any previous table. The
// table lands in a temporary file first and is renamed into place, so an
// interrupted run never leaves a truncated table behind.
func WriteFile(path string, events []types.TouchEvent) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("error creating touch table %v: %v", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, events); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing touch table %v: %v", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error writing touch table %v: %v", path, err)
	}
	return os.Rename(tmp.Name(), path)
}

// Read parses a touch table in the format produced by Write.
func Read(r io.Reader) ([]types.TouchEvent, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error parsing touch table: %v", err)
	}
	if len(records) == 0 || strings.Join(records[0], ",") != Header {
		return nil, fmt.Errorf("touch table is missing the %q header", Header)
	}

	events := make([]types.TouchEvent, 0, len(records)-1)
	for i, rec := range records[1:] {
		e, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("touch table row %d: %v", i+1, err)
		}
		events = append(events, e)
	}
	return events, nil
}

// ReadFile reads the touch table stored at path.
func ReadFile(path string) ([]types.TouchEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	events, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%v: %v", path, err)
	}
	return events, nil
}

func parseRow(rec []string) (types.TouchEvent, error) {
	var e types.TouchEvent
	var err error
	if e.Index, err = strconv.Atoi(rec[0]); err != nil {
		return e, fmt.Errorf("bad touch index %q", rec[0])
	}
	if e.Channel, err = strconv.Atoi(rec[1]); err != nil {
		return e, fmt.Errorf("bad channel %q", rec[1])
	}
	if e.Start, err = strconv.ParseFloat(rec[2], 64); err != nil {
		return e, fmt.Errorf("bad time %q", rec[2])
	}
	if e.Duration, err = strconv.ParseFloat(rec[3], 64); err != nil {
		return e, fmt.Errorf("bad duration %q", rec[3])
	}
	return e, nil
}
