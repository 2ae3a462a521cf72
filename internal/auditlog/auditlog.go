// Package auditlog appends warnings and deletion records to the plain-text
// log kept next to the data files, so every touch that was removed or flagged
// during processing can be traced back and checked against the video data.
package auditlog

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/d-jones99/beam-task/internal/types"
)

// FileName is the audit log filename inside a data folder.
const FileName = "log.txt"

// Logger serializes appends to a single audit log file. One line per entry,
// each prefixed with the date of the run that wrote it.
type Logger struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// New returns a Logger appending to the file at path. The file is created on
// the first write.
func New(path string) *Logger {
	return &Logger{path: path, now: time.Now}
}

// Warning records a non-destructive finding for file.
func (l *Logger) Warning(file string, w types.Warning) error {
	switch w.Kind {
	case types.WarningFirstTouch:
		return l.append(fmt.Sprintf("%s: Warning! First touch was recorded on channel %d.",
			file, w.Channel))
	default:
		return l.append(fmt.Sprintf("%s: Warning! Touch on ch%d at time = %s s has duration %s s.",
			file, w.Channel, types.FormatSeconds(w.Time), types.FormatSeconds(w.Duration)))
	}
}

// Deletion records a touch removed from file's table, with the wording keyed
// to the reason it was removed.
func (l *Logger) Deletion(file string, d types.Deletion) error {
	e := d.Event
	switch d.Reason {
	case types.ReasonShortDuration:
		return l.append(fmt.Sprintf(
			"%s: Deleted short touch on ch%d at time = %s s with duration %s s (threshold set at %s s).",
			file, e.Channel, types.FormatSeconds(e.Start), types.FormatSeconds(e.Duration),
			strconv.FormatFloat(d.Threshold, 'g', -1, 64)))
	case types.ReasonRepeated:
		return l.append(fmt.Sprintf(
			"%s: Deleted repeated touch on ch%d at time = %s s with duration %s s.",
			file, e.Channel, types.FormatSeconds(e.Start), types.FormatSeconds(e.Duration)))
	case types.ReasonDoubleElectrode:
		return l.append(fmt.Sprintf(
			"%s: Deleted touch on ch%d at time %s s coinciding within 150 ms with a touch on ch%d.",
			file, e.Channel, types.FormatSeconds(e.Start), d.PairedChannel))
	}
	return fmt.Errorf("unknown deletion reason %q", d.Reason)
}

// Note appends an undated line of the form "source: msg". Summary reports use
// this for findings that belong to a trial rather than to a processing run.
func (l *Logger) Note(source, msg string) error {
	return l.write(fmt.Sprintf("%s: %s\n", source, msg))
}

func (l *Logger) append(entry string) error {
	return l.write(fmt.Sprintf("%s %s\n", l.now().Format("20060102"), entry))
}

func (l *Logger) write(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("error opening audit log %v: %v", l.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("error writing audit log %v: %v", l.path, err)
	}
	return nil
}
