// Package decoder parses raw tapered-beam sample logs into per-channel
// boolean samples. A raw log has one CSV row per polling tick:
// timestamp,mask1,...,maskN where each mask packs the touch state of one
// 12-channel sensor board into its low 12 bits.
package decoder

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/d-jones99/beam-task/internal/types"
)

// Fatal input conditions. The batch driver matches on these to report a file
// and move on to the next one.
var (
	// ErrNoTouches means the log has one data row or fewer. A successful
	// trial always records at least the start and finish electrode touches.
	ErrNoTouches = errors.New("no touches detected")

	// ErrDirtyFirstSample means one or more electrodes were already touched
	// when data collection began.
	ErrDirtyFirstSample = errors.New("one or more sensors touched at start of data collection")
)

// maskBits is the number of touch bits carried by one sensor mask.
const maskBits = 12

// Result is a decoded raw log.
type Result struct {
	Samples  []types.RawSample
	Sensors  int
	Channels int
}

// ReadFile decodes the raw log at path.
func ReadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a raw sample log. The sensor count is inferred from the
// column count of the first row; every row must have the same width.
func Decode(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)

	var samples []types.RawSample
	sensors := 0

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed raw log: %w", err)
		}

		if sensors == 0 {
			if len(record) < 2 {
				return nil, fmt.Errorf("row 1: expected timestamp plus at least one sensor mask, got %d column(s)", len(record))
			}
			sensors = len(record) - 1
		}

		sample, err := decodeRow(record, sensors)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(samples)+1, err)
		}
		samples = append(samples, sample)
	}

	if len(samples) <= 1 {
		return nil, ErrNoTouches
	}

	// No channel may be touched before data collection logically begins.
	for _, bit := range samples[0].Bits {
		if bit {
			return nil, ErrDirtyFirstSample
		}
	}

	return &Result{
		Samples:  samples,
		Sensors:  sensors,
		Channels: sensors * maskBits,
	}, nil
}

// decodeRow expands one CSV record into a RawSample. Bit b of sensor s maps
// to channel 12*s + b, least-significant bit first.
func decodeRow(record []string, sensors int) (types.RawSample, error) {
	ts, err := strconv.ParseFloat(record[0], 64)
	if err != nil {
		return types.RawSample{}, fmt.Errorf("bad timestamp %q: %w", record[0], err)
	}

	bits := make([]bool, sensors*maskBits)
	for s := 0; s < sensors; s++ {
		mask, err := strconv.ParseUint(record[s+1], 10, 64)
		if err != nil {
			return types.RawSample{}, fmt.Errorf("bad mask %q for sensor %d: %w", record[s+1], s+1, err)
		}
		if mask >= 1<<maskBits {
			return types.RawSample{}, fmt.Errorf("mask %d for sensor %d exceeds %d bits", mask, s+1, maskBits)
		}
		for b := 0; b < maskBits; b++ {
			bits[s*maskBits+b] = mask&(1<<b) != 0
		}
	}

	return types.RawSample{Timestamp: ts, Bits: bits}, nil
}
