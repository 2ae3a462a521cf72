// Package main provides a tapered-beam trial simulator that writes synthetic
// raw touch logs in the format of the acquisition rig: one line per sensor
// interrupt, a Unix timestamp followed by one zero-padded 12-bit touch mask
// per sensor.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/d-jones99/beam-task/internal/touches"
)

// baseClock anchors the simulated timestamps so that a given seed always
// produces byte-identical output.
const baseClock = 1496656086.0

// TrialEmulator generates the touch log of one simulated beam traversal.
type TrialEmulator struct {
	rng     *rand.Rand
	sensors int
	tick    float64
	now     float64
	masks   []int
	rows    []string
}

func NewTrialEmulator(seed int64, sensors, ticksPerSecond int) *TrialEmulator {
	return &TrialEmulator{
		rng:     rand.New(rand.NewSource(seed)),
		sensors: sensors,
		tick:    1.0 / float64(ticksPerSecond),
		now:     baseClock,
		masks:   make([]int, sensors),
	}
}

// record appends a sample row with the current touch state of every sensor.
func (e *TrialEmulator) record() {
	var b strings.Builder
	b.WriteString(strconv.FormatFloat(e.now, 'f', -1, 64))
	for _, mask := range e.masks {
		fmt.Fprintf(&b, ",%04d", mask)
	}
	b.WriteByte('\n')
	e.rows = append(e.rows, b.String())
}

func (e *TrialEmulator) advance(ticks int) {
	e.now += float64(ticks) * e.tick
}

// randTicks picks a tick count in [min, max].
func (e *TrialEmulator) randTicks(min, max int) int {
	return min + e.rng.Intn(max-min+1)
}

func (e *TrialEmulator) press(ch int) {
	e.masks[ch/12] |= 1 << (ch % 12)
	e.record()
}

func (e *TrialEmulator) release(ch int) {
	e.masks[ch/12] &^= 1 << (ch % 12)
	e.record()
}

// touch holds ch down for the given number of ticks.
func (e *TrialEmulator) touch(ch, ticks int) {
	e.press(ch)
	e.advance(ticks)
	e.release(ch)
}

// faultChannels picks n distinct foot-fault electrodes, ordered from the wide
// end towards the narrow end the way a traversing mouse would hit them.
func (e *TrialEmulator) faultChannels(n int) []int {
	pool := make([]int, 0, e.sensors*12-2)
	for ch := 1; ch < e.sensors*12-1; ch++ {
		pool = append(pool, ch)
	}
	e.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n > len(pool) {
		n = len(pool)
	}
	picked := append([]int(nil), pool[:n]...)
	sort.Sort(sort.Reverse(sort.IntSlice(picked)))
	return picked
}

// Trial simulates a full traversal: a clean first sample, a touch on the
// start channel, descending foot faults with the requested number of bounce
// and adjacent-electrode artifacts, and a touch on the finish channel.
func (e *TrialEmulator) Trial(faults, repeats, doubles int) {
	e.record()
	e.advance(e.randTicks(5, 10))

	start := e.sensors*12 - 1
	e.touch(start, e.randTicks(8, 15))

	for i, ch := range e.faultChannels(faults) {
		e.advance(e.randTicks(4, 12))
		switch {
		case i < doubles && ch-2 > 0:
			// Paw bridges two adjacent electrodes on the same side.
			e.press(ch)
			e.advance(1)
			e.press(ch - 2)
			e.advance(e.randTicks(2, 5))
			e.release(ch)
			e.advance(1)
			e.release(ch - 2)
		case i < doubles+repeats:
			// Contact bounce: a brief touch and a quick re-touch.
			e.touch(ch, e.randTicks(1, 2))
			e.advance(1)
			e.touch(ch, e.randTicks(2, 5))
		default:
			e.touch(ch, e.randTicks(2, 6))
		}
	}

	e.advance(e.randTicks(4, 12))
	e.touch(0, e.randTicks(6, 12))
}

func main() {
	outDir := flag.String("out", "data", "Directory to write into; a YYYYMMDD subfolder is created")
	subject := flag.String("subject", "m1", "Subject ID used in the filename")
	trial := flag.Int("trial", 1, "Trial number used in the filename")
	sensors := flag.Int("sensors", 4, "Number of MPR121 sensors on the simulated rig")
	seed := flag.Int64("seed", 1, "Random seed; the same seed produces the same trial")
	ticksPerSecond := flag.Int("ticks-per-second", 20, "Sampling rate of the simulated sensors")
	faults := flag.Int("faults", 6, "Number of foot faults along the traversal")
	repeats := flag.Int("repeats", 1, "Number of faults turned into quick re-touches")
	doubles := flag.Int("doubles", 1, "Number of faults spanning two adjacent electrodes")
	flag.Parse()

	if *sensors < 1 {
		log.Fatalf("-sensors must be at least 1, got %d", *sensors)
	}
	if *ticksPerSecond < 1 {
		log.Fatalf("-ticks-per-second must be at least 1, got %d", *ticksPerSecond)
	}
	if *trial < 1 {
		log.Fatalf("-trial must be at least 1, got %d", *trial)
	}

	emulator := NewTrialEmulator(*seed, *sensors, *ticksPerSecond)
	emulator.Trial(*faults, *repeats, *doubles)

	dayDir := filepath.Join(*outDir, time.Now().Format("20060102"))
	if err := os.MkdirAll(dayDir, 0o755); err != nil {
		log.Fatalf("Error creating output folder: %v", err)
	}
	path := filepath.Join(dayDir, fmt.Sprintf("%s_%03d", *subject, *trial)+touches.RawSuffix)
	if err := os.WriteFile(path, []byte(strings.Join(emulator.rows, "")), 0o644); err != nil {
		log.Fatalf("Error writing raw file: %v", err)
	}

	fmt.Printf("Saved %d samples to %s\n", len(emulator.rows), path)
}
