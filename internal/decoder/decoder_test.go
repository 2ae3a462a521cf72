package decoder

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeRoundTrip(t *testing.T) {
	// Each row: timestamp plus one mask per sensor. Channel 12*s + b must
	// come back as bit b of sensor s's mask.
	tests := []struct {
		name    string
		input   string
		sensors int
		rows    int
		// touched maps row -> channels expected true; all others false
		touched map[int][]int
	}{
		{
			name:    "single sensor single touch",
			input:   "100.0,0000\n100.1,0001\n100.2,0000\n",
			sensors: 1,
			rows:    3,
			touched: map[int][]int{1: {0}},
		},
		{
			name:    "bit five is channel five",
			input:   "0.0,0000\n0.1,0032\n",
			sensors: 1,
			rows:    2,
			touched: map[int][]int{1: {5}}, // 32 = bit 5
		},
		{
			name:    "four sensors span 48 channels",
			input:   "5.0,0000,0000,0000,0000\n5.1,0001,0000,0000,2048\n",
			sensors: 4,
			rows:    2,
			touched: map[int][]int{1: {0, 47}}, // 2048 = bit 11 of sensor 4 = channel 47
		},
		{
			name:    "second sensor starts at channel twelve",
			input:   "1.0,0000,0000\n1.5,0000,0005\n",
			sensors: 2,
			rows:    2,
			touched: map[int][]int{1: {12, 14}}, // 5 = bits 0 and 2
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Decode(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Sensors != tt.sensors {
				t.Errorf("expected %d sensors, got %d", tt.sensors, res.Sensors)
			}
			if res.Channels != tt.sensors*12 {
				t.Errorf("expected %d channels, got %d", tt.sensors*12, res.Channels)
			}
			if len(res.Samples) != tt.rows {
				t.Fatalf("expected %d samples, got %d", tt.rows, len(res.Samples))
			}
			for row, sample := range res.Samples {
				want := make(map[int]bool)
				for _, ch := range tt.touched[row] {
					want[ch] = true
				}
				for ch, bit := range sample.Bits {
					if bit != want[ch] {
						t.Errorf("row %d channel %d: expected %v, got %v", row, ch, want[ch], bit)
					}
				}
			}
		})
	}
}

func TestDecodeTimestamps(t *testing.T) {
	res, err := Decode(strings.NewReader("1496668800.123,0000\n1496668800.425,0001\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Samples[0].Timestamp != 1496668800.123 {
		t.Errorf("expected timestamp 1496668800.123, got %v", res.Samples[0].Timestamp)
	}
	if res.Samples[1].Timestamp != 1496668800.425 {
		t.Errorf("expected timestamp 1496668800.425, got %v", res.Samples[1].Timestamp)
	}
}

func TestDecodeFatalInputs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		// wantSubstr is checked when no sentinel applies
		wantSubstr string
	}{
		{
			name:    "empty log",
			input:   "",
			wantErr: ErrNoTouches,
		},
		{
			name:    "single row",
			input:   "100.0,0000\n",
			wantErr: ErrNoTouches,
		},
		{
			name:    "touched at start",
			input:   "100.0,0001\n100.1,0000\n",
			wantErr: ErrDirtyFirstSample,
		},
		{
			name:    "touched at start on later sensor",
			input:   "100.0,0000,0000,0000,0512\n100.1,0000,0000,0000,0000\n",
			wantErr: ErrDirtyFirstSample,
		},
		{
			name:       "mask too wide",
			input:      "100.0,0000\n100.1,4096\n",
			wantSubstr: "exceeds 12 bits",
		},
		{
			name:       "mask not an integer",
			input:      "100.0,0000\n100.1,00x1\n",
			wantSubstr: "bad mask",
		},
		{
			name:       "bad timestamp",
			input:      "abc,0000\n100.1,0000\n",
			wantSubstr: "bad timestamp",
		},
		{
			name:       "ragged row",
			input:      "100.0,0000,0000\n100.1,0000\n",
			wantSubstr: "malformed raw log",
		},
		{
			name:       "timestamp only",
			input:      "100.0\n100.1\n",
			wantSubstr: "at least one sensor mask",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected an error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantSubstr != "" && !strings.Contains(err.Error(), tt.wantSubstr) {
				t.Errorf("expected error containing %q, got %q", tt.wantSubstr, err)
			}
		})
	}
}
