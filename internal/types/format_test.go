package types

import "testing"

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.000"},
		{2, "2.000"},
		{1.5, "1.500"},
		{0.0625, "0.063"}, // ties round away from zero, not to even
		{-0.0625, "-0.063"},
		{0.1115, "0.112"},
		{0.049999999999999822, "0.050"}, // 2.65 - 2.6
		{0.2999999999999998, "0.300"},
		{1.4000000000000057, "1.400"},
	}
	for _, tt := range tests {
		if got := FormatSeconds(tt.in); got != tt.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
