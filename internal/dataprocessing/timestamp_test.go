package dataprocessing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeClockTime(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"noon fraction", "0.5", "12:00"},
		{"midnight fraction", "0.0", "00:00"},
		{"datetime serial keeps time of day", "1.5", "12:00"},
		{"large datetime serial", "43617.25", "06:00"},
		{"already formatted", "14:30", "14:30"},
		{"quarter day", "0.25", "06:00"},
		{"ten thirty seven", "0.44236111111", "10:37"},
		{"just before midnight", "0.99930555555", "23:59"},
		{"rounds up across midnight", "0.99999", "00:00"},
		{"empty", "", ""},
		{"whitespace", "   ", ""},
		{"garbage", "not a time", ""},
		{"negative", "-0.5", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeClockTime(tt.raw))
		})
	}
}

// Reapplying the normalizer to its own output must be a no-op.
func TestNormalizeClockTime_Idempotent(t *testing.T) {
	inputs := []string{"0.5", "0.0", "1.5", "0.25", "14:30", "", "0.75"}
	for _, raw := range inputs {
		once := NormalizeClockTime(raw)
		assert.Equal(t, once, NormalizeClockTime(once), "input %q", raw)
	}
}

// Exact minute boundaries must not lose a minute to floating-point
// representation.
func TestNormalizeClockTime_MinuteBoundaries(t *testing.T) {
	for minutes := 0; minutes < 24*60; minutes += 97 {
		frac := float64(minutes) / (24 * 60)
		want := fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
		got := NormalizeClockTime(fmt.Sprintf("%.12f", frac))
		assert.Equal(t, want, got, "minutes=%d frac=%v", minutes, frac)
	}
}
