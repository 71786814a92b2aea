package timex

import (
	"testing"
	"time"
)

func TestToDisplay_ShiftsUTCForward(t *testing.T) {
	t.Parallel()

	utc := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	got := ToDisplay(utc)

	if got.Format("2006-01-02 15:04") != "2024-01-01 08:00" {
		t.Fatalf("expected 2024-01-01 08:00, got %s", got.Format("2006-01-02 15:04"))
	}
	if !got.Equal(utc) {
		t.Fatalf("display conversion must not change the instant")
	}
}

func TestToDisplay_ZonedInputConvertsProperly(t *testing.T) {
	t.Parallel()

	// An instant already tagged with an offset converts, not re-interprets.
	ny := time.FixedZone("UTC-5", -5*60*60)
	in := time.Date(2024, 6, 1, 19, 30, 0, 0, ny)
	got := ToDisplay(in)

	if got.Format("2006-01-02 15:04") != "2024-06-02 08:30" {
		t.Fatalf("expected 2024-06-02 08:30, got %s", got.Format("2006-01-02 15:04"))
	}
}

func TestToDisplay_ZeroValueUnchanged(t *testing.T) {
	t.Parallel()

	var zero time.Time
	if got := ToDisplay(zero); !got.IsZero() {
		t.Fatalf("zero time must pass through unchanged, got %v", got)
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"midnight utc", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "2024-01-01 08:00"},
		{"seconds truncated", time.Date(2024, 3, 5, 12, 34, 56, 0, time.UTC), "2024-03-05 20:34"},
		{"day rollover", time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC), "2025-01-01 07:59"},
		{"zero degrades to empty", time.Time{}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Format(tc.in); got != tc.want {
				t.Fatalf("Format(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
