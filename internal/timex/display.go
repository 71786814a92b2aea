// Package timex converts stored UTC timestamps into the fixed display
// timezone used by the chat UI. Storage stays UTC; only presentation shifts.
package timex

import "time"

// DisplayZone is the fixed UTC+8 offset used for presentation.
var DisplayZone = time.FixedZone("UTC+8", 8*60*60)

// displayLayout renders minute precision, no seconds, no locale variation.
const displayLayout = "2006-01-02 15:04"

// ToDisplay returns the same instant in the display zone. The zero value is
// returned unchanged so a missing timestamp degrades instead of rendering as
// a bogus epoch-era stamp.
func ToDisplay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.In(DisplayZone)
}

// Format renders the instant for display. The zero value renders as "".
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return ToDisplay(t).Format(displayLayout)
}
