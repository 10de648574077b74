// Package age computes calendar exact ages in whole years.
package age

import "time"

// Years returns the age in whole years of someone born at birth (seconds since
// epoch) at the instant ref (seconds since epoch). Both instants are
// interpreted in UTC.
//
// The age increases by exactly one on the birthday (same month and day), never
// earlier. A day-count approximation (365 or 365.25 days per year) drifts around
// birthdays and must not be used instead.
func Years(birth, ref int64) int {
	b := time.Unix(birth, 0).UTC()
	r := time.Unix(ref, 0).UTC()

	years := r.Year() - b.Year()

	// correct by one if the birthday has not yet happened this year
	if r.Month() < b.Month() || (r.Month() == b.Month() && r.Day() < b.Day()) {
		years--
	}

	return years
}
