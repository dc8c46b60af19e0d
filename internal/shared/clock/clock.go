// Package clock provides the time source for the auth core.
// All storage and expiry comparisons use UTC.
package clock

import "time"

// NowUTC returns the current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}
