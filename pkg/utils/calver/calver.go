// Package calver formats calendar-date release tags.
package calver

import (
	"fmt"
	"time"
)

// Format returns the tag for a date, e.g. "2021.3.9". Month and day
// are not zero-padded.
func Format(t time.Time) string {
	return t.Format("2006.1.2")
}

// WithSerial returns the tag with a serial suffix for same-day
// re-releases, e.g. "2021.3.9.2". serial must be >= 2; the first
// release of a day carries no suffix.
func WithSerial(tag string, serial int) string {
	return fmt.Sprintf("%s.%d", tag, serial)
}
