// Package market holds the trading-hours gate and the reference-data /
// quote lookups backed by Yahoo Finance.
package market

import "time"

// Hours is the configured trading window. Scheduled jobs consult Open before
// doing anything and silently no-op outside the window.
type Hours struct {
	Location  *time.Location
	OpenHour  int
	CloseHour int
}

// NewHours creates a trading window in the given location.
func NewHours(loc *time.Location, openHour, closeHour int) Hours {
	if loc == nil {
		loc = time.UTC
	}
	return Hours{Location: loc, OpenHour: openHour, CloseHour: closeHour}
}

// Open reports whether the market window is open at the given instant.
// Closed on Saturday and Sunday regardless of hour. Otherwise open from
// OpenHour:00 inclusive up to CloseHour:00 exclusive, so the window shuts
// at CloseHour:00:00 sharp.
func (h Hours) Open(now time.Time) bool {
	local := now.In(h.Location)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	hour := local.Hour()
	return hour >= h.OpenHour && hour < h.CloseHour
}
