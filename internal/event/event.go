package event

import (
	"fmt"
	"time"
)

// Event represents one earthquake as published in the KOERI bulletin
type Event struct {
	Date      string  `json:"date"`      // Date token exactly as published, e.g. "2024.01.01"
	Time      int64   `json:"time"`      // Unix seconds, sub-second precision truncated
	DepthKm   float64 `json:"depth_km"`
	Magnitude float64 `json:"magnitude"`
	Province  string  `json:"province"`
	District  string  `json:"district"`
}

// OccurredAt returns the event time in the given location.
// A nil location yields UTC.
func (e Event) OccurredAt(loc *time.Location) time.Time {
	t := time.Unix(e.Time, 0)
	if loc == nil {
		return t.UTC()
	}
	return t.In(loc)
}

// String returns a one-line summary such as
// "M4.2 ILCE (IL) depth 10.5 km at 2024-01-01 09:30:00 UTC"
func (e Event) String() string {
	return fmt.Sprintf("M%.1f %s (%s) depth %.1f km at %s",
		e.Magnitude, e.District, e.Province, e.DepthKm,
		e.OccurredAt(time.UTC).Format("2006-01-02 15:04:05 MST"))
}
