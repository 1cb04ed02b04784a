package cli

import (
	"sort"

	"github.com/pfrederiksen/kandilli/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByPublished SortOrder = "published"
	SortByTime      SortOrder = "time"
	SortByMagnitude SortOrder = "magnitude"
	SortByDepth     SortOrder = "depth"
)

// Valid reports whether o is a known sort order.
func (o SortOrder) Valid() bool {
	switch o {
	case SortByPublished, SortByTime, SortByMagnitude, SortByDepth:
		return true
	}
	return false
}

// sortEvents sorts events in place. Ties keep bulletin order.
//   - published: bulletin order, unchanged
//   - time: most recent first
//   - magnitude: strongest first
//   - depth: shallowest first
func sortEvents(events []event.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByTime:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Time > events[j].Time
		})
	case SortByMagnitude:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Magnitude > events[j].Magnitude
		})
	case SortByDepth:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].DepthKm < events[j].DepthKm
		})
	}
}
