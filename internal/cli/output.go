package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/kandilli/internal/event"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt  time.Time     `json:"checked_at"`
	Source     string        `json:"source"`
	Requested  int           `json:"requested"`
	Filter     string        `json:"filter,omitempty"`
	EventCount int           `json:"event_count"`
	Events     []event.Event `json:"events"`
}

// WriteOutput writes the result in the specified format. Event times in text
// output are shown in loc.
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, loc *time.Location, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, loc, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, loc *time.Location, verbose bool) error {
	if result.Filter != "" {
		fmt.Fprintf(w, "Filter: %s\n", result.Filter)
	}

	if result.EventCount == 0 {
		fmt.Fprintln(w, "No matching earthquakes found.")
		return nil
	}

	for _, evt := range result.Events {
		fmt.Fprintf(w, "%s  M%.1f  %6.1f km  %s (%s)\n",
			evt.OccurredAt(loc).Format("2006-01-02 15:04:05 MST"),
			evt.Magnitude, evt.DepthKm, evt.District, evt.Province)
		if verbose {
			fmt.Fprintf(w, "     Date: %s\n", evt.Date)
			fmt.Fprintf(w, "     Unix: %d\n", evt.Time)
		}
	}

	label := "earthquakes"
	if result.EventCount == 1 {
		label = "earthquake"
	}
	fmt.Fprintf(w, "\nTotal: %d %s (of %d requested)\n", result.EventCount, label, result.Requested)

	return nil
}
