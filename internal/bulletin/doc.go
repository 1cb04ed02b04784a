// Package bulletin parses the KOERI recent-earthquakes page.
//
// The page carries the bulletin as one preformatted block of fixed-width
// columns. Parsing happens in three steps: ExtractBlock finds the block,
// SplitRows drops the seven header lines, and Parser.ParseRow maps the
// whitespace-separated tokens of a row to an event.Event using the Columns
// table. Every failure is returned as a *StructureError or *FieldParseError;
// there are no partial results or default values.
package bulletin
