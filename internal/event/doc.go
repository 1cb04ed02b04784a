// Package event provides the earthquake record produced by the bulletin parser.
//
// An Event is a plain value built from one row of the KOERI bulletin. It has no
// identity beyond its field values and is never mutated after construction.
// Sequence order (most recent first) is the only relation between events.
package event
