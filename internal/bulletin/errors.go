package bulletin

import "fmt"

// StructureError reports that the page or block does not have the expected
// shape: no preformatted block, too few header lines, too few data rows, or a
// row with too few columns.
type StructureError struct {
	Reason string
	Row    int // data row index, -1 when the failure is not tied to a row
	Have   int // lines, rows or tokens found
	Want   int // lines, rows or tokens required
}

func (e *StructureError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("bulletin structure: row %d: %s (have %d, want %d)", e.Row, e.Reason, e.Have, e.Want)
	}
	if e.Want > 0 {
		return fmt.Sprintf("bulletin structure: %s (have %d, want %d)", e.Reason, e.Have, e.Want)
	}
	return "bulletin structure: " + e.Reason
}

// FieldParseError reports a column whose text could not be converted to its
// target type.
type FieldParseError struct {
	Row    int
	Column string
	Raw    string
	Err    error
}

func (e *FieldParseError) Error() string {
	return fmt.Sprintf("bulletin row %d: column %s: cannot parse %q: %v", e.Row, e.Column, e.Raw, e.Err)
}

func (e *FieldParseError) Unwrap() error {
	return e.Err
}
