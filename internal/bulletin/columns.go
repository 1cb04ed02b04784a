package bulletin

// HeaderLines is the number of title and column-header lines at the top of
// the preformatted block. Data rows start right after them.
const HeaderLines = 7

// Column names used in FieldParseError.
const (
	ColumnDate      = "date"
	ColumnTime      = "time"
	ColumnDepth     = "depth"
	ColumnMagnitude = "magnitude"
	ColumnDistrict  = "district"
	ColumnProvince  = "province"
)

// Columns maps each field to its token position in a row once runs of
// padding spaces are collapsed. A row reads:
//
//	date time latitude longitude depth MD ML Mw district (province) quality
//
// Only the positions below are used.
var Columns = struct {
	Date      int
	Time      int
	Depth     int
	Magnitude int
	District  int
	Province  int
}{
	Date:      0,
	Time:      1,
	Depth:     4,
	Magnitude: 6,
	District:  8,
	Province:  9,
}

// minTokens is the smallest token count a row needs to cover every column.
func minTokens() int {
	highest := 0
	for _, idx := range []int{
		Columns.Date, Columns.Time, Columns.Depth,
		Columns.Magnitude, Columns.District, Columns.Province,
	} {
		if idx > highest {
			highest = idx
		}
	}
	return highest + 1
}
