package bulletin

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/kandilli/internal/event"
	"golang.org/x/net/html"
)

// TurkeyTime is the fixed UTC+3 offset KOERI publishes event times in.
var TurkeyTime = time.FixedZone("TRT", 3*60*60)

// DefaultLayouts are the date/time layouts tried, in order, on "date time".
// KOERI publishes year-first dates; day-first dates are accepted as well.
// Fractional seconds after the seconds field are accepted by time.Parse and
// dropped when converting to Unix seconds.
var DefaultLayouts = []string{
	"2006.01.02 15:04:05",
	"02.01.2006 15:04:05",
}

// ErrInvalidCount is returned when fewer than one row is requested.
var ErrInvalidCount = errors.New("row count must be at least 1")

// Parser converts bulletin rows into events.
// A Parser is immutable and safe for concurrent use.
type Parser struct {
	location *time.Location
	layouts  []string
}

// Option configures a Parser.
type Option func(*Parser)

// WithLocation sets the time zone the published date and time are read in.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		if loc != nil {
			p.location = loc
		}
	}
}

// WithLayouts replaces the date/time layouts.
func WithLayouts(layouts ...string) Option {
	return func(p *Parser) {
		if len(layouts) > 0 {
			p.layouts = append([]string(nil), layouts...)
		}
	}
}

// New creates a Parser reading times in Turkey time with DefaultLayouts.
func New(opts ...Option) *Parser {
	p := &Parser{
		location: TurkeyTime,
		layouts:  DefaultLayouts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Location returns the time zone used for parsing event times.
func (p *Parser) Location() *time.Location {
	return p.location
}

// ExtractBlock returns the text of the first preformatted element in the
// page. It fails with a *StructureError if the page has none.
func ExtractBlock(page string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	pre := doc.Find("pre").First()
	if pre.Length() == 0 {
		return "", &StructureError{Reason: "no preformatted block in page", Row: -1}
	}

	text := pre.Text()

	// The HTML parser drops a line feed directly after <pre>. Put it back so
	// line numbers match the published text.
	if preStartsWithNewline(page) {
		text = "\n" + text
	}

	return text, nil
}

// preStartsWithNewline reports whether the content of the first <pre> start
// tag begins with a line feed. Comments and raw text such as <script> bodies
// are skipped by the tokenizer, so a "<pre" inside them does not count.
func preStartsWithNewline(page string) bool {
	z := html.NewTokenizer(strings.NewReader(page))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) != "pre" {
				continue
			}
			if z.Next() != html.TextToken {
				return false
			}
			return strings.HasPrefix(string(z.Text()), "\n")
		}
	}
}

// SplitRows splits a block into lines and returns the data rows that follow
// the header. Trailing blank lines are ignored.
func SplitRows(block string) ([]string, error) {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	if len(lines) < HeaderLines {
		return nil, &StructureError{
			Reason: "block shorter than header",
			Row:    -1,
			Have:   len(lines),
			Want:   HeaderLines,
		}
	}

	return lines[HeaderLines:], nil
}

// Rows returns the first n data rows of a block. Asking for more rows than
// the block holds is an error, never a shorter result.
func Rows(block string, n int) ([]string, error) {
	if n < 1 {
		return nil, ErrInvalidCount
	}

	rows, err := SplitRows(block)
	if err != nil {
		return nil, err
	}

	if n > len(rows) {
		return nil, &StructureError{
			Reason: "not enough data rows",
			Row:    -1,
			Have:   len(rows),
			Want:   n,
		}
	}

	return rows[:n], nil
}

// Parse extracts the block from a page and parses its first n rows.
// The first failing row aborts the whole call.
func (p *Parser) Parse(page string, n int) ([]event.Event, error) {
	block, err := ExtractBlock(page)
	if err != nil {
		return nil, err
	}

	rows, err := Rows(block, n)
	if err != nil {
		return nil, err
	}

	return p.ParseRows(rows)
}

// ParseRows parses rows in order, stopping at the first failure.
func (p *Parser) ParseRows(rows []string) ([]event.Event, error) {
	events := make([]event.Event, 0, len(rows))
	for i, row := range rows {
		evt, err := p.parseRow(i, row)
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	return events, nil
}

// ParseRow parses a single data row.
func (p *Parser) ParseRow(line string) (event.Event, error) {
	return p.parseRow(0, line)
}

func (p *Parser) parseRow(row int, line string) (event.Event, error) {
	tokens := strings.Fields(line)
	if want := minTokens(); len(tokens) < want {
		return event.Event{}, &StructureError{
			Reason: "too few columns",
			Row:    row,
			Have:   len(tokens),
			Want:   want,
		}
	}

	date := tokens[Columns.Date]
	stamp := date + " " + tokens[Columns.Time]
	ts, err := p.parseTime(stamp)
	if err != nil {
		return event.Event{}, &FieldParseError{Row: row, Column: ColumnTime, Raw: stamp, Err: err}
	}

	rawDepth := tokens[Columns.Depth]
	depth, err := parseNumber(rawDepth)
	if err == nil && depth < 0 {
		err = errors.New("depth must not be negative")
	}
	if err != nil {
		return event.Event{}, &FieldParseError{Row: row, Column: ColumnDepth, Raw: rawDepth, Err: err}
	}

	rawMagnitude := tokens[Columns.Magnitude]
	magnitude, err := parseNumber(rawMagnitude)
	if err != nil {
		return event.Event{}, &FieldParseError{Row: row, Column: ColumnMagnitude, Raw: rawMagnitude, Err: err}
	}

	return event.Event{
		Date:      date,
		Time:      ts,
		DepthKm:   depth,
		Magnitude: magnitude,
		Province:  StripProvince(tokens[Columns.Province]),
		District:  tokens[Columns.District],
	}, nil
}

// parseTime reads "date time" with the configured layouts and returns Unix
// seconds.
func (p *Parser) parseTime(value string) (int64, error) {
	for _, layout := range p.layouts {
		t, err := time.ParseInLocation(layout, value, p.location)
		if err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("no layout matches (tried %s)", strings.Join(p.layouts, ", "))
}

func parseNumber(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not a finite number")
	}
	return v, nil
}

// StripProvince removes a literal leading "(" and trailing ")" from the
// province token. Nothing else is changed, so "(Van" becomes "Van".
func StripProvince(token string) string {
	return strings.TrimSuffix(strings.TrimPrefix(token, "("), ")")
}
