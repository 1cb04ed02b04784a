package scraper

import (
	"context"
	"errors"
	"time"

	"github.com/pfrederiksen/kandilli/internal/bulletin"
	"github.com/pfrederiksen/kandilli/internal/event"
	"github.com/pfrederiksen/kandilli/internal/logger"
)

// ErrInvalidCount is returned when fewer than one event is requested.
var ErrInvalidCount = bulletin.ErrInvalidCount

// Scraper fetches the KOERI bulletin and parses it into events.
// Every call performs its own fetch; nothing is cached between calls, so a
// Scraper is safe for concurrent use.
type Scraper struct {
	fetcher Fetcher
	parser  *bulletin.Parser
	url     string
	log     *logger.Logger
	metrics *logger.Metrics
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithURL overrides the bulletin address.
func WithURL(url string) Option {
	return func(s *Scraper) {
		if url != "" {
			s.url = url
		}
	}
}

// WithFetcher replaces the HTTP fetcher.
func WithFetcher(f Fetcher) Option {
	return func(s *Scraper) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithParser replaces the bulletin parser.
func WithParser(p *bulletin.Parser) Option {
	return func(s *Scraper) {
		if p != nil {
			s.parser = p
		}
	}
}

// WithLogger sets the logger. The package default logger is used otherwise.
func WithLogger(l *logger.Logger) Option {
	return func(s *Scraper) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics enables metrics collection.
func WithMetrics(m *logger.Metrics) Option {
	return func(s *Scraper) {
		s.metrics = m
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		fetcher: NewHTTPFetcher(nil, ""),
		parser:  bulletin.New(),
		url:     BulletinURL,
		log:     logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the address the scraper fetches.
func (s *Scraper) URL() string {
	return s.url
}

// Parser returns the bulletin parser in use.
func (s *Scraper) Parser() *bulletin.Parser {
	return s.parser
}

// Latest fetches the bulletin and returns its most recent event.
func (s *Scraper) Latest(ctx context.Context) (event.Event, error) {
	events, err := s.LatestN(ctx, 1)
	if err != nil {
		return event.Event{}, err
	}
	return events[0], nil
}

// LatestN fetches the bulletin and returns its first count events, most
// recent first. If the bulletin holds fewer rows, or any requested row fails
// to parse, no events are returned.
func (s *Scraper) LatestN(ctx context.Context, count int) ([]event.Event, error) {
	if count < 1 {
		return nil, ErrInvalidCount
	}

	body, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	events, err := s.parser.Parse(body, count)
	if err != nil {
		s.metrics.ObserveParse(0, errorKind(err))
		s.log.Error("bulletin parse failed", parseErrorFields(s.url, count, err), err)
		return nil, err
	}

	s.metrics.ObserveParse(len(events), "")
	s.log.Debug("bulletin parsed", logger.Fields{"url": s.url, "events": len(events)})

	return events, nil
}

func (s *Scraper) fetch(ctx context.Context) (string, error) {
	s.log.Debug("fetching bulletin", logger.Fields{"url": s.url})

	start := time.Now()
	body, err := s.fetcher.Fetch(ctx, s.url)
	elapsed := time.Since(start)
	s.metrics.ObserveFetch(elapsed, err)

	if err != nil {
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			err = &FetchError{URL: s.url, Err: err}
		}
		s.log.Error("bulletin fetch failed", logger.Fields{"url": s.url}, err)
		return "", err
	}

	s.log.Debug("bulletin fetched", logger.Fields{
		"url":         s.url,
		"bytes":       len(body),
		"duration_ms": elapsed.Milliseconds(),
	})
	return body, nil
}

func errorKind(err error) string {
	var structErr *bulletin.StructureError
	var fieldErr *bulletin.FieldParseError
	switch {
	case errors.As(err, &structErr):
		return logger.KindStructure
	case errors.As(err, &fieldErr):
		return logger.KindField
	default:
		return logger.KindOther
	}
}

func parseErrorFields(url string, count int, err error) logger.Fields {
	fields := logger.Fields{"url": url, "requested": count}

	var structErr *bulletin.StructureError
	var fieldErr *bulletin.FieldParseError
	switch {
	case errors.As(err, &fieldErr):
		fields["row"] = fieldErr.Row
		fields["column"] = fieldErr.Column
		fields["raw"] = fieldErr.Raw
	case errors.As(err, &structErr):
		if structErr.Row >= 0 {
			fields["row"] = structErr.Row
		}
		fields["have"] = structErr.Have
		fields["want"] = structErr.Want
	}
	return fields
}
