package scraper

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pfrederiksen/kandilli/internal/bulletin"
	"github.com/pfrederiksen/kandilli/internal/logger"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher returns a fixed body or error and counts calls.
type stubFetcher struct {
	body  string
	err   error
	calls atomic.Int32
	urls  []string
	mu    sync.Mutex
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.urls = append(f.urls, url)
	f.mu.Unlock()
	return f.body, f.err
}

func TestNew_Defaults(t *testing.T) {
	s := New()
	assert.Equal(t, BulletinURL, s.URL())
	assert.Equal(t, bulletin.TurkeyTime, s.Parser().Location())
}

func TestLatest_MatchesLatestNOne(t *testing.T) {
	f := &stubFetcher{body: fixture(t)}
	s := New(WithFetcher(f), WithLogger(quietLogger()))

	latest, err := s.Latest(context.Background())
	require.NoError(t, err)

	one, err := s.LatestN(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, one, 1)

	assert.Equal(t, one[0], latest)
	assert.Equal(t, "ERCIS", latest.District)
	assert.Equal(t, "VAN", latest.Province)
	assert.Equal(t, int32(2), f.calls.Load(), "each call fetches once")
	assert.Equal(t, []string{BulletinURL, BulletinURL}, f.urls)
}

func TestLatestN_Order(t *testing.T) {
	s := New(WithFetcher(&stubFetcher{body: fixture(t)}), WithLogger(quietLogger()))

	events, err := s.LatestN(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, events, 5)

	districts := make([]string, len(events))
	for i, evt := range events {
		districts[i] = evt.District
	}
	assert.Equal(t, []string{"ERCIS", "SOFALACA-SEHITKAMIL", "ALTINOVA", "SOGUT", "SINDIRGI"}, districts)
}

func TestLatestN_InvalidCount(t *testing.T) {
	f := &stubFetcher{body: fixture(t)}
	s := New(WithFetcher(f), WithLogger(quietLogger()))

	for _, n := range []int{0, -1} {
		events, err := s.LatestN(context.Background(), n)
		assert.Nil(t, events)
		assert.ErrorIs(t, err, ErrInvalidCount)
	}
	assert.Zero(t, f.calls.Load(), "no fetch for an invalid count")
}

func TestLatestN_PlainFetchErrorIsWrapped(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	s := New(WithFetcher(&stubFetcher{err: cause}), WithLogger(quietLogger()))

	_, err := s.Latest(context.Background())

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, BulletinURL, fetchErr.URL)
	assert.ErrorIs(t, err, cause)
}

func TestLatestN_NoPartialResult(t *testing.T) {
	body := strings.Replace(fixture(t), "12.3", "n/a", 1)
	s := New(WithFetcher(&stubFetcher{body: body}), WithLogger(quietLogger()))

	events, err := s.LatestN(context.Background(), 5)
	assert.Nil(t, events)

	var fieldErr *bulletin.FieldParseError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, 2, fieldErr.Row)
	assert.Equal(t, bulletin.ColumnDepth, fieldErr.Column)
	assert.Equal(t, "n/a", fieldErr.Raw)

	// Rows before the broken one still parse on their own.
	events, err = s.LatestN(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestLatestN_Metrics(t *testing.T) {
	m := logger.NewMetrics(nil)
	good := New(WithFetcher(&stubFetcher{body: fixture(t)}), WithLogger(quietLogger()), WithMetrics(m))
	down := New(WithFetcher(&stubFetcher{err: errors.New("timeout")}), WithLogger(quietLogger()), WithMetrics(m))

	_, err := good.LatestN(context.Background(), 3)
	require.NoError(t, err)
	_, err = good.LatestN(context.Background(), 50)
	require.Error(t, err)
	_, err = down.Latest(context.Background())
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FetchRequests.WithLabelValues(logger.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchRequests.WithLabelValues(logger.OutcomeError)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.EventsParsed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ParseErrors.WithLabelValues(logger.KindStructure)))
}

func TestLatestN_LogsParseFailure(t *testing.T) {
	var buf strings.Builder
	l := logger.New(logger.LevelInfo, &buf)
	body := strings.Replace(fixture(t), "4.2", "x.x", 1)
	s := New(WithFetcher(&stubFetcher{body: body}), WithLogger(l))

	_, err := s.Latest(context.Background())
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "bulletin parse failed")
	assert.Contains(t, out, `"column":"magnitude"`)
	assert.Contains(t, out, `"raw":"x.x"`)
}

func TestLatestN_Concurrent(t *testing.T) {
	f := &stubFetcher{body: fixture(t)}
	s := New(WithFetcher(f), WithLogger(quietLogger()))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			events, err := s.LatestN(context.Background(), n%5+1)
			assert.NoError(t, err)
			assert.Len(t, events, n%5+1)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(8), f.calls.Load())
}

func TestWithParser(t *testing.T) {
	p := bulletin.New(bulletin.WithLocation(time.UTC))
	s := New(WithFetcher(&stubFetcher{body: fixture(t)}), WithParser(p), WithLogger(quietLogger()))

	evt, err := s.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC).Unix(), evt.Time)
}
