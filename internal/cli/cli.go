package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/pfrederiksen/kandilli/internal/api"
	"github.com/pfrederiksen/kandilli/internal/bulletin"
	"github.com/pfrederiksen/kandilli/internal/config"
	"github.com/pfrederiksen/kandilli/internal/filter"
	"github.com/pfrederiksen/kandilli/internal/logger"
	"github.com/pfrederiksen/kandilli/internal/scraper"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess    = 0
	ExitError      = 1
	ExitFetchError = 3
	ExitParseError = 4
)

const shutdownTimeout = 10 * time.Second

var (
	flagURL          string
	flagVerbose      bool
	flagCount        int
	flagFormat       string
	flagSort         string
	flagMinMagnitude string
	flagMaxDepth     string
	flagProvince     string
	flagAddr         string
)

// clock stamps output so tests can freeze time via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kandilli",
		Short: "Fetch the latest earthquakes from the KOERI bulletin",
		Long: `A CLI tool that downloads the Kandilli Observatory (KOERI) recent
earthquakes bulletin and prints the parsed events, or serves them over HTTP.

Settings are read from KANDILLI_* environment variables (and a .env file in
the working directory); flags take precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flagURL, "url", "", "Bulletin URL (default: KANDILLI_URL or the KOERI page)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newLatestCmd(), newServeCmd())

	return cmd
}

func newLatestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Print the most recent earthquakes",
		Args:  cobra.NoArgs,
		RunE:  runLatest,
	}

	cmd.Flags().IntVarP(&flagCount, "count", "n", 1, "Number of events to read from the bulletin")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagSort, "sort", string(SortByPublished), "Sort order: published, time, magnitude or depth")
	cmd.Flags().StringVar(&flagMinMagnitude, "min-magnitude", "", "Only show events of at least this magnitude")
	cmd.Flags().StringVar(&flagMaxDepth, "max-depth", "", "Only show events at most this deep (km)")
	cmd.Flags().StringVar(&flagProvince, "province", "", "Only show events in these provinces (comma-separated)")

	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bulletin as JSON over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default: KANDILLI_HTTP_ADDR or :8080)")

	return cmd
}

// setup loads configuration, applies flag overrides and installs the logger.
func setup(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if flagURL != "" {
		cfg.URL = flagURL
	}
	if flagVerbose {
		cfg.LogLevel = string(logger.LevelDebug)
	}

	log, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, fmt.Errorf("configuring logger: %w", err)
	}
	logger.SetDefault(log)

	return cfg, log, nil
}

func newScraper(cfg *config.Config, log *logger.Logger, metrics *logger.Metrics) (*scraper.Scraper, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	return scraper.New(
		scraper.WithURL(cfg.URL),
		scraper.WithFetcher(scraper.NewHTTPFetcher(nil, cfg.UserAgent)),
		scraper.WithParser(bulletin.New(bulletin.WithLocation(loc))),
		scraper.WithLogger(log),
		scraper.WithMetrics(metrics),
	), nil
}

// runLatest fetches the bulletin once and prints the requested events
func runLatest(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	order := SortOrder(strings.ToLower(flagSort))
	if !order.Valid() {
		return fmt.Errorf("invalid sort order: %s (must be 'published', 'time', 'magnitude' or 'depth')", flagSort)
	}

	if flagCount < 1 {
		return fmt.Errorf("--count must be at least 1, got %d", flagCount)
	}

	f, err := filter.Parse(flagMinMagnitude, flagMaxDepth, flagProvince)
	if err != nil {
		return err
	}

	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	sc, err := newScraper(cfg, log, nil)
	if err != nil {
		return err
	}

	events, err := sc.LatestN(cmd.Context(), flagCount)
	if err != nil {
		return err
	}

	events = f.Apply(events)
	sortEvents(events, order)

	result := &OutputResult{
		CheckedAt:  clock.Now().UTC(),
		Source:     sc.URL(),
		Requested:  flagCount,
		Events:     events,
		EventCount: len(events),
	}
	if !f.IsEmpty() {
		result.Filter = f.String()
	}

	if err := WriteOutput(cmd.OutOrStdout(), result, format, sc.Parser().Location(), flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

// runServe starts the HTTP API and blocks until SIGINT or SIGTERM
func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	if flagAddr != "" {
		cfg.HTTPAddr = flagAddr
	}

	metrics := logger.NewMetrics(prometheus.DefaultRegisterer)
	sc, err := newScraper(cfg, log, metrics)
	if err != nil {
		return err
	}

	srv := api.NewServer(cfg.HTTPAddr, sc, log, clock, nil)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		fetchErr  *scraper.FetchError
		structErr *bulletin.StructureError
		fieldErr  *bulletin.FieldParseError
	)
	switch {
	case errors.As(err, &fetchErr):
		return ExitFetchError
	case errors.As(err, &structErr), errors.As(err, &fieldErr):
		return ExitParseError
	default:
		return ExitError
	}
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(ExitCode(err))
}
