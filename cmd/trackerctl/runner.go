package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/cesargomez89/leaktracker/internal/cache"
	"github.com/cesargomez89/leaktracker/internal/config"
	"github.com/cesargomez89/leaktracker/internal/httpclient"
	"github.com/cesargomez89/leaktracker/internal/logger"
	"github.com/cesargomez89/leaktracker/internal/sheets"
	"github.com/cesargomez89/leaktracker/internal/store"
	"github.com/cesargomez89/leaktracker/internal/tracker"
)

// Runner holds the dependencies of every command. The tracker service is built
// on first use from the global flags unless one was injected.
type Runner struct {
	service *tracker.Service
	logger  *logger.Logger
	output  io.Writer
	closers []func() error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Service *tracker.Service
	Logger  *logger.Logger
	Output  io.Writer
}

func NewRunner(opts RunnerOpts) *Runner {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Runner{
		service: opts.Service,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

// Close releases whatever the lazily built service opened.
func (r *Runner) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && r.logger != nil {
			r.logger.Warn("Close failed", "error", err)
		}
	}
	r.closers = nil
}

func (r *Runner) setup(_ context.Context, cmd *cli.Command) (*tracker.Service, error) {
	if r.service != nil {
		return r.service, nil
	}

	cfg := config.LoadFrom(cmd.String("config"))
	if v := cmd.String("cache"); v != "" {
		cfg.CacheBackend = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	if r.logger == nil {
		r.logger = logger.New(logger.Config{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
			Output: os.Stderr,
		})
	}

	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	r.closers = append(r.closers, db.Close)

	c, err := cache.Open(cfg.CacheBackend, cfg.CachePath, db)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	r.closers = append(r.closers, c.Close)

	client := httpclient.NewWithTimeout(cfg.HTTPTimeout, cfg.FetchRate)
	r.service = tracker.NewService(tracker.Deps{
		Source:   sheets.NewFetcher(client, cfg.SheetsBaseURL, r.logger),
		Cache:    c,
		Trackers: store.NewTrackerRepo(db),
		History:  store.NewHistoryRepo(db),
		Aliases:  tracker.AliasesFromConfig(cfg.Aliases),
		TTL:      cfg.CacheTTL,
		Logger:   r.logger,
	})
	r.closers = append(r.closers, r.service.Search.Close)
	return r.service, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.output, format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
