// Package refresher re-fetches registered trackers in the background so that
// API reads keep hitting a warm cache.
package refresher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cesargomez89/leaktracker/internal/constants"
	"github.com/cesargomez89/leaktracker/internal/domain"
	"github.com/cesargomez89/leaktracker/internal/logger"
	"github.com/cesargomez89/leaktracker/internal/sheets"
	"github.com/cesargomez89/leaktracker/internal/tracker"
)

// Service is the part of tracker.Service the refresher needs.
type Service interface {
	List(ctx context.Context) ([]*domain.TrackerRecord, error)
	Fetch(ctx context.Context, req tracker.Request) (*tracker.Result, error)
}

type Refresher struct {
	Service       Service
	Interval      time.Duration
	StaleAfter    time.Duration
	MaxConcurrent int
	Logger        *logger.Logger
	Now           func() time.Time

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func New(svc Service, interval, staleAfter time.Duration, maxConcurrent int, log *logger.Logger) *Refresher {
	if log == nil {
		log = logger.Default()
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Refresher{
		Service:       svc,
		Interval:      interval,
		StaleAfter:    staleAfter,
		MaxConcurrent: maxConcurrent,
		Logger:        log.WithComponent("refresher"),
		Now:           time.Now,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Start launches the polling loop. A non-positive interval leaves it disabled.
func (r *Refresher) Start() {
	if r.Interval <= 0 {
		r.Logger.Debug("Refresher disabled")
		return
	}
	r.Logger.Info("Starting refresher", "interval", r.Interval, "workers", r.MaxConcurrent)
	r.wg.Add(1)
	go r.loop()
}

// Stop cancels in-flight refreshes and waits for them to return.
func (r *Refresher) Stop() {
	r.cancel()
	r.wg.Wait()
}

func (r *Refresher) loop() {
	defer r.wg.Done()
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			n, err := r.RefreshStale(r.ctx)
			if err != nil {
				r.Logger.Warn("Refresh pass failed", "error", err)
				continue
			}
			if n > 0 {
				r.Logger.Info("Refresh pass done", "refreshed", n)
			}
		}
	}
}

// RefreshStale re-fetches every registered tracker whose last fetch is older
// than StaleAfter, at most MaxConcurrent at a time. It returns how many
// refreshes succeeded.
func (r *Refresher) RefreshStale(ctx context.Context) (int, error) {
	trackers, err := r.Service.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list trackers: %w", err)
	}

	now := r.Now()
	sem := make(chan struct{}, r.MaxConcurrent)
	var (
		mu sync.Mutex
		wg sync.WaitGroup
		ok int
	)

	for _, t := range trackers {
		if now.Sub(t.LastFetched) < r.StaleAfter {
			continue
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return ok, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(t *domain.TrackerRecord) {
			defer wg.Done()
			defer func() { <-sem }()
			if r.refresh(ctx, t) {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}(t)
	}
	wg.Wait()
	return ok, nil
}

func (r *Refresher) refresh(ctx context.Context, t *domain.TrackerRecord) (done bool) {
	defer func() {
		if p := recover(); p != nil {
			r.Logger.Error("Panic while refreshing tracker", "doc_id", t.DocID, "panic", p)
			done = false
		}
	}()

	url := t.URL
	if url == "" {
		url = sheets.NewURLBuilder(constants.DefaultSheetsBaseURL).ShareURL(t.DocID)
	}
	if _, err := r.Service.Fetch(ctx, tracker.Request{URL: url, Refresh: true}); err != nil {
		r.Logger.Warn("Tracker refresh failed", "doc_id", t.DocID, "error", err)
		return false
	}
	return true
}
