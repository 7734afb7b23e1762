package retrieve

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/avail-cli/avail/internal/avail"
	"github.com/avail-cli/avail/internal/instrumentation"
	"github.com/avail-cli/avail/internal/logging"
	"github.com/avail-cli/avail/internal/provider"
)

// Source describes one linked account and the calendars to fetch from it.
type Source struct {
	// Account is the user-chosen account name.
	Account string

	// Provider is the platform implementation the account belongs to.
	Provider provider.Provider

	// RefreshToken is the stored long-lived token. It is exchanged for an
	// access token exactly once per source, before any calendar fetch.
	RefreshToken string

	// CalendarIDs are the calendars selected for availability searches.
	CalendarIDs []string
}

// Failure records one calendar, or one whole account, whose events could
// not be retrieved.
type Failure struct {
	Account string

	// CalendarID is empty when the account itself failed, e.g. the token
	// refresh was rejected.
	CalendarID string

	Err error
}

func (f Failure) String() string {
	if f.CalendarID == "" {
		return fmt.Sprintf("account %s: %v", f.Account, f.Err)
	}
	return fmt.Sprintf("account %s calendar %s: %v", f.Account, f.CalendarID, f.Err)
}

// Result aggregates the events of every calendar that fetched cleanly,
// along with the failures that were skipped over.
type Result struct {
	Events   []avail.Event
	Failures []Failure
}

// Retriever coordinates concurrent event retrieval across sources.
type Retriever struct {
	logger  *slog.Logger
	metrics *instrumentation.Metrics

	mu    sync.Mutex
	gates map[string]*semaphore.Weighted
}

// New creates a Retriever. Both arguments may be nil.
func New(logger *slog.Logger, metrics *instrumentation.Metrics) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}
	return &Retriever{
		logger:  logger,
		metrics: metrics,
		gates:   make(map[string]*semaphore.Weighted),
	}
}

// gate returns the shared admission gate for a platform, or nil when the
// platform has no concurrency ceiling. Gates are keyed by platform name so
// every account on the same platform shares one.
func (r *Retriever) gate(p provider.Provider) *semaphore.Weighted {
	limit := p.Concurrency()
	if limit <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.gates[p.Name()]
	if !ok {
		g = semaphore.NewWeighted(int64(limit))
		r.gates[p.Name()] = g
	}
	return g
}

// Fetch retrieves the events of every source's calendars within the
// window. Per-calendar failures are collected into the result rather than
// returned; the error is non-nil only when the context is cancelled.
func (r *Retriever) Fetch(ctx context.Context, sources []Source, window avail.Window) (Result, error) {
	// One slot per calendar so goroutines never share a write target.
	events := make([][][]avail.Event, len(sources))
	calErrs := make([][]error, len(sources))
	acctErrs := make([]error, len(sources))
	for i, src := range sources {
		events[i] = make([][]avail.Event, len(src.CalendarIDs))
		calErrs[i] = make([]error, len(src.CalendarIDs))
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			logger := logging.WithAccount(logging.WithProvider(r.logger, src.Provider.Name()), src.Account)

			token, err := src.Provider.RefreshToken(ctx, src.RefreshToken)
			if err != nil {
				r.metrics.RecordTokenRefresh(ctx, src.Provider.Name(), "failure")
				logger.Warn("token refresh failed", logging.Err(err))
				acctErrs[i] = fmt.Errorf("failed to refresh access token: %w", err)
				return nil
			}
			r.metrics.RecordTokenRefresh(ctx, src.Provider.Name(), "success")

			gate := r.gate(src.Provider)
			for j, calendarID := range src.CalendarIDs {
				g.Go(func() error {
					if gate != nil {
						if err := gate.Acquire(ctx, 1); err != nil {
							return err
						}
						defer gate.Release(1)
					}

					start := time.Now()
					evs, err := src.Provider.FetchEvents(ctx, token, calendarID, window)
					if err != nil {
						r.metrics.RecordFetch(ctx, src.Provider.Name(), instrumentation.StatusError, 0, time.Since(start))
						logger.Warn("calendar fetch failed",
							logging.Calendar(calendarID), logging.Err(err))
						calErrs[i][j] = err
						return nil
					}
					r.metrics.RecordFetch(ctx, src.Provider.Name(), instrumentation.StatusSuccess, len(evs), time.Since(start))
					logger.Debug("fetched calendar",
						logging.Calendar(calendarID),
						slog.Int("events", len(evs)),
						slog.Duration(logging.KeyDuration, time.Since(start)))
					events[i][j] = evs
					return nil
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var res Result
	for i, src := range sources {
		if acctErrs[i] != nil {
			res.Failures = append(res.Failures, Failure{Account: src.Account, Err: acctErrs[i]})
			continue
		}
		for j, calendarID := range src.CalendarIDs {
			if calErrs[i][j] != nil {
				res.Failures = append(res.Failures, Failure{
					Account:    src.Account,
					CalendarID: calendarID,
					Err:        calErrs[i][j],
				})
				continue
			}
			res.Events = append(res.Events, events[i][j]...)
		}
	}
	return res, nil
}
