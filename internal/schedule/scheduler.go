package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/avail-cli/avail/internal/avail"
	"github.com/avail-cli/avail/internal/instrumentation"
	"github.com/avail-cli/avail/internal/logging"
	"github.com/avail-cli/avail/internal/provider"
)

// holdPrefix marks events written by this tool so they are recognizable
// in the calendar UI.
const holdPrefix = "HOLD - "

// HoldTitle returns the subject line used for a hold event.
func HoldTitle(title string) string {
	return holdPrefix + title
}

// Target is the calendar an account designates for hold events.
type Target struct {
	Account      string
	Provider     provider.Provider
	RefreshToken string
	CalendarID   string
}

// Failure records one window that could not be written.
type Failure struct {
	Account string
	Window  avail.Availability
	Err     error
}

func (f Failure) String() string {
	return fmt.Sprintf("account %s window %s: %v", f.Account, f.Window.Label(), f.Err)
}

// Scheduler writes hold events with per-platform admission control.
type Scheduler struct {
	logger  *slog.Logger
	metrics *instrumentation.Metrics

	mu    sync.Mutex
	gates map[string]*semaphore.Weighted
}

// New creates a Scheduler. Both arguments may be nil.
func New(logger *slog.Logger, metrics *instrumentation.Metrics) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}
	return &Scheduler{
		logger:  logger,
		metrics: metrics,
		gates:   make(map[string]*semaphore.Weighted),
	}
}

func (s *Scheduler) gate(p provider.Provider) *semaphore.Weighted {
	limit := p.Concurrency()
	if limit <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gates[p.Name()]
	if !ok {
		g = semaphore.NewWeighted(int64(limit))
		s.gates[p.Name()] = g
	}
	return g
}

// Create writes one hold event per window onto the target calendar. The
// access token is refreshed once; a refresh failure fails every window.
// The returned failures list is empty when all writes succeeded, and the
// error is non-nil only on context cancellation.
func (s *Scheduler) Create(ctx context.Context, target Target, title string, windows []avail.Availability) ([]Failure, error) {
	logger := logging.WithAccount(logging.WithProvider(s.logger, target.Provider.Name()), target.Account)

	token, err := target.Provider.RefreshToken(ctx, target.RefreshToken)
	if err != nil {
		s.metrics.RecordTokenRefresh(ctx, target.Provider.Name(), "failure")
		logger.Warn("token refresh failed", logging.Err(err))
		failures := make([]Failure, 0, len(windows))
		refreshErr := fmt.Errorf("failed to refresh access token: %w", err)
		for _, w := range windows {
			failures = append(failures, Failure{Account: target.Account, Window: w, Err: refreshErr})
		}
		return failures, nil
	}
	s.metrics.RecordTokenRefresh(ctx, target.Provider.Name(), "success")

	subject := HoldTitle(title)
	gate := s.gate(target.Provider)
	errs := make([]error, len(windows))

	g, ctx := errgroup.WithContext(ctx)
	for i, w := range windows {
		g.Go(func() error {
			if gate != nil {
				if err := gate.Acquire(ctx, 1); err != nil {
					return err
				}
				defer gate.Release(1)
			}

			err := target.Provider.CreateEvent(ctx, token, target.CalendarID, subject, w.Start, w.End)
			if err != nil {
				s.metrics.RecordHoldEvent(ctx, target.Provider.Name(), instrumentation.StatusError)
				logger.Warn("hold event write failed",
					logging.Calendar(target.CalendarID), logging.Err(err))
				errs[i] = err
				return nil
			}
			s.metrics.RecordHoldEvent(ctx, target.Provider.Name(), instrumentation.StatusSuccess)
			logger.Debug("wrote hold event",
				logging.Calendar(target.CalendarID),
				slog.String("window", w.Label()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var failures []Failure
	for i, w := range windows {
		if errs[i] != nil {
			failures = append(failures, Failure{Account: target.Account, Window: w, Err: errs[i]})
		}
	}
	return failures, nil
}
