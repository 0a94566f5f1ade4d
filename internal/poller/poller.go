package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"academy-match-service/internal/domain"
	"academy-match-service/internal/logging"
	"academy-match-service/internal/metrics"
	"academy-match-service/internal/providers"
)

const defaultInterval = 15 * time.Second

// Config controls a Subscription.
type Config struct {
	Interval time.Duration
	Enabled  bool
	// OnUpdate receives every successfully fetched payload (last-fetch-wins).
	// It runs on the subscription goroutine, never after Stop.
	OnUpdate func(requests []domain.MatchRequest)
}

// State is the live view a Subscription exposes. A failed fetch sets Err and
// keeps the previous Data (stale-but-available).
type State struct {
	Data        []domain.MatchRequest
	Loading     bool
	Err         error
	LastUpdated time.Time
}

// Status describes the recent health of the subscription loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the subscription has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// Subscription fetches the match snapshot on an interval. All fetches run on
// one goroutine, so ticks are never concurrent with each other; Refresh is an
// out-of-band tick through the same loop. After Stop no state is mutated,
// even by a fetch already in flight.
type Subscription struct {
	provider providers.MatchLister
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	enabled  bool
	onUpdate func([]domain.MatchRequest)

	ticker    *time.Ticker
	done      chan struct{}
	refreshCh chan struct{}
	stopOnce  sync.Once
	startMu   sync.Mutex
	started   bool

	mu     sync.RWMutex
	state  State
	status Status
}

// New constructs a Subscription with sane defaults.
func New(provider providers.MatchLister, logger *slog.Logger, recorder *metrics.Recorder, cfg Config) *Subscription {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Subscription{
		provider:  provider,
		logger:    logger,
		metrics:   recorder,
		interval:  interval,
		enabled:   cfg.Enabled,
		onUpdate:  cfg.OnUpdate,
		done:      make(chan struct{}),
		refreshCh: make(chan struct{}, 1),
	}
}

// Start begins polling until the context is cancelled or Stop is called.
// The first fetch happens immediately, then every interval.
func (s *Subscription) Start(ctx context.Context) {
	if !s.enabled {
		return
	}

	s.startMu.Lock()
	if s.started {
		s.startMu.Unlock()
		return
	}
	s.started = true
	s.startMu.Unlock()

	s.ticker = time.NewTicker(s.interval)

	go func() {
		s.logInfo("subscription started", slog.Int64(logging.FieldDurationMS, s.interval.Milliseconds()))
		s.fetchOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				s.stopTicker()
				s.logInfo("subscription stopped")
				return
			case <-s.done:
				s.stopTicker()
				s.logInfo("subscription stopped")
				return
			case <-s.refreshCh:
				s.fetchOnce(ctx)
			case <-s.ticker.C:
				s.fetchOnce(ctx)
			}
		}
	}()
}

// Stop halts the polling loop. Idempotent. Results of a fetch still in flight
// are discarded.
func (s *Subscription) Stop(ctx context.Context) error {
	_ = ctx
	s.stopOnce.Do(func() {
		close(s.done)
		s.stopTicker()
	})
	return nil
}

// Refresh requests an out-of-band fetch without disturbing the timer cadence.
// A refresh already pending is coalesced.
func (s *Subscription) Refresh() {
	select {
	case s.refreshCh <- struct{}{}:
	default:
	}
}

// View returns a copy of the live state.
func (s *Subscription) View() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Status returns a snapshot of the subscription's recent health.
func (s *Subscription) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Provider exposes the underlying provider (primarily for cleanup in callers).
func (s *Subscription) Provider() providers.MatchLister {
	return s.provider
}

func (s *Subscription) fetchOnce(ctx context.Context) {
	start := time.Now()
	s.apply(func() {
		s.state.Loading = true
		s.status.LastAttempt = start
	})

	requests, err := s.provider.FetchMatches(ctx)
	if s.metrics != nil {
		s.metrics.RecordPollerCycle(time.Since(start), err)
	}

	if err != nil {
		// Keep the previous data; stale beats empty. The next tick retries.
		s.apply(func() {
			s.state.Loading = false
			s.state.Err = err
			s.status.ConsecutiveFailures++
			s.status.LastError = err.Error()
		})
		s.logError("subscription fetch failed", err,
			slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
		return
	}

	var updated bool
	s.apply(func() {
		s.state.Data = requests
		s.state.Loading = false
		s.state.Err = nil
		s.state.LastUpdated = time.Now()
		s.status.ConsecutiveFailures = 0
		s.status.LastError = ""
		s.status.LastSuccess = start
		updated = true
	})
	if updated && s.onUpdate != nil {
		s.onUpdate(requests)
	}
	s.logInfo("subscription refreshed matches",
		logging.FieldCount, len(requests),
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
}

// apply runs a state mutation unless the subscription has been stopped. This
// is the teardown guard: a fetch resolving after Stop mutates nothing.
func (s *Subscription) apply(mutate func()) {
	select {
	case <-s.done:
		return
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
		return
	default:
	}
	mutate()
}

func (s *Subscription) stopTicker() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
}

func (s *Subscription) logInfo(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Subscription) logError(msg string, err error, attrs ...any) {
	if s.logger != nil {
		s.logger.Error(msg, append(attrs, "error", err)...)
	}
}
