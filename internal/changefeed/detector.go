package changefeed

import (
	"log/slog"
	"reflect"
	"sync"
	"time"

	"academy-match-service/internal/domain"
	"academy-match-service/internal/logging"
	"academy-match-service/internal/metrics"
)

const defaultHold = 2 * time.Second

// Notifier receives a user-facing signal when the board content changed.
type Notifier interface {
	NotifyChanged(requests []domain.MatchRequest)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(requests []domain.MatchRequest)

func (f NotifierFunc) NotifyChanged(requests []domain.MatchRequest) { f(requests) }

// Detector diffs successive poll payloads structurally and raises a transient
// changed flag that clears itself after the hold window. Polling always yields
// fresh instances, so comparison goes over the full value shape, never
// references. Identical consecutive payloads raise nothing.
type Detector struct {
	hold     time.Duration
	logger   *slog.Logger
	metrics  *metrics.Recorder
	notifier Notifier
	now      func() time.Time

	mu       sync.Mutex
	seeded   bool
	previous []domain.MatchRequest
	raisedAt time.Time
}

// Option configures a Detector.
type Option func(*Detector)

// WithHold overrides how long the changed flag stays raised.
func WithHold(hold time.Duration) Option {
	return func(d *Detector) {
		if hold > 0 {
			d.hold = hold
		}
	}
}

// WithNotifier attaches a user-facing notifier.
func WithNotifier(n Notifier) Option {
	return func(d *Detector) { d.notifier = n }
}

// New constructs a Detector.
func New(logger *slog.Logger, recorder *metrics.Recorder, opts ...Option) *Detector {
	d := &Detector{
		hold:    defaultHold,
		logger:  logger,
		metrics: recorder,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Observe feeds one poll payload into the detector and reports whether it
// differed from the previous one. The very first payload seeds the baseline
// without raising a notification.
func (d *Detector) Observe(requests []domain.MatchRequest) bool {
	d.mu.Lock()

	if !d.seeded {
		d.seeded = true
		d.previous = snapshot(requests)
		d.mu.Unlock()
		return false
	}

	if equalPayload(d.previous, requests) {
		d.mu.Unlock()
		return false
	}

	d.previous = snapshot(requests)
	d.raisedAt = d.now()
	notifier := d.notifier
	d.mu.Unlock()

	if d.metrics != nil {
		d.metrics.RecordChangeEvent()
	}
	logging.Info(d.logger, "board changed", logging.FieldCount, len(requests))
	if notifier != nil {
		notifier.NotifyChanged(requests)
	}
	return true
}

// Changed reports whether a change was observed within the hold window. The
// flag auto-clears; no timer is needed since reads compare against raisedAt.
func (d *Detector) Changed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.raisedAt.IsZero() {
		return false
	}
	return d.now().Sub(d.raisedAt) < d.hold
}

// LastChange returns when the most recent change was observed.
func (d *Detector) LastChange() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.raisedAt
}

func snapshot(requests []domain.MatchRequest) []domain.MatchRequest {
	out := make([]domain.MatchRequest, len(requests))
	copy(out, requests)
	return out
}

// equalPayload compares two payloads by value. Nil and empty are the same
// board; byte-identical content must never read as changed just because the
// instances are fresh.
func equalPayload(a, b []domain.MatchRequest) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
