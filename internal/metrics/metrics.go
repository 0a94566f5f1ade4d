package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	lastCallLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about provider calls,
// commands, and change notifications, mirrored to OpenTelemetry when exporters
// are configured. The in-memory side stays queryable for tests.
type Recorder struct {
	mu           sync.Mutex
	stats        map[string]*providerStats
	commands     map[string]map[string]int // command -> outcome -> count
	changeEvents int
	otel         *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:    make(map[string]*providerStats),
		commands: make(map[string]map[string]int),
		otel:     otel,
	}
}

// RecordProviderAttempt increments counters for a provider call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStatsLocked(provider)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, duration, err)
	}
}

// RecordCommand tracks a lifecycle command outcome (create/accept/finish/move/delete).
func (r *Recorder) RecordCommand(command, outcome string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	outcomes, ok := r.commands[command]
	if !ok {
		outcomes = make(map[string]int)
		r.commands[command] = outcomes
	}
	outcomes[outcome]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCommand(command, outcome)
	}
}

// RecordChangeEvent tracks a change-detection notification.
func (r *Recorder) RecordChangeEvent() {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.changeEvents++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordChangeEvent()
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordPollerCycle tracks poller cycles and errors.
func (r *Recorder) RecordPollerCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordPoller(duration, err)
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// CommandCount returns the recorded count for a command/outcome pair.
func (r *Recorder) CommandCount(command, outcome string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commands[command][outcome]
}

// ChangeEvents returns the number of change notifications recorded.
func (r *Recorder) ChangeEvents() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.changeEvents
}

// Snapshot is a copy of the current stats for a provider.
type Snapshot struct {
	Calls           int
	Errors          int
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.stats[provider]; ok && stats != nil {
		return Snapshot{
			Calls:           stats.calls,
			Errors:          stats.errors,
			LastCallLatency: stats.lastCallLatency,
		}
	}
	return Snapshot{}
}

func (r *Recorder) ensureStatsLocked(provider string) *providerStats {
	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{}
		r.stats[provider] = stats
	}
	return stats
}
