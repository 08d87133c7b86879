// Package stats keeps per-interval request and error counts and reports them
// on a schedule.
package stats

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Counter tracks requests and failed requests. Safe for concurrent use.
type Counter struct {
	requests atomic.Int64
	errors   atomic.Int64
}

// Snapshot is the value of a Counter at a point in time.
type Snapshot struct {
	Requests int64
	Errors   int64
}

// Observe records one finished request with the given HTTP status.
// Any status of 400 and above counts as an error.
func (c *Counter) Observe(status int) {
	c.requests.Add(1)
	if status >= 400 {
		c.errors.Add(1)
	}
}

// Snapshot reads the counters without resetting them.
func (c *Counter) Snapshot() Snapshot {
	return Snapshot{Requests: c.requests.Load(), Errors: c.errors.Load()}
}

// Reset returns the current counts and sets both counters back to zero.
func (c *Counter) Reset() Snapshot {
	return Snapshot{Requests: c.requests.Swap(0), Errors: c.errors.Swap(0)}
}

// Reporter logs and resets a Counter on a fixed interval.
type Reporter struct {
	cron    *cron.Cron
	counter *Counter
	logger  *slog.Logger
}

// NewReporter schedules the report job; call Start to begin.
func NewReporter(counter *Counter, interval time.Duration, logger *slog.Logger) (*Reporter, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := &Reporter{
		cron:    cron.New(cron.WithSeconds()),
		counter: counter,
		logger:  logger,
	}

	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	if _, err := r.cron.AddFunc(fmt.Sprintf("@every %ds", seconds), r.Report); err != nil {
		return nil, fmt.Errorf("schedule report: %w", err)
	}
	return r, nil
}

// Report logs the counts accumulated since the last report and resets them.
func (r *Reporter) Report() {
	snap := r.counter.Reset()
	r.logger.Info("request stats",
		slog.Int64("requests", snap.Requests),
		slog.Int64("errors", snap.Errors))
}

func (r *Reporter) Start() {
	r.cron.Start()
}

// Stop halts the scheduler and waits for a running report to finish.
func (r *Reporter) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}
