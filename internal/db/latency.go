package db

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fr0stylo/stockwatch/internal/observability"
)

const maxSamplesPerQuery = 512

// QueryLatency is the latency distribution of one named statement.
type QueryLatency struct {
	Name  string
	Count int
	P50   time.Duration
	P95   time.Duration
	Max   time.Duration
}

type queryLatencyTracker struct {
	mu      sync.Mutex
	samples map[string][]time.Duration
}

func newQueryLatencyTracker() *queryLatencyTracker {
	return &queryLatencyTracker{samples: make(map[string][]time.Duration)}
}

func (t *queryLatencyTracker) observe(name string, duration time.Duration) {
	if t == nil {
		return
	}
	if name = strings.TrimSpace(name); name == "" {
		name = "unknown"
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	window := append(t.samples[name], duration)
	if over := len(window) - maxSamplesPerQuery; over > 0 {
		window = slices.Delete(window, 0, over)
	}
	t.samples[name] = window
}

func (t *queryLatencyTracker) snapshot() []QueryLatency {
	if t == nil {
		return nil
	}

	t.mu.Lock()
	out := make([]QueryLatency, 0, len(t.samples))
	for name, durations := range t.samples {
		if len(durations) == 0 {
			continue
		}
		sorted := slices.Clone(durations)
		slices.Sort(sorted)
		last := len(sorted) - 1
		out = append(out, QueryLatency{
			Name:  name,
			Count: len(sorted),
			P50:   sorted[last/2],
			P95:   sorted[int(float64(last)*0.95)],
			Max:   sorted[last],
		})
	}
	t.mu.Unlock()

	// slowest p95 first
	slices.SortFunc(out, func(a, b QueryLatency) int {
		if a.P95 != b.P95 {
			if a.P95 > b.P95 {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// QueryLatencyStats returns per-statement latency samples, slowest first.
func (c *Database) QueryLatencyStats() []QueryLatency {
	return c.tracker.snapshot()
}

// run wraps one named statement in a DB span and records its latency.
func (c *Database) run(ctx context.Context, name, operation string, fn func(context.Context) error) error {
	ctx, span := observability.StartDBSpan(ctx, name, operation)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	c.tracker.observe(name, time.Since(start))
	span.RecordError(err)
	return err
}
