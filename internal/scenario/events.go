// Package scenario produces synthetic supplier traffic for analytics and load tools.
package scenario

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
)

// FailureCauses are the error strings attached to generated failed events.
var FailureCauses = []string{
	"upstream timeout",
	"signature mismatch",
	"payload schema drift",
	"snapshot store locked",
	"supplier rate limited",
}

// StatusWeights is the share of each status in generated traffic, in percent.
type StatusWeights struct {
	Completed int
	Failed    int
	Retrying  int
	Pending   int
}

// DefaultStatusWeights skews heavily toward completed deliveries.
var DefaultStatusWeights = StatusWeights{Completed: 85, Failed: 8, Retrying: 4, Pending: 3}

// Config shapes GenerateWebhookEvents output. Zero values pick defaults.
type Config struct {
	Count          int
	End            time.Time
	Window         time.Duration
	Sources        []domain.Source
	Weights        StatusWeights
	BaseResponseMS int
	JitterMS       int
}

func (c Config) withDefaults() Config {
	if c.Count <= 0 {
		c.Count = 100
	}
	if c.End.IsZero() {
		c.End = time.Now().UTC()
	}
	if c.Window <= 0 {
		c.Window = 24 * time.Hour
	}
	if len(c.Sources) == 0 {
		c.Sources = []domain.Source{domain.SourceSSActivewear, domain.SourceSanMar}
	}
	if c.Weights == (StatusWeights{}) {
		c.Weights = DefaultStatusWeights
	}
	if c.BaseResponseMS <= 0 {
		c.BaseResponseMS = 120
	}
	if c.JitterMS <= 0 {
		c.JitterMS = 80
	}
	return c
}

// GenerateWebhookEvents returns cfg.Count events ordered by ReceivedAt.
func GenerateWebhookEvents(rng *rand.Rand, cfg Config) []domain.WebhookEvent {
	cfg = cfg.withDefaults()
	start := cfg.End.Add(-cfg.Window)
	step := cfg.Window / time.Duration(cfg.Count)

	events := make([]domain.WebhookEvent, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		receivedAt := start.Add(time.Duration(i) * step)
		if step > 0 {
			receivedAt = receivedAt.Add(time.Duration(rng.Int64N(int64(step))))
		}
		status := pickStatus(rng, cfg.Weights)
		responseMS := int64(cfg.BaseResponseMS + rng.IntN(cfg.JitterMS+1))

		event := domain.WebhookEvent{
			ID:         fmt.Sprintf("sim-%016x", rng.Uint64()),
			Source:     cfg.Sources[rng.IntN(len(cfg.Sources))],
			EventType:  domain.EventInventoryUpdated,
			Status:     status,
			ReceivedAt: receivedAt,
			Payload:    domain.WebhookPayload{Products: []domain.ProductInventoryUpdate{}, Timestamp: receivedAt},
		}
		switch status {
		case domain.StatusFailed:
			// failures usually wait on a timeout before giving up
			responseMS = responseMS*3 + int64(rng.IntN(cfg.JitterMS*4+1))
			event.Error = FailureCauses[rng.IntN(len(FailureCauses))]
		case domain.StatusRetrying:
			event.RetryCount = 1 + rng.IntN(3)
			event.Error = FailureCauses[rng.IntN(len(FailureCauses))]
		}
		if status == domain.StatusCompleted || status == domain.StatusFailed {
			processedAt := receivedAt.Add(time.Duration(responseMS) * time.Millisecond)
			event.ProcessedAt = &processedAt
			event.ResponseTimeMS = responseMS
		}
		events = append(events, event)
	}
	return events
}

func pickStatus(rng *rand.Rand, w StatusWeights) domain.EventStatus {
	total := w.Completed + w.Failed + w.Retrying + w.Pending
	if total <= 0 {
		return domain.StatusCompleted
	}
	roll := rng.IntN(total)
	switch {
	case roll < w.Completed:
		return domain.StatusCompleted
	case roll < w.Completed+w.Failed:
		return domain.StatusFailed
	case roll < w.Completed+w.Failed+w.Retrying:
		return domain.StatusRetrying
	default:
		return domain.StatusPending
	}
}

// NewRand seeds a PCG generator. A zero seed uses the current time.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
