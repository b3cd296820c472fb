package services

import (
	"slices"
	"strings"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
)

// ResponseTimeStats summarizes handling latency in milliseconds.
type ResponseTimeStats struct {
	P50 int64   `json:"p50"`
	P95 int64   `json:"p95"`
	Max int64   `json:"max"`
	Avg float64 `json:"avg"`
}

// EventSummary is the webhook analytics view over a set of events.
type EventSummary struct {
	Total         int                        `json:"total"`
	ByStatus      map[domain.EventStatus]int `json:"byStatus"`
	BySource      map[domain.Source]int      `json:"bySource"`
	SuccessRate   float64                    `json:"successRate"`
	ResponseTime  ResponseTimeStats          `json:"responseTime"`
	FailureCauses map[string]int             `json:"failureCauses"`
	Retries       int                        `json:"retries"`
}

// SummarizeEvents computes status totals, success rate and latency percentiles.
// Success rate only counts settled events (completed or failed). Latency
// only covers events with a ProcessedAt.
func SummarizeEvents(events []domain.WebhookEvent) EventSummary {
	summary := EventSummary{
		Total:         len(events),
		ByStatus:      map[domain.EventStatus]int{},
		BySource:      map[domain.Source]int{},
		FailureCauses: map[string]int{},
	}
	if len(events) == 0 {
		return summary
	}

	latencies := make([]int64, 0, len(events))
	var total int64
	for _, event := range events {
		summary.ByStatus[event.Status]++
		summary.BySource[event.Source]++
		summary.Retries += event.RetryCount
		if event.Status == domain.StatusFailed {
			cause := strings.TrimSpace(event.Error)
			if cause == "" {
				cause = "unknown"
			}
			summary.FailureCauses[cause]++
		}
		if event.ProcessedAt == nil {
			continue
		}
		latencies = append(latencies, event.ResponseTimeMS)
		total += event.ResponseTimeMS
	}

	settled := summary.ByStatus[domain.StatusCompleted] + summary.ByStatus[domain.StatusFailed]
	if settled > 0 {
		summary.SuccessRate = float64(summary.ByStatus[domain.StatusCompleted]) / float64(settled)
	}

	if len(latencies) == 0 {
		return summary
	}
	slices.Sort(latencies)
	last := len(latencies) - 1
	summary.ResponseTime = ResponseTimeStats{
		P50: latencies[last/2],
		P95: latencies[int(float64(last)*0.95)],
		Max: latencies[last],
		Avg: float64(total) / float64(len(latencies)),
	}
	return summary
}
