package aggregates

import (
	"strings"
	"time"

	"github.com/yungbote/mapping-manager/internal/data/repos/vocabulary"
	domainagg "github.com/yungbote/mapping-manager/internal/domain/aggregates"
	"github.com/yungbote/mapping-manager/internal/observability"
)

// Hooks receives registry write outcomes and the target lookups the write path makes.
type Hooks interface {
	ObserveOperation(op, outcome string, dur time.Duration)
	IncConflict(op string)
	IncRetry(op string)
	vocabulary.CacheObserver
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}
func (noopHooks) ObserveTargetLookup(string, string)             {}

// knownOutcomes bounds the outcome label; anything else is reported as internal.
var knownOutcomes = map[string]struct{}{
	"success":                                {},
	string(domainagg.CodeValidation):         {},
	string(domainagg.CodeNotFound):           {},
	string(domainagg.CodeTargetNotFound):     {},
	string(domainagg.CodeConflict):           {},
	string(domainagg.CodePreconditionFailed): {},
	string(domainagg.CodeRetryable):          {},
	string(domainagg.CodeInternal):           {},
}

func outcomeLabel(outcome string) string {
	outcome = strings.TrimSpace(outcome)
	if _, ok := knownOutcomes[outcome]; ok {
		return outcome
	}
	return string(domainagg.CodeInternal)
}

func opLabel(op string) string {
	op = strings.TrimSpace(op)
	if op == "" {
		return "aggregate.write"
	}
	return op
}

type registryHooks struct {
	metrics *observability.Metrics
}

// NewRegistryHooks reports write outcomes and target cache lookups to metrics. A nil
// metrics set yields hooks that drop every event.
func NewRegistryHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return &registryHooks{metrics: metrics}
}

func (h *registryHooks) ObserveOperation(op, outcome string, dur time.Duration) {
	h.metrics.ObserveAggregateOperation(opLabel(op), outcomeLabel(outcome), dur)
}

func (h *registryHooks) IncConflict(op string) {
	h.metrics.IncAggregateConflict(opLabel(op))
}

func (h *registryHooks) IncRetry(op string) {
	h.metrics.IncAggregateRetry(opLabel(op))
}

func (h *registryHooks) ObserveTargetLookup(layer, result string) {
	h.metrics.ObserveTargetLookup(strings.TrimSpace(layer), strings.TrimSpace(result))
}
