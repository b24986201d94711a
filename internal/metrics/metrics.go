package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the signal pipeline. Registered on the default registry;
// exposition is the embedder's concern.
var (
	SignalsComposed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptosignal_signals_composed_total",
		Help: "Signals composed, labeled by final action.",
	}, []string{"action"})

	ProviderErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptosignal_provider_errors_total",
		Help: "Upstream provider fetch failures.",
	}, []string{"provider"})

	FallbacksUsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptosignal_fallbacks_total",
		Help: "Documented fallback values used, labeled by component.",
	}, []string{"component"})

	RefinementsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cryptosignal_refinements_applied_total",
		Help: "AI refinements accepted after validation.",
	})

	RefinementsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cryptosignal_refinements_rejected_total",
		Help: "AI refinements discarded as invalid or unavailable.",
	})
)
