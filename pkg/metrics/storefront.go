package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Storefront records shopper-facing state transitions plus housekeeping job runs.
type Storefront struct {
	cartMutations     *prometheus.CounterVec
	favoriteMutations *prometheus.CounterVec
	gateDecisions     *prometheus.CounterVec
	storageFailures   *prometheus.CounterVec
	persistDuration   *prometheus.HistogramVec
	jobRuns           *prometheus.CounterVec
	jobDuration       *prometheus.HistogramVec
}

// NewStorefront registers the storefront metrics on the provided registerer.
// A nil registerer yields a recorder whose methods are no-ops.
func NewStorefront(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plantweb",
		Name:      "cart_mutations_total",
		Help:      "Cart store mutations by operation.",
	}, []string{"op"})
	favoriteMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plantweb",
		Name:      "favorites_mutations_total",
		Help:      "Favorites store mutations by operation.",
	}, []string{"op"})
	gateDecisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plantweb",
		Name:      "gate_decisions_total",
		Help:      "Access gate evaluations by resulting state.",
	}, []string{"state"})
	storageFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plantweb",
		Name:      "storage_soft_failures_total",
		Help:      "Storage read/write/parse failures that were degraded to a safe default.",
	}, []string{"store", "op"})
	persistDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "plantweb",
		Name:      "storage_persist_seconds",
		Help:      "Time spent mirroring a store to durable storage.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"store"})
	jobRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plantweb",
		Name:      "housekeeping_job_runs_total",
		Help:      "Housekeeping job executions by result.",
	}, []string{"job", "result"})
	jobDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "plantweb",
		Name:      "housekeeping_job_duration_seconds",
		Help:      "Housekeeping job runtime.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})
	reg.MustRegister(cartMutations, favoriteMutations, gateDecisions, storageFailures, persistDuration, jobRuns, jobDuration)
	return &Storefront{
		cartMutations:     cartMutations,
		favoriteMutations: favoriteMutations,
		gateDecisions:     gateDecisions,
		storageFailures:   storageFailures,
		persistDuration:   persistDuration,
		jobRuns:           jobRuns,
		jobDuration:       jobDuration,
	}
}

func (s *Storefront) IncCartMutation(op string) {
	if s == nil || s.cartMutations == nil {
		return
	}
	s.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

func (s *Storefront) IncFavoritesMutation(op string) {
	if s == nil || s.favoriteMutations == nil {
		return
	}
	s.favoriteMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

func (s *Storefront) IncGateDecision(state string) {
	if s == nil || s.gateDecisions == nil {
		return
	}
	s.gateDecisions.WithLabelValues(normalizeLabel(state)).Inc()
}

func (s *Storefront) IncStorageFailure(store, op string) {
	if s == nil || s.storageFailures == nil {
		return
	}
	s.storageFailures.WithLabelValues(normalizeLabel(store), normalizeLabel(op)).Inc()
}

func (s *Storefront) ObservePersist(store string, d time.Duration) {
	if s == nil || s.persistDuration == nil {
		return
	}
	s.persistDuration.WithLabelValues(normalizeLabel(store)).Observe(d.Seconds())
}

// ObserveJob records one housekeeping run; a non-nil err counts as a failure.
func (s *Storefront) ObserveJob(job string, d time.Duration, err error) {
	if s == nil || s.jobRuns == nil {
		return
	}
	job = normalizeLabel(job)
	result := "success"
	if err != nil {
		result = "failure"
	}
	s.jobRuns.WithLabelValues(job, result).Inc()
	s.jobDuration.WithLabelValues(job).Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
