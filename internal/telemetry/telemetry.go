// Package telemetry exports Prometheus metrics for bootstrap runs.
// A short-lived CLI has nothing to scrape, so the registry is written to a
// file for the node-exporter textfile collector.
package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog_reviewer_db"

// Run results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics holds the bootstrap metrics. A nil *Metrics records nothing.
type Metrics struct {
	CollectionsCreated *prometheus.CounterVec
	ValidatorsSynced   *prometheus.CounterVec
	IndexesEnsured     *prometheus.CounterVec
	SeedInserted       prometheus.Counter

	RunDuration prometheus.Histogram
	RunsTotal   *prometheus.CounterVec
	LastSuccess prometheus.Gauge
}

// New registers the metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CollectionsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collections_created_total",
			Help:      "Collections created by the bootstrap",
		}, []string{"collection"}),
		ValidatorsSynced: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validators_synced_total",
			Help:      "Validators re-applied to existing collections with collMod",
		}, []string{"collection"}),
		IndexesEnsured: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "indexes_ensured_total",
			Help:      "Secondary indexes declared per collection",
		}, []string{"collection"}),
		SeedInserted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seed_documents_inserted_total",
			Help:      "Seed documents inserted (upserts that matched nothing)",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a bootstrap run",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Bootstrap runs by result",
		}, []string{"result"}),
		LastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful bootstrap run",
		}),
	}
}

// RecordCollectionCreated counts a newly created collection.
func (m *Metrics) RecordCollectionCreated(collection string) {
	if m == nil {
		return
	}
	m.CollectionsCreated.WithLabelValues(collection).Inc()
}

// RecordValidatorSynced counts a collMod on an existing collection.
func (m *Metrics) RecordValidatorSynced(collection string) {
	if m == nil {
		return
	}
	m.ValidatorsSynced.WithLabelValues(collection).Inc()
}

// RecordIndexesEnsured adds n declared indexes for collection.
func (m *Metrics) RecordIndexesEnsured(collection string, n int) {
	if m == nil {
		return
	}
	m.IndexesEnsured.WithLabelValues(collection).Add(float64(n))
}

// RecordSeedInserted counts an inserted seed document.
func (m *Metrics) RecordSeedInserted() {
	if m == nil {
		return
	}
	m.SeedInserted.Inc()
}

// RecordRun observes a finished run. finishedAt stamps LastSuccess when err is nil.
func (m *Metrics) RecordRun(duration time.Duration, finishedAt time.Time, err error) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(duration.Seconds())
	if err != nil {
		m.RunsTotal.WithLabelValues(ResultFailure).Inc()
		return
	}
	m.RunsTotal.WithLabelValues(ResultSuccess).Inc()
	m.LastSuccess.Set(float64(finishedAt.Unix()))
}

// WriteTextfile writes everything g gathers to path in the text exposition
// format. The write is atomic.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
