package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

// Metric namespace and subsystems.
const (
	metricsNamespace      = "asset_optimizer"
	metricsSubsystemPhase = "phase"
	metricsSubsystemApply = "apply"
)

// Metrics holds the pipeline counters on a private registry, so repeated
// runs in one process (watch mode, tests) never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	Scanned *prometheus.CounterVec
	Changed *prometheus.CounterVec
	Skipped *prometheus.CounterVec
	Errors  *prometheus.CounterVec
	// Changes counts individual changes applied, by change field.
	Changes *prometheus.CounterVec
}

func phaseCounter(name, help string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystemPhase,
			Name:      name,
			Help:      help,
		},
		[]string{"phase", "category"},
	)
}

// NewMetrics creates and registers the pipeline counters.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Scanned:  phaseCounter("scanned_total", "Assets or records read by a phase."),
		Changed:  phaseCounter("changed_total", "Records changed by a phase."),
		Skipped:  phaseCounter("skipped_total", "Records skipped by a phase."),
		Errors:   phaseCounter("errors_total", "Records that failed in a phase."),
		Changes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystemApply,
				Name:      "changes_total",
				Help:      "Individual property changes applied, by field.",
			},
			[]string{"field"},
		),
	}
	m.registry.MustRegister(m.Scanned, m.Changed, m.Skipped, m.Errors, m.Changes)
	return m
}

// ObserveCategory adds one category result to the phase counters.
func (m *Metrics) ObserveCategory(r types.CategoryResult) {
	phase, category := string(r.Phase), string(r.Category)
	m.Scanned.WithLabelValues(phase, category).Add(float64(r.Scanned))
	m.Changed.WithLabelValues(phase, category).Add(float64(r.Changed))
	m.Skipped.WithLabelValues(phase, category).Add(float64(r.Skipped))
	m.Errors.WithLabelValues(phase, category).Add(float64(r.Errors))
}

// ChangeApplied counts one applied change.
func (m *Metrics) ChangeApplied(field string) {
	if field == "" {
		field = "unknown"
	}
	m.Changes.WithLabelValues(field).Inc()
}

// Gatherer exposes the private registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes all metrics in Prometheus text format to path.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
