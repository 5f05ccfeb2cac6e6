// Package metrics exposes Prometheus metrics for rule evaluation, the
// audit journal, compliance reports and pipeline runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mizan-hq/mizan/pkg/config"
)

// Collector registers and records all Mizan Prometheus metrics.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	decisionsTotal   *prometheus.CounterVec
	evalDuration     *prometheus.HistogramVec
	ruleSetSize      prometheus.Gauge
	ruleLoadsTotal   *prometheus.CounterVec
	auditAppends     prometheus.Counter
	auditDegraded    prometheus.Gauge
	verifyFailures   prometheus.Counter
	complianceChecks *prometheus.CounterVec
	complianceScore  prometheus.Histogram
	pipelineRuns     *prometheus.CounterVec
	pipelineDuration prometheus.Histogram
}

// NewCollector creates a metrics collector registered against the
// given registry. A nil registry gets a fresh one.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "mizan"
	}
	ns := cfg.Namespace

	c := &Collector{
		config:   cfg,
		registry: registry,

		decisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "decisions_total",
			Help:      "Rule engine decisions by result.",
		}, []string{"result"}),

		evalDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "evaluation_duration_seconds",
			Help:      "Rule evaluation duration.",
			Buckets:   []float64{.00001, .0001, .001, .01, .1},
		}, []string{"result"}),

		ruleSetSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "rule_set_size",
			Help:      "Number of rules currently loaded.",
		}),

		ruleLoadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "rule_loads_total",
			Help:      "Rule set load attempts by outcome.",
		}, []string{"outcome"}),

		auditAppends: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "audit_appends_total",
			Help:      "Audit entries appended.",
		}),

		auditDegraded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "audit_degraded",
			Help:      "1 when a journal write has failed since startup.",
		}),

		verifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "audit_verify_failures_total",
			Help:      "Integrity verifications that found a broken chain.",
		}),

		complianceChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "compliance_checks_total",
			Help:      "Compliance checks by framework and status.",
		}, []string{"framework", "status"}),

		complianceScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "compliance_score",
			Help:      "Compliance report scores.",
			Buckets:   []float64{0, 25, 50, 75, 90, 100},
		}),

		pipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "pipeline_runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),

		pipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "pipeline_duration_seconds",
			Help:      "End-to-end pipeline run duration.",
			Buckets:   []float64{.1, .25, .5, 1, 2, 5, 10, 30},
		}),
	}

	registry.MustRegister(
		c.decisionsTotal, c.evalDuration, c.ruleSetSize, c.ruleLoadsTotal,
		c.auditAppends, c.auditDegraded, c.verifyFailures,
		c.complianceChecks, c.complianceScore,
		c.pipelineRuns, c.pipelineDuration,
	)
	return c
}

// RecordDecision records one rule engine evaluation.
func (c *Collector) RecordDecision(result string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.decisionsTotal.WithLabelValues(result).Inc()
	c.evalDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// SetRuleSetSize updates the loaded rule count gauge.
func (c *Collector) SetRuleSetSize(n int) {
	if !c.config.Enabled {
		return
	}
	c.ruleSetSize.Set(float64(n))
}

// RecordRuleLoad records a rule set load attempt.
func (c *Collector) RecordRuleLoad(ok bool) {
	if !c.config.Enabled {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	c.ruleLoadsTotal.WithLabelValues(outcome).Inc()
}

// RecordAuditAppend records one journal append and the degraded state.
func (c *Collector) RecordAuditAppend(degraded bool) {
	if !c.config.Enabled {
		return
	}
	c.auditAppends.Inc()
	if degraded {
		c.auditDegraded.Set(1)
	}
}

// RecordVerifyFailure records a failed integrity verification.
func (c *Collector) RecordVerifyFailure() {
	if !c.config.Enabled {
		return
	}
	c.verifyFailures.Inc()
}

// RecordComplianceCheck records a single framework check outcome.
func (c *Collector) RecordComplianceCheck(framework, status string) {
	if !c.config.Enabled {
		return
	}
	c.complianceChecks.WithLabelValues(framework, status).Inc()
}

// RecordComplianceScore records a report's aggregate score.
func (c *Collector) RecordComplianceScore(score int) {
	if !c.config.Enabled {
		return
	}
	c.complianceScore.Observe(float64(score))
}

// RecordPipelineRun records one pipeline run.
// Outcomes: "completed", "blocked", "cancelled", "error".
func (c *Collector) RecordPipelineRun(outcome string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.pipelineRuns.WithLabelValues(outcome).Inc()
	c.pipelineDuration.Observe(duration.Seconds())
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
