package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"mizan-hq/mizan/pkg/config"
)

func newTestCollector(t *testing.T, enabled bool) *Collector {
	t.Helper()
	return NewCollector(&config.MetricsConfig{Enabled: enabled, Namespace: "mizan"}, prometheus.NewRegistry())
}

func TestCollector_RecordDecision(t *testing.T) {
	c := newTestCollector(t, true)

	c.RecordDecision("APPROVED", time.Millisecond)
	c.RecordDecision("APPROVED", time.Millisecond)
	c.RecordDecision("REJECTED", time.Millisecond)

	if got := testutil.ToFloat64(c.decisionsTotal.WithLabelValues("APPROVED")); got != 2 {
		t.Errorf("decisions_total{APPROVED} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.decisionsTotal.WithLabelValues("REJECTED")); got != 1 {
		t.Errorf("decisions_total{REJECTED} = %v, want 1", got)
	}
}

func TestCollector_AuditMetrics(t *testing.T) {
	c := newTestCollector(t, true)

	c.RecordAuditAppend(false)
	c.RecordAuditAppend(false)
	if got := testutil.ToFloat64(c.auditDegraded); got != 0 {
		t.Errorf("audit_degraded = %v, want 0", got)
	}

	c.RecordAuditAppend(true)
	if got := testutil.ToFloat64(c.auditAppends); got != 3 {
		t.Errorf("audit_appends_total = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.auditDegraded); got != 1 {
		t.Errorf("audit_degraded = %v, want 1", got)
	}
}

func TestCollector_ComplianceMetrics(t *testing.T) {
	c := newTestCollector(t, true)

	c.RecordComplianceCheck("PDPL", "COMPLIANT")
	c.RecordComplianceCheck("PDPL", "NON_COMPLIANT")
	c.RecordComplianceScore(85)

	if got := testutil.ToFloat64(c.complianceChecks.WithLabelValues("PDPL", "COMPLIANT")); got != 1 {
		t.Errorf("compliance_checks_total{PDPL,COMPLIANT} = %v, want 1", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	c := newTestCollector(t, false)

	c.RecordDecision("APPROVED", time.Millisecond)
	c.RecordAuditAppend(true)
	c.RecordPipelineRun("completed", time.Second)

	if got := testutil.ToFloat64(c.auditAppends); got != 0 {
		t.Errorf("disabled collector recorded appends: %v", got)
	}
	if got := testutil.ToFloat64(c.decisionsTotal.WithLabelValues("APPROVED")); got != 0 {
		t.Errorf("disabled collector recorded decisions: %v", got)
	}
}
