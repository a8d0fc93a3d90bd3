package telemetry

import (
	"context"
	"fmt"

	"github.com/gestor/backend/internal/domain/audit"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AuditMeterName is the instrumentation scope of the audit instruments
const AuditMeterName = "github.com/gestor/backend/audit"

// AuditMetrics records consistency audit and margin monitor outcomes
type AuditMetrics struct {
	runs           metric.Int64Counter
	findings       metric.Int64Counter
	marginChecks   metric.Int64Counter
	criticalQuotes metric.Int64Counter
	averageDelta   metric.Float64Histogram
}

// NewAuditMetrics creates the audit instruments on meter
func NewAuditMetrics(meter metric.Meter) (*AuditMetrics, error) {
	m := &AuditMetrics{}
	var err error

	if m.runs, err = meter.Int64Counter("gestor.audit.runs",
		metric.WithDescription("Consistency audits executed"),
		metric.WithUnit("{run}"),
	); err != nil {
		return nil, fmt.Errorf("create audit runs counter: %w", err)
	}
	if m.findings, err = meter.Int64Counter("gestor.audit.findings",
		metric.WithDescription("Inconsistencies reported by the audit"),
		metric.WithUnit("{finding}"),
	); err != nil {
		return nil, fmt.Errorf("create audit findings counter: %w", err)
	}
	if m.marginChecks, err = meter.Int64Counter("gestor.margin.checks",
		metric.WithDescription("Margin variance checks executed"),
		metric.WithUnit("{check}"),
	); err != nil {
		return nil, fmt.Errorf("create margin checks counter: %w", err)
	}
	if m.criticalQuotes, err = meter.Int64Counter("gestor.margin.critical_quotes",
		metric.WithDescription("Quotes whose realized margin fell below projection by more than the threshold"),
		metric.WithUnit("{quote}"),
	); err != nil {
		return nil, fmt.Errorf("create critical quotes counter: %w", err)
	}
	if m.averageDelta, err = meter.Float64Histogram("gestor.margin.average_delta",
		metric.WithDescription("Average realized minus projected margin in percentage points"),
		metric.WithUnit("%"),
	); err != nil {
		return nil, fmt.Errorf("create margin delta histogram: %w", err)
	}
	return m, nil
}

// RecordAudit counts the run and its findings per kind and severity
func (m *AuditMetrics) RecordAudit(ctx context.Context, tenantID uuid.UUID, summary audit.Summary) {
	tenant := attribute.String("tenant_id", tenantID.String())
	m.runs.Add(ctx, 1, metric.WithAttributes(tenant))
	for kind, count := range summary.ByKind {
		if count == 0 {
			continue
		}
		m.findings.Add(ctx, int64(count), metric.WithAttributes(
			tenant,
			attribute.String("kind", string(kind)),
			attribute.String("severity", string(kind.Severity())),
		))
	}
}

// RecordMarginCheck counts the check and, when any quote was evaluated,
// records the portfolio delta.
func (m *AuditMetrics) RecordMarginCheck(ctx context.Context, tenantID uuid.UUID, result audit.MarginAlertResult) {
	tenant := attribute.String("tenant_id", tenantID.String())
	m.marginChecks.Add(ctx, 1, metric.WithAttributes(tenant, attribute.Bool("portfolio_alert", result.PortfolioAlert)))
	if result.EvaluatedCount == 0 {
		return
	}
	m.averageDelta.Record(ctx, result.AverageDelta.InexactFloat64(), metric.WithAttributes(tenant))
	if n := len(result.CriticalQuotes); n > 0 {
		m.criticalQuotes.Add(ctx, int64(n), metric.WithAttributes(tenant))
	}
}
