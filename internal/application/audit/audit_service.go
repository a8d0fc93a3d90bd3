package audit

import (
	"context"
	"fmt"
	"io"

	"github.com/gestor/backend/internal/domain/audit"
	"github.com/gestor/backend/internal/domain/finance"
	"github.com/gestor/backend/internal/domain/partner"
	"github.com/gestor/backend/internal/domain/production"
	"github.com/gestor/backend/internal/domain/sales"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/gestor/backend/internal/application/audit"

// Readers groups the entity readers a snapshot is loaded from.
// Contacts may be nil; client names then come from quotes only.
type Readers struct {
	Quotes      sales.QuoteReader
	Orders      production.ProductionOrderReader
	Receivables finance.ReceivableReader
	Commissions finance.CommissionReader
	Contacts    partner.ContactReader
}

// Metrics receives audit outcomes for observability
type Metrics interface {
	RecordAudit(ctx context.Context, tenantID uuid.UUID, summary audit.Summary)
	RecordMarginCheck(ctx context.Context, tenantID uuid.UUID, result audit.MarginAlertResult)
}

// ReportWriter renders an audit result into a downloadable document
type ReportWriter interface {
	WriteAuditReport(w io.Writer, tenantID uuid.UUID, result *audit.AuditResult) error
}

// AuditService loads tenant snapshots and runs the consistency audit and
// margin monitor over them. Results are returned, never stored.
type AuditService struct {
	readers         Readers
	logger          *zap.Logger
	thresholds      audit.Thresholds
	marginThreshold decimal.Decimal
	auditor         *audit.Auditor
	eventPublisher  shared.EventPublisher
	metrics         Metrics
	reportWriter    ReportWriter
	tracer          trace.Tracer
}

// AuditServiceOption is a functional option for configuring AuditService
type AuditServiceOption func(*AuditService)

// WithThresholds sets the paid-fraction breakpoints
func WithThresholds(t audit.Thresholds) AuditServiceOption {
	return func(s *AuditService) {
		s.thresholds = t
	}
}

// WithMarginThreshold sets the default margin shortfall threshold
func WithMarginThreshold(threshold decimal.Decimal) AuditServiceOption {
	return func(s *AuditService) {
		s.marginThreshold = threshold
	}
}

// WithEventPublisher sets the publisher for portfolio margin alerts
func WithEventPublisher(p shared.EventPublisher) AuditServiceOption {
	return func(s *AuditService) {
		s.eventPublisher = p
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(m Metrics) AuditServiceOption {
	return func(s *AuditService) {
		s.metrics = m
	}
}

// WithReportWriter sets the writer used by ExportConsistencyAudit
func WithReportWriter(w ReportWriter) AuditServiceOption {
	return func(s *AuditService) {
		s.reportWriter = w
	}
}

// WithTracer overrides the tracer taken from the global provider
func WithTracer(t trace.Tracer) AuditServiceOption {
	return func(s *AuditService) {
		s.tracer = t
	}
}

// NewAuditService creates a new AuditService
func NewAuditService(readers Readers, logger *zap.Logger, opts ...AuditServiceOption) (*AuditService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuditService{
		readers:         readers,
		logger:          logger,
		thresholds:      audit.DefaultThresholds(),
		marginThreshold: audit.DefaultMarginThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	if s.marginThreshold.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Margin threshold cannot be negative")
	}

	auditor, err := audit.NewAuditor(audit.WithThresholds(s.thresholds))
	if err != nil {
		return nil, err
	}
	s.auditor = auditor
	return s, nil
}

// MarginThreshold returns the threshold used when the caller gives none
func (s *AuditService) MarginThreshold() decimal.Decimal {
	return s.marginThreshold
}

// LoadSnapshot reads every collection for the tenant concurrently. The
// first reader error cancels the remaining reads and is returned as is.
func (s *AuditService) LoadSnapshot(ctx context.Context, tenantID uuid.UUID) (*audit.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "audit.LoadSnapshot",
		trace.WithAttributes(attribute.String("tenant_id", tenantID.String())))
	defer span.End()

	var snapshot audit.Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		quotes, err := s.readers.Quotes.FindAllForTenant(gctx, tenantID)
		snapshot.Quotes = quotes
		return err
	})
	g.Go(func() error {
		orders, err := s.readers.Orders.FindAllForTenant(gctx, tenantID)
		snapshot.ProductionOrders = orders
		return err
	})
	g.Go(func() error {
		receivables, err := s.readers.Receivables.FindAllForTenant(gctx, tenantID)
		snapshot.Receivables = receivables
		return err
	})
	g.Go(func() error {
		commissions, err := s.readers.Commissions.FindAllForTenant(gctx, tenantID)
		snapshot.Commissions = commissions
		return err
	})
	if s.readers.Contacts != nil {
		g.Go(func() error {
			contacts, err := s.readers.Contacts.FindAllForTenant(gctx, tenantID)
			snapshot.Contacts = contacts
			return err
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "snapshot load failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("quotes", len(snapshot.Quotes)),
		attribute.Int("production_orders", len(snapshot.ProductionOrders)),
		attribute.Int("receivables", len(snapshot.Receivables)),
		attribute.Int("commissions", len(snapshot.Commissions)),
	)
	return &snapshot, nil
}

// RunConsistencyAudit loads the tenant's data and runs every rule
func (s *AuditService) RunConsistencyAudit(ctx context.Context, tenantID uuid.UUID) (*audit.AuditResult, error) {
	snapshot, err := s.LoadSnapshot(ctx, tenantID)
	if err != nil {
		s.logger.Error("failed to load audit snapshot", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "audit.Run")
	defer span.End()

	result, err := s.auditor.Run(snapshot)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid snapshot")
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("findings.total", result.Summary.Total),
		attribute.Int("findings.critical", result.Summary.Critical),
	)
	if s.metrics != nil {
		s.metrics.RecordAudit(ctx, tenantID, result.Summary)
	}
	s.logger.Info("consistency audit completed",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("total", result.Summary.Total),
		zap.Int("critical", result.Summary.Critical),
		zap.Int("high", result.Summary.High),
		zap.Int("medium", result.Summary.Medium),
	)
	return result, nil
}

// ExportConsistencyAudit runs the audit and writes it through the report writer
func (s *AuditService) ExportConsistencyAudit(ctx context.Context, tenantID uuid.UUID, w io.Writer) (*audit.AuditResult, error) {
	if s.reportWriter == nil {
		return nil, fmt.Errorf("audit export is not configured")
	}
	result, err := s.RunConsistencyAudit(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := s.reportWriter.WriteAuditReport(w, tenantID, result); err != nil {
		return nil, fmt.Errorf("failed to write audit report: %w", err)
	}
	return result, nil
}

// ComputeMarginAlerts checks projected against realized margins for the
// tenant's quotes. A nil threshold uses the configured default. A portfolio
// alert is published when the tenant-wide average falls short.
func (s *AuditService) ComputeMarginAlerts(ctx context.Context, tenantID uuid.UUID, threshold *decimal.Decimal) (*audit.MarginAlertResult, error) {
	limit := s.marginThreshold
	if threshold != nil {
		limit = *threshold
	}
	if limit.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Margin threshold cannot be negative")
	}

	ctx, span := s.tracer.Start(ctx, "audit.ComputeMarginAlerts",
		trace.WithAttributes(attribute.String("tenant_id", tenantID.String())))
	defer span.End()

	quotes, err := s.readers.Quotes.FindAllForTenant(ctx, tenantID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "quote load failed")
		return nil, err
	}

	var contacts []partner.Contact
	if s.readers.Contacts != nil && audit.NeedsContactNames(quotes) {
		if contacts, err = s.readers.Contacts.FindAllForTenant(ctx, tenantID); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "contact load failed")
			return nil, err
		}
	}

	result := audit.ComputeMarginAlertsWithContacts(quotes, contacts, limit)
	span.SetAttributes(
		attribute.Int("margins.evaluated", result.EvaluatedCount),
		attribute.Int("margins.critical", len(result.CriticalQuotes)),
		attribute.Bool("margins.portfolio_alert", result.PortfolioAlert),
	)
	if s.metrics != nil {
		s.metrics.RecordMarginCheck(ctx, tenantID, result)
	}

	if result.PortfolioAlert {
		s.logger.Warn("portfolio margin below projection",
			zap.String("tenant_id", tenantID.String()),
			zap.String("average_delta", result.AverageDelta.StringFixed(2)),
			zap.String("threshold", limit.String()),
		)
		if s.eventPublisher != nil {
			if err := s.eventPublisher.Publish(ctx, audit.NewMarginPortfolioAlertEvent(tenantID, result)); err != nil {
				s.logger.Error("failed to publish margin alert", zap.String("tenant_id", tenantID.String()), zap.Error(err))
			}
		}
	}
	return &result, nil
}
