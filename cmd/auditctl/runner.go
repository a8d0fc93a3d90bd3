package main

import (
	"context"
	"fmt"
	"io"

	auditapp "github.com/gestor/backend/internal/application/audit"
	"github.com/gestor/backend/internal/domain/audit"
	"github.com/gestor/backend/internal/infrastructure/config"
	"github.com/gestor/backend/internal/infrastructure/export"
	"github.com/gestor/backend/internal/infrastructure/logger"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// auditRunner is the slice of the audit service the commands need
type auditRunner interface {
	RunConsistencyAudit(ctx context.Context, tenantID uuid.UUID) (*audit.AuditResult, error)
	ExportConsistencyAudit(ctx context.Context, tenantID uuid.UUID, w io.Writer) (*audit.AuditResult, error)
	ComputeMarginAlerts(ctx context.Context, tenantID uuid.UUID, threshold *decimal.Decimal) (*audit.MarginAlertResult, error)
}

// runnerFactory opens the dependencies of an auditRunner. The returned
// func releases them.
type runnerFactory func(ctx context.Context, cfg *config.Config, log *zap.Logger) (auditRunner, func(), error)

// connectDatabase wires the audit service against the configured database.
// No events are published from the CLI.
func connectDatabase(_ context.Context, cfg *config.Config, log *zap.Logger) (auditRunner, func(), error) {
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Warn("Error closing database", zap.Error(err))
		}
	}

	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	svc, err := auditapp.NewAuditService(auditapp.Readers{
		Quotes:      quoteRepo,
		Orders:      persistence.NewGormProductionOrderRepository(db.DB),
		Receivables: persistence.NewGormReceivableRepository(db.DB),
		Commissions: persistence.NewGormCommissionRepository(db.DB),
		Contacts:    persistence.NewGormContactRepository(db.DB),
	}, log,
		auditapp.WithThresholds(cfg.Audit.Thresholds()),
		auditapp.WithMarginThreshold(cfg.Audit.MarginThresholdDecimal()),
		auditapp.WithReportWriter(export.NewAuditWorkbookWriter()),
	)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return svc, closeDB, nil
}
