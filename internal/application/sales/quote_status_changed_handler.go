package sales

import (
	"context"
	"fmt"

	"github.com/gestor/backend/internal/domain/sales"
	"github.com/gestor/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// QuoteStatusChangedHandler records every committed status transition in
// the application log, including the payment terms collected for gated
// moves.
type QuoteStatusChangedHandler struct {
	logger *zap.Logger
}

var _ shared.EventHandler = (*QuoteStatusChangedHandler)(nil)

// NewQuoteStatusChangedHandler creates a new handler for status changes
func NewQuoteStatusChangedHandler(logger *zap.Logger) *QuoteStatusChangedHandler {
	return &QuoteStatusChangedHandler{logger: logger.Named("quote_status")}
}

// EventTypes returns the event types this handler is interested in
func (h *QuoteStatusChangedHandler) EventTypes() []string {
	return []string{sales.EventTypeQuoteStatusChanged}
}

// Handle logs a QuoteStatusChangedEvent
func (h *QuoteStatusChangedHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*sales.QuoteStatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, sales.EventTypeQuoteStatusChanged)
	}

	fields := []zap.Field{
		zap.String("tenant_id", changed.TenantID().String()),
		zap.String("quote_id", changed.QuoteID.String()),
		zap.String("quote_code", changed.Code),
		zap.String("from_status", changed.FromStatus.String()),
		zap.String("to_status", changed.ToStatus.String()),
		zap.Int("version", changed.Version),
	}
	if t := changed.PaymentTerms; t != nil {
		fields = append(fields, zap.Int("installments", t.InstallmentCount))
		if len(t.DueDates) > 0 {
			fields = append(fields, zap.Time("first_due_date", t.DueDates[0]))
		}
		if t.Method != "" {
			fields = append(fields, zap.String("payment_method", t.Method))
		}
	}

	h.logger.Info("Quote status changed", fields...)
	return nil
}
