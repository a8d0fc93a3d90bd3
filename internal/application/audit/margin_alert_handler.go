package audit

import (
	"context"
	"fmt"

	"github.com/gestor/backend/internal/domain/audit"
	"github.com/gestor/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MarginAlertNotifier delivers portfolio margin alerts to people
type MarginAlertNotifier interface {
	NotifyMarginAlert(ctx context.Context, alert *audit.MarginPortfolioAlertEvent) error
}

// MarginAlertHandler handles MarginPortfolioAlertEvent by logging it and,
// when a notifier is configured, forwarding it.
type MarginAlertHandler struct {
	logger   *zap.Logger
	notifier MarginAlertNotifier
}

var _ shared.EventHandler = (*MarginAlertHandler)(nil)

// NewMarginAlertHandler creates a new handler for portfolio margin alerts
func NewMarginAlertHandler(logger *zap.Logger) *MarginAlertHandler {
	return &MarginAlertHandler{logger: logger.Named("margin_alert")}
}

// WithNotifier sets the notifier for sending alerts
func (h *MarginAlertHandler) WithNotifier(n MarginAlertNotifier) *MarginAlertHandler {
	h.notifier = n
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *MarginAlertHandler) EventTypes() []string {
	return []string{audit.EventTypeMarginPortfolioAlert}
}

// Handle processes a MarginPortfolioAlertEvent
func (h *MarginAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	alert, ok := event.(*audit.MarginPortfolioAlertEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, audit.EventTypeMarginPortfolioAlert)
	}

	h.logger.Warn("Portfolio margin below projection",
		zap.String("tenant_id", alert.TenantID().String()),
		zap.String("average_delta", alert.AverageDelta.String()),
		zap.String("threshold", alert.Threshold.String()),
		zap.Int("evaluated", alert.EvaluatedCount),
		zap.Int("critical", alert.CriticalCount),
	)

	if h.notifier == nil {
		return nil
	}
	if err := h.notifier.NotifyMarginAlert(ctx, alert); err != nil {
		return fmt.Errorf("notify margin alert: %w", err)
	}
	return nil
}
