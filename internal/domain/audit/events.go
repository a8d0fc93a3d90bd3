package audit

import (
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate and event types for audit notifications
const (
	AggregateTypeMarginPortfolio  = "MarginPortfolio"
	EventTypeMarginPortfolioAlert = "MarginPortfolioAlert"
)

// MarginPortfolioAlertEvent is raised when the average realized margin of
// a tenant falls below projection by more than the threshold. The tenant
// is the aggregate.
type MarginPortfolioAlertEvent struct {
	shared.BaseDomainEvent
	AverageDelta   decimal.Decimal `json:"average_delta"`
	Threshold      decimal.Decimal `json:"threshold"`
	EvaluatedCount int             `json:"evaluated_count"`
	CriticalCount  int             `json:"critical_count"`
}

// NewMarginPortfolioAlertEvent creates the event from a margin result
func NewMarginPortfolioAlertEvent(tenantID uuid.UUID, r MarginAlertResult) *MarginPortfolioAlertEvent {
	return &MarginPortfolioAlertEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMarginPortfolioAlert, AggregateTypeMarginPortfolio, tenantID, tenantID),
		AverageDelta:    r.AverageDelta,
		Threshold:       r.Threshold,
		EvaluatedCount:  r.EvaluatedCount,
		CriticalCount:   len(r.CriticalQuotes),
	}
}

// EventType returns the event type name
func (e *MarginPortfolioAlertEvent) EventType() string {
	return EventTypeMarginPortfolioAlert
}
