package sales

import (
	"fmt"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeQuote = "Quote"

// Event type constants
const (
	EventTypeQuoteStatusChanged = "QuoteStatusChanged"
)

// QuoteStatusChangedEvent is raised once per committed status transition.
// Downstream automation (receivable generation, production scheduling)
// subscribes to it.
type QuoteStatusChangedEvent struct {
	shared.BaseDomainEvent
	QuoteID      uuid.UUID     `json:"quote_id"`
	Code         string        `json:"code"`
	FromStatus   QuoteStatus   `json:"from_status"`
	ToStatus     QuoteStatus   `json:"to_status"`
	PaymentTerms *PaymentTerms `json:"payment_terms,omitempty"`
	Version      int           `json:"version"`
}

// NewQuoteStatusChangedEvent creates a new QuoteStatusChangedEvent. terms
// are the ones collected for this transition, nil when it took none; terms
// stored by an earlier transition are never carried over.
func NewQuoteStatusChangedEvent(q *Quote, from QuoteStatus, terms *PaymentTerms) *QuoteStatusChangedEvent {
	return &QuoteStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteStatusChanged, AggregateTypeQuote, q.ID, q.TenantID),
		QuoteID:         q.ID,
		Code:            q.Code,
		FromStatus:      from,
		ToStatus:        q.Status,
		PaymentTerms:    terms,
		Version:         q.Version,
	}
}

// EventType returns the event type name
func (e *QuoteStatusChangedEvent) EventType() string {
	return EventTypeQuoteStatusChanged
}

// DeduplicationKey ties the event to the quote version it produced, so a
// retried publish of the same transition is delivered at most once.
func (e *QuoteStatusChangedEvent) DeduplicationKey() string {
	return fmt.Sprintf("quote-status:%s:v%d", e.QuoteID, e.Version)
}
