package sales

import (
	"fmt"
	"time"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quote is a commercial proposal to a client. Only its status is mutated
// here; everything else is maintained by the quote editor.
type Quote struct {
	shared.BaseAggregateRoot
	Code            string
	ClientName      string
	Status          QuoteStatus
	TotalAmount     decimal.Decimal
	DiscountedTotal decimal.Decimal
	// Margins are percentage points. Nil means not yet known.
	ProjectedMargin *decimal.Decimal
	RealizedMargin  *decimal.Decimal
	StatusChangedAt time.Time
	ContactID       *uuid.UUID
	PaymentTerms    *PaymentTerms
}

// QuoteTotals is the pair of totals shown when collecting payment terms
type QuoteTotals struct {
	Total           decimal.Decimal `json:"total"`
	DiscountedTotal decimal.Decimal `json:"discounted_total"`
}

// StatusChange is a pending status write. ExpectedStatus and
// ExpectedVersion form the precondition; the writer must apply it only if
// both still hold.
type StatusChange struct {
	TenantID        uuid.UUID
	QuoteID         uuid.UUID
	ExpectedStatus  QuoteStatus
	ExpectedVersion int
	NewStatus       QuoteStatus
	NewVersion      int
	PaymentTerms    *PaymentTerms
	ChangedAt       time.Time
}

// NewQuote creates a draft quote
func NewQuote(tenantID uuid.UUID, code, clientName string, total, discountedTotal decimal.Decimal) (*Quote, error) {
	if code == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Quote code cannot be empty")
	}
	if total.IsNegative() || discountedTotal.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Quote totals cannot be negative")
	}
	q := &Quote{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(tenantID),
		Code:              code,
		ClientName:        clientName,
		Status:            QuoteStatusRascunho,
		TotalAmount:       total,
		DiscountedTotal:   discountedTotal,
	}
	q.StatusChangedAt = q.CreatedAt
	return q, nil
}

// Totals returns the quote totals
func (q *Quote) Totals() QuoteTotals {
	return QuoteTotals{Total: q.TotalAmount, DiscountedTotal: q.DiscountedTotal}
}

// HasMargins reports whether both projected and realized margins are known
func (q *Quote) HasMargins() bool {
	return q.ProjectedMargin != nil && q.RealizedMargin != nil
}

// ChangeStatus applies target to the quote, bumps the version and records
// a QuoteStatusChangedEvent. The returned StatusChange carries the
// precondition the caller must persist against.
func (q *Quote) ChangeStatus(target QuoteStatus, terms *PaymentTerms) (StatusChange, error) {
	if !target.IsValid() {
		return StatusChange{}, shared.NewDomainError(shared.CodeInvalidStatus, fmt.Sprintf("Unknown quote status %q", target))
	}
	if q.Status == target {
		return StatusChange{}, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Quote is already %s", target))
	}
	if q.Status.RequiresPaymentTerms(target) {
		if terms == nil {
			return StatusChange{}, shared.NewDomainError(shared.CodeInvalidPaymentTerms,
				fmt.Sprintf("Payment terms are required to move from %s to %s", q.Status, target))
		}
		if err := terms.Validate(); err != nil {
			return StatusChange{}, err
		}
	}

	change := StatusChange{
		TenantID:        q.TenantID,
		QuoteID:         q.ID,
		ExpectedStatus:  q.Status,
		ExpectedVersion: q.Version,
		NewStatus:       target,
		PaymentTerms:    terms,
	}

	from := q.Status
	q.Status = target
	if terms != nil {
		q.PaymentTerms = terms
	}
	q.IncrementVersion()
	q.StatusChangedAt = q.UpdatedAt

	change.NewVersion = q.Version
	change.ChangedAt = q.StatusChangedAt

	q.AddDomainEvent(NewQuoteStatusChangedEvent(q, from, terms))
	return change, nil
}
