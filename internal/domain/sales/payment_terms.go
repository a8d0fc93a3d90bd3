package sales

import (
	"fmt"
	"time"

	"github.com/gestor/backend/internal/domain/shared"
)

// PaymentTerms describes how a quote will be paid. It is collected when a
// quote enters a payment status.
type PaymentTerms struct {
	InstallmentCount int         `json:"installment_count"`
	DueDates         []time.Time `json:"due_dates"`
	Method           string      `json:"method,omitempty"`
	Notes            string      `json:"notes,omitempty"`
}

// Validate checks the terms are complete: at least one installment, one due
// date per installment and due dates in non-decreasing order.
func (t PaymentTerms) Validate() error {
	if t.InstallmentCount < 1 {
		return shared.NewDomainError(shared.CodeInvalidPaymentTerms, "Installment count must be at least 1")
	}
	if len(t.DueDates) != t.InstallmentCount {
		return shared.NewDomainError(shared.CodeInvalidPaymentTerms,
			fmt.Sprintf("Expected %d due dates, got %d", t.InstallmentCount, len(t.DueDates)))
	}
	for i, d := range t.DueDates {
		if d.IsZero() {
			return shared.NewDomainError(shared.CodeInvalidPaymentTerms, fmt.Sprintf("Due date %d is empty", i+1))
		}
		if i > 0 && d.Before(t.DueDates[i-1]) {
			return shared.NewDomainError(shared.CodeInvalidPaymentTerms,
				fmt.Sprintf("Due date %d is before due date %d", i+1, i))
		}
	}
	return nil
}
