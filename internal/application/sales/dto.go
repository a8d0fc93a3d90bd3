package sales

import (
	"time"

	"github.com/gestor/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestTransitionInput asks to move a quote to a new status
type RequestTransitionInput struct {
	CurrentStatus string `json:"current_status" validate:"required"`
	TargetStatus  string `json:"target_status" validate:"required"`
}

// PaymentTermsInput carries the terms collected from the user
type PaymentTermsInput struct {
	InstallmentCount int         `json:"installment_count" validate:"required,min=1,max=120"`
	DueDates         []time.Time `json:"due_dates" validate:"required,min=1,dive,required"`
	Method           string      `json:"method" validate:"omitempty,oneof=pix boleto cartao transferencia dinheiro"`
	Notes            string      `json:"notes" validate:"max=500"`
}

// CommitTransitionInput completes a transition that required payment terms
type CommitTransitionInput struct {
	TargetStatus string            `json:"target_status" validate:"required"`
	PaymentTerms PaymentTermsInput `json:"payment_terms" validate:"required"`
}

// TotalsResponse is shown to the user while collecting payment terms
type TotalsResponse struct {
	Total           decimal.Decimal `json:"total"`
	DiscountedTotal decimal.Decimal `json:"discounted_total"`
}

// TransitionResponse is the outcome of a transition call
type TransitionResponse struct {
	Outcome    string          `json:"outcome"`
	QuoteID    uuid.UUID       `json:"quote_id"`
	FromStatus string          `json:"from_status"`
	ToStatus   string          `json:"to_status"`
	Totals     *TotalsResponse `json:"totals,omitempty"`
	Version    int             `json:"version,omitempty"`
}

// ToPaymentTerms converts the input into the domain value
func (in PaymentTermsInput) ToPaymentTerms() sales.PaymentTerms {
	return sales.PaymentTerms{
		InstallmentCount: in.InstallmentCount,
		DueDates:         in.DueDates,
		Method:           in.Method,
		Notes:            in.Notes,
	}
}

// ToTransitionResponse maps a domain outcome to its response
func ToTransitionResponse(o *sales.TransitionOutcome) TransitionResponse {
	resp := TransitionResponse{
		Outcome:    string(o.Kind),
		QuoteID:    o.QuoteID,
		FromStatus: o.From.String(),
		ToStatus:   o.To.String(),
		Version:    o.Version,
	}
	if o.Totals != nil {
		resp.Totals = &TotalsResponse{Total: o.Totals.Total, DiscountedTotal: o.Totals.DiscountedTotal}
	}
	return resp
}
