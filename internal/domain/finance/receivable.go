package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceivableInstallment is one expected incoming payment. QuoteID is nil
// for receivables created outside the quote flow.
type ReceivableInstallment struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	QuoteID  *uuid.UUID
	Amount   decimal.Decimal
	DueDate  time.Time
	Paid     bool
}

// ReceivableReader loads receivable installments for a tenant
type ReceivableReader interface {
	// FindAllForTenant returns every installment of the tenant; never nil on success
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]ReceivableInstallment, error)
}

// PaidAmountByQuote sums paid installments per quote. Installments without
// a quote are ignored.
func PaidAmountByQuote(installments []ReceivableInstallment) map[uuid.UUID]decimal.Decimal {
	sums := make(map[uuid.UUID]decimal.Decimal)
	for _, inst := range installments {
		if !inst.Paid || inst.QuoteID == nil {
			continue
		}
		sums[*inst.QuoteID] = sums[*inst.QuoteID].Add(inst.Amount)
	}
	return sums
}
