package audit

import (
	"fmt"

	"github.com/gestor/backend/internal/domain/sales"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Thresholds are the paid-fraction breakpoints used to decide whether a
// quote status agrees with the money received
type Thresholds struct {
	// Low is the fraction at or above which a quote counts as paid at all
	Low decimal.Decimal
	// Mid is where pago_40/pago_parcial give way to pago_60
	Mid decimal.Decimal
	// High is where pago_60 gives way to pago
	High decimal.Decimal
}

// DefaultThresholds returns the 5% / 55% / 95% breakpoints
func DefaultThresholds() Thresholds {
	return Thresholds{
		Low:  decimal.NewFromFloat(0.05),
		Mid:  decimal.NewFromFloat(0.55),
		High: decimal.NewFromFloat(0.95),
	}
}

// Validate requires 0 <= Low < Mid < High <= 1
func (t Thresholds) Validate() error {
	if t.Low.IsNegative() || !t.Low.LessThan(t.Mid) || !t.Mid.LessThan(t.High) || t.High.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("Paid fraction thresholds must satisfy 0 <= low < mid < high <= 1, got %s/%s/%s", t.Low, t.Mid, t.High))
	}
	return nil
}

// Agrees reports whether status is consistent with the paid fraction
func (t Thresholds) Agrees(status sales.QuoteStatus, paidFraction decimal.Decimal) bool {
	switch status {
	case sales.QuoteStatusPago:
		return paidFraction.GreaterThanOrEqual(t.High)
	case sales.QuoteStatusPago60:
		return paidFraction.GreaterThanOrEqual(t.Mid) && paidFraction.LessThan(t.High)
	case sales.QuoteStatusPago40, sales.QuoteStatusPagoParcial:
		return paidFraction.GreaterThanOrEqual(t.Low) && paidFraction.LessThan(t.Mid)
	default:
		return paidFraction.LessThan(t.Low)
	}
}
