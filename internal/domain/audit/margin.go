package audit

import (
	"sort"

	"github.com/gestor/backend/internal/domain/partner"
	"github.com/gestor/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultMarginThreshold is the shortfall, in percentage points, above which
// a quote is reported as critical
var DefaultMarginThreshold = decimal.NewFromInt(10)

// MarginAlert is a quote whose realized margin fell short of projection
type MarginAlert struct {
	QuoteID    uuid.UUID       `json:"quote_id"`
	Code       string          `json:"code"`
	ClientName string          `json:"client_name"`
	Projected  decimal.Decimal `json:"projected"`
	Realized   decimal.Decimal `json:"realized"`
	Shortfall  decimal.Decimal `json:"shortfall"`
}

// MarginAlertResult is the portfolio view of margin variance
type MarginAlertResult struct {
	Threshold        decimal.Decimal `json:"threshold"`
	EvaluatedCount   int             `json:"evaluated_count"`
	AverageProjected decimal.Decimal `json:"average_projected"`
	AverageRealized  decimal.Decimal `json:"average_realized"`
	// AverageDelta is AverageRealized - AverageProjected
	AverageDelta   decimal.Decimal `json:"average_delta"`
	PortfolioAlert bool            `json:"portfolio_alert"`
	CriticalQuotes []MarginAlert   `json:"critical_quotes"`
}

// ComputeMarginAlerts compares projected and realized margins. Only quotes
// with both margins known are considered. With none, the result is empty
// and carries no portfolio alert.
func ComputeMarginAlerts(quotes []sales.Quote, threshold decimal.Decimal) MarginAlertResult {
	return ComputeMarginAlertsWithContacts(quotes, nil, threshold)
}

// ComputeMarginAlertsWithContacts is ComputeMarginAlerts with client names
// falling back to the linked contact, as in audit findings
func ComputeMarginAlertsWithContacts(quotes []sales.Quote, contacts []partner.Contact, threshold decimal.Decimal) MarginAlertResult {
	byID := indexContacts(contacts)
	result := MarginAlertResult{
		Threshold:      threshold,
		CriticalQuotes: make([]MarginAlert, 0),
	}

	sumProjected := decimal.Zero
	sumRealized := decimal.Zero
	for i := range quotes {
		q := &quotes[i]
		if !q.HasMargins() {
			continue
		}
		result.EvaluatedCount++
		sumProjected = sumProjected.Add(*q.ProjectedMargin)
		sumRealized = sumRealized.Add(*q.RealizedMargin)

		shortfall := q.ProjectedMargin.Sub(*q.RealizedMargin)
		if shortfall.GreaterThan(threshold) {
			result.CriticalQuotes = append(result.CriticalQuotes, MarginAlert{
				QuoteID:    q.ID,
				Code:       q.Code,
				ClientName: clientName(q, byID),
				Projected:  *q.ProjectedMargin,
				Realized:   *q.RealizedMargin,
				Shortfall:  shortfall,
			})
		}
	}

	if result.EvaluatedCount == 0 {
		return result
	}

	n := decimal.NewFromInt(int64(result.EvaluatedCount))
	result.AverageProjected = sumProjected.Div(n)
	result.AverageRealized = sumRealized.Div(n)
	result.AverageDelta = result.AverageRealized.Sub(result.AverageProjected)
	result.PortfolioAlert = result.AverageDelta.LessThan(threshold.Neg())

	sort.SliceStable(result.CriticalQuotes, func(i, j int) bool {
		a, b := result.CriticalQuotes[i], result.CriticalQuotes[j]
		if !a.Shortfall.Equal(b.Shortfall) {
			return a.Shortfall.GreaterThan(b.Shortfall)
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.QuoteID.String() < b.QuoteID.String()
	})
	return result
}

// NeedsContactNames reports whether any quote with both margins lacks a
// client name of its own but links a contact
func NeedsContactNames(quotes []sales.Quote) bool {
	for i := range quotes {
		q := &quotes[i]
		if q.HasMargins() && q.ClientName == "" && q.ContactID != nil {
			return true
		}
	}
	return false
}
