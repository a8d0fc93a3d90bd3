package audit

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Rule is one cross-module consistency check. Rules are total: malformed
// references become findings, never errors.
type Rule interface {
	Kind() FindingKind
	evaluate(idx *snapshotIndex) []Finding
}

// DefaultRules returns the five consistency rules in evaluation order
func DefaultRules(t Thresholds) []Rule {
	return []Rule{
		QuoteWithoutOrderRule{},
		OrderWithoutPaymentRule{},
		OrphanReceivableRule{},
		StatusDivergenceRule{Thresholds: t},
		CommissionWithoutIncomeRule{},
	}
}

// QuoteWithoutOrderRule flags paid quotes that never reached production
type QuoteWithoutOrderRule struct{}

func (QuoteWithoutOrderRule) Kind() FindingKind { return KindQuoteWithoutOrder }

func (r QuoteWithoutOrderRule) evaluate(idx *snapshotIndex) []Finding {
	var findings []Finding
	for i := range idx.snapshot.Quotes {
		q := &idx.snapshot.Quotes[i]
		if !q.Status.IsPaymentBearing() {
			continue
		}
		if _, ok := idx.quotesWithJobs[q.ID]; ok {
			continue
		}
		qid := q.ID
		findings = append(findings, newFinding(r.Kind(), ReferenceQuote, q.ID, &qid,
			fmt.Sprintf("Orçamento %s está %s mas não tem pedido de produção", q.Code, q.Status),
			idx.quotePayload(q, q.TotalAmount)))
	}
	return findings
}

// OrderWithoutPaymentRule flags active production orders whose quote is
// not in a payment status
type OrderWithoutPaymentRule struct{}

func (OrderWithoutPaymentRule) Kind() FindingKind { return KindOrderWithoutPayment }

func (r OrderWithoutPaymentRule) evaluate(idx *snapshotIndex) []Finding {
	var findings []Finding
	for i := range idx.snapshot.ProductionOrders {
		o := &idx.snapshot.ProductionOrders[i]
		if !o.IsActive() {
			continue
		}
		q := idx.quote(o.QuoteID)
		if q != nil && q.Status.IsPaymentBearing() {
			continue
		}

		var description string
		var amount decimal.Decimal
		if q == nil {
			description = fmt.Sprintf("Pedido de produção %s está ativo sem orçamento vinculado", o.OrderNumber)
		} else {
			description = fmt.Sprintf("Pedido de produção %s está ativo mas o orçamento %s está %s", o.OrderNumber, q.Code, q.Status)
			amount = q.TotalAmount
		}
		findings = append(findings, newFinding(r.Kind(), ReferenceProductionOrder, o.ID, o.QuoteID,
			description, idx.quotePayload(q, amount)))
	}
	return findings
}

// OrphanReceivableRule flags receivables that do not point at a quote
type OrphanReceivableRule struct{}

func (OrphanReceivableRule) Kind() FindingKind { return KindOrphanReceivable }

func (r OrphanReceivableRule) evaluate(idx *snapshotIndex) []Finding {
	var findings []Finding
	for i := range idx.snapshot.Receivables {
		inst := &idx.snapshot.Receivables[i]
		if idx.quote(inst.QuoteID) != nil {
			continue
		}
		findings = append(findings, newFinding(r.Kind(), ReferenceReceivable, inst.ID, inst.QuoteID,
			fmt.Sprintf("Conta a receber de R$ %s com vencimento em %s não pertence a nenhum orçamento",
				inst.Amount.StringFixed(2), inst.DueDate.Format("02/01/2006")),
			FindingPayload{Amount: inst.Amount}))
	}
	return findings
}

// StatusDivergenceRule compares each quote's status with the fraction of
// its total actually received. Quotes without a positive total are skipped.
type StatusDivergenceRule struct {
	Thresholds Thresholds
}

func (StatusDivergenceRule) Kind() FindingKind { return KindStatusDivergence }

func (r StatusDivergenceRule) evaluate(idx *snapshotIndex) []Finding {
	var findings []Finding
	for i := range idx.snapshot.Quotes {
		q := &idx.snapshot.Quotes[i]
		if !q.TotalAmount.IsPositive() {
			continue
		}
		paid := idx.paidByQuote[q.ID]
		fraction := paid.Div(q.TotalAmount)
		if r.Thresholds.Agrees(q.Status, fraction) {
			continue
		}
		qid := q.ID
		payload := idx.quotePayload(q, paid)
		payload.PaidFraction = &fraction
		findings = append(findings, newFinding(r.Kind(), ReferenceQuote, q.ID, &qid,
			fmt.Sprintf("Orçamento %s está %s mas %s%% do total foi recebido",
				q.Code, q.Status, fraction.Mul(decimal.NewFromInt(100)).StringFixed(1)),
			payload))
	}
	return findings
}

// CommissionWithoutIncomeRule flags commissions on quotes that have not
// been paid
type CommissionWithoutIncomeRule struct{}

func (CommissionWithoutIncomeRule) Kind() FindingKind { return KindCommissionWithoutIncome }

func (r CommissionWithoutIncomeRule) evaluate(idx *snapshotIndex) []Finding {
	var findings []Finding
	for i := range idx.snapshot.Commissions {
		c := &idx.snapshot.Commissions[i]
		q := idx.quote(c.QuoteID)
		if q != nil && q.Status.IsPaymentBearing() {
			continue
		}

		var description string
		if q == nil {
			description = fmt.Sprintf("Comissão %s de %s não está vinculada a um orçamento", c.Status, c.VendorName)
		} else {
			description = fmt.Sprintf("Comissão %s de %s sobre o orçamento %s, que está %s", c.Status, c.VendorName, q.Code, q.Status)
		}
		payload := idx.quotePayload(q, c.Amount)
		findings = append(findings, newFinding(r.Kind(), ReferenceCommission, c.ID, c.QuoteID, description, payload))
	}
	return findings
}
