package audit

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gestor/backend/internal/domain/finance"
	"github.com/gestor/backend/internal/domain/partner"
	"github.com/gestor/backend/internal/domain/production"
	"github.com/gestor/backend/internal/domain/sales"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTenant = uuid.New()

func newQuote(code string, status sales.QuoteStatus, total int64) sales.Quote {
	q := sales.Quote{
		Code:            code,
		ClientName:      "Cliente " + code,
		Status:          status,
		TotalAmount:     decimal.NewFromInt(total),
		DiscountedTotal: decimal.NewFromInt(total),
	}
	q.ID = uuid.New()
	q.TenantID = testTenant
	q.Version = 1
	return q
}

func orderFor(q *sales.Quote, state production.OrderState) production.ProductionOrder {
	o := production.ProductionOrder{
		ID:          uuid.New(),
		TenantID:    testTenant,
		OrderNumber: "OP-" + uuid.NewString()[:8],
		State:       state,
	}
	if q != nil {
		id := q.ID
		o.QuoteID = &id
	}
	return o
}

func installment(quoteID *uuid.UUID, amount int64, paid bool) finance.ReceivableInstallment {
	return finance.ReceivableInstallment{
		ID:       uuid.New(),
		TenantID: testTenant,
		QuoteID:  quoteID,
		Amount:   decimal.NewFromInt(amount),
		DueDate:  time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		Paid:     paid,
	}
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		Quotes:           []sales.Quote{},
		ProductionOrders: []production.ProductionOrder{},
		Receivables:      []finance.ReceivableInstallment{},
		Commissions:      []finance.Commission{},
	}
}

func findingsOfKind(r *AuditResult, kind FindingKind) []Finding {
	return r.ByKind[kind]
}

func TestRunAudit_EmptySnapshot(t *testing.T) {
	result, err := RunAudit(emptySnapshot())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Summary.Total)
	assert.NotNil(t, result.Findings)
	for _, kind := range AllFindingKinds {
		assert.NotNil(t, result.ByKind[kind])
		assert.Equal(t, 0, result.Summary.ByKind[kind])
	}
}

func TestRunAudit_InvalidSnapshot(t *testing.T) {
	q := newQuote("ORC-1", sales.QuoteStatusEnviado, 100)

	tests := []struct {
		name     string
		snapshot *Snapshot
	}{
		{"nil snapshot", nil},
		{"nil quotes", &Snapshot{ProductionOrders: []production.ProductionOrder{}, Receivables: []finance.ReceivableInstallment{}, Commissions: []finance.Commission{}}},
		{"nil orders", &Snapshot{Quotes: []sales.Quote{}, Receivables: []finance.ReceivableInstallment{}, Commissions: []finance.Commission{}}},
		{"nil receivables", &Snapshot{Quotes: []sales.Quote{}, ProductionOrders: []production.ProductionOrder{}, Commissions: []finance.Commission{}}},
		{"nil commissions", &Snapshot{Quotes: []sales.Quote{}, ProductionOrders: []production.ProductionOrder{}, Receivables: []finance.ReceivableInstallment{}}},
		{"duplicate quote", func() *Snapshot { s := emptySnapshot(); s.Quotes = []sales.Quote{q, q}; return s }()},
		{"quote without id", func() *Snapshot {
			s := emptySnapshot()
			bad := newQuote("ORC-2", sales.QuoteStatusEnviado, 100)
			bad.ID = uuid.Nil
			s.Quotes = []sales.Quote{bad}
			return s
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RunAudit(tt.snapshot)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, shared.ErrInvalidSnapshot)
		})
	}
}

func TestRunAudit_NilContactsAllowed(t *testing.T) {
	s := emptySnapshot()
	s.Contacts = nil
	_, err := RunAudit(s)
	assert.NoError(t, err)
}

func TestQuoteWithoutOrderRule(t *testing.T) {
	paidNoOrder := newQuote("ORC-10", sales.QuoteStatusPago, 1000)
	paidWithOrder := newQuote("ORC-11", sales.QuoteStatusPago, 1000)
	paidCancelledOrder := newQuote("ORC-12", sales.QuoteStatusPago60, 1000)
	sent := newQuote("ORC-13", sales.QuoteStatusEnviado, 1000)

	s := emptySnapshot()
	s.Quotes = []sales.Quote{paidNoOrder, paidWithOrder, paidCancelledOrder, sent}
	s.ProductionOrders = []production.ProductionOrder{
		orderFor(&paidWithOrder, production.OrderStateActive),
		orderFor(&paidCancelledOrder, production.OrderStateCancelled),
	}

	result, err := RunAudit(s)
	require.NoError(t, err)

	found := findingsOfKind(result, KindQuoteWithoutOrder)
	require.Len(t, found, 1)
	f := found[0]
	assert.Equal(t, SeverityHigh, f.Severity)
	assert.Equal(t, paidNoOrder.ID, f.ReferenceID)
	assert.Equal(t, "ORC-10", f.Payload.Code)
	assert.Equal(t, "Cliente ORC-10", f.Payload.ClientName)
	assert.True(t, decimal.NewFromInt(1000).Equal(f.Payload.Amount))
}

func TestOrderWithoutPaymentRule(t *testing.T) {
	approved := newQuote("ORC-20", sales.QuoteStatusAprovado, 500)
	paid := newQuote("ORC-21", sales.QuoteStatusPago, 500)
	missing := uuid.New()

	active := orderFor(&approved, production.OrderStateActive)
	delivered := orderFor(&approved, production.OrderStateDelivered)
	healthy := orderFor(&paid, production.OrderStateActive)
	dangling := orderFor(nil, production.OrderStateActive)
	dangling.QuoteID = &missing
	unlinked := orderFor(nil, production.OrderStateActive)

	s := emptySnapshot()
	s.Quotes = []sales.Quote{approved, paid}
	s.ProductionOrders = []production.ProductionOrder{active, delivered, healthy, dangling, unlinked}
	s.Receivables = []finance.ReceivableInstallment{installment(&paid.ID, 500, true)}

	result, err := RunAudit(s)
	require.NoError(t, err)

	found := findingsOfKind(result, KindOrderWithoutPayment)
	require.Len(t, found, 3)
	ids := []uuid.UUID{found[0].ReferenceID, found[1].ReferenceID, found[2].ReferenceID}
	assert.ElementsMatch(t, []uuid.UUID{active.ID, dangling.ID, unlinked.ID}, ids)
	for _, f := range found {
		assert.Equal(t, SeverityCritical, f.Severity)
		assert.Equal(t, ReferenceProductionOrder, f.ReferenceType)
	}
}

func TestOrphanReceivableRule(t *testing.T) {
	q := newQuote("ORC-30", sales.QuoteStatusEnviado, 800)
	missing := uuid.New()

	linked := installment(&q.ID, 100, false)
	dangling := installment(&missing, 250, false)
	unlinked := installment(nil, 75, true)

	s := emptySnapshot()
	s.Quotes = []sales.Quote{q}
	s.Receivables = []finance.ReceivableInstallment{linked, dangling, unlinked}

	result, err := RunAudit(s)
	require.NoError(t, err)

	found := findingsOfKind(result, KindOrphanReceivable)
	require.Len(t, found, 2)
	ids := []uuid.UUID{found[0].ReferenceID, found[1].ReferenceID}
	assert.ElementsMatch(t, []uuid.UUID{dangling.ID, unlinked.ID}, ids)
	for _, f := range found {
		assert.Equal(t, SeverityMedium, f.Severity)
	}
}

func TestOrphanReceivableRule_SingleDanglingReference(t *testing.T) {
	missing := uuid.New()
	s := emptySnapshot()
	s.Receivables = []finance.ReceivableInstallment{installment(&missing, 100, false)}

	result, err := RunAudit(s)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Summary.Total)
	assert.Equal(t, 1, result.Summary.Medium)
	assert.Equal(t, KindOrphanReceivable, result.Findings[0].Kind)
}

func TestStatusDivergenceRule(t *testing.T) {
	tests := []struct {
		name      string
		status    sales.QuoteStatus
		paid      []int64
		divergent bool
	}{
		{"pago_40 at 30 percent", sales.QuoteStatusPago40, []int64{300}, false},
		{"pago at 40 percent", sales.QuoteStatusPago, []int64{400}, true},
		{"pago fully paid", sales.QuoteStatusPago, []int64{500, 500}, false},
		{"pago at 95 percent", sales.QuoteStatusPago, []int64{950}, false},
		{"pago_60 at 60 percent", sales.QuoteStatusPago60, []int64{600}, false},
		{"pago_60 at 96 percent", sales.QuoteStatusPago60, []int64{960}, true},
		{"pago_60 at 55 percent", sales.QuoteStatusPago60, []int64{550}, false},
		{"pago_parcial at 5 percent", sales.QuoteStatusPagoParcial, []int64{50}, false},
		{"pago_parcial at 55 percent", sales.QuoteStatusPagoParcial, []int64{550}, true},
		{"payment status with nothing paid", sales.QuoteStatusPago40, nil, true},
		{"non-payment status with money in", sales.QuoteStatusAprovado, []int64{100}, true},
		{"non-payment status below low", sales.QuoteStatusEnviado, []int64{40}, false},
		{"non-payment status nothing paid", sales.QuoteStatusRascunho, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newQuote("ORC-40", tt.status, 1000)
			s := emptySnapshot()
			s.Quotes = []sales.Quote{q}
			for _, amount := range tt.paid {
				s.Receivables = append(s.Receivables, installment(&q.ID, amount, true))
			}
			s.Receivables = append(s.Receivables, installment(&q.ID, 999, false))

			result, err := RunAudit(s)
			require.NoError(t, err)

			found := findingsOfKind(result, KindStatusDivergence)
			if !tt.divergent {
				assert.Empty(t, found)
				return
			}
			require.Len(t, found, 1)
			assert.Equal(t, SeverityHigh, found[0].Severity)
			require.NotNil(t, found[0].Payload.PaidFraction)
		})
	}
}

func TestStatusDivergenceRule_SkipsNonPositiveTotal(t *testing.T) {
	q := newQuote("ORC-41", sales.QuoteStatusPago, 0)
	s := emptySnapshot()
	s.Quotes = []sales.Quote{q}

	result, err := RunAudit(s)
	require.NoError(t, err)
	assert.Empty(t, findingsOfKind(result, KindStatusDivergence))
}

func TestStatusDivergenceRule_CustomThresholds(t *testing.T) {
	q := newQuote("ORC-42", sales.QuoteStatusPago, 1000)
	s := emptySnapshot()
	s.Quotes = []sales.Quote{q}
	s.ProductionOrders = []production.ProductionOrder{orderFor(&q, production.OrderStateActive)}
	s.Receivables = []finance.ReceivableInstallment{installment(&q.ID, 900, true)}

	strict, err := RunAudit(s)
	require.NoError(t, err)
	assert.Len(t, findingsOfKind(strict, KindStatusDivergence), 1)

	auditor, err := NewAuditor(WithThresholds(Thresholds{
		Low:  decimal.NewFromFloat(0.1),
		Mid:  decimal.NewFromFloat(0.5),
		High: decimal.NewFromFloat(0.9),
	}))
	require.NoError(t, err)
	relaxed, err := auditor.Run(s)
	require.NoError(t, err)
	assert.Empty(t, findingsOfKind(relaxed, KindStatusDivergence))
}

func TestCommissionWithoutIncomeRule(t *testing.T) {
	paid := newQuote("ORC-50", sales.QuoteStatusPago, 1000)
	refused := newQuote("ORC-51", sales.QuoteStatusRecusado, 1000)
	ref := "PIX-123"

	s := emptySnapshot()
	s.Quotes = []sales.Quote{paid, refused}
	s.ProductionOrders = []production.ProductionOrder{orderFor(&paid, production.OrderStateActive)}
	s.Receivables = []finance.ReceivableInstallment{installment(&paid.ID, 1000, true)}
	ok := finance.Commission{ID: uuid.New(), QuoteID: &paid.ID, VendorName: "Ana", Amount: decimal.NewFromInt(50), Status: finance.CommissionStatusPaid, PaymentRef: &ref}
	bad := finance.Commission{ID: uuid.New(), QuoteID: &refused.ID, VendorName: "Ana", Amount: decimal.NewFromInt(50), Status: finance.CommissionStatusPending}
	orphan := finance.Commission{ID: uuid.New(), VendorName: "Bruno", Amount: decimal.NewFromInt(20), Status: finance.CommissionStatusPaid}
	s.Commissions = []finance.Commission{ok, bad, orphan}

	result, err := RunAudit(s)
	require.NoError(t, err)

	found := findingsOfKind(result, KindCommissionWithoutIncome)
	require.Len(t, found, 2)
	ids := []uuid.UUID{found[0].ReferenceID, found[1].ReferenceID}
	assert.ElementsMatch(t, []uuid.UUID{bad.ID, orphan.ID}, ids)
	assert.Equal(t, 2, result.Summary.Total)
}

func TestRunAudit_ClientNameFallsBackToContact(t *testing.T) {
	contact := partner.Contact{ID: uuid.New(), DisplayName: "Joana Prado"}
	q := newQuote("ORC-60", sales.QuoteStatusPago, 1000)
	q.ClientName = ""
	q.ContactID = &contact.ID

	s := emptySnapshot()
	s.Quotes = []sales.Quote{q}
	s.Receivables = []finance.ReceivableInstallment{installment(&q.ID, 1000, true)}
	s.Contacts = []partner.Contact{contact}

	result, err := RunAudit(s)
	require.NoError(t, err)

	found := findingsOfKind(result, KindQuoteWithoutOrder)
	require.Len(t, found, 1)
	assert.Equal(t, "Joana Prado", found[0].Payload.ClientName)
}

func buildMixedSnapshot() *Snapshot {
	paidNoOrder := newQuote("ORC-70", sales.QuoteStatusPago, 1000)
	approved := newQuote("ORC-71", sales.QuoteStatusAprovado, 2000)
	missing := uuid.New()

	s := emptySnapshot()
	s.Quotes = []sales.Quote{paidNoOrder, approved}
	s.ProductionOrders = []production.ProductionOrder{orderFor(&approved, production.OrderStateActive)}
	s.Receivables = []finance.ReceivableInstallment{
		installment(&paidNoOrder.ID, 400, true),
		installment(&missing, 10, false),
		installment(&approved.ID, 500, true),
	}
	s.Commissions = []finance.Commission{
		{ID: uuid.New(), QuoteID: &approved.ID, VendorName: "Carla", Amount: decimal.NewFromInt(80), Status: finance.CommissionStatusPending},
	}
	return s
}

func TestRunAudit_SeverityOrderingAndCounts(t *testing.T) {
	result, err := RunAudit(buildMixedSnapshot())
	require.NoError(t, err)

	// one of each kind, with status_divergente firing for both quotes
	assert.Equal(t, 1, result.Summary.Critical)
	assert.Equal(t, 3, result.Summary.High)
	assert.Equal(t, 2, result.Summary.Medium)
	assert.Equal(t, result.Summary.Critical+result.Summary.High+result.Summary.Medium, result.Summary.Total)
	assert.Len(t, result.Findings, result.Summary.Total)

	for i := 1; i < len(result.Findings); i++ {
		assert.LessOrEqual(t, result.Findings[i-1].Severity.Rank(), result.Findings[i].Severity.Rank())
	}
	assert.Equal(t, KindOrderWithoutPayment, result.Findings[0].Kind)
	assert.Equal(t, KindQuoteWithoutOrder, result.Findings[1].Kind)
}

func TestRunAudit_Deterministic(t *testing.T) {
	s := buildMixedSnapshot()

	first, err := RunAudit(s)
	require.NoError(t, err)
	second, err := RunAudit(s)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
	assert.Equal(t, string(a), string(b))
}
