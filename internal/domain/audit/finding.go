package audit

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FindingKind identifies which consistency rule produced a finding
type FindingKind string

const (
	KindQuoteWithoutOrder       FindingKind = "orcamento_sem_pedido"
	KindOrderWithoutPayment     FindingKind = "pedido_sem_pagamento"
	KindOrphanReceivable        FindingKind = "conta_orfa"
	KindStatusDivergence        FindingKind = "status_divergente"
	KindCommissionWithoutIncome FindingKind = "comissao_sem_recebimento"
)

// AllFindingKinds lists kinds in rule evaluation order
var AllFindingKinds = []FindingKind{
	KindQuoteWithoutOrder,
	KindOrderWithoutPayment,
	KindOrphanReceivable,
	KindStatusDivergence,
	KindCommissionWithoutIncome,
}

// Severity ranks the business impact of a finding
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
)

// Rank orders severities, most severe first
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	default:
		return 2
	}
}

// Severity returns the fixed severity of the kind
func (k FindingKind) Severity() Severity {
	switch k {
	case KindOrderWithoutPayment:
		return SeverityCritical
	case KindQuoteWithoutOrder, KindStatusDivergence:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

func (k FindingKind) order() int {
	for i, kind := range AllFindingKinds {
		if kind == k {
			return i
		}
	}
	return len(AllFindingKinds)
}

// Reference types carried by findings
const (
	ReferenceQuote           = "quote"
	ReferenceProductionOrder = "production_order"
	ReferenceReceivable      = "receivable"
	ReferenceCommission      = "commission"
)

// Finding is a single detected inconsistency. Findings are recomputed on
// every audit and never stored.
type Finding struct {
	Kind          FindingKind    `json:"kind"`
	Severity      Severity       `json:"severity"`
	Description   string         `json:"description"`
	QuoteID       *uuid.UUID     `json:"quote_id,omitempty"`
	ReferenceID   uuid.UUID      `json:"reference_id"`
	ReferenceType string         `json:"reference_type"`
	Payload       FindingPayload `json:"payload"`
}

// FindingPayload is the display data attached to a finding
type FindingPayload struct {
	Code         string           `json:"code"`
	ClientName   string           `json:"client_name"`
	Amount       decimal.Decimal  `json:"amount"`
	PaidFraction *decimal.Decimal `json:"paid_fraction,omitempty"`
}

func newFinding(kind FindingKind, refType string, refID uuid.UUID, quoteID *uuid.UUID, description string, payload FindingPayload) Finding {
	return Finding{
		Kind:          kind,
		Severity:      kind.Severity(),
		Description:   description,
		QuoteID:       quoteID,
		ReferenceID:   refID,
		ReferenceType: refType,
		Payload:       payload,
	}
}
