package audit

import (
	"fmt"

	"github.com/gestor/backend/internal/domain/finance"
	"github.com/gestor/backend/internal/domain/partner"
	"github.com/gestor/backend/internal/domain/production"
	"github.com/gestor/backend/internal/domain/sales"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is the point-in-time data an audit runs over. Quotes,
// ProductionOrders, Receivables and Commissions are required: a nil slice
// means the collection was never loaded, an empty slice means there is
// nothing in it. Contacts are optional.
type Snapshot struct {
	Quotes           []sales.Quote
	ProductionOrders []production.ProductionOrder
	Receivables      []finance.ReceivableInstallment
	Commissions      []finance.Commission
	Contacts         []partner.Contact
}

// Validate checks the snapshot is structurally usable
func (s *Snapshot) Validate() error {
	if s == nil {
		return shared.NewDomainError(shared.CodeInvalidSnapshot, "Snapshot is missing")
	}
	switch {
	case s.Quotes == nil:
		return missingCollection("quotes")
	case s.ProductionOrders == nil:
		return missingCollection("production orders")
	case s.Receivables == nil:
		return missingCollection("receivables")
	case s.Commissions == nil:
		return missingCollection("commissions")
	}

	seen := make(map[uuid.UUID]struct{}, len(s.Quotes))
	for i := range s.Quotes {
		id := s.Quotes[i].ID
		if id == uuid.Nil {
			return shared.NewDomainError(shared.CodeInvalidSnapshot, fmt.Sprintf("Quote at position %d has no id", i))
		}
		if _, dup := seen[id]; dup {
			return shared.NewDomainError(shared.CodeInvalidSnapshot, fmt.Sprintf("Quote %s appears twice", id))
		}
		seen[id] = struct{}{}
	}
	return nil
}

func missingCollection(name string) error {
	return shared.NewDomainError(shared.CodeInvalidSnapshot, fmt.Sprintf("Snapshot has no %s collection", name))
}

// snapshotIndex holds the lookups shared by all rules
type snapshotIndex struct {
	snapshot       *Snapshot
	quotes         map[uuid.UUID]*sales.Quote
	contacts       map[uuid.UUID]*partner.Contact
	quotesWithJobs map[uuid.UUID]struct{}
	paidByQuote    map[uuid.UUID]decimal.Decimal
}

func newSnapshotIndex(s *Snapshot) *snapshotIndex {
	idx := &snapshotIndex{
		snapshot:       s,
		quotes:         make(map[uuid.UUID]*sales.Quote, len(s.Quotes)),
		contacts:       indexContacts(s.Contacts),
		quotesWithJobs: make(map[uuid.UUID]struct{}),
		paidByQuote:    finance.PaidAmountByQuote(s.Receivables),
	}
	for i := range s.Quotes {
		idx.quotes[s.Quotes[i].ID] = &s.Quotes[i]
	}
	for i := range s.ProductionOrders {
		if qid := s.ProductionOrders[i].QuoteID; qid != nil {
			idx.quotesWithJobs[*qid] = struct{}{}
		}
	}
	return idx
}

// quote resolves a nullable quote reference
func (idx *snapshotIndex) quote(id *uuid.UUID) *sales.Quote {
	if id == nil {
		return nil
	}
	return idx.quotes[*id]
}

func (idx *snapshotIndex) clientName(q *sales.Quote) string {
	return clientName(q, idx.contacts)
}

// clientName prefers the name typed on the quote and falls back to the
// linked contact
func clientName(q *sales.Quote, contacts map[uuid.UUID]*partner.Contact) string {
	if q == nil {
		return ""
	}
	if q.ClientName != "" || q.ContactID == nil {
		return q.ClientName
	}
	if c, ok := contacts[*q.ContactID]; ok {
		return c.DisplayName
	}
	return ""
}

func indexContacts(contacts []partner.Contact) map[uuid.UUID]*partner.Contact {
	m := make(map[uuid.UUID]*partner.Contact, len(contacts))
	for i := range contacts {
		m[contacts[i].ID] = &contacts[i]
	}
	return m
}

func (idx *snapshotIndex) quotePayload(q *sales.Quote, amount decimal.Decimal) FindingPayload {
	p := FindingPayload{Amount: amount}
	if q != nil {
		p.Code = q.Code
		p.ClientName = idx.clientName(q)
	}
	return p
}
