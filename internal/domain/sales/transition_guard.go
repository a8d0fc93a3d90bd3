package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OutcomeKind tells the caller what happened to a transition request
type OutcomeKind string

const (
	// OutcomeUnchanged means current and target were equal; nothing was touched
	OutcomeUnchanged OutcomeKind = "unchanged"
	// OutcomeCommitted means the new status was persisted
	OutcomeCommitted OutcomeKind = "committed"
	// OutcomeRequiresPaymentTerms means nothing was persisted; the caller
	// must collect terms and call CommitTransitionWithPaymentTerms
	OutcomeRequiresPaymentTerms OutcomeKind = "requires_payment_terms"
)

// TransitionOutcome is the result of a transition request
type TransitionOutcome struct {
	Kind    OutcomeKind
	QuoteID uuid.UUID
	From    QuoteStatus
	To      QuoteStatus
	// Totals is set for OutcomeRequiresPaymentTerms
	Totals *QuoteTotals
	// Version is the persisted quote version after a commit
	Version int
}

// PublishErrorFunc is called when domain events of an already committed
// transition could not be published
type PublishErrorFunc func(ctx context.Context, quoteID uuid.UUID, err error)

// TransitionGuard intercepts quote status changes. Leaving or moving
// within payment statuses commits directly; entering a payment status from
// outside is split into a request and a commit carrying payment terms. The
// guard holds no state between the two calls.
type TransitionGuard struct {
	reader         QuoteReader
	writer         QuoteStatusWriter
	eventPublisher shared.EventPublisher
	onPublishError PublishErrorFunc
}

// TransitionGuardOption is a functional option for configuring TransitionGuard
type TransitionGuardOption func(*TransitionGuard)

// WithEventPublisher sets the publisher that receives committed transition events
func WithEventPublisher(p shared.EventPublisher) TransitionGuardOption {
	return func(g *TransitionGuard) {
		g.eventPublisher = p
	}
}

// WithPublishErrorHandler sets the callback for event publishing failures
func WithPublishErrorHandler(fn PublishErrorFunc) TransitionGuardOption {
	return func(g *TransitionGuard) {
		g.onPublishError = fn
	}
}

// NewTransitionGuard creates a new transition guard
func NewTransitionGuard(reader QuoteReader, writer QuoteStatusWriter, opts ...TransitionGuardOption) *TransitionGuard {
	g := &TransitionGuard{
		reader: reader,
		writer: writer,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RequestTransition asks to move a quote from current to target.
// current is the status the caller observed; if the stored status differs
// the request fails with shared.ErrConcurrencyConflict.
func (g *TransitionGuard) RequestTransition(ctx context.Context, tenantID, quoteID uuid.UUID, current, target QuoteStatus) (*TransitionOutcome, error) {
	if !current.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidStatus, fmt.Sprintf("Unknown quote status %q", current))
	}
	if !target.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidStatus, fmt.Sprintf("Unknown quote status %q", target))
	}

	if current == target {
		return &TransitionOutcome{Kind: OutcomeUnchanged, QuoteID: quoteID, From: current, To: target}, nil
	}

	quote, err := g.reader.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.Status != current {
		return nil, shared.NewDomainError(shared.CodeConcurrencyConflict,
			fmt.Sprintf("Quote %s is %s, not %s", quote.Code, quote.Status, current))
	}

	if current.RequiresPaymentTerms(target) {
		totals := quote.Totals()
		return &TransitionOutcome{
			Kind:    OutcomeRequiresPaymentTerms,
			QuoteID: quoteID,
			From:    current,
			To:      target,
			Totals:  &totals,
			Version: quote.Version,
		}, nil
	}

	change, err := quote.ChangeStatus(target, nil)
	if err != nil {
		return nil, err
	}
	if err := g.writer.PersistQuoteStatus(ctx, change); err != nil {
		return nil, err
	}
	g.publish(ctx, quote)

	return &TransitionOutcome{Kind: OutcomeCommitted, QuoteID: quoteID, From: current, To: target, Version: change.NewVersion}, nil
}

// CommitTransitionWithPaymentTerms completes a gated transition. The gating
// rule is re-checked against the freshly loaded status; if it no longer
// applies, or another writer wins the race, the call fails with
// shared.ErrInvalidTransitionSequence and nothing is written.
func (g *TransitionGuard) CommitTransitionWithPaymentTerms(ctx context.Context, tenantID, quoteID uuid.UUID, target QuoteStatus, terms PaymentTerms) (*TransitionOutcome, error) {
	if !target.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidStatus, fmt.Sprintf("Unknown quote status %q", target))
	}

	quote, err := g.reader.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	from := quote.Status
	if !from.RequiresPaymentTerms(target) {
		return nil, shared.NewDomainError(shared.CodeInvalidTransitionSequence,
			fmt.Sprintf("Moving quote %s from %s to %s does not take payment terms", quote.Code, from, target))
	}
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	change, err := quote.ChangeStatus(target, &terms)
	if err != nil {
		return nil, err
	}
	if err := g.writer.PersistQuoteStatus(ctx, change); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, shared.NewDomainError(shared.CodeInvalidTransitionSequence,
				fmt.Sprintf("Quote %s changed while payment terms were being collected", quote.Code))
		}
		return nil, err
	}
	g.publish(ctx, quote)

	return &TransitionOutcome{Kind: OutcomeCommitted, QuoteID: quoteID, From: from, To: target, Version: change.NewVersion}, nil
}

// publish delivers the quote's pending events. The transition is already
// durable at this point, so failures are reported but not returned.
func (g *TransitionGuard) publish(ctx context.Context, quote *Quote) {
	events := quote.GetDomainEvents()
	quote.ClearDomainEvents()
	if g.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := g.eventPublisher.Publish(ctx, events...); err != nil && g.onPublishError != nil {
		g.onPublishError(ctx, quote.ID, err)
	}
}
