package sales

import (
	"context"

	"github.com/google/uuid"
)

// QuoteReader loads quotes for a tenant
type QuoteReader interface {
	// FindByIDForTenant returns shared.ErrNotFound when the quote does not exist
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Quote, error)

	// FindAllForTenant returns every quote of the tenant; never nil on success
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Quote, error)
}

// QuoteStatusWriter is the single write path for quote statuses
type QuoteStatusWriter interface {
	// PersistQuoteStatus applies change only when the stored status and
	// version still equal change.ExpectedStatus and change.ExpectedVersion.
	// It returns shared.ErrConcurrencyConflict when the precondition fails.
	PersistQuoteStatus(ctx context.Context, change StatusChange) error
}
