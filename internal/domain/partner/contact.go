package partner

import (
	"context"

	"github.com/google/uuid"
)

// Contact is a CRM contact. The audit only uses it to name clients.
type Contact struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	DisplayName string
	Email       string
	Phone       string
}

// ContactReader loads contacts for a tenant
type ContactReader interface {
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Contact, error)
}
