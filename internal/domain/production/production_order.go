package production

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderState is the lifecycle state of a production order
type OrderState string

const (
	OrderStateActive    OrderState = "active"
	OrderStateCancelled OrderState = "cancelled"
	OrderStateDelivered OrderState = "delivered"
)

// IsValid checks if the state is a valid OrderState
func (s OrderState) IsValid() bool {
	switch s {
	case OrderStateActive, OrderStateCancelled, OrderStateDelivered:
		return true
	}
	return false
}

// String returns the string representation of OrderState
func (s OrderState) String() string {
	return string(s)
}

// ProductionOrder is a work order issued to the shop floor for a quote
type ProductionOrder struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	OrderNumber string
	QuoteID     *uuid.UUID
	State       OrderState
	CreatedAt   time.Time
}

// IsActive reports whether the order is still being produced
func (o *ProductionOrder) IsActive() bool {
	return o.State == OrderStateActive
}

// ProductionOrderReader loads production orders for a tenant
type ProductionOrderReader interface {
	// FindAllForTenant returns every production order of the tenant; never nil on success
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]ProductionOrder, error)
}
