package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionStatus represents the status of a sales commission
type CommissionStatus string

const (
	CommissionStatusPending CommissionStatus = "pending"
	CommissionStatusPaid    CommissionStatus = "paid"
)

// IsValid checks if the status is a valid CommissionStatus
func (s CommissionStatus) IsValid() bool {
	return s == CommissionStatusPending || s == CommissionStatusPaid
}

// String returns the string representation of CommissionStatus
func (s CommissionStatus) String() string {
	return string(s)
}

// Commission is a vendor's commission on a quote
type Commission struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	QuoteID    *uuid.UUID
	VendorName string
	Amount     decimal.Decimal
	Status     CommissionStatus
	PaymentRef *string
}

// CommissionReader loads commissions for a tenant
type CommissionReader interface {
	// FindAllForTenant returns every commission of the tenant; never nil on success
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Commission, error)
}
