// Package models holds the GORM persistence models and their conversions
// to and from the domain types.
package models

import (
	"time"

	"github.com/google/uuid"
)

// TenantModel provides the identity columns shared by every tenant-scoped table
type TenantModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// AggregateModel adds the optimistic-lock version used by aggregate roots
type AggregateModel struct {
	TenantModel
	Version int `gorm:"not null;default:1"`
}

// All returns every model, in dependency order, for schema migration
func All() []any {
	return []any{
		&ContactModel{},
		&QuoteModel{},
		&ProductionOrderModel{},
		&ReceivableInstallmentModel{},
		&CommissionModel{},
	}
}
