package models

import (
	"github.com/gestor/backend/internal/domain/production"
	"github.com/google/uuid"
)

// ProductionOrderModel is the persistence model for production orders
type ProductionOrderModel struct {
	TenantModel
	OrderNumber string                `gorm:"type:varchar(50);not null"`
	QuoteID     *uuid.UUID            `gorm:"type:uuid;index"`
	State       production.OrderState `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (ProductionOrderModel) TableName() string {
	return "production_orders"
}

// ToDomain converts the persistence model to a domain ProductionOrder
func (m *ProductionOrderModel) ToDomain() production.ProductionOrder {
	return production.ProductionOrder{
		ID:          m.ID,
		TenantID:    m.TenantID,
		OrderNumber: m.OrderNumber,
		QuoteID:     m.QuoteID,
		State:       m.State,
		CreatedAt:   m.CreatedAt,
	}
}

// ProductionOrderModelFromDomain builds a persistence model from a domain order
func ProductionOrderModelFromDomain(o production.ProductionOrder) *ProductionOrderModel {
	return &ProductionOrderModel{
		TenantModel: TenantModel{ID: o.ID, TenantID: o.TenantID, CreatedAt: o.CreatedAt, UpdatedAt: o.CreatedAt},
		OrderNumber: o.OrderNumber,
		QuoteID:     o.QuoteID,
		State:       o.State,
	}
}
