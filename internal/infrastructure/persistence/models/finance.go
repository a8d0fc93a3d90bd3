package models

import (
	"time"

	"github.com/gestor/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceivableInstallmentModel is one receivable installment row
type ReceivableInstallmentModel struct {
	TenantModel
	QuoteID *uuid.UUID      `gorm:"type:uuid;index"`
	Amount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DueDate time.Time       `gorm:"not null;index"`
	Paid    bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ReceivableInstallmentModel) TableName() string {
	return "receivable_installments"
}

// ToDomain converts the persistence model to a domain installment
func (m *ReceivableInstallmentModel) ToDomain() finance.ReceivableInstallment {
	return finance.ReceivableInstallment{
		ID:       m.ID,
		TenantID: m.TenantID,
		QuoteID:  m.QuoteID,
		Amount:   m.Amount,
		DueDate:  m.DueDate,
		Paid:     m.Paid,
	}
}

// ReceivableInstallmentModelFromDomain builds a persistence model from a domain installment
func ReceivableInstallmentModelFromDomain(r finance.ReceivableInstallment) *ReceivableInstallmentModel {
	return &ReceivableInstallmentModel{
		TenantModel: TenantModel{ID: r.ID, TenantID: r.TenantID},
		QuoteID:     r.QuoteID,
		Amount:      r.Amount,
		DueDate:     r.DueDate,
		Paid:        r.Paid,
	}
}

// CommissionModel is one vendor commission row
type CommissionModel struct {
	TenantModel
	QuoteID    *uuid.UUID               `gorm:"type:uuid;index"`
	VendorName string                   `gorm:"type:varchar(200);not null"`
	Amount     decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Status     finance.CommissionStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentRef *string                  `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (CommissionModel) TableName() string {
	return "commissions"
}

// ToDomain converts the persistence model to a domain commission
func (m *CommissionModel) ToDomain() finance.Commission {
	return finance.Commission{
		ID:         m.ID,
		TenantID:   m.TenantID,
		QuoteID:    m.QuoteID,
		VendorName: m.VendorName,
		Amount:     m.Amount,
		Status:     m.Status,
		PaymentRef: m.PaymentRef,
	}
}

// CommissionModelFromDomain builds a persistence model from a domain commission
func CommissionModelFromDomain(c finance.Commission) *CommissionModel {
	return &CommissionModel{
		TenantModel: TenantModel{ID: c.ID, TenantID: c.TenantID},
		QuoteID:     c.QuoteID,
		VendorName:  c.VendorName,
		Amount:      c.Amount,
		Status:      c.Status,
		PaymentRef:  c.PaymentRef,
	}
}
