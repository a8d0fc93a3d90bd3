package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/gestor/backend/internal/domain/sales"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteModel is the persistence model for the Quote aggregate root
type QuoteModel struct {
	AggregateModel
	Code            string              `gorm:"type:varchar(50);not null;index"`
	ClientName      string              `gorm:"type:varchar(200)"`
	Status          sales.QuoteStatus   `gorm:"type:varchar(30);not null;default:'rascunho';index"`
	TotalAmount     decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	DiscountedTotal decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	ProjectedMargin decimal.NullDecimal `gorm:"type:decimal(9,4)"`
	RealizedMargin  decimal.NullDecimal `gorm:"type:decimal(9,4)"`
	StatusChangedAt time.Time           `gorm:"not null"`
	ContactID       *uuid.UUID          `gorm:"type:uuid;index"`
	PaymentTerms    PaymentTermsColumn  `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (QuoteModel) TableName() string {
	return "quotes"
}

// ToDomain converts the persistence model to a domain Quote
func (m *QuoteModel) ToDomain() *sales.Quote {
	return &sales.Quote{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			ID:        m.ID,
			TenantID:  m.TenantID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
			Version:   m.Version,
		},
		Code:            m.Code,
		ClientName:      m.ClientName,
		Status:          m.Status,
		TotalAmount:     m.TotalAmount,
		DiscountedTotal: m.DiscountedTotal,
		ProjectedMargin: nullToPtr(m.ProjectedMargin),
		RealizedMargin:  nullToPtr(m.RealizedMargin),
		StatusChangedAt: m.StatusChangedAt,
		ContactID:       m.ContactID,
		PaymentTerms:    m.PaymentTerms.Terms,
	}
}

// QuoteModelFromDomain builds a persistence model from a domain Quote
func QuoteModelFromDomain(q *sales.Quote) *QuoteModel {
	return &QuoteModel{
		AggregateModel: AggregateModel{
			TenantModel: TenantModel{
				ID:        q.ID,
				TenantID:  q.TenantID,
				CreatedAt: q.CreatedAt,
				UpdatedAt: q.UpdatedAt,
			},
			Version: q.Version,
		},
		Code:            q.Code,
		ClientName:      q.ClientName,
		Status:          q.Status,
		TotalAmount:     q.TotalAmount,
		DiscountedTotal: q.DiscountedTotal,
		ProjectedMargin: ptrToNull(q.ProjectedMargin),
		RealizedMargin:  ptrToNull(q.RealizedMargin),
		StatusChangedAt: q.StatusChangedAt,
		ContactID:       q.ContactID,
		PaymentTerms:    PaymentTermsColumn{Terms: q.PaymentTerms},
	}
}

// PaymentTermsColumn stores optional payment terms as a JSON document.
// A nil Terms is stored as SQL NULL.
type PaymentTermsColumn struct {
	Terms *sales.PaymentTerms
}

// Value implements driver.Valuer
func (c PaymentTermsColumn) Value() (driver.Value, error) {
	if c.Terms == nil {
		return nil, nil
	}
	b, err := json.Marshal(c.Terms)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (c *PaymentTermsColumn) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		c.Terms = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("failed to scan payment terms: unsupported type")
	}
	if len(raw) == 0 || string(raw) == "null" {
		c.Terms = nil
		return nil
	}
	var terms sales.PaymentTerms
	if err := json.Unmarshal(raw, &terms); err != nil {
		return err
	}
	c.Terms = &terms
	return nil
}

func nullToPtr(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}

func ptrToNull(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
