package models

import "github.com/gestor/backend/internal/domain/partner"

// ContactModel is the persistence model for client contacts
type ContactModel struct {
	TenantModel
	DisplayName string `gorm:"type:varchar(200);not null"`
	Email       string `gorm:"type:varchar(200)"`
	Phone       string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact
func (m *ContactModel) ToDomain() partner.Contact {
	return partner.Contact{
		ID:          m.ID,
		TenantID:    m.TenantID,
		DisplayName: m.DisplayName,
		Email:       m.Email,
		Phone:       m.Phone,
	}
}

// ContactModelFromDomain builds a persistence model from a domain Contact
func ContactModelFromDomain(c partner.Contact) *ContactModel {
	return &ContactModel{
		TenantModel: TenantModel{ID: c.ID, TenantID: c.TenantID},
		DisplayName: c.DisplayName,
		Email:       c.Email,
		Phone:       c.Phone,
	}
}
