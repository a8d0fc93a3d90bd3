package sales

import (
	"testing"
	"time"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestPaymentTerms_Validate(t *testing.T) {
	d1 := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 1, 0)

	tests := []struct {
		name    string
		terms   PaymentTerms
		wantErr bool
	}{
		{"single installment", PaymentTerms{InstallmentCount: 1, DueDates: []time.Time{d1}}, false},
		{"two ordered installments", PaymentTerms{InstallmentCount: 2, DueDates: []time.Time{d1, d2}}, false},
		{"same day installments", PaymentTerms{InstallmentCount: 2, DueDates: []time.Time{d1, d1}}, false},
		{"zero installments", PaymentTerms{InstallmentCount: 0}, true},
		{"missing due date", PaymentTerms{InstallmentCount: 2, DueDates: []time.Time{d1}}, true},
		{"out of order", PaymentTerms{InstallmentCount: 2, DueDates: []time.Time{d2, d1}}, true},
		{"empty due date", PaymentTerms{InstallmentCount: 1, DueDates: []time.Time{{}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.terms.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, shared.ErrInvalidPaymentTerms)
		})
	}
}
