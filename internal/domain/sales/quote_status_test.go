package sales

import (
	"errors"
	"testing"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteStatus_IsValid(t *testing.T) {
	for _, s := range AllQuoteStatuses {
		t.Run(string(s), func(t *testing.T) {
			assert.True(t, s.IsValid())
		})
	}
	assert.False(t, QuoteStatus("aprovada").IsValid())
	assert.False(t, QuoteStatus("").IsValid())
	assert.Len(t, AllQuoteStatuses, 13)
}

func TestQuoteStatus_IsPaymentBearing(t *testing.T) {
	payment := map[QuoteStatus]bool{
		QuoteStatusPago40:      true,
		QuoteStatusPagoParcial: true,
		QuoteStatusPago60:      true,
		QuoteStatusPago:        true,
	}
	for _, s := range AllQuoteStatuses {
		t.Run(string(s), func(t *testing.T) {
			assert.Equal(t, payment[s], s.IsPaymentBearing())
		})
	}
}

func TestQuoteStatus_RequiresPaymentTerms(t *testing.T) {
	tests := []struct {
		from     QuoteStatus
		to       QuoteStatus
		expected bool
	}{
		{QuoteStatusEnviado, QuoteStatusPago40, true},
		{QuoteStatusRascunho, QuoteStatusPago, true},
		{QuoteStatusAprovado, QuoteStatusPagoParcial, true},
		{QuoteStatusCancelado, QuoteStatusPago60, true},
		{QuoteStatusPago40, QuoteStatusPago60, false},
		{QuoteStatusPago, QuoteStatusEmProducao, false},
		{QuoteStatusEnviado, QuoteStatusAprovado, false},
		{QuoteStatusPago, QuoteStatusPago, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.RequiresPaymentTerms(tt.to))
		})
	}
}

func TestParseQuoteStatus(t *testing.T) {
	s, err := ParseQuoteStatus(" pago_60 ")
	require.NoError(t, err)
	assert.Equal(t, QuoteStatusPago60, s)

	_, err = ParseQuoteStatus("PAGO")
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidStatus))
}
