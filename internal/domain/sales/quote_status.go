package sales

import (
	"fmt"
	"strings"

	"github.com/gestor/backend/internal/domain/shared"
)

// QuoteStatus is the lifecycle status of a quote. The set is closed.
type QuoteStatus string

const (
	QuoteStatusRascunho    QuoteStatus = "rascunho"
	QuoteStatusFinalizado  QuoteStatus = "finalizado"
	QuoteStatusEnviado     QuoteStatus = "enviado"
	QuoteStatusSemResposta QuoteStatus = "sem_resposta"
	QuoteStatusPago40      QuoteStatus = "pago_40"
	QuoteStatusPagoParcial QuoteStatus = "pago_parcial"
	QuoteStatusPago60      QuoteStatus = "pago_60"
	QuoteStatusPago        QuoteStatus = "pago"
	QuoteStatusAprovado    QuoteStatus = "aprovado"
	QuoteStatusEmProducao  QuoteStatus = "em_producao"
	QuoteStatusInstalado   QuoteStatus = "instalado"
	QuoteStatusRecusado    QuoteStatus = "recusado"
	QuoteStatusCancelado   QuoteStatus = "cancelado"
)

// AllQuoteStatuses lists every status in lifecycle order
var AllQuoteStatuses = []QuoteStatus{
	QuoteStatusRascunho,
	QuoteStatusFinalizado,
	QuoteStatusEnviado,
	QuoteStatusSemResposta,
	QuoteStatusPago40,
	QuoteStatusPagoParcial,
	QuoteStatusPago60,
	QuoteStatusPago,
	QuoteStatusAprovado,
	QuoteStatusEmProducao,
	QuoteStatusInstalado,
	QuoteStatusRecusado,
	QuoteStatusCancelado,
}

// PaymentStatuses are the statuses that assert money has been received.
// Entering one of them from outside the set is gated on payment terms.
var PaymentStatuses = map[QuoteStatus]struct{}{
	QuoteStatusPago40:      {},
	QuoteStatusPagoParcial: {},
	QuoteStatusPago60:      {},
	QuoteStatusPago:        {},
}

// IsValid checks if the status is one of the known statuses
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusRascunho, QuoteStatusFinalizado, QuoteStatusEnviado, QuoteStatusSemResposta,
		QuoteStatusPago40, QuoteStatusPagoParcial, QuoteStatusPago60, QuoteStatusPago,
		QuoteStatusAprovado, QuoteStatusEmProducao, QuoteStatusInstalado,
		QuoteStatusRecusado, QuoteStatusCancelado:
		return true
	}
	return false
}

// IsPaymentBearing reports membership in PaymentStatuses
func (s QuoteStatus) IsPaymentBearing() bool {
	_, ok := PaymentStatuses[s]
	return ok
}

// String returns the string representation of QuoteStatus
func (s QuoteStatus) String() string {
	return string(s)
}

// RequiresPaymentTerms reports whether moving from s to target must collect
// payment terms before anything is persisted.
func (s QuoteStatus) RequiresPaymentTerms(target QuoteStatus) bool {
	return target.IsPaymentBearing() && !s.IsPaymentBearing()
}

// ParseQuoteStatus converts raw input into a QuoteStatus, rejecting unknown values
func ParseQuoteStatus(raw string) (QuoteStatus, error) {
	s := QuoteStatus(strings.TrimSpace(raw))
	if !s.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidStatus, fmt.Sprintf("Unknown quote status %q", raw))
	}
	return s, nil
}
