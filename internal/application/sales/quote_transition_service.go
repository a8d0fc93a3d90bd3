package sales

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/gestor/backend/internal/domain/sales"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuoteTransitionService exposes the transition guard to the outer layers
type QuoteTransitionService struct {
	guard    *sales.TransitionGuard
	validate *validator.Validate
	logger   *zap.Logger
}

// NewQuoteTransitionService creates a new QuoteTransitionService
func NewQuoteTransitionService(reader sales.QuoteReader, writer sales.QuoteStatusWriter, publisher shared.EventPublisher, logger *zap.Logger) *QuoteTransitionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	s := &QuoteTransitionService{
		validate: validate,
		logger:   logger,
	}
	opts := []sales.TransitionGuardOption{sales.WithPublishErrorHandler(s.logPublishError)}
	if publisher != nil {
		opts = append(opts, sales.WithEventPublisher(publisher))
	}
	s.guard = sales.NewTransitionGuard(reader, writer, opts...)
	return s
}

// RequestTransition validates and forwards a transition request
func (s *QuoteTransitionService) RequestTransition(ctx context.Context, tenantID, quoteID uuid.UUID, input RequestTransitionInput) (*TransitionResponse, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	current, err := sales.ParseQuoteStatus(input.CurrentStatus)
	if err != nil {
		return nil, err
	}
	target, err := sales.ParseQuoteStatus(input.TargetStatus)
	if err != nil {
		return nil, err
	}

	outcome, err := s.guard.RequestTransition(ctx, tenantID, quoteID, current, target)
	if err != nil {
		s.logFailure(err, "quote transition rejected", tenantID, quoteID, current, target)
		return nil, err
	}

	fields := []zap.Field{
		zap.String("tenant_id", tenantID.String()),
		zap.String("quote_id", quoteID.String()),
		zap.String("from", current.String()),
		zap.String("to", target.String()),
		zap.String("outcome", string(outcome.Kind)),
	}
	if outcome.Kind == sales.OutcomeCommitted {
		s.logger.Info("quote status committed", append(fields, zap.Int("version", outcome.Version))...)
	} else {
		s.logger.Debug("quote transition not persisted", fields...)
	}

	resp := ToTransitionResponse(outcome)
	return &resp, nil
}

// CommitTransition completes a payment-gated transition
func (s *QuoteTransitionService) CommitTransition(ctx context.Context, tenantID, quoteID uuid.UUID, input CommitTransitionInput) (*TransitionResponse, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	target, err := sales.ParseQuoteStatus(input.TargetStatus)
	if err != nil {
		return nil, err
	}

	outcome, err := s.guard.CommitTransitionWithPaymentTerms(ctx, tenantID, quoteID, target, input.PaymentTerms.ToPaymentTerms())
	if err != nil {
		s.logFailure(err, "payment-gated transition rejected", tenantID, quoteID, "", target)
		return nil, err
	}

	s.logger.Info("quote status committed with payment terms",
		zap.String("tenant_id", tenantID.String()),
		zap.String("quote_id", quoteID.String()),
		zap.String("from", outcome.From.String()),
		zap.String("to", outcome.To.String()),
		zap.Int("installments", input.PaymentTerms.InstallmentCount),
		zap.Int("version", outcome.Version),
	)

	resp := ToTransitionResponse(outcome)
	return &resp, nil
}

func (s *QuoteTransitionService) logFailure(err error, msg string, tenantID, quoteID uuid.UUID, from, to sales.QuoteStatus) {
	fields := []zap.Field{
		zap.String("tenant_id", tenantID.String()),
		zap.String("quote_id", quoteID.String()),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.Error(err),
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		s.logger.Warn(msg, append(fields, zap.String("code", de.Code))...)
		return
	}
	s.logger.Error(msg, fields...)
}

func (s *QuoteTransitionService) logPublishError(_ context.Context, quoteID uuid.UUID, err error) {
	s.logger.Error("failed to publish quote status event",
		zap.String("quote_id", quoteID.String()),
		zap.Error(err),
	)
}
