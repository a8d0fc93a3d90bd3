package persistence

import (
	"context"
	"errors"

	"github.com/gestor/backend/internal/domain/sales"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormQuoteRepository implements sales.QuoteReader and sales.QuoteStatusWriter
type GormQuoteRepository struct {
	db *gorm.DB
}

var (
	_ sales.QuoteReader       = (*GormQuoteRepository)(nil)
	_ sales.QuoteStatusWriter = (*GormQuoteRepository)(nil)
)

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByIDForTenant finds a quote by ID within a tenant
func (r *GormQuoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Quote, error) {
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant returns every quote of the tenant ordered by code
func (r *GormQuoteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]sales.Quote, error) {
	var rows []models.QuoteModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Order("code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	quotes := make([]sales.Quote, 0, len(rows))
	for i := range rows {
		quotes = append(quotes, *rows[i].ToDomain())
	}
	return quotes, nil
}

// PersistQuoteStatus writes the new status only if the stored status and
// version still match the change precondition.
func (r *GormQuoteRepository) PersistQuoteStatus(ctx context.Context, change sales.StatusChange) error {
	updates := map[string]any{
		"status":            change.NewStatus,
		"version":           change.NewVersion,
		"status_changed_at": change.ChangedAt,
		"updated_at":        change.ChangedAt,
	}
	if change.PaymentTerms != nil {
		updates["payment_terms"] = models.PaymentTermsColumn{Terms: change.PaymentTerms}
	}

	result := r.db.WithContext(ctx).
		Model(&models.QuoteModel{}).
		Scopes(tenantScope(change.TenantID)).
		Where("id = ? AND version = ? AND status = ?", change.QuoteID, change.ExpectedVersion, change.ExpectedStatus).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeConcurrencyConflict, "Quote was modified by another request")
	}
	return nil
}

// Save inserts or replaces a quote. Used for seeding and by the quote
// editor; status moves go through PersistQuoteStatus.
func (r *GormQuoteRepository) Save(ctx context.Context, q *sales.Quote) error {
	return r.db.WithContext(ctx).Save(models.QuoteModelFromDomain(q)).Error
}
