package persistence

import (
	"context"

	"github.com/gestor/backend/internal/domain/finance"
	"github.com/gestor/backend/internal/domain/partner"
	"github.com/gestor/backend/internal/domain/production"
	"github.com/gestor/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// findAllForTenant loads every row of model M for the tenant and converts it.
// The result is never nil on success.
func findAllForTenant[M any, D any](ctx context.Context, db *gorm.DB, tenantID uuid.UUID, order string, toDomain func(*M) D) ([]D, error) {
	var rows []M
	if err := db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Order(order).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]D, 0, len(rows))
	for i := range rows {
		out = append(out, toDomain(&rows[i]))
	}
	return out, nil
}

// GormProductionOrderRepository implements production.ProductionOrderReader
type GormProductionOrderRepository struct {
	db *gorm.DB
}

var _ production.ProductionOrderReader = (*GormProductionOrderRepository)(nil)

// NewGormProductionOrderRepository creates a new GormProductionOrderRepository
func NewGormProductionOrderRepository(db *gorm.DB) *GormProductionOrderRepository {
	return &GormProductionOrderRepository{db: db}
}

func (r *GormProductionOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]production.ProductionOrder, error) {
	return findAllForTenant(ctx, r.db, tenantID, "order_number ASC", (*models.ProductionOrderModel).ToDomain)
}

// Save inserts or replaces a production order
func (r *GormProductionOrderRepository) Save(ctx context.Context, o production.ProductionOrder) error {
	return r.db.WithContext(ctx).Save(models.ProductionOrderModelFromDomain(o)).Error
}

// GormReceivableRepository implements finance.ReceivableReader
type GormReceivableRepository struct {
	db *gorm.DB
}

var _ finance.ReceivableReader = (*GormReceivableRepository)(nil)

// NewGormReceivableRepository creates a new GormReceivableRepository
func NewGormReceivableRepository(db *gorm.DB) *GormReceivableRepository {
	return &GormReceivableRepository{db: db}
}

func (r *GormReceivableRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]finance.ReceivableInstallment, error) {
	return findAllForTenant(ctx, r.db, tenantID, "due_date ASC, id ASC", (*models.ReceivableInstallmentModel).ToDomain)
}

// Save inserts or replaces an installment
func (r *GormReceivableRepository) Save(ctx context.Context, inst finance.ReceivableInstallment) error {
	return r.db.WithContext(ctx).Save(models.ReceivableInstallmentModelFromDomain(inst)).Error
}

// GormCommissionRepository implements finance.CommissionReader
type GormCommissionRepository struct {
	db *gorm.DB
}

var _ finance.CommissionReader = (*GormCommissionRepository)(nil)

// NewGormCommissionRepository creates a new GormCommissionRepository
func NewGormCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

func (r *GormCommissionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]finance.Commission, error) {
	return findAllForTenant(ctx, r.db, tenantID, "vendor_name ASC, id ASC", (*models.CommissionModel).ToDomain)
}

// Save inserts or replaces a commission
func (r *GormCommissionRepository) Save(ctx context.Context, c finance.Commission) error {
	return r.db.WithContext(ctx).Save(models.CommissionModelFromDomain(c)).Error
}

// GormContactRepository implements partner.ContactReader
type GormContactRepository struct {
	db *gorm.DB
}

var _ partner.ContactReader = (*GormContactRepository)(nil)

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

func (r *GormContactRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]partner.Contact, error) {
	return findAllForTenant(ctx, r.db, tenantID, "display_name ASC", (*models.ContactModel).ToDomain)
}

// Save inserts or replaces a contact
func (r *GormContactRepository) Save(ctx context.Context, c partner.Contact) error {
	return r.db.WithContext(ctx).Save(models.ContactModelFromDomain(c)).Error
}
