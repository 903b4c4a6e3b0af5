package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"lexora/internal/domain/tenant"
	"lexora/internal/shared/db"
	"lexora/internal/shared/logger"
)

// TenantModel is the GORM model for the tenants table
type TenantModel struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	TenantID    string    `gorm:"column:tenant_id;type:varchar(100);not null;uniqueIndex"`
	DisplayName string    `gorm:"column:display_name;type:varchar(200)"`
	PlanKey     string    `gorm:"column:plan_key;type:varchar(50);not null"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// TenantRepository implements tenant.Repository on GORM
type TenantRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewTenantRepository creates a new TenantRepository
func NewTenantRepository(gdb *gorm.DB, logger logger.Interface) *TenantRepository {
	return &TenantRepository{db: gdb, logger: logger}
}

// Create persists a new tenant
func (r *TenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	model := r.toModel(t)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return tenant.ErrTenantExists
		}
		return err
	}
	t.SetID(model.ID)
	return nil
}

// GetByTenantID retrieves a tenant by its external identifier
func (r *TenantRepository) GetByTenantID(ctx context.Context, tenantID string) (*tenant.Tenant, error) {
	var model TenantModel
	if err := db.GetTxFromContext(ctx, r.db).Where("tenant_id = ?", tenantID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tenant.ErrTenantNotFound
		}
		return nil, err
	}
	return r.toDomain(&model), nil
}

// Update persists tenant field mutations
func (r *TenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	model := r.toModel(t)
	return db.GetTxFromContext(ctx, r.db).Save(model).Error
}

func (r *TenantRepository) toModel(t *tenant.Tenant) *TenantModel {
	return &TenantModel{
		ID:          t.ID(),
		TenantID:    t.TenantID(),
		DisplayName: t.DisplayName(),
		PlanKey:     t.PlanKey(),
		IsActive:    t.IsActive(),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
	}
}

func (r *TenantRepository) toDomain(m *TenantModel) *tenant.Tenant {
	return tenant.ReconstructTenant(
		m.ID,
		m.TenantID,
		m.DisplayName,
		m.PlanKey,
		m.IsActive,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
