package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"lexora/internal/domain/binding"
	"lexora/internal/shared/db"
	"lexora/internal/shared/logger"
)

// IdentityBindingModel is the GORM model for the identity_bindings table.
// One row per external identity; inactive rows are retained for history and
// waitlist promotion.
type IdentityBindingModel struct {
	ID          uint       `gorm:"primaryKey;autoIncrement"`
	SID         string     `gorm:"column:sid;type:varchar(50);not null;uniqueIndex"`
	ExternalID  string     `gorm:"column:external_id;type:varchar(100);not null;uniqueIndex"`
	TenantID    string     `gorm:"column:tenant_id;type:varchar(100);not null;index:idx_identity_bindings_tenant_status"`
	DisplayName string     `gorm:"column:display_name;type:varchar(200)"`
	Status      string     `gorm:"column:status;type:varchar(20);not null;index:idx_identity_bindings_tenant_status"`
	BoundAt     *time.Time `gorm:"column:bound_at"`
	RequestedAt time.Time  `gorm:"column:requested_at;not null"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for GORM
func (IdentityBindingModel) TableName() string {
	return "identity_bindings"
}

// LedgerRepository implements binding.LedgerRepository on GORM. Seat counts
// are computed with live COUNT queries; no cached counter column exists.
type LedgerRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(gdb *gorm.DB, logger logger.Interface) *LedgerRepository {
	return &LedgerRepository{db: gdb, logger: logger}
}

// ActiveCountForTenant counts active rows for the tenant.
func (r *LedgerRepository) ActiveCountForTenant(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).
		Model(&IdentityBindingModel{}).
		Where("tenant_id = ? AND status = ?", tenantID, string(binding.StatusActive)).
		Count(&count).Error
	return count, err
}

// FindByExternalID returns the row for the identity regardless of status.
func (r *LedgerRepository) FindByExternalID(ctx context.Context, externalID string) (*binding.IdentityBinding, error) {
	var model IdentityBindingModel
	if err := db.GetTxFromContext(ctx, r.db).Where("external_id = ?", externalID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, binding.ErrBindingNotFound
		}
		return nil, err
	}
	return r.toDomain(&model), nil
}

// FindActiveByExternalID returns the row only if it is active.
func (r *LedgerRepository) FindActiveByExternalID(ctx context.Context, externalID string) (*binding.IdentityBinding, error) {
	var model IdentityBindingModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("external_id = ? AND status = ?", externalID, string(binding.StatusActive)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, binding.ErrBindingNotFound
		}
		return nil, err
	}
	return r.toDomain(&model), nil
}

// OldestInactiveForTenant returns the promotion candidate: never-bound rows
// first, then earliest request time, ties by insertion order.
func (r *LedgerRepository) OldestInactiveForTenant(ctx context.Context, tenantID, excludeExternalID string) (*binding.IdentityBinding, error) {
	q := db.GetTxFromContext(ctx, r.db).
		Where("tenant_id = ? AND status = ?", tenantID, string(binding.StatusInactive))
	if excludeExternalID != "" {
		q = q.Where("external_id <> ?", excludeExternalID)
	}

	var model IdentityBindingModel
	err := q.Order("(bound_at IS NULL) DESC").
		Order("requested_at ASC").
		Order("id ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, binding.ErrBindingNotFound
		}
		return nil, err
	}
	return r.toDomain(&model), nil
}

// Create persists a new ledger row
func (r *LedgerRepository) Create(ctx context.Context, b *binding.IdentityBinding) error {
	model := r.toModel(b)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return err
	}
	b.SetRowID(model.ID)
	return nil
}

// Update persists ledger row mutations
func (r *LedgerRepository) Update(ctx context.Context, b *binding.IdentityBinding) error {
	return db.GetTxFromContext(ctx, r.db).Save(r.toModel(b)).Error
}

func (r *LedgerRepository) toModel(b *binding.IdentityBinding) *IdentityBindingModel {
	return &IdentityBindingModel{
		ID:          b.RowID(),
		SID:         b.SID(),
		ExternalID:  b.ExternalID(),
		TenantID:    b.TenantID(),
		DisplayName: b.DisplayName(),
		Status:      string(b.Status()),
		BoundAt:     b.BoundAt(),
		RequestedAt: b.RequestedAt(),
		CreatedAt:   b.CreatedAt(),
		UpdatedAt:   b.UpdatedAt(),
	}
}

func (r *LedgerRepository) toDomain(m *IdentityBindingModel) *binding.IdentityBinding {
	return binding.ReconstructIdentityBinding(
		m.ID,
		m.SID,
		m.ExternalID,
		m.TenantID,
		m.DisplayName,
		binding.Status(m.Status),
		m.BoundAt,
		m.RequestedAt,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
