package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"lexora/internal/domain/binding"
	"lexora/internal/shared/db"
	"lexora/internal/shared/logger"
)

// issueRetries bounds token-collision retries on insert.
const issueRetries = 3

// BindingCodeModel is the GORM model for the binding_codes table
type BindingCodeModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Code      string    `gorm:"column:code;type:varchar(64);not null;uniqueIndex"`
	TenantID  string    `gorm:"column:tenant_id;type:varchar(100);not null;index"`
	IssuedAt  time.Time `gorm:"column:issued_at;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
	Consumed  bool      `gorm:"column:consumed;not null;default:false"`
}

// TableName returns the table name for GORM
func (BindingCodeModel) TableName() string {
	return "binding_codes"
}

// BindingCodeStore implements binding.CodeStore on GORM. Single-use
// consumption is enforced with a conditional UPDATE on the consumed flag, so
// exactly one of two racing consumers sees a row affected.
type BindingCodeStore struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewBindingCodeStore creates a new BindingCodeStore
func NewBindingCodeStore(gdb *gorm.DB, logger logger.Interface) *BindingCodeStore {
	return &BindingCodeStore{db: gdb, logger: logger}
}

// Issue persists a fresh code, retrying on token collision.
func (s *BindingCodeStore) Issue(ctx context.Context, tenantID string, ttl time.Duration, now time.Time) (*binding.BindingCode, error) {
	for attempt := 0; attempt < issueRetries; attempt++ {
		code, err := binding.NewBindingCode(tenantID, ttl, now)
		if err != nil {
			return nil, err
		}

		model := s.toModel(code)
		err = db.GetTxFromContext(ctx, s.db).Create(model).Error
		if err == nil {
			code.SetRowID(model.ID)
			return code, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		s.logger.Warnw("binding code token collision, retrying", "attempt", attempt+1)
	}
	return nil, fmt.Errorf("failed to issue binding code after %d attempts", issueRetries)
}

// Peek is a read-only lookup; it neither mutates nor auto-expires.
func (s *BindingCodeStore) Peek(ctx context.Context, code string) (*binding.BindingCode, error) {
	var model BindingCodeModel
	if err := db.GetTxFromContext(ctx, s.db).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, binding.ErrCodeNotFound
		}
		return nil, err
	}
	return s.toDomain(&model), nil
}

// TryConsume atomically flips the consumed flag. Expired rows are deleted as
// a side effect of the failed consume.
func (s *BindingCodeStore) TryConsume(ctx context.Context, code string, now time.Time) (*binding.BindingCode, error) {
	tx := db.GetTxFromContext(ctx, s.db)

	var model BindingCodeModel
	if err := tx.Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, binding.ErrCodeNotFound
		}
		return nil, err
	}

	if model.Consumed {
		return nil, binding.ErrCodeAlreadyUsed
	}
	if now.After(model.ExpiresAt) {
		if err := tx.Delete(&BindingCodeModel{}, model.ID).Error; err != nil {
			s.logger.Warnw("failed to delete expired binding code", "code_id", model.ID, "error", err)
		}
		return nil, binding.ErrCodeExpired
	}

	res := tx.Model(&BindingCodeModel{}).
		Where("id = ? AND consumed = ?", model.ID, false).
		Update("consumed", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race to a concurrent consumer.
		return nil, binding.ErrCodeAlreadyUsed
	}

	model.Consumed = true
	return s.toDomain(&model), nil
}

// SweepExpired deletes unconsumed rows past their expiry.
func (s *BindingCodeStore) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	res := db.GetTxFromContext(ctx, s.db).
		Where("consumed = ? AND expires_at < ?", false, now).
		Delete(&BindingCodeModel{})
	return res.RowsAffected, res.Error
}

func (s *BindingCodeStore) toModel(c *binding.BindingCode) *BindingCodeModel {
	return &BindingCodeModel{
		ID:        c.RowID(),
		Code:      c.Code(),
		TenantID:  c.TenantID(),
		IssuedAt:  c.IssuedAt(),
		ExpiresAt: c.ExpiresAt(),
		Consumed:  c.Consumed(),
	}
}

func (s *BindingCodeStore) toDomain(m *BindingCodeModel) *binding.BindingCode {
	return binding.ReconstructBindingCode(
		m.ID,
		m.Code,
		m.TenantID,
		m.IssuedAt,
		m.ExpiresAt,
		m.Consumed,
	)
}
