package repository

import (
	"context"

	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompositionRepository owns the kit → component bill-of-materials lines.
type CompositionRepository interface {
	Create(ctx context.Context, e *model.CompositionEntry) error
	// Delete removes one (kit, component) line and reports whether it existed.
	Delete(ctx context.Context, kitID, componentID uuid.UUID) (bool, error)
	ListByKit(ctx context.Context, kitID uuid.UUID) ([]model.CompositionEntry, error)
	Exists(ctx context.Context, kitID, componentID uuid.UUID) (bool, error)
	CountByKit(ctx context.Context, kitID uuid.UUID) (int64, error)
	// ReferencesProduct reports whether the product appears in any BOM line,
	// as kit or as component. Used to freeze role and stock_mode.
	ReferencesProduct(ctx context.Context, productID uuid.UUID) (bool, error)
}

type compositionRepo struct{ db *gorm.DB }

func NewCompositionRepository(db *gorm.DB) CompositionRepository {
	return &compositionRepo{db: db}
}

func (r *compositionRepo) Create(ctx context.Context, e *model.CompositionEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *compositionRepo) Delete(ctx context.Context, kitID, componentID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("kit_id = ? AND component_id = ?", kitID, componentID).
		Delete(&model.CompositionEntry{})
	return res.RowsAffected > 0, res.Error
}

func (r *compositionRepo) ListByKit(ctx context.Context, kitID uuid.UUID) ([]model.CompositionEntry, error) {
	var entries []model.CompositionEntry
	err := r.db.WithContext(ctx).
		Preload("Component").
		Where("kit_id = ?", kitID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *compositionRepo) Exists(ctx context.Context, kitID, componentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CompositionEntry{}).
		Where("kit_id = ? AND component_id = ?", kitID, componentID).
		Count(&count).Error
	return count > 0, err
}

func (r *compositionRepo) CountByKit(ctx context.Context, kitID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CompositionEntry{}).
		Where("kit_id = ?", kitID).
		Count(&count).Error
	return count, err
}

func (r *compositionRepo) ReferencesProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CompositionEntry{}).
		Where("kit_id = ? OR component_id = ?", productID, productID).
		Count(&count).Error
	return count > 0, err
}
