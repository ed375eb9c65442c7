package persistence

import (
	"context"
	"errors"

	"github.com/gites/backend/internal/domain/inspection"
	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEdlRepository implements EdlRepository using GORM
type GormEdlRepository struct {
	db *gorm.DB
}

// NewGormEdlRepository creates a new GormEdlRepository
func NewGormEdlRepository(db *gorm.DB) *GormEdlRepository {
	return &GormEdlRepository{db: db}
}

// FindByID finds an inspection by its ID, items included
func (r *GormEdlRepository) FindByID(ctx context.Context, id uuid.UUID) (*inspection.Edl, error) {
	var e inspection.Edl
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindByDossier finds the inspections of a dossier
func (r *GormEdlRepository) FindByDossier(ctx context.Context, dossierID uuid.UUID) ([]inspection.Edl, error) {
	var edls []inspection.Edl
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Where("dossier_id = ?", dossierID).
		Order("created_at asc").
		Find(&edls).Error; err != nil {
		return nil, err
	}
	return edls, nil
}

// FindByDossierAndType finds one dossier inspection by type
func (r *GormEdlRepository) FindByDossierAndType(ctx context.Context, dossierID uuid.UUID, typ inspection.EdlType) (*inspection.Edl, error) {
	var e inspection.Edl
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		First(&e, "dossier_id = ? AND type = ?", dossierID, typ).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Save creates or updates an inspection and its items
func (r *GormEdlRepository) Save(ctx context.Context, e *inspection.Edl) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(e).Error; err != nil {
			return err
		}

		// Remove items no longer part of the checklist
		itemIDs := make([]uuid.UUID, 0, len(e.Items))
		for _, item := range e.Items {
			itemIDs = append(itemIDs, item.ID)
		}

		query := tx.Where("edl_id = ?", e.ID)
		if len(itemIDs) > 0 {
			query = query.Where("id NOT IN ?", itemIDs)
		}
		if err := query.Delete(&inspection.EdlItem{}).Error; err != nil {
			return err
		}

		for i := range e.Items {
			e.Items[i].EdlID = e.ID
			if err := tx.Save(&e.Items[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Ensure GormEdlRepository implements EdlRepository
var _ inspection.EdlRepository = (*GormEdlRepository)(nil)
