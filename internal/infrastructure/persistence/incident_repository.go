package persistence

import (
	"context"
	"errors"

	"github.com/gites/backend/internal/domain/inspection"
	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormIncidentRepository implements IncidentRepository using GORM
type GormIncidentRepository struct {
	db *gorm.DB
}

// NewGormIncidentRepository creates a new GormIncidentRepository
func NewGormIncidentRepository(db *gorm.DB) *GormIncidentRepository {
	return &GormIncidentRepository{db: db}
}

// FindByID finds an incident by its ID
func (r *GormIncidentRepository) FindByID(ctx context.Context, id uuid.UUID) (*inspection.Incident, error) {
	var i inspection.Incident
	if err := r.db.WithContext(ctx).First(&i, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &i, nil
}

// FindByEdl finds all incidents attached to an inspection
func (r *GormIncidentRepository) FindByEdl(ctx context.Context, edlID uuid.UUID) ([]inspection.Incident, error) {
	var incidents []inspection.Incident
	if err := r.db.WithContext(ctx).
		Where("edl_id = ?", edlID).
		Order("created_at asc").
		Find(&incidents).Error; err != nil {
		return nil, err
	}
	return incidents, nil
}

// Save creates or updates an incident
func (r *GormIncidentRepository) Save(ctx context.Context, i *inspection.Incident) error {
	return r.db.WithContext(ctx).Save(i).Error
}

// Delete removes an incident
func (r *GormIncidentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inspection.Incident{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormIncidentRepository implements IncidentRepository
var _ inspection.IncidentRepository = (*GormIncidentRepository)(nil)
