package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/gites/backend/internal/domain/dossier"
	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var dossierSortable = map[string]bool{
	"created_at":      true,
	"updated_at":      true,
	"pipeline_statut": true,
}

// GormDossierRepository implements DossierRepository using GORM
type GormDossierRepository struct {
	db *gorm.DB
}

// NewGormDossierRepository creates a new GormDossierRepository
func NewGormDossierRepository(db *gorm.DB) *GormDossierRepository {
	return &GormDossierRepository{db: db}
}

// FindByID finds a dossier by its ID
func (r *GormDossierRepository) FindByID(ctx context.Context, id uuid.UUID) (*dossier.Dossier, error) {
	var d dossier.Dossier
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindByReservation finds the dossier linked to a reservation
func (r *GormDossierRepository) FindByReservation(ctx context.Context, reservationID uuid.UUID) (*dossier.Dossier, error) {
	var d dossier.Dossier
	if err := r.db.WithContext(ctx).First(&d, "reservation_id = ?", reservationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindAll finds dossiers with filtering
func (r *GormDossierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]dossier.Dossier, error) {
	var dossiers []dossier.Dossier
	query := applyFilter(
		r.db.WithContext(ctx).Model(&dossier.Dossier{}),
		filter,
		dossierSortable,
	)

	if err := query.Find(&dossiers).Error; err != nil {
		return nil, err
	}
	return dossiers, nil
}

// Count counts dossiers matching the filter
func (r *GormDossierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&dossier.Dossier{}),
		filter,
		dossierSortable,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a dossier
func (r *GormDossierRepository) Save(ctx context.Context, d *dossier.Dossier) error {
	return r.db.WithContext(ctx).Save(d).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormDossierRepository) SaveWithLock(ctx context.Context, d *dossier.Dossier) error {
	currentVersion := d.Version
	d.Version++
	d.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&dossier.Dossier{}).
		Where("id = ? AND version = ?", d.ID, currentVersion).
		Updates(map[string]interface{}{
			"pipeline_statut": d.PipelineStatut,
			"deposit_type":    d.DepositType,
			"cancelled_at":    d.CancelledAt,
			"cancel_party":    d.CancelParty,
			"cancel_reason":   d.CancelReason,
			"archived_at":     d.ArchivedAt,
			"version":         d.Version,
			"updated_at":      d.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The dossier has been modified by another user")
	}
	return nil
}

// ExistsForReservation reports whether a dossier is already linked to the reservation
func (r *GormDossierRepository) ExistsForReservation(ctx context.Context, reservationID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&dossier.Dossier{}).
		Where("reservation_id = ?", reservationID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormDossierRepository implements DossierRepository
var _ dossier.DossierRepository = (*GormDossierRepository)(nil)
