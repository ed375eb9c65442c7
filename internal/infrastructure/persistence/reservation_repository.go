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

var reservationSortable = map[string]bool{
	"created_at": true,
	"check_in":   true,
	"check_out":  true,
	"statut":     true,
}

// GormReservationRepository implements ReservationRepository using GORM
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GormReservationRepository
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// FindByID finds a reservation by its ID
func (r *GormReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*dossier.Reservation, error) {
	var reservation dossier.Reservation
	if err := r.db.WithContext(ctx).First(&reservation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// FindAll finds reservations with filtering
func (r *GormReservationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]dossier.Reservation, error) {
	var reservations []dossier.Reservation
	query := applyFilter(
		r.db.WithContext(ctx).Model(&dossier.Reservation{}),
		filter,
		reservationSortable,
	)

	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindExpiredOptions finds active options whose expiration has passed
func (r *GormReservationRepository) FindExpiredOptions(ctx context.Context, now time.Time) ([]dossier.Reservation, error) {
	var reservations []dossier.Reservation
	if err := r.db.WithContext(ctx).
		Where("statut = ? AND expiration_at <= ?", dossier.ReservationOptionActive, now).
		Order("expiration_at asc").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// HasOverlap reports whether an active reservation on the property
// intersects the half-open range [checkIn, checkOut)
func (r *GormReservationRepository) HasOverlap(ctx context.Context, logementID uuid.UUID, checkIn, checkOut time.Time, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&dossier.Reservation{}).
		Where("logement_id = ?", logementID).
		Where("statut IN ?", []dossier.ReservationStatus{dossier.ReservationOptionActive, dossier.ReservationConfirmee}).
		Where("check_in < ? AND ? < check_out", checkOut, checkIn)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a reservation
func (r *GormReservationRepository) Save(ctx context.Context, reservation *dossier.Reservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

// Ensure GormReservationRepository implements ReservationRepository
var _ dossier.ReservationRepository = (*GormReservationRepository)(nil)
