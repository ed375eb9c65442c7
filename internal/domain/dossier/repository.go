package dossier

import (
	"context"
	"time"

	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DossierRepository persists Dossier aggregates
type DossierRepository interface {
	// FindByID finds a dossier by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Dossier, error)

	// FindByReservation finds the dossier linked to a reservation
	FindByReservation(ctx context.Context, reservationID uuid.UUID) (*Dossier, error)

	// FindAll finds dossiers with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Dossier, error)

	// Count counts dossiers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a dossier
	Save(ctx context.Context, d *Dossier) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, d *Dossier) error

	// ExistsForReservation reports whether a dossier is already linked
	// to the reservation
	ExistsForReservation(ctx context.Context, reservationID uuid.UUID) (bool, error)
}

// ReservationRepository persists Reservation aggregates
type ReservationRepository interface {
	// FindByID finds a reservation by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Reservation, error)

	// FindAll finds reservations with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Reservation, error)

	// FindExpiredOptions finds active options whose expiration has passed
	FindExpiredOptions(ctx context.Context, now time.Time) ([]Reservation, error)

	// HasOverlap reports whether an active reservation on the property
	// intersects the half-open range [checkIn, checkOut). Must execute
	// under at least snapshot isolation when called inside a booking
	// transaction.
	HasOverlap(ctx context.Context, logementID uuid.UUID, checkIn, checkOut time.Time, excludeID uuid.UUID) (bool, error)

	// Save creates or updates a reservation
	Save(ctx context.Context, r *Reservation) error
}
