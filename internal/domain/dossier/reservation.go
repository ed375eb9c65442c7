package dossier

import (
	"fmt"
	"time"

	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationStatus represents the booking state of a reservation.
type ReservationStatus string

const (
	ReservationOptionActive  ReservationStatus = "OPTION_ACTIVE"
	ReservationConfirmee     ReservationStatus = "CONFIRMEE"
	ReservationAnnulee       ReservationStatus = "ANNULEE"
	ReservationOptionExpiree ReservationStatus = "OPTION_EXPIREE"
)

// IsValid checks if the status is a known ReservationStatus
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationOptionActive, ReservationConfirmee, ReservationAnnulee, ReservationOptionExpiree:
		return true
	}
	return false
}

// String returns the string representation of ReservationStatus
func (s ReservationStatus) String() string {
	return string(s)
}

// IsActive reports whether the reservation still blocks its date range.
func (s ReservationStatus) IsActive() bool {
	return s == ReservationOptionActive || s == ReservationConfirmee
}

// Reservation holds a property for a tenant over a half-open date range
// [CheckIn, CheckOut). Options carry an expiration instant and lapse
// automatically via the expiry sweep.
type Reservation struct {
	shared.BaseAggregateRoot
	LogementID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	CheckIn      time.Time         `gorm:"not null;index"`
	CheckOut     time.Time         `gorm:"not null;index"`
	Statut       ReservationStatus `gorm:"type:varchar(20);not null;index"`
	ExpirationAt *time.Time
	TenantName   string          `gorm:"type:varchar(200);not null"`
	TenantEmail  string          `gorm:"type:varchar(200)"`
	TenantPhone  string          `gorm:"type:varchar(50)"`
	TotalRent    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	OccupantCnt  int             `gorm:"not null;default:1"`
	CancelReason string          `gorm:"type:text"`
}

func validateReservationInput(logementID uuid.UUID, checkIn, checkOut time.Time, tenantName string, totalRent decimal.Decimal, occupants int) error {
	if logementID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Logement ID cannot be empty")
	}
	if !checkOut.After(checkIn) {
		return shared.NewDomainError("VALIDATION_ERROR", "Check-out must be after check-in")
	}
	if tenantName == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Tenant name cannot be empty")
	}
	if totalRent.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Total rent cannot be negative")
	}
	if occupants <= 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Occupant count must be positive")
	}
	return nil
}

// NewOption creates a time-limited, non-binding reservation hold.
func NewOption(logementID uuid.UUID, checkIn, checkOut time.Time, tenantName, tenantEmail, tenantPhone string, totalRent decimal.Decimal, occupants int, expiresAt time.Time) (*Reservation, error) {
	if err := validateReservationInput(logementID, checkIn, checkOut, tenantName, totalRent, occupants); err != nil {
		return nil, err
	}
	if !expiresAt.After(time.Now()) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Option expiration must be in the future")
	}

	return &Reservation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LogementID:        logementID,
		CheckIn:           checkIn,
		CheckOut:          checkOut,
		Statut:            ReservationOptionActive,
		ExpirationAt:      &expiresAt,
		TenantName:        tenantName,
		TenantEmail:       tenantEmail,
		TenantPhone:       tenantPhone,
		TotalRent:         totalRent,
		OccupantCnt:       occupants,
	}, nil
}

// NewConfirmed creates a reservation that is binding from the start.
func NewConfirmed(logementID uuid.UUID, checkIn, checkOut time.Time, tenantName, tenantEmail, tenantPhone string, totalRent decimal.Decimal, occupants int) (*Reservation, error) {
	if err := validateReservationInput(logementID, checkIn, checkOut, tenantName, totalRent, occupants); err != nil {
		return nil, err
	}

	r := &Reservation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LogementID:        logementID,
		CheckIn:           checkIn,
		CheckOut:          checkOut,
		Statut:            ReservationConfirmee,
		TenantName:        tenantName,
		TenantEmail:       tenantEmail,
		TenantPhone:       tenantPhone,
		TotalRent:         totalRent,
		OccupantCnt:       occupants,
	}

	r.AddDomainEvent(NewReservationConfirmedEvent(r))

	return r, nil
}

// Confirm turns an active option into a binding reservation.
func (r *Reservation) Confirm() error {
	if r.Statut != ReservationOptionActive {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot confirm a reservation in %s status", r.Statut))
	}

	r.Statut = ReservationConfirmee
	r.ExpirationAt = nil
	r.UpdatedAt = time.Now()

	r.AddDomainEvent(NewReservationConfirmedEvent(r))

	return nil
}

// Cancel annuls the reservation and records the reason.
func (r *Reservation) Cancel(reason string) error {
	if !r.Statut.IsActive() {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot cancel a reservation in %s status", r.Statut))
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Cancellation reason is required")
	}

	r.Statut = ReservationAnnulee
	r.CancelReason = reason
	r.UpdatedAt = time.Now()

	return nil
}

// Expire lapses an option whose hold period has passed.
func (r *Reservation) Expire(now time.Time) error {
	if r.Statut != ReservationOptionActive {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot expire a reservation in %s status", r.Statut))
	}
	if r.ExpirationAt == nil || r.ExpirationAt.After(now) {
		return shared.NewDomainError("INVALID_STATE", "Option has not reached its expiration yet")
	}

	r.Statut = ReservationOptionExpiree
	r.UpdatedAt = now

	return nil
}

// Nights returns the number of nights covered by the stay.
func (r *Reservation) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

// Overlaps reports whether two half-open date ranges intersect.
func (r *Reservation) Overlaps(checkIn, checkOut time.Time) bool {
	return r.CheckIn.Before(checkOut) && checkIn.Before(r.CheckOut)
}
