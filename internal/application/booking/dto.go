package booking

import (
	"time"

	"github.com/gites/backend/internal/domain/dossier"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOptionRequest creates a time-limited reservation hold
type CreateOptionRequest struct {
	LogementID    uuid.UUID       `json:"logement_id" binding:"required"`
	CheckIn       time.Time       `json:"check_in" binding:"required"`
	CheckOut      time.Time       `json:"check_out" binding:"required"`
	TenantName    string          `json:"tenant_name" binding:"required"`
	TenantEmail   string          `json:"tenant_email"`
	TenantPhone   string          `json:"tenant_phone"`
	TotalRent     decimal.Decimal `json:"total_rent"`
	OccupantCount int             `json:"occupant_count" binding:"required,min=1"`
	ExpiresAt     time.Time       `json:"expires_at" binding:"required"`
}

// CreateReservationRequest creates a reservation that is binding from the start
type CreateReservationRequest struct {
	LogementID    uuid.UUID       `json:"logement_id" binding:"required"`
	CheckIn       time.Time       `json:"check_in" binding:"required"`
	CheckOut      time.Time       `json:"check_out" binding:"required"`
	TenantName    string          `json:"tenant_name" binding:"required"`
	TenantEmail   string          `json:"tenant_email"`
	TenantPhone   string          `json:"tenant_phone"`
	TotalRent     decimal.Decimal `json:"total_rent"`
	OccupantCount int             `json:"occupant_count" binding:"required,min=1"`
}

// CancelReservationRequest cancels a reservation with a reason
type CancelReservationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReservationResponse is the API view of a reservation
type ReservationResponse struct {
	ID            uuid.UUID       `json:"id"`
	LogementID    uuid.UUID       `json:"logement_id"`
	CheckIn       time.Time       `json:"check_in"`
	CheckOut      time.Time       `json:"check_out"`
	Nights        int             `json:"nights"`
	Statut        string          `json:"statut"`
	ExpirationAt  *time.Time      `json:"expiration_at,omitempty"`
	TenantName    string          `json:"tenant_name"`
	TenantEmail   string          `json:"tenant_email,omitempty"`
	TenantPhone   string          `json:"tenant_phone,omitempty"`
	TotalRent     decimal.Decimal `json:"total_rent"`
	OccupantCount int             `json:"occupant_count"`
	CancelReason  string          `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToReservationResponse converts a domain reservation to its API view
func ToReservationResponse(r *dossier.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:            r.ID,
		LogementID:    r.LogementID,
		CheckIn:       r.CheckIn,
		CheckOut:      r.CheckOut,
		Nights:        r.Nights(),
		Statut:        r.Statut.String(),
		ExpirationAt:  r.ExpirationAt,
		TenantName:    r.TenantName,
		TenantEmail:   r.TenantEmail,
		TenantPhone:   r.TenantPhone,
		TotalRent:     r.TotalRent,
		OccupantCount: r.OccupantCnt,
		CancelReason:  r.CancelReason,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// ToReservationResponses converts a list of reservations
func ToReservationResponses(rs []dossier.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, len(rs))
	for i := range rs {
		out[i] = ToReservationResponse(&rs[i])
	}
	return out
}
