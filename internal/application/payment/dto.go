package payment

import (
	"time"

	"github.com/gites/backend/internal/domain/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateScheduleRequest derives and persists the payment plan of a dossier
type CreateScheduleRequest struct {
	TouristTaxRate decimal.Decimal `json:"tourist_tax_rate"`
}

// UpdatePaiementRequest carries the optional fields of a payment update
type UpdatePaiementRequest struct {
	Amount  *decimal.Decimal `json:"amount,omitempty"`
	DueDate *time.Time       `json:"due_date,omitempty"`
	Label   *string          `json:"label,omitempty"`
}

// PaiementResponse is the API view of a schedule entry
type PaiementResponse struct {
	ID        uuid.UUID       `json:"id"`
	DossierID uuid.UUID       `json:"dossier_id"`
	Type      string          `json:"type"`
	Label     string          `json:"label"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   time.Time       `json:"due_date"`
	Statut    string          `json:"statut"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ScheduleResponse is the persisted plan with its total
type ScheduleResponse struct {
	DossierID uuid.UUID          `json:"dossier_id"`
	Entries   []PaiementResponse `json:"entries"`
	Total     decimal.Decimal    `json:"total"`
}

// SweepOverdueResponse reports one overdue sweep run
type SweepOverdueResponse struct {
	Flagged int `json:"flagged"`
}

// ToPaiementResponse converts a domain payment to its API view
func ToPaiementResponse(p *payment.Paiement) PaiementResponse {
	return PaiementResponse{
		ID:        p.ID,
		DossierID: p.DossierID,
		Type:      p.Type.String(),
		Label:     p.Label,
		Amount:    p.Amount,
		DueDate:   p.DueDate,
		Statut:    p.Statut.String(),
		PaidAt:    p.PaidAt,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToPaiementResponses converts a list of payments
func ToPaiementResponses(ps []payment.Paiement) []PaiementResponse {
	out := make([]PaiementResponse, len(ps))
	for i := range ps {
		out[i] = ToPaiementResponse(&ps[i])
	}
	return out
}
