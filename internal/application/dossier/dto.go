package dossier

import (
	"time"

	"github.com/gites/backend/internal/domain/dossier"
	"github.com/gites/backend/internal/domain/pipeline"
	"github.com/google/uuid"
)

// CreateDossierRequest opens a dossier for a confirmed reservation
type CreateDossierRequest struct {
	ReservationID uuid.UUID `json:"reservation_id" binding:"required"`
	DepositType   string    `json:"deposit_type" binding:"required,oneof=ARRHES ACOMPTE"`
}

// AdvanceDossierRequest moves the pipeline forward to a target state
type AdvanceDossierRequest struct {
	Target string `json:"target" binding:"required"`
}

// CancelDossierRequest runs the cancellation cascade
type CancelDossierRequest struct {
	Party  string `json:"party" binding:"required,oneof=LOCATAIRE PROPRIETAIRE"`
	Reason string `json:"reason" binding:"required"`
}

// DossierResponse is the API view of a dossier
type DossierResponse struct {
	ID             uuid.UUID  `json:"id"`
	ReservationID  uuid.UUID  `json:"reservation_id"`
	LogementID     uuid.UUID  `json:"logement_id"`
	PipelineStatut string     `json:"pipeline_statut"`
	StepIndex      int        `json:"step_index"`
	StepCount      int        `json:"step_count"`
	NextSteps      []string   `json:"next_steps"`
	DepositType    string     `json:"deposit_type"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	CancelParty    string     `json:"cancel_party,omitempty"`
	CancelReason   string     `json:"cancel_reason,omitempty"`
	ArchivedAt     *time.Time `json:"archived_at,omitempty"`
	Version        int        `json:"version"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CancelCascadeResponse summarizes what one cancellation annulled
type CancelCascadeResponse struct {
	Dossier            DossierResponse `json:"dossier"`
	PaymentsCancelled  int             `json:"payments_cancelled"`
	TasksCancelled     int             `json:"tasks_cancelled"`
	ReservationUpdated bool            `json:"reservation_updated"`
}

// ToDossierResponse converts a domain dossier to its API view
func ToDossierResponse(d *dossier.Dossier) DossierResponse {
	next := pipeline.NextSteps(d.PipelineStatut)
	nextSteps := make([]string, len(next))
	for i, s := range next {
		nextSteps[i] = s.String()
	}

	return DossierResponse{
		ID:             d.ID,
		ReservationID:  d.ReservationID,
		LogementID:     d.LogementID,
		PipelineStatut: d.PipelineStatut.String(),
		StepIndex:      d.StepIndex(),
		StepCount:      pipeline.StepCount(),
		NextSteps:      nextSteps,
		DepositType:    d.DepositType.String(),
		CancelledAt:    d.CancelledAt,
		CancelParty:    string(d.CancelParty),
		CancelReason:   d.CancelReason,
		ArchivedAt:     d.ArchivedAt,
		Version:        d.Version,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// ToDossierResponses converts a list of dossiers
func ToDossierResponses(ds []dossier.Dossier) []DossierResponse {
	out := make([]DossierResponse, len(ds))
	for i := range ds {
		out[i] = ToDossierResponse(&ds[i])
	}
	return out
}
