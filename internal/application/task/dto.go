package task

import (
	"time"

	"github.com/gites/backend/internal/domain/task"
	"github.com/google/uuid"
)

// CreateTacheRequest creates an operational task
type CreateTacheRequest struct {
	LogementID uuid.UUID  `json:"logement_id" binding:"required"`
	DossierID  *uuid.UUID `json:"dossier_id,omitempty"`
	Label      string     `json:"label" binding:"required"`
	DueDate    time.Time  `json:"due_date" binding:"required"`
}

// UpdateTacheStatusRequest moves a task to a target status
type UpdateTacheStatusRequest struct {
	Target string `json:"target" binding:"required,oneof=A_FAIRE EN_COURS FAIT ANNULEE"`
}

// ReassignTacheRequest hands a task to another assignee
type ReassignTacheRequest struct {
	AssigneeID uuid.UUID `json:"assignee_id" binding:"required"`
}

// TacheResponse is the API view of a task
type TacheResponse struct {
	ID         uuid.UUID  `json:"id"`
	LogementID uuid.UUID  `json:"logement_id"`
	DossierID  *uuid.UUID `json:"dossier_id,omitempty"`
	Label      string     `json:"label"`
	Statut     string     `json:"statut"`
	DueDate    time.Time  `json:"due_date"`
	AssigneeID *uuid.UUID `json:"assignee_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ToTacheResponse converts a domain task to its API view
func ToTacheResponse(t *task.Tache) TacheResponse {
	return TacheResponse{
		ID:         t.ID,
		LogementID: t.LogementID,
		DossierID:  t.DossierID,
		Label:      t.Label,
		Statut:     t.Statut.String(),
		DueDate:    t.DueDate,
		AssigneeID: t.AssigneeID,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// ToTacheResponses converts a list of tasks
func ToTacheResponses(ts []task.Tache) []TacheResponse {
	out := make([]TacheResponse, len(ts))
	for i := range ts {
		out[i] = ToTacheResponse(&ts[i])
	}
	return out
}
