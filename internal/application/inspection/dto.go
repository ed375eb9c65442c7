package inspection

import (
	"time"

	"github.com/gites/backend/internal/domain/inspection"
	"github.com/google/uuid"
)

// CreateEdlRequest opens an inspection with its checklist
type CreateEdlRequest struct {
	DossierID  uuid.UUID `json:"dossier_id" binding:"required"`
	Type       string    `json:"type" binding:"required,oneof=ARRIVEE DEPART"`
	ItemLabels []string  `json:"item_labels" binding:"required,min=1"`
}

// RecordItemRequest sets the outcome of one checklist item
type RecordItemRequest struct {
	Outcome string   `json:"outcome" binding:"required,oneof=OK ANOMALIE"`
	Comment string   `json:"comment"`
	Photos  []string `json:"photos"`
}

// CreateIncidentRequest attaches an incident record to an inspection
type CreateIncidentRequest struct {
	EdlItemID   *uuid.UUID `json:"edl_item_id,omitempty"`
	Severity    string     `json:"severity" binding:"required,oneof=MINEUR MAJEUR"`
	Description string     `json:"description" binding:"required"`
	Photos      []string   `json:"photos" binding:"required,min=1,max=5"`
}

// UpdateIncidentRequest rewrites an incident record
type UpdateIncidentRequest struct {
	EdlItemID   *uuid.UUID `json:"edl_item_id,omitempty"`
	Severity    string     `json:"severity" binding:"required,oneof=MINEUR MAJEUR"`
	Description string     `json:"description" binding:"required"`
	Photos      []string   `json:"photos" binding:"required,min=1,max=5"`
}

// EdlItemResponse is the API view of a checklist item
type EdlItemResponse struct {
	ID       uuid.UUID `json:"id"`
	Label    string    `json:"label"`
	Position int       `json:"position"`
	Outcome  *string   `json:"outcome"`
	Comment  string    `json:"comment,omitempty"`
	Photos   []string  `json:"photos"`
}

// EdlResponse is the API view of an inspection
type EdlResponse struct {
	ID          uuid.UUID         `json:"id"`
	DossierID   uuid.UUID         `json:"dossier_id"`
	Type        string            `json:"type"`
	Statut      string            `json:"statut"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	CanFinalize bool              `json:"can_finalize"`
	Items       []EdlItemResponse `json:"items"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// IncidentResponse is the API view of an incident record
type IncidentResponse struct {
	ID          uuid.UUID  `json:"id"`
	EdlID       uuid.UUID  `json:"edl_id"`
	DossierID   uuid.UUID  `json:"dossier_id"`
	EdlItemID   *uuid.UUID `json:"edl_item_id,omitempty"`
	Severity    string     `json:"severity"`
	Description string     `json:"description"`
	Photos      []string   `json:"photos"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToEdlResponse converts a domain inspection to its API view
func ToEdlResponse(e *inspection.Edl) EdlResponse {
	items := make([]EdlItemResponse, len(e.Items))
	for i := range e.Items {
		item := &e.Items[i]
		var outcome *string
		if item.Etat.IsSet() {
			v := string(item.Etat)
			outcome = &v
		}
		items[i] = EdlItemResponse{
			ID:       item.ID,
			Label:    item.Label,
			Position: item.Position,
			Outcome:  outcome,
			Comment:  item.Comment,
			Photos:   item.Photos,
		}
	}

	return EdlResponse{
		ID:          e.ID,
		DossierID:   e.DossierID,
		Type:        e.Type.String(),
		Statut:      e.Statut.String(),
		StartedAt:   e.StartedAt,
		CompletedAt: e.CompletedAt,
		CanFinalize: e.CanFinalize(),
		Items:       items,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// ToEdlResponses converts a list of inspections
func ToEdlResponses(es []inspection.Edl) []EdlResponse {
	out := make([]EdlResponse, len(es))
	for i := range es {
		out[i] = ToEdlResponse(&es[i])
	}
	return out
}

// ToIncidentResponse converts a domain incident to its API view
func ToIncidentResponse(in *inspection.Incident) IncidentResponse {
	return IncidentResponse{
		ID:          in.ID,
		EdlID:       in.EdlID,
		DossierID:   in.DossierID,
		EdlItemID:   in.EdlItemID,
		Severity:    in.Severity.String(),
		Description: in.Description,
		Photos:      in.Photos,
		CreatedAt:   in.CreatedAt,
		UpdatedAt:   in.UpdatedAt,
	}
}

// ToIncidentResponses converts a list of incidents
func ToIncidentResponses(ins []inspection.Incident) []IncidentResponse {
	out := make([]IncidentResponse, len(ins))
	for i := range ins {
		out[i] = ToIncidentResponse(&ins[i])
	}
	return out
}
