package audit

import (
	"time"

	"github.com/gites/backend/internal/domain/audit"
	"github.com/google/uuid"
)

// EntryResponse is the API view of an audit entry
type EntryResponse struct {
	ID         uuid.UUID           `json:"id"`
	EntityType string              `json:"entity_type"`
	EntityID   uuid.UUID           `json:"entity_id"`
	Action     string              `json:"action"`
	Changes    []audit.FieldChange `json:"changes"`
	Metadata   audit.Metadata      `json:"metadata"`
	ActorID    string              `json:"actor_id"`
	ActorRole  string              `json:"actor_role"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// ToEntryResponse converts a domain entry to its API view
func ToEntryResponse(e *audit.Entry) EntryResponse {
	return EntryResponse{
		ID:         e.ID,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Action:     e.Action,
		Changes:    e.Changes,
		Metadata:   e.Metadata,
		ActorID:    e.ActorID,
		ActorRole:  e.ActorRole.String(),
		OccurredAt: e.OccurredAt,
	}
}

// ToEntryResponses converts a list of entries
func ToEntryResponses(es []audit.Entry) []EntryResponse {
	out := make([]EntryResponse, len(es))
	for i := range es {
		out[i] = ToEntryResponse(&es[i])
	}
	return out
}
