package inspection

import (
	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeEdl = "Edl"

// Event type constants
const (
	EventTypeEdlFinalized = "EdlFinalized"
)

// EdlFinalizedEvent is raised when an inspection completes. A best-effort
// handler tries to advance the owning dossier's pipeline to the matching
// checkpoint outcome; its failure never fails the finalization.
type EdlFinalizedEvent struct {
	shared.BaseDomainEvent
	EdlID      uuid.UUID `json:"edl_id"`
	DossierID  uuid.UUID `json:"dossier_id"`
	EdlType    EdlType   `json:"edl_type"`
	HasAnomaly bool      `json:"has_anomaly"`
}

// NewEdlFinalizedEvent creates a new EdlFinalizedEvent
func NewEdlFinalizedEvent(e *Edl) *EdlFinalizedEvent {
	return &EdlFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEdlFinalized, AggregateTypeEdl, e.ID),
		EdlID:           e.ID,
		DossierID:       e.DossierID,
		EdlType:         e.Type,
		HasAnomaly:      e.Statut == EdlTermineIncident,
	}
}

// EventType returns the event type name
func (e *EdlFinalizedEvent) EventType() string {
	return EventTypeEdlFinalized
}
