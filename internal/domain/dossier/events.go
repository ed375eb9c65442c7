package dossier

import (
	"time"

	"github.com/gites/backend/internal/domain/pipeline"
	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeDossier     = "Dossier"
	AggregateTypeReservation = "Reservation"
)

// Event type constants
const (
	EventTypeDossierCreated       = "DossierCreated"
	EventTypeDossierAdvanced      = "DossierAdvanced"
	EventTypeDossierReverted      = "DossierReverted"
	EventTypeDossierCancelled     = "DossierCancelled"
	EventTypeReservationConfirmed = "ReservationConfirmed"
)

// DossierCreatedEvent is raised when a new dossier is opened
type DossierCreatedEvent struct {
	shared.BaseDomainEvent
	DossierID     uuid.UUID   `json:"dossier_id"`
	ReservationID uuid.UUID   `json:"reservation_id"`
	LogementID    uuid.UUID   `json:"logement_id"`
	DepositType   DepositType `json:"deposit_type"`
}

// NewDossierCreatedEvent creates a new DossierCreatedEvent
func NewDossierCreatedEvent(d *Dossier) *DossierCreatedEvent {
	return &DossierCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDossierCreated, AggregateTypeDossier, d.ID),
		DossierID:       d.ID,
		ReservationID:   d.ReservationID,
		LogementID:      d.LogementID,
		DepositType:     d.DepositType,
	}
}

// EventType returns the event type name
func (e *DossierCreatedEvent) EventType() string {
	return EventTypeDossierCreated
}

// DossierAdvancedEvent is raised on every forward pipeline transition
type DossierAdvancedEvent struct {
	shared.BaseDomainEvent
	DossierID uuid.UUID       `json:"dossier_id"`
	From      pipeline.Status `json:"from"`
	To        pipeline.Status `json:"to"`
}

// NewDossierAdvancedEvent creates a new DossierAdvancedEvent
func NewDossierAdvancedEvent(d *Dossier, from, to pipeline.Status) *DossierAdvancedEvent {
	return &DossierAdvancedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDossierAdvanced, AggregateTypeDossier, d.ID),
		DossierID:       d.ID,
		From:            from,
		To:              to,
	}
}

// EventType returns the event type name
func (e *DossierAdvancedEvent) EventType() string {
	return EventTypeDossierAdvanced
}

// DossierRevertedEvent is raised on a single-step pipeline revert
type DossierRevertedEvent struct {
	shared.BaseDomainEvent
	DossierID uuid.UUID       `json:"dossier_id"`
	From      pipeline.Status `json:"from"`
	To        pipeline.Status `json:"to"`
}

// NewDossierRevertedEvent creates a new DossierRevertedEvent
func NewDossierRevertedEvent(d *Dossier, from, to pipeline.Status) *DossierRevertedEvent {
	return &DossierRevertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDossierReverted, AggregateTypeDossier, d.ID),
		DossierID:       d.ID,
		From:            from,
		To:              to,
	}
}

// EventType returns the event type name
func (e *DossierRevertedEvent) EventType() string {
	return EventTypeDossierReverted
}

// DossierCancelledEvent is raised when the cascade cancellation runs
type DossierCancelledEvent struct {
	shared.BaseDomainEvent
	DossierID uuid.UUID       `json:"dossier_id"`
	From      pipeline.Status `json:"from"`
	Party     CancelParty     `json:"party"`
	Reason    string          `json:"reason"`
}

// NewDossierCancelledEvent creates a new DossierCancelledEvent
func NewDossierCancelledEvent(d *Dossier, from pipeline.Status, party CancelParty, reason string) *DossierCancelledEvent {
	return &DossierCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDossierCancelled, AggregateTypeDossier, d.ID),
		DossierID:       d.ID,
		From:            from,
		Party:           party,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *DossierCancelledEvent) EventType() string {
	return EventTypeDossierCancelled
}

// ReservationConfirmedEvent is raised when an option becomes binding.
// A best-effort handler creates the dossier and its checklist tasks.
type ReservationConfirmedEvent struct {
	shared.BaseDomainEvent
	ReservationID uuid.UUID       `json:"reservation_id"`
	LogementID    uuid.UUID       `json:"logement_id"`
	CheckIn       time.Time       `json:"check_in"`
	CheckOut      time.Time       `json:"check_out"`
	TenantName    string          `json:"tenant_name"`
	TotalRent     decimal.Decimal `json:"total_rent"`
}

// NewReservationConfirmedEvent creates a new ReservationConfirmedEvent
func NewReservationConfirmedEvent(r *Reservation) *ReservationConfirmedEvent {
	return &ReservationConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservationConfirmed, AggregateTypeReservation, r.ID),
		ReservationID:   r.ID,
		LogementID:      r.LogementID,
		CheckIn:         r.CheckIn,
		CheckOut:        r.CheckOut,
		TenantName:      r.TenantName,
		TotalRent:       r.TotalRent,
	}
}

// EventType returns the event type name
func (e *ReservationConfirmedEvent) EventType() string {
	return EventTypeReservationConfirmed
}
