package dossier

import (
	"fmt"
	"time"

	"github.com/gites/backend/internal/domain/permission"
	"github.com/gites/backend/internal/domain/pipeline"
	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DepositType distinguishes the two legal deposit regimes. The choice
// changes cancellation consequences for the parties, not the arithmetic.
type DepositType string

const (
	DepositArrhes  DepositType = "ARRHES"
	DepositAcompte DepositType = "ACOMPTE"
)

// IsValid checks if the deposit type is a known DepositType
func (d DepositType) IsValid() bool {
	switch d {
	case DepositArrhes, DepositAcompte:
		return true
	}
	return false
}

// String returns the string representation of DepositType
func (d DepositType) String() string {
	return string(d)
}

// CancelParty identifies which side initiated a cancellation.
type CancelParty string

const (
	CancelByTenant CancelParty = "LOCATAIRE"
	CancelByOwner  CancelParty = "PROPRIETAIRE"
)

// IsValid checks if the party is a known CancelParty
func (p CancelParty) IsValid() bool {
	switch p {
	case CancelByTenant, CancelByOwner:
		return true
	}
	return false
}

// Dossier is the case file tracking one tenancy from booking to closure.
// It owns the pipeline state and references (but does not own) its
// reservation. Archived dossiers are immutable.
type Dossier struct {
	shared.BaseAggregateRoot
	ReservationID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	LogementID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	PipelineStatut pipeline.Status `gorm:"type:varchar(30);not null;index"`
	DepositType    DepositType     `gorm:"type:varchar(10);not null"`
	CancelledAt    *time.Time
	CancelParty    CancelParty `gorm:"type:varchar(15)"`
	CancelReason   string      `gorm:"type:text"`
	ArchivedAt     *time.Time
}

// NewDossier creates a dossier linked 1:1 to a reservation, starting at
// the first pipeline state.
func NewDossier(reservationID, logementID uuid.UUID, depositType DepositType) (*Dossier, error) {
	if reservationID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Reservation ID cannot be empty")
	}
	if logementID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Logement ID cannot be empty")
	}
	if !depositType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Deposit type must be ARRHES or ACOMPTE")
	}

	d := &Dossier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReservationID:     reservationID,
		LogementID:        logementID,
		PipelineStatut:    pipeline.First,
		DepositType:       depositType,
	}

	d.AddDomainEvent(NewDossierCreatedEvent(d))

	return d, nil
}

// AdvanceTo moves the pipeline to target if the transition graph and the
// role gate allow it.
func (d *Dossier) AdvanceTo(target pipeline.Status, role permission.Role) error {
	if err := d.ensureMutable(); err != nil {
		return err
	}
	if !target.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown pipeline state %q", target))
	}
	if !pipeline.CanAdvance(d.PipelineStatut, target, role) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot advance from %s to %s as %s", d.PipelineStatut, target, role))
	}

	from := d.PipelineStatut
	d.PipelineStatut = target
	d.UpdatedAt = time.Now()

	d.AddDomainEvent(NewDossierAdvancedEvent(d, from, target))

	return nil
}

// Revert steps the pipeline back one linear position. ADMIN only;
// incident variants revert to the predecessor of their OK sibling.
func (d *Dossier) Revert(role permission.Role) error {
	if err := d.ensureMutable(); err != nil {
		return err
	}
	target, ok := pipeline.RevertTarget(d.PipelineStatut, role)
	if !ok {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot revert from %s as %s", d.PipelineStatut, role))
	}

	from := d.PipelineStatut
	d.PipelineStatut = target
	d.UpdatedAt = time.Now()

	d.AddDomainEvent(NewDossierRevertedEvent(d, from, target))

	return nil
}

// Cancel moves the pipeline to ANNULE. The cascading side effects on the
// reservation, payments and tasks are orchestrated by the application
// service inside one transaction.
func (d *Dossier) Cancel(party CancelParty, reason string) error {
	if err := d.ensureMutable(); err != nil {
		return err
	}
	if !pipeline.CanCancel(d.PipelineStatut) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot cancel a dossier in %s status", d.PipelineStatut))
	}
	if !party.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Cancelling party must be LOCATAIRE or PROPRIETAIRE")
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Cancellation reason is required")
	}

	from := d.PipelineStatut
	now := time.Now()
	d.PipelineStatut = pipeline.StatusAnnule
	d.CancelledAt = &now
	d.CancelParty = party
	d.CancelReason = reason
	d.UpdatedAt = now

	d.AddDomainEvent(NewDossierCancelledEvent(d, from, party, reason))

	return nil
}

// Archive freezes the dossier. Only terminal dossiers can be archived.
func (d *Dossier) Archive() error {
	if d.IsArchived() {
		return shared.NewDomainError("INVALID_STATE", "Dossier is already archived")
	}
	if !d.PipelineStatut.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Only closed or cancelled dossiers can be archived")
	}

	now := time.Now()
	d.ArchivedAt = &now
	d.UpdatedAt = now

	return nil
}

// IsArchived returns true if the dossier has been archived
func (d *Dossier) IsArchived() bool {
	return d.ArchivedAt != nil
}

// IsCancelled returns true if the dossier pipeline reached ANNULE
func (d *Dossier) IsCancelled() bool {
	return d.PipelineStatut == pipeline.StatusAnnule
}

// StepIndex returns the stepper display position of the current state.
func (d *Dossier) StepIndex() int {
	return pipeline.StepIndex(d.PipelineStatut)
}

func (d *Dossier) ensureMutable() error {
	if d.IsArchived() {
		return shared.NewDomainError("INVALID_STATE", "Archived dossiers are immutable")
	}
	return nil
}
