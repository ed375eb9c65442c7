package inspection

import (
	"time"

	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Severity grades an incident record.
type Severity string

const (
	SeverityMineur Severity = "MINEUR"
	SeverityMajeur Severity = "MAJEUR"
)

// IsValid checks if the severity is a known Severity
func (s Severity) IsValid() bool {
	switch s {
	case SeverityMineur, SeverityMajeur:
		return true
	}
	return false
}

// String returns the string representation of Severity
func (s Severity) String() string {
	return string(s)
}

const (
	minIncidentPhotos = 1
	maxIncidentPhotos = 5
)

// Incident is a severity-tagged damage record attached to an inspection,
// independent of item-level anomaly flags. It may optionally point at one
// checklist item, but never drives the inspection outcome.
type Incident struct {
	shared.BaseAggregateRoot
	EdlID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	DossierID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	EdlItemID   *uuid.UUID `gorm:"type:uuid"`
	Severity    Severity   `gorm:"type:varchar(10);not null"`
	Description string     `gorm:"type:text;not null"`
	Photos      PhotoList  `gorm:"type:jsonb;not null;default:'[]'"`
}

func validateIncidentInput(severity Severity, description string, photos []string) error {
	if !severity.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Severity must be MINEUR or MAJEUR")
	}
	if description == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Incident description cannot be empty")
	}
	if len(photos) < minIncidentPhotos || len(photos) > maxIncidentPhotos {
		return shared.NewDomainError("VALIDATION_ERROR", "An incident needs between 1 and 5 photos")
	}
	return nil
}

// NewIncident creates an incident record for an inspection.
func NewIncident(edlID, dossierID uuid.UUID, itemID *uuid.UUID, severity Severity, description string, photos []string) (*Incident, error) {
	if edlID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "EDL ID cannot be empty")
	}
	if dossierID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Dossier ID cannot be empty")
	}
	if err := validateIncidentInput(severity, description, photos); err != nil {
		return nil, err
	}

	return &Incident{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EdlID:             edlID,
		DossierID:         dossierID,
		EdlItemID:         itemID,
		Severity:          severity,
		Description:       description,
		Photos:            PhotoList(photos),
	}, nil
}

// Update rewrites the incident's content.
func (i *Incident) Update(itemID *uuid.UUID, severity Severity, description string, photos []string) error {
	if err := validateIncidentInput(severity, description, photos); err != nil {
		return err
	}

	i.EdlItemID = itemID
	i.Severity = severity
	i.Description = description
	i.Photos = PhotoList(photos)
	i.UpdatedAt = time.Now()

	return nil
}
