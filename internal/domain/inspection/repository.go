package inspection

import (
	"context"

	"github.com/google/uuid"
)

// EdlRepository persists Edl aggregates with their items
type EdlRepository interface {
	// FindByID finds an inspection by ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Edl, error)

	// FindByDossier finds the inspections of a dossier
	FindByDossier(ctx context.Context, dossierID uuid.UUID) ([]Edl, error)

	// FindByDossierAndType finds one dossier inspection by type
	FindByDossierAndType(ctx context.Context, dossierID uuid.UUID, typ EdlType) (*Edl, error)

	// Save creates or updates an inspection and its items
	Save(ctx context.Context, e *Edl) error
}

// IncidentRepository persists Incident records
type IncidentRepository interface {
	// FindByID finds an incident by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Incident, error)

	// FindByEdl finds all incidents attached to an inspection
	FindByEdl(ctx context.Context, edlID uuid.UUID) ([]Incident, error)

	// Save creates or updates an incident
	Save(ctx context.Context, i *Incident) error

	// Delete removes an incident
	Delete(ctx context.Context, id uuid.UUID) error
}
