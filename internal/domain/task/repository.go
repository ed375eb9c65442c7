package task

import (
	"context"

	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TacheRepository persists Tache entities
type TacheRepository interface {
	// FindByID finds a task by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Tache, error)

	// FindByDossier finds all tasks linked to a dossier
	FindByDossier(ctx context.Context, dossierID uuid.UUID) ([]Tache, error)

	// FindOpenByDossier finds A_FAIRE and EN_COURS tasks of a dossier
	FindOpenByDossier(ctx context.Context, dossierID uuid.UUID) ([]Tache, error)

	// FindAll finds tasks with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Tache, error)

	// Save creates or updates a task
	Save(ctx context.Context, t *Tache) error
}
