package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PaiementRepository persists Paiement entries
type PaiementRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Paiement, error)

	// FindByDossier finds all payments of a dossier ordered by due date
	FindByDossier(ctx context.Context, dossierID uuid.UUID) ([]Paiement, error)

	// FindOverdue finds DU payments whose due date lies strictly before
	// now, optionally restricted to one dossier (nil UUID = all)
	FindOverdue(ctx context.Context, now time.Time, dossierID uuid.UUID) ([]Paiement, error)

	// FindCancellable finds DU and EN_RETARD payments of a dossier
	FindCancellable(ctx context.Context, dossierID uuid.UUID) ([]Paiement, error)

	// CountByDossier counts the payments attached to a dossier
	CountByDossier(ctx context.Context, dossierID uuid.UUID) (int64, error)

	// Save creates or updates a payment
	Save(ctx context.Context, p *Paiement) error

	// SaveAll persists a batch of payments
	SaveAll(ctx context.Context, ps []*Paiement) error
}
