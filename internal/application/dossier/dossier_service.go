package dossier

import (
	"context"
	"fmt"

	"github.com/gites/backend/internal/domain/audit"
	"github.com/gites/backend/internal/domain/dossier"
	"github.com/gites/backend/internal/domain/pipeline"
	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DossierService handles the tenancy case file operations: pipeline
// moves, cancellation cascade and archiving.
type DossierService struct {
	dossierRepo     dossier.DossierRepository
	reservationRepo dossier.ReservationRepository
	auditRepo       audit.EntryRepository
	txScope         TransactionScope
	eventPublisher  shared.EventPublisher
	clock           shared.Clock
}

// NewDossierService creates a new DossierService
func NewDossierService(
	dossierRepo dossier.DossierRepository,
	reservationRepo dossier.ReservationRepository,
	auditRepo audit.EntryRepository,
	txScope TransactionScope,
	clock shared.Clock,
) *DossierService {
	return &DossierService{
		dossierRepo:     dossierRepo,
		reservationRepo: reservationRepo,
		auditRepo:       auditRepo,
		txScope:         txScope,
		clock:           clock,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *DossierService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a dossier for a confirmed reservation. A reservation
// carries at most one dossier.
func (s *DossierService) Create(ctx context.Context, req CreateDossierRequest, actor audit.Actor) (*DossierResponse, error) {
	r, err := s.reservationRepo.FindByID(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}
	if r.Statut != dossier.ReservationConfirmee {
		return nil, shared.NewDomainError("INVALID_STATE", "A dossier requires a confirmed reservation")
	}

	exists, err := s.dossierRepo.ExistsForReservation(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A dossier already tracks this reservation")
	}

	d, err := dossier.NewDossier(req.ReservationID, r.LogementID, dossier.DepositType(req.DepositType))
	if err != nil {
		return nil, err
	}

	if err := s.dossierRepo.Save(ctx, d); err != nil {
		return nil, err
	}

	if err := s.appendAudit(ctx, d.ID, "DOSSIER_CREATED", actor, nil, audit.Metadata{
		"reservation_id": d.ReservationID.String(),
		"deposit_type":   d.DepositType.String(),
	}); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, d)

	response := ToDossierResponse(d)
	return &response, nil
}

// GetByID retrieves a dossier by ID
func (s *DossierService) GetByID(ctx context.Context, id uuid.UUID) (*DossierResponse, error) {
	d, err := s.dossierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToDossierResponse(d)
	return &response, nil
}

// List retrieves dossiers with filtering and pagination
func (s *DossierService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[DossierResponse], error) {
	ds, err := s.dossierRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[DossierResponse]{}, err
	}
	total, err := s.dossierRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[DossierResponse]{}, err
	}
	return shared.NewPaginated(ToDossierResponses(ds), total, filter.Page, filter.PageSize), nil
}

// Advance moves the pipeline to the target state. The transition graph
// and the actor's role decide whether the move is legal.
func (s *DossierService) Advance(ctx context.Context, id uuid.UUID, req AdvanceDossierRequest, actor audit.Actor) (*DossierResponse, error) {
	d, err := s.dossierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := d.PipelineStatut
	if err := d.AdvanceTo(pipeline.Status(req.Target), actor.Role); err != nil {
		return nil, err
	}

	if err := s.dossierRepo.SaveWithLock(ctx, d); err != nil {
		return nil, err
	}

	if err := s.appendAudit(ctx, d.ID, "PIPELINE_ADVANCED", actor, []audit.FieldChange{
		{Field: "pipeline_statut", Before: from.String(), After: d.PipelineStatut.String()},
	}, nil); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, d)

	response := ToDossierResponse(d)
	return &response, nil
}

// Revert steps the pipeline back one position. ADMIN only.
func (s *DossierService) Revert(ctx context.Context, id uuid.UUID, actor audit.Actor) (*DossierResponse, error) {
	d, err := s.dossierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := d.PipelineStatut
	if err := d.Revert(actor.Role); err != nil {
		return nil, err
	}

	if err := s.dossierRepo.SaveWithLock(ctx, d); err != nil {
		return nil, err
	}

	if err := s.appendAudit(ctx, d.ID, "PIPELINE_REVERTED", actor, []audit.FieldChange{
		{Field: "pipeline_statut", Before: from.String(), After: d.PipelineStatut.String()},
	}, nil); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, d)

	response := ToDossierResponse(d)
	return &response, nil
}

// Cancel runs the cancellation cascade in one transaction: the dossier
// moves to ANNULE, its reservation is annulled, every DU or EN_RETARD
// payment becomes ANNULE, every open task becomes ANNULEE, and one
// consolidated audit entry records the whole cascade. Settled payments
// and finished tasks are left untouched.
func (s *DossierService) Cancel(ctx context.Context, id uuid.UUID, req CancelDossierRequest, actor audit.Actor) (*CancelCascadeResponse, error) {
	var result CancelCascadeResponse

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		d, err := repos.DossierRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}

		from := d.PipelineStatut
		if err := d.Cancel(dossier.CancelParty(req.Party), req.Reason); err != nil {
			return err
		}
		if err := repos.DossierRepo().SaveWithLock(ctx, d); err != nil {
			return err
		}

		reservationUpdated := false
		r, err := repos.ReservationRepo().FindByID(ctx, d.ReservationID)
		if err != nil {
			return err
		}
		if r.Statut.IsActive() {
			if err := r.Cancel(req.Reason); err != nil {
				return err
			}
			if err := repos.ReservationRepo().Save(ctx, r); err != nil {
				return err
			}
			reservationUpdated = true
		}

		payments, err := repos.PaiementRepo().FindCancellable(ctx, d.ID)
		if err != nil {
			return err
		}
		for i := range payments {
			if err := payments[i].CancelAuto(); err != nil {
				return err
			}
			if err := repos.PaiementRepo().Save(ctx, &payments[i]); err != nil {
				return err
			}
		}

		tasks, err := repos.TacheRepo().FindOpenByDossier(ctx, d.ID)
		if err != nil {
			return err
		}
		for i := range tasks {
			if err := tasks[i].CancelAuto(); err != nil {
				return err
			}
			if err := repos.TacheRepo().Save(ctx, &tasks[i]); err != nil {
				return err
			}
		}

		entry, err := audit.NewEntry(dossier.AggregateTypeDossier, d.ID, "DOSSIER_CANCELLED", actor,
			[]audit.FieldChange{
				{Field: "pipeline_statut", Before: from.String(), After: d.PipelineStatut.String()},
			},
			audit.Metadata{
				"party":               req.Party,
				"reason":              req.Reason,
				"payments_cancelled":  len(payments),
				"tasks_cancelled":     len(tasks),
				"reservation_updated": reservationUpdated,
			})
		if err != nil {
			return fmt.Errorf("failed to build audit entry: %w", err)
		}
		if err := repos.AuditRepo().Append(ctx, entry); err != nil {
			return err
		}

		result = CancelCascadeResponse{
			Dossier:            ToDossierResponse(d),
			PaymentsCancelled:  len(payments),
			TasksCancelled:     len(tasks),
			ReservationUpdated: reservationUpdated,
		}

		s.publishEvents(ctx, d)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Archive freezes a terminal dossier.
func (s *DossierService) Archive(ctx context.Context, id uuid.UUID, actor audit.Actor) (*DossierResponse, error) {
	d, err := s.dossierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := d.Archive(); err != nil {
		return nil, err
	}

	if err := s.dossierRepo.Save(ctx, d); err != nil {
		return nil, err
	}

	if err := s.appendAudit(ctx, d.ID, "DOSSIER_ARCHIVED", actor, nil, nil); err != nil {
		return nil, err
	}

	response := ToDossierResponse(d)
	return &response, nil
}

func (s *DossierService) appendAudit(ctx context.Context, dossierID uuid.UUID, action string, actor audit.Actor, changes []audit.FieldChange, metadata audit.Metadata) error {
	entry, err := audit.NewEntry(dossier.AggregateTypeDossier, dossierID, action, actor, changes, metadata)
	if err != nil {
		return fmt.Errorf("failed to build audit entry: %w", err)
	}
	return s.auditRepo.Append(ctx, entry)
}

func (s *DossierService) publishEvents(ctx context.Context, d *dossier.Dossier) {
	if s.eventPublisher == nil {
		return
	}
	// Event delivery is best-effort; the dossier is already saved.
	_ = s.eventPublisher.Publish(ctx, d.GetDomainEvents()...)
	d.ClearDomainEvents()
}
