package booking

import (
	"context"
	"fmt"

	appdossier "github.com/gites/backend/internal/application/dossier"
	"github.com/gites/backend/internal/domain/audit"
	"github.com/gites/backend/internal/domain/dossier"
	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReservationService handles reservation and option business operations.
// Every mutation that depends on the overlap check runs it inside a
// serializable transaction together with the write, so two concurrent
// bookings on overlapping dates cannot both commit.
type ReservationService struct {
	reservationRepo dossier.ReservationRepository
	auditRepo       audit.EntryRepository
	txScope         appdossier.TransactionScope
	eventPublisher  shared.EventPublisher
	clock           shared.Clock
}

// NewReservationService creates a new ReservationService
func NewReservationService(reservationRepo dossier.ReservationRepository, auditRepo audit.EntryRepository, txScope appdossier.TransactionScope, clock shared.Clock) *ReservationService {
	return &ReservationService{
		reservationRepo: reservationRepo,
		auditRepo:       auditRepo,
		txScope:         txScope,
		clock:           clock,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ReservationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateOption places a time-limited hold on a property. The date range
// must not overlap any active reservation on the same property.
func (s *ReservationService) CreateOption(ctx context.Context, req CreateOptionRequest, actor audit.Actor) (*ReservationResponse, error) {
	r, err := dossier.NewOption(req.LogementID, req.CheckIn, req.CheckOut,
		req.TenantName, req.TenantEmail, req.TenantPhone,
		req.TotalRent, req.OccupantCount, req.ExpiresAt)
	if err != nil {
		return nil, err
	}

	err = s.txScope.ExecuteSerializable(ctx, func(repos appdossier.TransactionalRepositories) error {
		overlap, err := repos.ReservationRepo().HasOverlap(ctx, req.LogementID, req.CheckIn, req.CheckOut, uuid.Nil)
		if err != nil {
			return err
		}
		if overlap {
			return shared.NewDomainError("CONFLICT", "An active reservation already covers these dates")
		}

		if err := repos.ReservationRepo().Save(ctx, r); err != nil {
			return err
		}

		return appendAuditTo(ctx, repos.AuditRepo(), r.ID, "OPTION_CREATED", actor, nil, audit.Metadata{
			"logement_id": r.LogementID.String(),
			"expires_at":  req.ExpiresAt,
		})
	})
	if err != nil {
		return nil, err
	}

	response := ToReservationResponse(r)
	return &response, nil
}

// CreateReservation books a property with a binding reservation.
func (s *ReservationService) CreateReservation(ctx context.Context, req CreateReservationRequest, actor audit.Actor) (*ReservationResponse, error) {
	r, err := dossier.NewConfirmed(req.LogementID, req.CheckIn, req.CheckOut,
		req.TenantName, req.TenantEmail, req.TenantPhone,
		req.TotalRent, req.OccupantCount)
	if err != nil {
		return nil, err
	}

	err = s.txScope.ExecuteSerializable(ctx, func(repos appdossier.TransactionalRepositories) error {
		overlap, err := repos.ReservationRepo().HasOverlap(ctx, req.LogementID, req.CheckIn, req.CheckOut, uuid.Nil)
		if err != nil {
			return err
		}
		if overlap {
			return shared.NewDomainError("CONFLICT", "An active reservation already covers these dates")
		}

		if err := repos.ReservationRepo().Save(ctx, r); err != nil {
			return err
		}

		return appendAuditTo(ctx, repos.AuditRepo(), r.ID, "RESERVATION_CREATED", actor, nil, audit.Metadata{
			"logement_id": r.LogementID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, r)

	response := ToReservationResponse(r)
	return &response, nil
}

// Confirm turns an active option into a binding reservation. The overlap
// check runs again: another reservation may have been confirmed since
// the option was placed.
func (s *ReservationService) Confirm(ctx context.Context, id uuid.UUID, actor audit.Actor) (*ReservationResponse, error) {
	r, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.txScope.ExecuteSerializable(ctx, func(repos appdossier.TransactionalRepositories) error {
		overlap, err := repos.ReservationRepo().HasOverlap(ctx, r.LogementID, r.CheckIn, r.CheckOut, r.ID)
		if err != nil {
			return err
		}
		if overlap {
			return shared.NewDomainError("CONFLICT", "An active reservation already covers these dates")
		}

		before := r.Statut
		if err := r.Confirm(); err != nil {
			return err
		}

		if err := repos.ReservationRepo().Save(ctx, r); err != nil {
			return err
		}

		return appendAuditTo(ctx, repos.AuditRepo(), r.ID, "RESERVATION_CONFIRMED", actor, []audit.FieldChange{
			{Field: "statut", Before: before.String(), After: r.Statut.String()},
		}, nil)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, r)

	response := ToReservationResponse(r)
	return &response, nil
}

// Cancel annuls a reservation that is not tied to a dossier cascade.
func (s *ReservationService) Cancel(ctx context.Context, id uuid.UUID, req CancelReservationRequest, actor audit.Actor) (*ReservationResponse, error) {
	r, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := r.Statut
	if err := r.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.reservationRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	if err := s.appendAudit(ctx, r.ID, "RESERVATION_CANCELLED", actor, []audit.FieldChange{
		{Field: "statut", Before: before.String(), After: r.Statut.String()},
	}, audit.Metadata{"reason": req.Reason}); err != nil {
		return nil, err
	}

	response := ToReservationResponse(r)
	return &response, nil
}

// GetByID retrieves a reservation by ID
func (s *ReservationService) GetByID(ctx context.Context, id uuid.UUID) (*ReservationResponse, error) {
	r, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToReservationResponse(r)
	return &response, nil
}

// List retrieves reservations with filtering
func (s *ReservationService) List(ctx context.Context, filter shared.Filter) ([]ReservationResponse, error) {
	rs, err := s.reservationRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToReservationResponses(rs), nil
}

// ExpireOptions lapses every active option whose hold period has passed.
// Idempotent: options already expired are not returned by the query, so
// a second run is a no-op. Returns the number of options expired.
func (s *ReservationService) ExpireOptions(ctx context.Context, actor audit.Actor) (int, error) {
	now := s.clock.Now()
	expired, err := s.reservationRepo.FindExpiredOptions(ctx, now)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range expired {
		r := &expired[i]
		if err := r.Expire(now); err != nil {
			return count, err
		}
		if err := s.reservationRepo.Save(ctx, r); err != nil {
			return count, err
		}
		if err := s.appendAudit(ctx, r.ID, "OPTION_EXPIRED", actor, []audit.FieldChange{
			{Field: "statut", Before: dossier.ReservationOptionActive.String(), After: r.Statut.String()},
		}, nil); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

func (s *ReservationService) appendAudit(ctx context.Context, reservationID uuid.UUID, action string, actor audit.Actor, changes []audit.FieldChange, metadata audit.Metadata) error {
	return appendAuditTo(ctx, s.auditRepo, reservationID, action, actor, changes, metadata)
}

func appendAuditTo(ctx context.Context, repo audit.EntryRepository, reservationID uuid.UUID, action string, actor audit.Actor, changes []audit.FieldChange, metadata audit.Metadata) error {
	entry, err := audit.NewEntry(dossier.AggregateTypeReservation, reservationID, action, actor, changes, metadata)
	if err != nil {
		return fmt.Errorf("failed to build audit entry: %w", err)
	}
	return repo.Append(ctx, entry)
}

func (s *ReservationService) publishEvents(ctx context.Context, r *dossier.Reservation) {
	if s.eventPublisher == nil {
		return
	}
	// Event delivery is best-effort; the reservation is already saved.
	_ = s.eventPublisher.Publish(ctx, r.GetDomainEvents()...)
	r.ClearDomainEvents()
}
