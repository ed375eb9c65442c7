package payment

import (
	"context"
	"fmt"
	"time"

	appdossier "github.com/gites/backend/internal/application/dossier"
	"github.com/gites/backend/internal/domain/audit"
	"github.com/gites/backend/internal/domain/dossier"
	"github.com/gites/backend/internal/domain/payment"
	"github.com/gites/backend/internal/domain/permission"
	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentService handles schedule derivation and payment lifecycle
// operations. Schedule management is ADMIN territory; the overdue sweep
// is open to any caller since it only states facts about due dates.
type PaymentService struct {
	paiementRepo    payment.PaiementRepository
	dossierRepo     dossier.DossierRepository
	reservationRepo dossier.ReservationRepository
	auditRepo       audit.EntryRepository
	txScope         appdossier.TransactionScope
	clock           shared.Clock
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paiementRepo payment.PaiementRepository,
	dossierRepo dossier.DossierRepository,
	reservationRepo dossier.ReservationRepository,
	auditRepo audit.EntryRepository,
	txScope appdossier.TransactionScope,
	clock shared.Clock,
) *PaymentService {
	return &PaymentService{
		paiementRepo:    paiementRepo,
		dossierRepo:     dossierRepo,
		reservationRepo: reservationRepo,
		auditRepo:       auditRepo,
		txScope:         txScope,
		clock:           clock,
	}
}

// CreateSchedule computes the payment plan of a dossier from its
// reservation and persists it. A dossier gets exactly one schedule;
// creating a second one is a conflict. The duplicate guard, the inserts
// and the audit entry share one serializable transaction: concurrent
// calls cannot both pass the guard, and a failed audit append leaves no
// schedule behind.
func (s *PaymentService) CreateSchedule(ctx context.Context, dossierID uuid.UUID, req CreateScheduleRequest, actor audit.Actor) (*ScheduleResponse, error) {
	if !permission.Allowed(actor.Role, permission.PermManagePayments) {
		return nil, shared.ErrForbidden
	}

	d, err := s.dossierRepo.FindByID(ctx, dossierID)
	if err != nil {
		return nil, err
	}
	if d.IsArchived() {
		return nil, shared.NewDomainError("INVALID_STATE", "Archived dossiers are immutable")
	}

	r, err := s.reservationRepo.FindByID(ctx, d.ReservationID)
	if err != nil {
		return nil, err
	}

	entries, err := payment.ComputeSchedule(payment.ScheduleInput{
		TotalRent:      r.TotalRent,
		DepositType:    depositPaiementType(d.DepositType),
		ArrivalDate:    r.CheckIn,
		OccupantCount:  r.OccupantCnt,
		TouristTaxRate: req.TouristTaxRate,
		NightCount:     r.Nights(),
		Now:            s.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	paiements := make([]*payment.Paiement, 0, len(entries))
	for _, e := range entries {
		p, err := payment.NewPaiement(dossierID, e.Type, e.Label, e.Amount, e.DueDate)
		if err != nil {
			return nil, err
		}
		paiements = append(paiements, p)
	}

	err = s.txScope.ExecuteSerializable(ctx, func(repos appdossier.TransactionalRepositories) error {
		count, err := repos.PaiementRepo().CountByDossier(ctx, dossierID)
		if err != nil {
			return err
		}
		if count > 0 {
			return shared.NewDomainError("CONFLICT", "A payment schedule already exists for this dossier")
		}

		if err := repos.PaiementRepo().SaveAll(ctx, paiements); err != nil {
			return err
		}

		return appendAuditTo(ctx, repos.AuditRepo(), dossierID, "SCHEDULE_CREATED", actor, nil, audit.Metadata{
			"entries": len(paiements),
			"total":   payment.ScheduleTotal(entries).String(),
		})
	})
	if err != nil {
		return nil, err
	}

	saved := make([]payment.Paiement, len(paiements))
	for i, p := range paiements {
		saved[i] = *p
	}
	return &ScheduleResponse{
		DossierID: dossierID,
		Entries:   ToPaiementResponses(saved),
		Total:     payment.ScheduleTotal(entries),
	}, nil
}

// ListByDossier returns the payment plan of a dossier ordered by due date.
func (s *PaymentService) ListByDossier(ctx context.Context, dossierID uuid.UUID) (*ScheduleResponse, error) {
	ps, err := s.paiementRepo.FindByDossier(ctx, dossierID)
	if err != nil {
		return nil, err
	}

	total := decimalSum(ps)
	return &ScheduleResponse{
		DossierID: dossierID,
		Entries:   ToPaiementResponses(ps),
		Total:     total,
	}, nil
}

// GetByID retrieves a payment by ID
func (s *PaymentService) GetByID(ctx context.Context, id uuid.UUID) (*PaiementResponse, error) {
	p, err := s.paiementRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPaiementResponse(p)
	return &response, nil
}

// Update edits a DU or EN_RETARD payment. Moving an overdue payment's
// due date to today or later resets it to DU.
func (s *PaymentService) Update(ctx context.Context, id uuid.UUID, req UpdatePaiementRequest, actor audit.Actor) (*PaiementResponse, error) {
	if !permission.Allowed(actor.Role, permission.PermManagePayments) {
		return nil, shared.ErrForbidden
	}

	p, err := s.paiementRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := updateChanges(p, req)
	if err := p.Apply(payment.PaiementUpdate{
		Amount:  req.Amount,
		DueDate: req.DueDate,
		Label:   req.Label,
	}, startOfDay(s.clock.Now())); err != nil {
		return nil, err
	}

	if err := s.paiementRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	if err := s.appendAudit(ctx, p.DossierID, "PAYMENT_UPDATED", actor, changes, audit.Metadata{
		"paiement_id": p.ID.String(),
	}); err != nil {
		return nil, err
	}

	response := ToPaiementResponse(p)
	return &response, nil
}

// MarkPaid settles a payment.
func (s *PaymentService) MarkPaid(ctx context.Context, id uuid.UUID, actor audit.Actor) (*PaiementResponse, error) {
	if !permission.Allowed(actor.Role, permission.PermManagePayments) {
		return nil, shared.ErrForbidden
	}

	p, err := s.paiementRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := p.Statut
	if err := p.MarkPaid(s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.paiementRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	if err := s.appendAudit(ctx, p.DossierID, "PAYMENT_SETTLED", actor, []audit.FieldChange{
		{Field: "statut", Before: before.String(), After: p.Statut.String()},
	}, audit.Metadata{
		"paiement_id": p.ID.String(),
	}); err != nil {
		return nil, err
	}

	response := ToPaiementResponse(p)
	return &response, nil
}

// SweepOverdue flags every DU payment past its due date as EN_RETARD,
// optionally restricted to one dossier (nil UUID = all). Idempotent:
// flagged payments are no longer DU, so a second run finds nothing.
func (s *PaymentService) SweepOverdue(ctx context.Context, dossierID uuid.UUID, actor audit.Actor) (*SweepOverdueResponse, error) {
	now := s.clock.Now()
	overdue, err := s.paiementRepo.FindOverdue(ctx, now, dossierID)
	if err != nil {
		return nil, err
	}

	flagged := 0
	for i := range overdue {
		p := &overdue[i]
		if err := p.MarkOverdue(now); err != nil {
			return nil, err
		}
		if err := s.paiementRepo.Save(ctx, p); err != nil {
			return nil, err
		}
		if err := s.appendAudit(ctx, p.DossierID, "PAYMENT_OVERDUE", actor, []audit.FieldChange{
			{Field: "statut", Before: payment.PaiementDu.String(), After: p.Statut.String()},
		}, audit.Metadata{
			"paiement_id": p.ID.String(),
		}); err != nil {
			return nil, err
		}
		flagged++
	}

	return &SweepOverdueResponse{Flagged: flagged}, nil
}

func (s *PaymentService) appendAudit(ctx context.Context, dossierID uuid.UUID, action string, actor audit.Actor, changes []audit.FieldChange, metadata audit.Metadata) error {
	return appendAuditTo(ctx, s.auditRepo, dossierID, action, actor, changes, metadata)
}

func appendAuditTo(ctx context.Context, repo audit.EntryRepository, dossierID uuid.UUID, action string, actor audit.Actor, changes []audit.FieldChange, metadata audit.Metadata) error {
	entry, err := audit.NewEntry(dossier.AggregateTypeDossier, dossierID, action, actor, changes, metadata)
	if err != nil {
		return fmt.Errorf("failed to build audit entry: %w", err)
	}
	return repo.Append(ctx, entry)
}

func depositPaiementType(t dossier.DepositType) payment.PaiementType {
	if t == dossier.DepositArrhes {
		return payment.PaiementArrhes
	}
	return payment.PaiementAcompte
}

func updateChanges(p *payment.Paiement, req UpdatePaiementRequest) []audit.FieldChange {
	changes := make([]audit.FieldChange, 0, 3)
	if req.Amount != nil {
		changes = append(changes, audit.FieldChange{Field: "amount", Before: p.Amount.String(), After: req.Amount.Round(2).String()})
	}
	if req.DueDate != nil {
		changes = append(changes, audit.FieldChange{Field: "due_date", Before: p.DueDate.Format(time.RFC3339), After: req.DueDate.Format(time.RFC3339)})
	}
	if req.Label != nil {
		changes = append(changes, audit.FieldChange{Field: "label", Before: p.Label, After: *req.Label})
	}
	return changes
}

func decimalSum(ps []payment.Paiement) decimal.Decimal {
	total := decimal.Zero
	for i := range ps {
		total = total.Add(ps[i].Amount)
	}
	return total
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
