package inspection

import (
	"context"
	"fmt"

	"github.com/gites/backend/internal/domain/audit"
	"github.com/gites/backend/internal/domain/dossier"
	"github.com/gites/backend/internal/domain/inspection"
	"github.com/gites/backend/internal/domain/permission"
	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EdlService handles inspection workflows and incident records. Every
// mutating operation goes through the inspection permission, which is
// the only permission supporting per-user overrides.
type EdlService struct {
	edlRepo        inspection.EdlRepository
	incidentRepo   inspection.IncidentRepository
	dossierRepo    dossier.DossierRepository
	auditRepo      audit.EntryRepository
	eventPublisher shared.EventPublisher
}

// NewEdlService creates a new EdlService
func NewEdlService(
	edlRepo inspection.EdlRepository,
	incidentRepo inspection.IncidentRepository,
	dossierRepo dossier.DossierRepository,
	auditRepo audit.EntryRepository,
) *EdlService {
	return &EdlService{
		edlRepo:      edlRepo,
		incidentRepo: incidentRepo,
		dossierRepo:  dossierRepo,
		auditRepo:    auditRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *EdlService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens an inspection for a dossier. One inspection per type and
// dossier.
func (s *EdlService) Create(ctx context.Context, req CreateEdlRequest, actor audit.Actor, ov permission.Overrides) (*EdlResponse, error) {
	if err := s.gate(actor, ov); err != nil {
		return nil, err
	}

	d, err := s.dossierRepo.FindByID(ctx, req.DossierID)
	if err != nil {
		return nil, err
	}
	if d.IsArchived() {
		return nil, shared.NewDomainError("INVALID_STATE", "Archived dossiers are immutable")
	}

	typ := inspection.EdlType(req.Type)
	existing, err := s.edlRepo.FindByDossierAndType(ctx, req.DossierID, typ)
	if err != nil {
		if de, ok := err.(*shared.DomainError); !ok || de.Code != "NOT_FOUND" {
			return nil, err
		}
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An inspection of this type already exists for the dossier")
	}

	e, err := inspection.NewEdl(req.DossierID, typ, req.ItemLabels)
	if err != nil {
		return nil, err
	}

	if err := s.edlRepo.Save(ctx, e); err != nil {
		return nil, err
	}

	if err := s.appendAudit(ctx, e.ID, "EDL_CREATED", actor, nil, audit.Metadata{
		"dossier_id": e.DossierID.String(),
		"type":       e.Type.String(),
		"items":      len(e.Items),
	}); err != nil {
		return nil, err
	}

	response := ToEdlResponse(e)
	return &response, nil
}

// GetByID retrieves an inspection by ID
func (s *EdlService) GetByID(ctx context.Context, id uuid.UUID) (*EdlResponse, error) {
	e, err := s.edlRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToEdlResponse(e)
	return &response, nil
}

// ListByDossier returns the inspections of a dossier
func (s *EdlService) ListByDossier(ctx context.Context, dossierID uuid.UUID) ([]EdlResponse, error) {
	es, err := s.edlRepo.FindByDossier(ctx, dossierID)
	if err != nil {
		return nil, err
	}
	return ToEdlResponses(es), nil
}

// RecordItem sets the outcome of one checklist item. The first outcome
// implicitly starts the inspection.
func (s *EdlService) RecordItem(ctx context.Context, edlID, itemID uuid.UUID, req RecordItemRequest, actor audit.Actor, ov permission.Overrides) (*EdlResponse, error) {
	if err := s.gate(actor, ov); err != nil {
		return nil, err
	}

	e, err := s.edlRepo.FindByID(ctx, edlID)
	if err != nil {
		return nil, err
	}

	if err := e.RecordItemOutcome(itemID, inspection.ItemOutcome(req.Outcome), req.Comment, req.Photos); err != nil {
		return nil, err
	}

	if err := s.edlRepo.Save(ctx, e); err != nil {
		return nil, err
	}

	response := ToEdlResponse(e)
	return &response, nil
}

// Finalize completes the inspection once every item has an outcome. The
// dossier pipeline advance that follows is handled by an event handler
// and is best-effort: its failure never undoes the finalization.
func (s *EdlService) Finalize(ctx context.Context, edlID uuid.UUID, actor audit.Actor, ov permission.Overrides) (*EdlResponse, error) {
	if err := s.gate(actor, ov); err != nil {
		return nil, err
	}

	e, err := s.edlRepo.FindByID(ctx, edlID)
	if err != nil {
		return nil, err
	}

	before := e.Statut
	if err := e.Finalize(); err != nil {
		return nil, err
	}

	if err := s.edlRepo.Save(ctx, e); err != nil {
		return nil, err
	}

	if err := s.appendAudit(ctx, e.ID, "EDL_FINALIZED", actor, []audit.FieldChange{
		{Field: "statut", Before: before.String(), After: e.Statut.String()},
	}, audit.Metadata{
		"dossier_id": e.DossierID.String(),
	}); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, e)

	response := ToEdlResponse(e)
	return &response, nil
}

// Reopen puts a finalized inspection back in progress.
func (s *EdlService) Reopen(ctx context.Context, edlID uuid.UUID, actor audit.Actor, ov permission.Overrides) (*EdlResponse, error) {
	if err := s.gate(actor, ov); err != nil {
		return nil, err
	}

	e, err := s.edlRepo.FindByID(ctx, edlID)
	if err != nil {
		return nil, err
	}

	before := e.Statut
	if err := e.Reopen(); err != nil {
		return nil, err
	}

	if err := s.edlRepo.Save(ctx, e); err != nil {
		return nil, err
	}

	if err := s.appendAudit(ctx, e.ID, "EDL_REOPENED", actor, []audit.FieldChange{
		{Field: "statut", Before: before.String(), After: e.Statut.String()},
	}, audit.Metadata{
		"dossier_id": e.DossierID.String(),
	}); err != nil {
		return nil, err
	}

	response := ToEdlResponse(e)
	return &response, nil
}

// CreateIncident attaches an incident record to an inspection that has
// started. The optional item link must point into the same inspection.
func (s *EdlService) CreateIncident(ctx context.Context, edlID uuid.UUID, req CreateIncidentRequest, actor audit.Actor, ov permission.Overrides) (*IncidentResponse, error) {
	if err := s.gate(actor, ov); err != nil {
		return nil, err
	}

	e, err := s.edlRepo.FindByID(ctx, edlID)
	if err != nil {
		return nil, err
	}
	if !e.AcceptsIncidents() {
		return nil, shared.NewDomainError("INVALID_STATE", "Incidents require an inspection that has started")
	}
	if req.EdlItemID != nil && e.GetItem(*req.EdlItemID) == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Linked item does not belong to this inspection")
	}

	in, err := inspection.NewIncident(e.ID, e.DossierID, req.EdlItemID,
		inspection.Severity(req.Severity), req.Description, req.Photos)
	if err != nil {
		return nil, err
	}

	if err := s.incidentRepo.Save(ctx, in); err != nil {
		return nil, err
	}

	if err := s.appendAudit(ctx, e.ID, "INCIDENT_CREATED", actor, nil, audit.Metadata{
		"incident_id": in.ID.String(),
		"severity":    in.Severity.String(),
	}); err != nil {
		return nil, err
	}

	response := ToIncidentResponse(in)
	return &response, nil
}

// UpdateIncident rewrites an incident record.
func (s *EdlService) UpdateIncident(ctx context.Context, incidentID uuid.UUID, req UpdateIncidentRequest, actor audit.Actor, ov permission.Overrides) (*IncidentResponse, error) {
	if err := s.gate(actor, ov); err != nil {
		return nil, err
	}

	in, err := s.incidentRepo.FindByID(ctx, incidentID)
	if err != nil {
		return nil, err
	}

	e, err := s.edlRepo.FindByID(ctx, in.EdlID)
	if err != nil {
		return nil, err
	}
	if req.EdlItemID != nil && e.GetItem(*req.EdlItemID) == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Linked item does not belong to this inspection")
	}

	if err := in.Update(req.EdlItemID, inspection.Severity(req.Severity), req.Description, req.Photos); err != nil {
		return nil, err
	}

	if err := s.incidentRepo.Save(ctx, in); err != nil {
		return nil, err
	}

	if err := s.appendAudit(ctx, e.ID, "INCIDENT_UPDATED", actor, nil, audit.Metadata{
		"incident_id": in.ID.String(),
		"severity":    in.Severity.String(),
	}); err != nil {
		return nil, err
	}

	response := ToIncidentResponse(in)
	return &response, nil
}

// DeleteIncident removes an incident record.
func (s *EdlService) DeleteIncident(ctx context.Context, incidentID uuid.UUID, actor audit.Actor, ov permission.Overrides) error {
	if err := s.gate(actor, ov); err != nil {
		return err
	}

	in, err := s.incidentRepo.FindByID(ctx, incidentID)
	if err != nil {
		return err
	}

	if err := s.incidentRepo.Delete(ctx, incidentID); err != nil {
		return err
	}

	return s.appendAudit(ctx, in.EdlID, "INCIDENT_DELETED", actor, nil, audit.Metadata{
		"incident_id": in.ID.String(),
	})
}

// ListIncidents returns the incidents attached to an inspection
func (s *EdlService) ListIncidents(ctx context.Context, edlID uuid.UUID) ([]IncidentResponse, error) {
	ins, err := s.incidentRepo.FindByEdl(ctx, edlID)
	if err != nil {
		return nil, err
	}
	return ToIncidentResponses(ins), nil
}

func (s *EdlService) gate(actor audit.Actor, ov permission.Overrides) error {
	if !permission.AllowedWith(actor.Role, permission.PermPerformInspection, ov) {
		return shared.ErrForbidden
	}
	return nil
}

func (s *EdlService) appendAudit(ctx context.Context, edlID uuid.UUID, action string, actor audit.Actor, changes []audit.FieldChange, metadata audit.Metadata) error {
	entry, err := audit.NewEntry(inspection.AggregateTypeEdl, edlID, action, actor, changes, metadata)
	if err != nil {
		return fmt.Errorf("failed to build audit entry: %w", err)
	}
	return s.auditRepo.Append(ctx, entry)
}

func (s *EdlService) publishEvents(ctx context.Context, e *inspection.Edl) {
	if s.eventPublisher == nil {
		return
	}
	// Event delivery is best-effort; the inspection is already saved.
	_ = s.eventPublisher.Publish(ctx, e.GetDomainEvents()...)
	e.ClearDomainEvents()
}
