package task

import (
	"context"
	"fmt"

	"github.com/gites/backend/internal/domain/audit"
	"github.com/gites/backend/internal/domain/permission"
	"github.com/gites/backend/internal/domain/shared"
	"github.com/gites/backend/internal/domain/task"
	"github.com/google/uuid"
)

// TaskService handles operational task management.
type TaskService struct {
	tacheRepo task.TacheRepository
	auditRepo audit.EntryRepository
	notifier  shared.NotificationDispatcher
}

// NewTaskService creates a new TaskService
func NewTaskService(tacheRepo task.TacheRepository, auditRepo audit.EntryRepository, notifier shared.NotificationDispatcher) *TaskService {
	return &TaskService{
		tacheRepo: tacheRepo,
		auditRepo: auditRepo,
		notifier:  notifier,
	}
}

// Create creates a task in A_FAIRE status.
func (s *TaskService) Create(ctx context.Context, req CreateTacheRequest, actor audit.Actor) (*TacheResponse, error) {
	if err := s.gate(actor); err != nil {
		return nil, err
	}

	t, err := task.NewTache(req.LogementID, req.DossierID, req.Label, req.DueDate)
	if err != nil {
		return nil, err
	}

	if err := s.tacheRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	if err := s.appendAudit(ctx, t.ID, "TASK_CREATED", actor, nil, audit.Metadata{
		"logement_id": t.LogementID.String(),
		"label":       t.Label,
	}); err != nil {
		return nil, err
	}

	response := ToTacheResponse(t)
	return &response, nil
}

// GetByID retrieves a task by ID
func (s *TaskService) GetByID(ctx context.Context, id uuid.UUID) (*TacheResponse, error) {
	t, err := s.tacheRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToTacheResponse(t)
	return &response, nil
}

// List retrieves tasks with filtering
func (s *TaskService) List(ctx context.Context, filter shared.Filter) ([]TacheResponse, error) {
	ts, err := s.tacheRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToTacheResponses(ts), nil
}

// ListByDossier returns the tasks linked to a dossier
func (s *TaskService) ListByDossier(ctx context.Context, dossierID uuid.UUID) ([]TacheResponse, error) {
	ts, err := s.tacheRepo.FindByDossier(ctx, dossierID)
	if err != nil {
		return nil, err
	}
	return ToTacheResponses(ts), nil
}

// UpdateStatus moves a task to the target status. FAIT and ANNULEE tasks
// can only be reactivated to A_FAIRE.
func (s *TaskService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateTacheStatusRequest, actor audit.Actor) (*TacheResponse, error) {
	if err := s.gate(actor); err != nil {
		return nil, err
	}

	t, err := s.tacheRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := t.Statut
	if err := t.TransitionTo(task.TaskStatus(req.Target)); err != nil {
		return nil, err
	}

	if err := s.tacheRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	if err := s.appendAudit(ctx, t.ID, "TASK_STATUS_CHANGED", actor, []audit.FieldChange{
		{Field: "statut", Before: before.String(), After: t.Statut.String()},
	}, nil); err != nil {
		return nil, err
	}

	response := ToTacheResponse(t)
	return &response, nil
}

// Reassign hands a task to another assignee and notifies them. The
// notification is fire-and-forget: delivery failure never fails the
// reassignment.
func (s *TaskService) Reassign(ctx context.Context, id uuid.UUID, req ReassignTacheRequest, actor audit.Actor) (*TacheResponse, error) {
	if err := s.gate(actor); err != nil {
		return nil, err
	}

	t, err := s.tacheRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var before string
	if t.AssigneeID != nil {
		before = t.AssigneeID.String()
	}
	if err := t.Reassign(req.AssigneeID); err != nil {
		return nil, err
	}

	if err := s.tacheRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	if err := s.appendAudit(ctx, t.ID, "TASK_REASSIGNED", actor, []audit.FieldChange{
		{Field: "assignee_id", Before: before, After: req.AssigneeID.String()},
	}, nil); err != nil {
		return nil, err
	}

	s.notifier.Dispatch(ctx, shared.Notification{
		Recipient: req.AssigneeID.String(),
		Title:     "Nouvelle tache assignee",
		Body:      t.Label,
		Metadata: map[string]string{
			"tache_id":    t.ID.String(),
			"logement_id": t.LogementID.String(),
		},
	})

	response := ToTacheResponse(t)
	return &response, nil
}

func (s *TaskService) gate(actor audit.Actor) error {
	if !permission.Allowed(actor.Role, permission.PermManageTasks) {
		return shared.ErrForbidden
	}
	return nil
}

func (s *TaskService) appendAudit(ctx context.Context, tacheID uuid.UUID, action string, actor audit.Actor, changes []audit.FieldChange, metadata audit.Metadata) error {
	entry, err := audit.NewEntry("Tache", tacheID, action, actor, changes, metadata)
	if err != nil {
		return fmt.Errorf("failed to build audit entry: %w", err)
	}
	return s.auditRepo.Append(ctx, entry)
}
