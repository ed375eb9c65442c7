package task

import (
	"fmt"
	"time"

	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TaskStatus represents the progress of an operational task.
type TaskStatus string

const (
	TaskAFaire  TaskStatus = "A_FAIRE"
	TaskEnCours TaskStatus = "EN_COURS"
	TaskFait    TaskStatus = "FAIT"
	TaskAnnulee TaskStatus = "ANNULEE"
)

// IsValid checks if the status is a known TaskStatus
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskAFaire, TaskEnCours, TaskFait, TaskAnnulee:
		return true
	}
	return false
}

// String returns the string representation of TaskStatus
func (s TaskStatus) String() string {
	return string(s)
}

// IsOpen reports whether the task still needs work.
func (s TaskStatus) IsOpen() bool {
	return s == TaskAFaire || s == TaskEnCours
}

// Tache is an operational to-do attached to a property and optionally to
// a dossier. Done and cancelled tasks can be reactivated to A_FAIRE.
type Tache struct {
	shared.BaseAggregateRoot
	DossierID  *uuid.UUID `gorm:"type:uuid;index"`
	LogementID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Label      string     `gorm:"type:varchar(200);not null"`
	Statut     TaskStatus `gorm:"type:varchar(10);not null;index"`
	DueDate    time.Time  `gorm:"not null;index"`
	AssigneeID *uuid.UUID `gorm:"type:uuid;index"`
}

// NewTache creates a task in A_FAIRE status.
func NewTache(logementID uuid.UUID, dossierID *uuid.UUID, label string, dueDate time.Time) (*Tache, error) {
	if logementID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Logement ID cannot be empty")
	}
	if label == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Task label cannot be empty")
	}

	return &Tache{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DossierID:         dossierID,
		LogementID:        logementID,
		Label:             label,
		Statut:            TaskAFaire,
		DueDate:           dueDate,
	}, nil
}

// taskTransitions lists the allowed status moves. FAIT and ANNULEE are
// reactivable to A_FAIRE.
var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskAFaire:  {TaskEnCours, TaskFait, TaskAnnulee},
	TaskEnCours: {TaskAFaire, TaskFait, TaskAnnulee},
	TaskFait:    {TaskAFaire},
	TaskAnnulee: {TaskAFaire},
}

// TransitionTo moves the task to the target status.
func (t *Tache) TransitionTo(target TaskStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown task status %q", target))
	}
	for _, next := range taskTransitions[t.Statut] {
		if next == target {
			t.Statut = target
			t.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("INVALID_TRANSITION",
		fmt.Sprintf("Cannot move task from %s to %s", t.Statut, target))
}

// Reassign hands the task to another assignee.
func (t *Tache) Reassign(assigneeID uuid.UUID) error {
	if assigneeID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Assignee ID cannot be empty")
	}
	if !t.Statut.IsOpen() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot reassign a task in %s status", t.Statut))
	}

	t.AssigneeID = &assigneeID
	t.UpdatedAt = time.Now()

	return nil
}

// CancelAuto annuls an open task during cascade cancellation. Completed
// (FAIT) tasks are left untouched by the cascade.
func (t *Tache) CancelAuto() error {
	if !t.Statut.IsOpen() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot auto-cancel a task in %s status", t.Statut))
	}

	t.Statut = TaskAnnulee
	t.UpdatedAt = time.Now()

	return nil
}
