package persistence

import (
	"context"
	"errors"

	"github.com/gites/backend/internal/domain/shared"
	"github.com/gites/backend/internal/domain/task"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var tacheSortable = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"due_date":   true,
	"statut":     true,
}

// GormTacheRepository implements TacheRepository using GORM
type GormTacheRepository struct {
	db *gorm.DB
}

// NewGormTacheRepository creates a new GormTacheRepository
func NewGormTacheRepository(db *gorm.DB) *GormTacheRepository {
	return &GormTacheRepository{db: db}
}

// FindByID finds a task by its ID
func (r *GormTacheRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Tache, error) {
	var t task.Tache
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByDossier finds all tasks linked to a dossier
func (r *GormTacheRepository) FindByDossier(ctx context.Context, dossierID uuid.UUID) ([]task.Tache, error) {
	var taches []task.Tache
	if err := r.db.WithContext(ctx).
		Where("dossier_id = ?", dossierID).
		Order("created_at asc").
		Find(&taches).Error; err != nil {
		return nil, err
	}
	return taches, nil
}

// FindOpenByDossier finds A_FAIRE and EN_COURS tasks of a dossier
func (r *GormTacheRepository) FindOpenByDossier(ctx context.Context, dossierID uuid.UUID) ([]task.Tache, error) {
	var taches []task.Tache
	if err := r.db.WithContext(ctx).
		Where("dossier_id = ? AND statut IN ?", dossierID,
			[]task.TaskStatus{task.TaskAFaire, task.TaskEnCours}).
		Order("created_at asc").
		Find(&taches).Error; err != nil {
		return nil, err
	}
	return taches, nil
}

// FindAll finds tasks with filtering
func (r *GormTacheRepository) FindAll(ctx context.Context, filter shared.Filter) ([]task.Tache, error) {
	var taches []task.Tache
	query := applyFilter(
		r.db.WithContext(ctx).Model(&task.Tache{}),
		filter,
		tacheSortable,
	)

	if err := query.Find(&taches).Error; err != nil {
		return nil, err
	}
	return taches, nil
}

// Save creates or updates a task
func (r *GormTacheRepository) Save(ctx context.Context, t *task.Tache) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// Ensure GormTacheRepository implements TacheRepository
var _ task.TacheRepository = (*GormTacheRepository)(nil)
