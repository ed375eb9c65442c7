package persistence

import (
	"context"

	"github.com/gites/backend/internal/domain/audit"
	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var auditSortable = map[string]bool{
	"occurred_at": true,
	"entity_type": true,
	"action":      true,
}

// GormAuditRepository implements EntryRepository using GORM. The table
// is append-only; the repository exposes no update or delete.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append writes one entry
func (r *GormAuditRepository) Append(ctx context.Context, e *audit.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// AppendAll writes several entries in one batch
func (r *GormAuditRepository) AppendAll(ctx context.Context, entries []*audit.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(entries).Error
}

// FindByEntity finds the entries of one entity, newest first
func (r *GormAuditRepository) FindByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]audit.Entry, error) {
	var entries []audit.Entry
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("occurred_at desc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindAll finds entries with filtering
func (r *GormAuditRepository) FindAll(ctx context.Context, filter shared.Filter) ([]audit.Entry, error) {
	// audit_entries has no created_at column, order on occurred_at instead
	if !auditSortable[filter.OrderBy] {
		filter.OrderBy = "occurred_at"
	}

	var entries []audit.Entry
	query := applyFilter(
		r.db.WithContext(ctx).Model(&audit.Entry{}),
		filter,
		auditSortable,
	)

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Ensure GormAuditRepository implements EntryRepository
var _ audit.EntryRepository = (*GormAuditRepository)(nil)
