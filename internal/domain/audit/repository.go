package audit

import (
	"context"

	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EntryRepository persists audit entries. The log is append-only; there
// are no update or delete operations.
type EntryRepository interface {
	// Append writes one entry
	Append(ctx context.Context, e *Entry) error

	// AppendAll writes several entries in one batch
	AppendAll(ctx context.Context, entries []*Entry) error

	// FindByEntity finds the entries of one entity, newest first
	FindByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]Entry, error)

	// FindAll finds entries with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Entry, error)
}
