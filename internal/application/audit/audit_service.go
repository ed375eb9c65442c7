package audit

import (
	"context"

	"github.com/gites/backend/internal/domain/audit"
	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AuditService exposes the read side of the append-only audit log.
type AuditService struct {
	entryRepo audit.EntryRepository
}

// NewAuditService creates a new AuditService
func NewAuditService(entryRepo audit.EntryRepository) *AuditService {
	return &AuditService{entryRepo: entryRepo}
}

// ListByEntity returns the history of one entity, newest first.
func (s *AuditService) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]EntryResponse, error) {
	es, err := s.entryRepo.FindByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	return ToEntryResponses(es), nil
}

// List returns audit entries with filtering
func (s *AuditService) List(ctx context.Context, filter shared.Filter) ([]EntryResponse, error) {
	es, err := s.entryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToEntryResponses(es), nil
}
