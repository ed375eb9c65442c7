package inspection

import (
	"context"
	"fmt"

	"github.com/gites/backend/internal/domain/dossier"
	"github.com/gites/backend/internal/domain/inspection"
	"github.com/gites/backend/internal/domain/permission"
	"github.com/gites/backend/internal/domain/pipeline"
	"github.com/gites/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EdlFinalizedHandler handles EdlFinalizedEvent and tries to advance the
// owning dossier to the matching checkpoint outcome. Best-effort: when
// the dossier is not sitting at the checkpoint the advance is skipped
// with a warning, and the finalized inspection stands either way.
type EdlFinalizedHandler struct {
	dossierRepo dossier.DossierRepository
	logger      *zap.Logger
}

// NewEdlFinalizedHandler creates a new handler for inspection finalized events
func NewEdlFinalizedHandler(dossierRepo dossier.DossierRepository, logger *zap.Logger) *EdlFinalizedHandler {
	return &EdlFinalizedHandler{
		dossierRepo: dossierRepo,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *EdlFinalizedHandler) EventTypes() []string {
	return []string{inspection.EventTypeEdlFinalized}
}

// Handle processes an EdlFinalizedEvent by advancing the dossier pipeline
func (h *EdlFinalizedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	finalized, ok := event.(*inspection.EdlFinalizedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", inspection.EventTypeEdlFinalized),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inspection.EventTypeEdlFinalized, event.EventType())
	}

	target := advanceTarget(finalized.EdlType, finalized.HasAnomaly)

	d, err := h.dossierRepo.FindByID(ctx, finalized.DossierID)
	if err != nil {
		h.logger.Error("failed to load dossier for pipeline advance",
			zap.String("dossier_id", finalized.DossierID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to load dossier: %w", err)
	}

	// Inspection outcomes are operational targets, so the agent role is
	// always enough here.
	if err := d.AdvanceTo(target, permission.RoleAgent); err != nil {
		h.logger.Warn("skipping pipeline advance after inspection finalization",
			zap.String("dossier_id", d.ID.String()),
			zap.String("current", d.PipelineStatut.String()),
			zap.String("target", target.String()),
			zap.Error(err),
		)
		return nil
	}

	if err := h.dossierRepo.SaveWithLock(ctx, d); err != nil {
		h.logger.Error("failed to save dossier after pipeline advance",
			zap.String("dossier_id", d.ID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save dossier: %w", err)
	}

	h.logger.Info("dossier advanced after inspection finalization",
		zap.String("dossier_id", d.ID.String()),
		zap.String("target", target.String()),
	)

	return nil
}

func advanceTarget(typ inspection.EdlType, hasAnomaly bool) pipeline.Status {
	switch {
	case typ == inspection.EdlArrivee && hasAnomaly:
		return pipeline.StatusEdlEntreeIncident
	case typ == inspection.EdlArrivee:
		return pipeline.StatusEdlEntreeOK
	case hasAnomaly:
		return pipeline.StatusEdlIncident
	default:
		return pipeline.StatusEdlOK
	}
}

// Ensure EdlFinalizedHandler implements shared.EventHandler
var _ shared.EventHandler = (*EdlFinalizedHandler)(nil)
