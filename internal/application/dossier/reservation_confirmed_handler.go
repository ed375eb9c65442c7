package dossier

import (
	"context"
	"fmt"
	"time"

	"github.com/gites/backend/internal/domain/dossier"
	"github.com/gites/backend/internal/domain/shared"
	"github.com/gites/backend/internal/domain/task"
	"go.uber.org/zap"
)

// Checklist labels attached to every newly opened dossier.
const (
	tachePreparation = "Preparation du logement"
	tacheRemiseCles  = "Accueil et remise des cles"
	tacheMenage      = "Menage de fin de sejour"
)

// ReservationConfirmedHandler handles ReservationConfirmedEvent and
// opens a dossier for the newly binding reservation, with its standard
// checklist tasks. Best-effort: the confirmation stands even when
// dossier creation fails, and a dossier can still be opened manually
// afterwards.
type ReservationConfirmedHandler struct {
	dossierRepo dossier.DossierRepository
	tacheRepo   task.TacheRepository
	logger      *zap.Logger
}

// NewReservationConfirmedHandler creates a new handler for reservation confirmed events
func NewReservationConfirmedHandler(dossierRepo dossier.DossierRepository, tacheRepo task.TacheRepository, logger *zap.Logger) *ReservationConfirmedHandler {
	return &ReservationConfirmedHandler{
		dossierRepo: dossierRepo,
		tacheRepo:   tacheRepo,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ReservationConfirmedHandler) EventTypes() []string {
	return []string{dossier.EventTypeReservationConfirmed}
}

// Handle processes a ReservationConfirmedEvent by opening a dossier
func (h *ReservationConfirmedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	confirmed, ok := event.(*dossier.ReservationConfirmedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", dossier.EventTypeReservationConfirmed),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			dossier.EventTypeReservationConfirmed, event.EventType())
	}

	h.logger.Info("processing reservation confirmed event for dossier creation",
		zap.String("reservation_id", confirmed.ReservationID.String()),
		zap.String("logement_id", confirmed.LogementID.String()),
		zap.String("tenant_name", confirmed.TenantName),
	)

	// Idempotency check: a reservation carries at most one dossier
	exists, err := h.dossierRepo.ExistsForReservation(ctx, confirmed.ReservationID)
	if err != nil {
		h.logger.Error("failed to check existing dossier",
			zap.String("reservation_id", confirmed.ReservationID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to check existing dossier: %w", err)
	}
	if exists {
		h.logger.Warn("dossier already exists for reservation, skipping",
			zap.String("reservation_id", confirmed.ReservationID.String()),
		)
		return nil
	}

	// Auto-opened dossiers always use the ACOMPTE regime. An ARRHES
	// dossier has to be created manually before the confirmation event
	// fires, since a reservation carries at most one dossier.
	d, err := dossier.NewDossier(confirmed.ReservationID, confirmed.LogementID, dossier.DepositAcompte)
	if err != nil {
		h.logger.Error("failed to create dossier",
			zap.String("reservation_id", confirmed.ReservationID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to create dossier: %w", err)
	}

	if err := h.dossierRepo.Save(ctx, d); err != nil {
		h.logger.Error("failed to save dossier",
			zap.String("reservation_id", confirmed.ReservationID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save dossier: %w", err)
	}

	h.logger.Info("dossier created for confirmed reservation",
		zap.String("dossier_id", d.ID.String()),
		zap.String("reservation_id", confirmed.ReservationID.String()),
	)

	// Checklist tasks are a convenience; a failed insert leaves the
	// dossier usable and is only logged.
	checklist := []struct {
		label string
		due   time.Time
	}{
		{tachePreparation, confirmed.CheckIn},
		{tacheRemiseCles, confirmed.CheckIn},
		{tacheMenage, confirmed.CheckOut},
	}
	for _, item := range checklist {
		ta, err := task.NewTache(confirmed.LogementID, &d.ID, item.label, item.due)
		if err != nil {
			h.logger.Warn("failed to build checklist task",
				zap.String("dossier_id", d.ID.String()),
				zap.String("label", item.label),
				zap.Error(err),
			)
			continue
		}
		if err := h.tacheRepo.Save(ctx, ta); err != nil {
			h.logger.Warn("failed to save checklist task",
				zap.String("dossier_id", d.ID.String()),
				zap.String("label", item.label),
				zap.Error(err),
			)
		}
	}

	return nil
}

// Ensure ReservationConfirmedHandler implements shared.EventHandler
var _ shared.EventHandler = (*ReservationConfirmedHandler)(nil)
