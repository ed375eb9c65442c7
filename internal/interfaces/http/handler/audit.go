package handler

import (
	"github.com/gin-gonic/gin"
	auditapp "github.com/gites/backend/internal/application/audit"
	"github.com/gites/backend/internal/interfaces/http/middleware"
	"github.com/google/uuid"
)

// entityTypes maps the URL entity segment to the audited aggregate type.
var entityTypes = map[string]string{
	"reservations": "Reservation",
	"dossiers":     "Dossier",
	"edls":         "Edl",
	"taches":       "Tache",
}

// AuditHandler exposes the read side of the audit log
type AuditHandler struct {
	BaseHandler
	auditService *auditapp.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *auditapp.AuditService) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

// RegisterRoutes registers the audit routes
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	audit := rg.Group("/audit")
	audit.Use(middleware.Actor())
	{
		audit.GET("", h.List)
		audit.GET("/:entity/:id", h.ListByEntity)
	}
}

// List retrieves audit entries with optional filtering
func (h *AuditHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BindError(c, err)
		return
	}
	if action := c.Query("action"); action != "" {
		filter.Filters["action"] = action
	}
	if actorID := c.Query("actor_id"); actorID != "" {
		filter.Filters["actor_id"] = actorID
	}

	entries, err := h.auditService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// ListByEntity returns the history of one entity, newest first
func (h *AuditHandler) ListByEntity(c *gin.Context) {
	entityType, ok := entityTypes[c.Param("entity")]
	if !ok {
		h.BadRequest(c, "Unknown entity type")
		return
	}

	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid entity ID format")
		return
	}

	entries, err := h.auditService.ListByEntity(c.Request.Context(), entityType, entityID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}
