package handler

import (
	"github.com/gin-gonic/gin"
	dossierapp "github.com/gites/backend/internal/application/dossier"
	"github.com/gites/backend/internal/interfaces/http/middleware"
	"github.com/google/uuid"
)

// DossierHandler handles dossier API endpoints
type DossierHandler struct {
	BaseHandler
	dossierService *dossierapp.DossierService
}

// NewDossierHandler creates a new DossierHandler
func NewDossierHandler(dossierService *dossierapp.DossierService) *DossierHandler {
	return &DossierHandler{
		dossierService: dossierService,
	}
}

// RegisterRoutes registers the dossier routes
func (h *DossierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	dossiers := rg.Group("/dossiers")
	dossiers.Use(middleware.Actor())
	{
		dossiers.POST("", h.Create)
		dossiers.GET("", h.List)
		dossiers.GET("/:id", h.GetByID)
		dossiers.POST("/:id/advance", h.Advance)
		dossiers.POST("/:id/revert", h.Revert)
		dossiers.POST("/:id/cancel", h.Cancel)
		dossiers.POST("/:id/archive", h.Archive)
	}
}

// Create opens a dossier for a confirmed reservation
func (h *DossierHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	var req dossierapp.CreateDossierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	dossier, err := h.dossierService.Create(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dossier)
}

// GetByID retrieves a dossier by ID
func (h *DossierHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid dossier ID format")
		return
	}

	dossier, err := h.dossierService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dossier)
}

// List retrieves dossiers with optional filtering
func (h *DossierHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BindError(c, err)
		return
	}
	if statut := c.Query("pipeline_statut"); statut != "" {
		filter.Filters["pipeline_statut"] = statut
	}
	if logementID := c.Query("logement_id"); logementID != "" {
		filter.Filters["logement_id"] = logementID
	}

	page, err := h.dossierService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Advance moves the dossier pipeline to a target state
func (h *DossierHandler) Advance(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid dossier ID format")
		return
	}

	var req dossierapp.AdvanceDossierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	dossier, err := h.dossierService.Advance(c.Request.Context(), id, req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dossier)
}

// Revert steps the dossier pipeline back one position
func (h *DossierHandler) Revert(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid dossier ID format")
		return
	}

	dossier, err := h.dossierService.Revert(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dossier)
}

// Cancel runs the cancellation cascade
func (h *DossierHandler) Cancel(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid dossier ID format")
		return
	}

	var req dossierapp.CancelDossierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.dossierService.Cancel(c.Request.Context(), id, req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Archive freezes a terminal dossier
func (h *DossierHandler) Archive(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid dossier ID format")
		return
	}

	dossier, err := h.dossierService.Archive(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dossier)
}
