package handler

import (
	"github.com/gin-gonic/gin"
	inspectionapp "github.com/gites/backend/internal/application/inspection"
	"github.com/gites/backend/internal/interfaces/http/middleware"
	"github.com/google/uuid"
)

// EdlHandler handles inspection and incident API endpoints
type EdlHandler struct {
	BaseHandler
	edlService *inspectionapp.EdlService
}

// NewEdlHandler creates a new EdlHandler
func NewEdlHandler(edlService *inspectionapp.EdlService) *EdlHandler {
	return &EdlHandler{
		edlService: edlService,
	}
}

// RegisterRoutes registers the inspection routes
func (h *EdlHandler) RegisterRoutes(rg *gin.RouterGroup) {
	edls := rg.Group("/edls")
	edls.Use(middleware.Actor())
	{
		edls.POST("", h.Create)
		edls.GET("/:id", h.GetByID)
		edls.PUT("/:id/items/:itemId", h.RecordItem)
		edls.POST("/:id/finalize", h.Finalize)
		edls.POST("/:id/reopen", h.Reopen)
		edls.POST("/:id/incidents", h.CreateIncident)
		edls.GET("/:id/incidents", h.ListIncidents)
	}

	incidents := rg.Group("/incidents")
	incidents.Use(middleware.Actor())
	{
		incidents.PUT("/:id", h.UpdateIncident)
		incidents.DELETE("/:id", h.DeleteIncident)
	}

	rg.GET("/dossiers/:id/edls", middleware.Actor(), h.ListByDossier)
}

// Create opens an inspection with its checklist
func (h *EdlHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	var req inspectionapp.CreateEdlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	edl, err := h.edlService.Create(c.Request.Context(), req, actor, middleware.GetOverrides(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, edl)
}

// GetByID retrieves an inspection by ID
func (h *EdlHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inspection ID format")
		return
	}

	edl, err := h.edlService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, edl)
}

// ListByDossier returns the inspections of a dossier
func (h *EdlHandler) ListByDossier(c *gin.Context) {
	dossierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid dossier ID format")
		return
	}

	edls, err := h.edlService.ListByDossier(c.Request.Context(), dossierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, edls)
}

// RecordItem sets the outcome of one checklist item
func (h *EdlHandler) RecordItem(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	edlID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inspection ID format")
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req inspectionapp.RecordItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	edl, err := h.edlService.RecordItem(c.Request.Context(), edlID, itemID, req, actor, middleware.GetOverrides(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, edl)
}

// Finalize completes an inspection once every item has an outcome
func (h *EdlHandler) Finalize(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	edlID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inspection ID format")
		return
	}

	edl, err := h.edlService.Finalize(c.Request.Context(), edlID, actor, middleware.GetOverrides(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, edl)
}

// Reopen puts a finalized inspection back in progress
func (h *EdlHandler) Reopen(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	edlID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inspection ID format")
		return
	}

	edl, err := h.edlService.Reopen(c.Request.Context(), edlID, actor, middleware.GetOverrides(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, edl)
}

// CreateIncident attaches an incident record to an inspection
func (h *EdlHandler) CreateIncident(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	edlID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inspection ID format")
		return
	}

	var req inspectionapp.CreateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	incident, err := h.edlService.CreateIncident(c.Request.Context(), edlID, req, actor, middleware.GetOverrides(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, incident)
}

// ListIncidents returns the incidents attached to an inspection
func (h *EdlHandler) ListIncidents(c *gin.Context) {
	edlID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inspection ID format")
		return
	}

	incidents, err := h.edlService.ListIncidents(c.Request.Context(), edlID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, incidents)
}

// UpdateIncident rewrites an incident record
func (h *EdlHandler) UpdateIncident(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	incidentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid incident ID format")
		return
	}

	var req inspectionapp.UpdateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	incident, err := h.edlService.UpdateIncident(c.Request.Context(), incidentID, req, actor, middleware.GetOverrides(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, incident)
}

// DeleteIncident removes an incident record
func (h *EdlHandler) DeleteIncident(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	incidentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid incident ID format")
		return
	}

	if err := h.edlService.DeleteIncident(c.Request.Context(), incidentID, actor, middleware.GetOverrides(c)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
