package handler

import (
	"github.com/gin-gonic/gin"
	taskapp "github.com/gites/backend/internal/application/task"
	"github.com/gites/backend/internal/interfaces/http/middleware"
	"github.com/google/uuid"
)

// TaskHandler handles operational task API endpoints
type TaskHandler struct {
	BaseHandler
	taskService *taskapp.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *taskapp.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// RegisterRoutes registers the task routes
func (h *TaskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	taches := rg.Group("/taches")
	taches.Use(middleware.Actor())
	{
		taches.POST("", h.Create)
		taches.GET("", h.List)
		taches.GET("/:id", h.GetByID)
		taches.POST("/:id/status", h.UpdateStatus)
		taches.POST("/:id/reassign", h.Reassign)
	}

	rg.GET("/dossiers/:id/taches", middleware.Actor(), h.ListByDossier)
}

// Create creates an operational task
func (h *TaskHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	var req taskapp.CreateTacheRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tache, err := h.taskService.Create(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, tache)
}

// GetByID retrieves a task by ID
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	tache, err := h.taskService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tache)
}

// List retrieves tasks with optional filtering
func (h *TaskHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BindError(c, err)
		return
	}
	if statut := c.Query("statut"); statut != "" {
		filter.Filters["statut"] = statut
	}
	if logementID := c.Query("logement_id"); logementID != "" {
		filter.Filters["logement_id"] = logementID
	}
	if assigneeID := c.Query("assignee_id"); assigneeID != "" {
		filter.Filters["assignee_id"] = assigneeID
	}

	taches, err := h.taskService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, taches)
}

// ListByDossier returns the tasks linked to a dossier
func (h *TaskHandler) ListByDossier(c *gin.Context) {
	dossierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid dossier ID format")
		return
	}

	taches, err := h.taskService.ListByDossier(c.Request.Context(), dossierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, taches)
}

// UpdateStatus moves a task to a target status
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	var req taskapp.UpdateTacheStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tache, err := h.taskService.UpdateStatus(c.Request.Context(), id, req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tache)
}

// Reassign hands a task to another assignee
func (h *TaskHandler) Reassign(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	var req taskapp.ReassignTacheRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tache, err := h.taskService.Reassign(c.Request.Context(), id, req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tache)
}
