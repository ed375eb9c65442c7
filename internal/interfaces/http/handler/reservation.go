package handler

import (
	"github.com/gin-gonic/gin"
	bookingapp "github.com/gites/backend/internal/application/booking"
	"github.com/gites/backend/internal/interfaces/http/middleware"
	"github.com/google/uuid"
)

// ReservationHandler handles reservation and option API endpoints
type ReservationHandler struct {
	BaseHandler
	reservationService *bookingapp.ReservationService
}

// NewReservationHandler creates a new ReservationHandler
func NewReservationHandler(reservationService *bookingapp.ReservationService) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
	}
}

// RegisterRoutes registers the reservation routes
func (h *ReservationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reservations := rg.Group("/reservations")
	reservations.Use(middleware.Actor())
	{
		reservations.POST("", h.Create)
		reservations.POST("/options", h.CreateOption)
		reservations.GET("", h.List)
		reservations.GET("/:id", h.GetByID)
		reservations.POST("/:id/confirm", h.Confirm)
		reservations.POST("/:id/cancel", h.Cancel)
		reservations.POST("/sweeps/expire-options", h.ExpireOptions)
	}
}

// CreateOption places a time-limited hold on a property
func (h *ReservationHandler) CreateOption(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	var req bookingapp.CreateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	reservation, err := h.reservationService.CreateOption(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, reservation)
}

// Create books a property with a binding reservation
func (h *ReservationHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	var req bookingapp.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	reservation, err := h.reservationService.CreateReservation(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, reservation)
}

// GetByID retrieves a reservation by ID
func (h *ReservationHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reservation ID format")
		return
	}

	reservation, err := h.reservationService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reservation)
}

// List retrieves reservations with optional filtering
func (h *ReservationHandler) List(c *gin.Context) {
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

	reservations, err := h.reservationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reservations)
}

// Confirm turns an active option into a binding reservation
func (h *ReservationHandler) Confirm(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reservation ID format")
		return
	}

	reservation, err := h.reservationService.Confirm(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reservation)
}

// Cancel annuls a reservation
func (h *ReservationHandler) Cancel(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reservation ID format")
		return
	}

	var req bookingapp.CancelReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	reservation, err := h.reservationService.Cancel(c.Request.Context(), id, req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reservation)
}

// ExpireOptionsResponse reports one option expiry sweep run
type ExpireOptionsResponse struct {
	Expired int `json:"expired"`
}

// ExpireOptions lapses every active option whose hold period has passed
func (h *ReservationHandler) ExpireOptions(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	count, err := h.reservationService.ExpireOptions(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ExpireOptionsResponse{Expired: count})
}
