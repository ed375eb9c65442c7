package handler

import (
	"github.com/gin-gonic/gin"
	paymentapp "github.com/gites/backend/internal/application/payment"
	"github.com/gites/backend/internal/interfaces/http/middleware"
	"github.com/google/uuid"
)

// PaymentHandler handles payment schedule API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *paymentapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *paymentapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// RegisterRoutes registers the payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	dossiers := rg.Group("/dossiers")
	dossiers.Use(middleware.Actor())
	{
		dossiers.POST("/:id/payments/schedule", h.CreateSchedule)
		dossiers.GET("/:id/payments", h.ListByDossier)
	}

	payments := rg.Group("/payments")
	payments.Use(middleware.Actor())
	{
		payments.GET("/:id", h.GetByID)
		payments.PATCH("/:id", h.Update)
		payments.POST("/:id/settle", h.MarkPaid)
		payments.POST("/sweeps/overdue", h.SweepOverdue)
	}
}

// CreateSchedule derives and persists the payment plan of a dossier
func (h *PaymentHandler) CreateSchedule(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	dossierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid dossier ID format")
		return
	}

	var req paymentapp.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	schedule, err := h.paymentService.CreateSchedule(c.Request.Context(), dossierID, req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, schedule)
}

// ListByDossier returns the payment plan of a dossier
func (h *PaymentHandler) ListByDossier(c *gin.Context) {
	dossierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid dossier ID format")
		return
	}

	schedule, err := h.paymentService.ListByDossier(c.Request.Context(), dossierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, schedule)
}

// GetByID retrieves a payment by ID
func (h *PaymentHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// Update edits a DU or EN_RETARD payment
func (h *PaymentHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req paymentapp.UpdatePaiementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	payment, err := h.paymentService.Update(c.Request.Context(), id, req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// MarkPaid settles a payment
func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	payment, err := h.paymentService.MarkPaid(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// SweepOverdue flags every DU payment past its due date as EN_RETARD.
// An optional dossier_id query parameter restricts the sweep.
func (h *PaymentHandler) SweepOverdue(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	dossierID := uuid.Nil
	if raw := c.Query("dossier_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid dossier ID format")
			return
		}
		dossierID = parsed
	}

	result, err := h.paymentService.SweepOverdue(c.Request.Context(), dossierID, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
