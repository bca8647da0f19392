package reservations

import (
	"net/http"

	"bookfair/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

// CreateReservation handles POST /reservations
func (c *Controller) CreateReservation(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req CreateReservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	reservation, err := c.service.CreateReservation(ctx.Request.Context(), userID, &req)
	if err != nil {
		c.respondError(ctx, err, "Failed to create reservation")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Reservation created successfully", reservation, nil)
}

// GetReservation handles GET /reservations/:id
func (c *Controller) GetReservation(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid reservation ID", nil, nil)
		return
	}

	reservation, err := c.service.GetReservation(ctx.Request.Context(), id, userID, currentUserRole(ctx))
	if err != nil {
		c.respondError(ctx, err, "Failed to get reservation")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation retrieved successfully", reservation, nil)
}

// GetUserReservations handles GET /users/reservations
func (c *Controller) GetUserReservations(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	list, err := c.service.GetUserReservations(ctx.Request.Context(), userID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list reservations", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservations retrieved successfully", list, nil)
}

// ListReservations handles GET /reservations (staff only)
func (c *Controller) ListReservations(ctx *gin.Context) {
	var query ReservationListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	list, err := c.service.ListReservations(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list reservations", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservations retrieved successfully", list, nil)
}

// ConfirmReservation handles PUT /reservations/:id/confirm (staff only)
func (c *Controller) ConfirmReservation(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid reservation ID", nil, nil)
		return
	}

	reservation, err := c.service.ConfirmReservation(ctx.Request.Context(), id)
	if err != nil {
		c.respondError(ctx, err, "Failed to confirm reservation")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation confirmed successfully", reservation, nil)
}

// CancelReservation handles DELETE /reservations/:id
func (c *Controller) CancelReservation(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid reservation ID", nil, nil)
		return
	}

	if err := c.service.CancelReservation(ctx.Request.Context(), id, userID, currentUserRole(ctx)); err != nil {
		c.respondError(ctx, err, "Failed to cancel reservation")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation cancelled successfully", nil, nil)
}

// ResendConfirmationEmail handles POST /reservations/:id/resend-email
func (c *Controller) ResendConfirmationEmail(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid reservation ID", nil, nil)
		return
	}

	if err := c.service.ResendConfirmationEmail(ctx.Request.Context(), id, userID, currentUserRole(ctx)); err != nil {
		c.respondError(ctx, err, "Failed to resend confirmation email")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Confirmation email sent successfully", nil, nil)
}

// respondError maps sentinel errors to HTTP codes and attaches the
// machine-readable code so API clients can map back to sentinels.
func (c *Controller) respondError(ctx *gin.Context, err error, fallback string) {
	code := ErrorCode(err)
	var payload interface{}
	if code != "" {
		payload = gin.H{"code": code}
	}

	switch err {
	case ErrInvalidSelection, ErrInvalidDate:
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, payload)
	case ErrStallNotFound, ErrStallUnavailable:
		response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, payload)
	case ErrInvalidTransition, ErrInvalidState:
		response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, payload)
	case ErrNotFound:
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Reservation not found", nil, payload)
	case ErrForbidden:
		response.RespondJSON(ctx, "error", http.StatusForbidden, "Insufficient permissions", nil, payload)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, fallback, nil, nil)
	}
}

func requireUserID(ctx *gin.Context) (uuid.UUID, bool) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, false
	}

	idStr, ok := raw.(string)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, false
	}

	return id, true
}

func currentUserRole(ctx *gin.Context) string {
	raw, exists := ctx.Get("user_role")
	if !exists {
		return ""
	}
	role, _ := raw.(string)
	return role
}
