package stalls

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

// ListStalls handles GET /stalls
func (c *Controller) ListStalls(ctx *gin.Context) {
	var query StallListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	list, err := c.service.ListStalls(ctx.Request.Context(), query)
	if err != nil {
		switch err {
		case ErrInvalidStatus, ErrInvalidSize:
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list stalls", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Stalls retrieved successfully", list, nil)
}

// ListAvailableStalls handles GET /stalls/available
func (c *Controller) ListAvailableStalls(ctx *gin.Context) {
	list, err := c.service.ListAvailableStalls(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list available stalls", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Available stalls retrieved successfully", list, nil)
}

// GetStall handles GET /stalls/:id
func (c *Controller) GetStall(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid stall ID", nil, nil)
		return
	}

	stall, err := c.service.GetStall(ctx.Request.Context(), id)
	if err != nil {
		switch err {
		case ErrStallNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Stall not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get stall", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Stall retrieved successfully", stall, nil)
}

// GetStallReservation handles GET /stalls/:id/reservation.
// Responds with a null payload when the stall has no active reservation.
func (c *Controller) GetStallReservation(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid stall ID", nil, nil)
		return
	}

	summary, err := c.service.GetStallReservation(ctx.Request.Context(), id)
	if err != nil {
		switch err {
		case ErrStallNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Stall not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get stall reservation", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Stall reservation retrieved successfully", summary, nil)
}

// CreateStall handles POST /stalls (staff only)
func (c *Controller) CreateStall(ctx *gin.Context) {
	var req CreateStallRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	createdBy := currentUserID(ctx)

	stall, err := c.service.CreateStall(ctx.Request.Context(), &req, createdBy)
	if err != nil {
		switch err {
		case ErrDuplicateStall:
			response.RespondJSON(ctx, "error", http.StatusConflict, "Stall number already exists", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create stall", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Stall created successfully", stall, nil)
}

// UpdateStall handles PUT /stalls/:id (staff only)
func (c *Controller) UpdateStall(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid stall ID", nil, nil)
		return
	}

	var req UpdateStallRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	stall, err := c.service.UpdateStall(ctx.Request.Context(), id, &req)
	if err != nil {
		switch err {
		case ErrStallNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Stall not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update stall", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Stall updated successfully", stall, nil)
}

// UpdateStallStatus handles PUT /stalls/:id/status (staff only)
func (c *Controller) UpdateStallStatus(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid stall ID", nil, nil)
		return
	}

	var req UpdateStallStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	stall, err := c.service.UpdateStallStatus(ctx.Request.Context(), id, req.Status)
	if err != nil {
		switch err {
		case ErrStallNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Stall not found", nil, nil)
		case ErrInvalidStatus:
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid stall status", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update stall status", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Stall status updated successfully", stall, nil)
}

// DeleteStall handles DELETE /stalls/:id (staff only)
func (c *Controller) DeleteStall(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid stall ID", nil, nil)
		return
	}

	if err := c.service.DeleteStall(ctx.Request.Context(), id); err != nil {
		switch err {
		case ErrStallNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Stall not found", nil, nil)
		case ErrStallInUse:
			response.RespondJSON(ctx, "error", http.StatusConflict, "Stall has an active reservation", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete stall", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Stall deleted successfully", nil, nil)
}

// GetStatistics handles GET /stalls/stats (staff only)
func (c *Controller) GetStatistics(ctx *gin.Context) {
	stats, err := c.service.GetStatistics(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to load stall statistics", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Stall statistics retrieved successfully", stats, nil)
}

func currentUserID(ctx *gin.Context) uuid.UUID {
	raw, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil
	}
	idStr, ok := raw.(string)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil
	}
	return id
}
