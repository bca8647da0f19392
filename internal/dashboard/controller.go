package dashboard

import (
	"net/http"

	"bookfair/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetDashboardStats handles GET /dashboard/stats (staff only)
func (c *Controller) GetDashboardStats(ctx *gin.Context) {
	stats, err := c.service.GetDashboardStats(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get dashboard stats", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Dashboard stats retrieved successfully", stats, nil)
}
