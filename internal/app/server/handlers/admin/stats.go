package admin

import (
	"github.com/gin-gonic/gin"

	"pickup/internal/app/domains/apimodel/response"
	"pickup/internal/app/pkg/ginx"
)

// Stats returns today's and this month's counts and revenue.
// GET /api/v1/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.statsService.GetOrderStats(c.Request.Context())
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromOrderStats(stats))
}

// AdminStats adds the status breakdown and payment figures.
// GET /api/v1/admin/stats
func (h *AdminHandler) AdminStats(c *gin.Context) {
	stats, err := h.statsService.GetAdminStats(c.Request.Context())
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromAdminStats(stats))
}
