package order

import (
	"github.com/gin-gonic/gin"

	"pickup/internal/app/domains/apimodel/response"
	"pickup/internal/app/liveview"
	"pickup/internal/app/server/sse"
)

// Live streams the customer's order page as server-sent events.
// GET /api/v1/orders/:id/live
func (h *OrderHandler) Live(c *gin.Context) {
	ctx := c.Request.Context()
	err := h.views.StreamCustomer(ctx, c.Param("id"), func(state *liveview.CustomerState) error {
		return sse.Send(c, "order", response.FromCustomerState(state))
	})
	sse.Finish(c, err)
}
