package order

import (
	"github.com/gin-gonic/gin"

	"pickup/internal/app/domains/apimodel/response"
	"pickup/internal/app/pkg/ginx"
)

// Get returns one order.
// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromOrderEntity(order))
}

// GetByNumber looks an order up by the number printed on the ticket.
// GET /api/v1/orders/number/:number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	order, err := h.orderService.GetOrderByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromOrderEntity(order))
}

// Queue returns the queue position of an order.
// GET /api/v1/orders/:id/queue
func (h *OrderHandler) Queue(c *gin.Context) {
	info, err := h.orderService.GetQueue(c.Request.Context(), c.Param("id"))
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromQueueInfo(info))
}
