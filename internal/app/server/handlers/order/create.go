package order

import (
	"github.com/gin-gonic/gin"

	"pickup/internal/app/domains/apimodel/request"
	"pickup/internal/app/domains/apimodel/response"
	"pickup/internal/app/pkg/ginx"
)

// Create places an order.
// POST /api/v1/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req request.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), req.ToCreateOrderInput())
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Created(c, response.FromOrderEntity(order))
}
