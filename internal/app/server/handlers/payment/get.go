package payment

import (
	"github.com/gin-gonic/gin"

	"pickup/internal/app/domains/apimodel/response"
	"pickup/internal/app/pkg/ginx"
)

// Get returns a payment.
// GET /api/v1/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.orderService.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromPaymentEntity(payment))
}

// GetByOrder returns the latest payment of an order.
// GET /api/v1/orders/:id/payment
func (h *PaymentHandler) GetByOrder(c *gin.Context) {
	payment, err := h.orderService.GetPaymentByOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromPaymentEntity(payment))
}
