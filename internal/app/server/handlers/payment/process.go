package payment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pickup/internal/app/domains/apimodel/request"
	"pickup/internal/app/domains/apimodel/response"
	"pickup/internal/app/pkg/ginx"
	"pickup/pkg/errorx"
)

// Process pays for an order. A rejected card still returns the failed payment.
// POST /api/v1/orders/:id/payments
func (h *PaymentHandler) Process(c *gin.Context) {
	var req request.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	cmd, err := req.ToCommand(c.Param("id"))
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	result, err := h.orderService.ProcessPayment(c.Request.Context(), cmd)
	if err != nil {
		if result != nil && errorx.KindOf(err) == errorx.KindExternalVerification {
			e := errorx.Wrap(err)
			c.JSON(http.StatusPaymentRequired, ginx.Response{
				Meta: ginx.Meta{Code: http.StatusPaymentRequired, Message: e.Message},
				Data: response.FromPaymentResult(result),
			})
			return
		}
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromPaymentResult(result))
}
