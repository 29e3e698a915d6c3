package admin

import (
	"github.com/gin-gonic/gin"

	"pickup/internal/app/domains/apimodel/request"
	"pickup/internal/app/domains/apimodel/response"
	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/liveview"
	"pickup/internal/app/pkg/ginx"
	"pickup/internal/app/server/sse"
)

// ListOrders returns orders newest first.
// GET /api/v1/admin/orders?status=
func (h *AdminHandler) ListOrders(c *gin.Context) {
	var query request.ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), etorder.Status(query.Status))
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromOrderEntities(orders))
}

// UpdateStatus moves an order through the workflow.
// PATCH /api/v1/admin/orders/:id/status
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	var req request.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), c.Param("id"), etorder.Status(req.Status))
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromOrderEntity(order))
}

// Notify tells the customer the order is ready.
// POST /api/v1/admin/orders/:id/notify
func (h *AdminHandler) Notify(c *gin.Context) {
	order, err := h.orderService.NotifyCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromOrderEntity(order))
}

// Print queues a receipt.
// POST /api/v1/admin/orders/:id/print
func (h *AdminHandler) Print(c *gin.Context) {
	jobID, err := h.orderService.PrintReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, &response.PrintResponse{JobID: jobID})
}

// Live streams the order list as server-sent events.
// GET /api/v1/admin/orders/live?status=
func (h *AdminHandler) Live(c *gin.Context) {
	var query request.ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	err := h.views.StreamAdmin(c.Request.Context(), etorder.Status(query.Status), func(state *liveview.AdminState) error {
		return sse.Send(c, "orders", response.FromAdminState(state))
	})
	sse.Finish(c, err)
}
