package routers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pickup/internal/app/server/handlers/admin"
	"pickup/internal/app/server/handlers/order"
	"pickup/internal/app/server/handlers/payment"
	"pickup/internal/app/server/middlewares"
	"pickup/pkg/logger"
)

// SetupRoutes wires every route. Admin routes are not authenticated here; put the
// service behind an authenticating proxy.
func SetupRoutes(
	log logger.Logger,
	orderHandler *order.OrderHandler,
	paymentHandler *payment.PaymentHandler,
	adminHandler *admin.AdminHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(middlewares.Recovery(log))
	r.Use(middlewares.CORS())
	r.Use(middlewares.Logger(log))
	r.Use(middlewares.ErrorHandler())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "pickup",
		})
	})

	v1 := r.Group("/api/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.POST("", orderHandler.Create)
			orders.GET("/number/:number", orderHandler.GetByNumber)
			orders.GET("/:id", orderHandler.Get)
			orders.GET("/:id/queue", orderHandler.Queue)
			orders.GET("/:id/live", orderHandler.Live)
			orders.POST("/:id/payments", paymentHandler.Process)
			orders.GET("/:id/payment", paymentHandler.GetByOrder)
		}

		v1.GET("/payments/:id", paymentHandler.Get)
		v1.GET("/stats", adminHandler.Stats)

		adm := v1.Group("/admin")
		{
			adm.GET("/orders", adminHandler.ListOrders)
			adm.GET("/orders/live", adminHandler.Live)
			adm.PATCH("/orders/:id/status", adminHandler.UpdateStatus)
			adm.POST("/orders/:id/notify", adminHandler.Notify)
			adm.POST("/orders/:id/print", adminHandler.Print)
			adm.GET("/stats", adminHandler.AdminStats)
		}
	}

	return r
}
