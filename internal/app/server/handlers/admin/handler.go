package admin

import (
	"pickup/internal/app/domains/services/svorder"
	"pickup/internal/app/domains/services/svstats"
	"pickup/internal/app/liveview"
)

// AdminHandler serves the kitchen dashboard and the stats endpoints.
type AdminHandler struct {
	orderService *svorder.OrderService
	statsService *svstats.StatsService
	views        *liveview.Views
}

// NewAdminHandler creates the admin handler.
func NewAdminHandler(orderService *svorder.OrderService, statsService *svstats.StatsService, views *liveview.Views) *AdminHandler {
	return &AdminHandler{
		orderService: orderService,
		statsService: statsService,
		views:        views,
	}
}
