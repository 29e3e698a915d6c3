package response

// OrderStatsResponse is the dashboard summary.
type OrderStatsResponse struct {
	TodayOrders  int    `json:"todayOrders"`
	TodayRevenue string `json:"todayRevenue"`
	MonthOrders  int    `json:"monthOrders"`
	MonthRevenue string `json:"monthRevenue"`
	TotalOrders  int    `json:"totalOrders"`
}

// AdminStatsResponse is the back office summary.
type AdminStatsResponse struct {
	OrderStatsResponse
	ByStatus          map[string]int `json:"byStatus"`
	ActiveOrders      int            `json:"activeOrders"`
	PaidOrders        int            `json:"paidOrders"`
	PendingPayments   int            `json:"pendingPayments"`
	TotalRevenue      string         `json:"totalRevenue"`
	AverageOrderValue string         `json:"averageOrderValue"`
}
