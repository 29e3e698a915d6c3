package request

// UpdateStatusRequest moves an order through the kitchen workflow.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending preparing ready completed cancelled" example:"preparing"`
}

// ListOrdersQuery filters the admin order list.
type ListOrdersQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending preparing ready completed cancelled"`
}
