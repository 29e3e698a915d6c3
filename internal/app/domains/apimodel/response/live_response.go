package response

// CustomerLiveResponse is one frame of the customer order stream.
type CustomerLiveResponse struct {
	Order   *OrderResponse   `json:"order"`
	Payment *PaymentResponse `json:"payment,omitempty"`
	Queue   *QueueResponse   `json:"queue"`
	// Stale asks the client to refresh: live updates stopped.
	Stale bool `json:"stale"`
}

// AdminLiveResponse is one frame of the admin order stream.
type AdminLiveResponse struct {
	Orders []*OrderResponse `json:"orders"`
	Stale  bool             `json:"stale"`
}
