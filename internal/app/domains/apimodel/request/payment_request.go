package request

// ProcessPaymentRequest is tagged by method: cash carries nothing, card and visa carry
// the confirmation returned by the payment provider.
type ProcessPaymentRequest struct {
	Method   string    `json:"method" binding:"required,oneof=cash card visa" example:"card"`
	CardInfo *CardInfo `json:"cardInfo"`
}

// CardInfo is the result of the card confirmation handshake.
type CardInfo struct {
	TransactionID string `json:"transactionId" example:"pi_3Nabc"`
}
