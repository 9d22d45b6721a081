package request

// RecordTransactionRequest represents the request body for appending an audit record.
// Amount is a signed decimal string.
type RecordTransactionRequest struct {
	TransactionID string `json:"transactionId"`
	Amount        string `json:"amount"`
	Type          string `json:"type"`
	Category      string `json:"category"`
	Description   string `json:"description"`
}
