package models

// --- Payment intent payloads exchanged between handlers and the payment core ---

type CreateIntentRequest struct {
	Amount            float64 `json:"amount" binding:"required"`
	Currency          string  `json:"currency"`
	ClientID          string  `json:"clientId" binding:"required"`
	ContractorID      string  `json:"contractorId" binding:"required"`
	BaseServiceAmount float64 `json:"baseServiceAmount"`
	BookingID         string  `json:"bookingId"`
}

type UpdateIntentRequest struct {
	IntentID          string  `json:"intentId" binding:"required"`
	NewAmount         float64 `json:"newAmount" binding:"required"`
	ContractorID      string  `json:"contractorId"`
	BaseServiceAmount float64 `json:"baseServiceAmount"`
}

// IntentResult is returned from create/update operations. Replaced is true when
// an already-authorized intent had to be cancelled and recreated, so the client
// app must collect the payment method again.
type IntentResult struct {
	IntentID     string `json:"intentId"`
	ClientSecret string `json:"clientSecret"`
	Replaced     bool   `json:"replaced"`
}

// CancelResult reports the intent status after a cancel call.
type CancelResult struct {
	Status string `json:"status"`
}
