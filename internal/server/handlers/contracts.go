package handlers

// Wire contracts exchanged with clients. Amounts travel as strings so the
// two-decimal canonical form survives JSON untouched.

type AmountDTO struct {
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	DebitOrCredit string `json:"debitOrCredit"`
}

type LoadRequest struct {
	UserID            string    `json:"userId"`
	MessageID         string    `json:"messageId"`
	TransactionAmount AmountDTO `json:"transactionAmount"`
}

type LoadResponse struct {
	UserID    string    `json:"userId"`
	MessageID string    `json:"messageId"`
	Balance   AmountDTO `json:"balance"`
}

type AuthorizationRequest struct {
	UserID            string    `json:"userId"`
	MessageID         string    `json:"messageId"`
	TransactionAmount AmountDTO `json:"transactionAmount"`
}

type AuthorizationResponse struct {
	UserID       string    `json:"userId"`
	MessageID    string    `json:"messageId"`
	ResponseCode string    `json:"responseCode"`
	Balance      AmountDTO `json:"balance"`
}

type BalanceResponse struct {
	UserID  string `json:"userId"`
	Balance string `json:"balance"`
	// Currency is empty for users with no history.
	Currency string `json:"currency,omitempty"`
}

type PingResponse struct {
	ServerTime string `json:"serverTime"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}
