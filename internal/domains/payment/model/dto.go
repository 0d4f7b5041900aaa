package model

// CheckoutResponse is returned to the client after session creation. The
// client redirects to URL and comes back with SessionID on success.
type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// VerifyRequest asks whether a checkout session has settled.
type VerifyRequest struct {
	SessionID string `json:"sessionId"`
}

type VerifyResponse struct {
	SessionID string `json:"sessionId"`
	Paid      bool   `json:"paid"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
}
