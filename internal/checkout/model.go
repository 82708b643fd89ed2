package checkout

import (
	"errors"
	"time"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrSessionNotFound = errors.New("checkout session not found")
	ErrSessionFinished = errors.New("checkout session already completed")
)

// LineItem is one entry of a checkout request. The cart has no per-item
// quantity, so items built from a cart always carry quantity 1.
type LineItem struct {
	Price    string `json:"price"`
	Quantity int64  `json:"quantity"`
}

// Session is a provider-hosted checkout session.
type Session struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	Status        string    `json:"status,omitempty"`
	PaymentStatus string    `json:"paymentStatus,omitempty"`
	AmountTotal   int64     `json:"amountTotal"`
	Currency      string    `json:"currency,omitempty"`
	ExpiresAt     time.Time `json:"expiresAt,omitempty"`
}

// Paid reports whether the provider considers the session settled.
func (s *Session) Paid() bool {
	return s.PaymentStatus == "paid" || s.PaymentStatus == "no_payment_required"
}

type SessionRequest struct {
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
}

type Status string

const (
	StatusCreated   Status = "created"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// Record is a ledger row for a created session.
type Record struct {
	SessionID     string
	URL           string
	Status        Status
	AmountTotal   int64
	Currency      string
	CorrelationID string
	LineItems     []LineItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
