// Package order holds the storefront order model: sequential order numbers,
// line items, manual payment methods, and the pending/paid/shipped/completed
// status lifecycle.
package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the fulfillment state of an order. All transitions are permitted,
// including moving backwards out of completed: the admin view uses this to
// correct mistakes, so no forward-only rule is enforced.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusCompleted:
		return true
	}
	return false
}

// PaymentMethod identifies one of the manual, out-of-band payment channels.
// Payment confirmation never flows through this system; the method only
// selects which payment instructions the customer receives.
type PaymentMethod string

const (
	PayZelle   PaymentMethod = "zelle"
	PayBitcoin PaymentMethod = "bitcoin"
	PayUSDC    PaymentMethod = "usdc"
	PayUSDT    PaymentMethod = "usdt"
	PayCashApp PaymentMethod = "cashapp"
	PayVenmo   PaymentMethod = "venmo"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PayZelle, PayBitcoin, PayUSDC, PayUSDT, PayCashApp, PayVenmo:
		return true
	}
	return false
}

// LineItem is a single cart line as submitted at checkout. UnitPrice is the
// price of one unit; the line contributes UnitPrice * Quantity to the subtotal.
type LineItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
}

// Address is the shipping destination collected at checkout. Fields are
// free-form; the service performs no postal validation.
type Address struct {
	Name       string `json:"name,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Order is a customer order. Number has the form "#<integer>", unique and
// strictly increasing per store. Total is the client-computed final amount
// (post-discount, post-surcharge) and is accepted as authoritative; see
// Service.Submit for how divergence from the server quote is handled.
type Order struct {
	Number          string          `json:"orderNumber"`
	Email           string          `json:"email"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	Total           decimal.Decimal `json:"orderTotal"`
	Items           []LineItem      `json:"items"`
	ShippingAddress Address         `json:"shippingAddress"`
	CreatedAt       time.Time       `json:"timestamp"`
	Status          Status          `json:"status"`
}

// Store persists orders and allocates order numbers.
//
// Implementations absorb their own storage faults: a backend that loses its
// medium degrades to best-effort in-memory state and logs a warning rather
// than returning the fault. Availability over consistency is the documented
// contract of the checkout path. The error returns exist for context
// cancellation and for future backends with stricter semantics.
type Store interface {
	// NextNumber allocates the next order number, formatted "#<N>". Every
	// call increments the persisted counter; there is no peek.
	NextNumber(ctx context.Context) (string, error)

	// Save stamps o with CreatedAt=now and Status=pending, appends it, and
	// returns the enriched record. Caller-provided business fields are
	// stored as-is, never validated here.
	Save(ctx context.Context, o *Order) (*Order, error)

	// All returns every order, newest first.
	All(ctx context.Context) ([]Order, error)

	// UpdateStatus overwrites the status of the order with the given number.
	// It reports whether the order was found.
	UpdateStatus(ctx context.Context, number string, status Status) (bool, error)

	// ByNumber returns the order with the given number, or nil when absent.
	ByNumber(ctx context.Context, number string) (*Order, error)
}
