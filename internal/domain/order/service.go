package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/angiandrew/enhancedchem-sub000/internal/email"
	"github.com/angiandrew/enhancedchem-sub000/internal/pricing"
)

// Validation errors for order submission and admin updates.
var (
	ErrMissingEmail   = errors.New("email is required")
	ErrMissingPayment = errors.New("payment method is required")
	ErrUnknownPayment = errors.New("unsupported payment method")
	ErrNoItems        = errors.New("at least one item is required")
	ErrInvalidStatus  = errors.New("invalid order status")
)

// InvalidQuantityError indicates a line item with a non-positive quantity.
type InvalidQuantityError struct {
	Name string
}

func (e *InvalidQuantityError) Error() string {
	return "quantity must be a positive integer for item " + e.Name
}

// SubmitRequest is the checkout submission. Total is the client-computed
// final amount and is stored as-is. ShippingTier and PromoCode are optional
// context the client also sends; when present they let the server recompute
// its own quote for comparison.
type SubmitRequest struct {
	Email           string
	PaymentMethod   PaymentMethod
	Total           decimal.Decimal
	Items           []LineItem
	ShippingAddress Address
	ShippingTier    pricing.Tier
	PromoCode       string
}

// SubmitResult reports the outcome of a submission. EmailSent and
// EmailWarning describe the best-effort instruction email; a warning never
// implies the order failed.
type SubmitResult struct {
	Order        *Order
	EmailSent    bool
	EmailWarning string
}

// Service implements order submission and the admin operations on top of a
// Store and a payment-instruction email Sender.
type Service struct {
	store Store
	mail  email.Sender
}

// NewService creates a Service with the given store and email sender.
func NewService(store Store, mail email.Sender) *Service {
	return &Service{store: store, mail: mail}
}

// Submit validates the request, allocates the next order number, persists
// the order as pending, and sends payment instructions.
//
// The client-submitted total is authoritative: when the request carries
// enough context (shipping tier) to recompute, a divergent server quote is
// logged as a warning but never rejects the order. There is no payment
// gateway to charge the server figure, so rejecting would only lose the
// sale; the log line is the audit trail for the trust gap.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if err := validateSubmit(req); err != nil {
		return nil, err
	}

	lg := zctx.From(ctx)
	s.compareQuote(lg, req)

	number, err := s.store.NextNumber(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "allocate order number")
	}

	saved, err := s.store.Save(ctx, &Order{
		Number:          number,
		Email:           req.Email,
		PaymentMethod:   req.PaymentMethod,
		Total:           req.Total,
		Items:           req.Items,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		return nil, errors.Wrap(err, "save order")
	}

	result := &SubmitResult{Order: saved}
	s.sendInstructions(ctx, saved, result)
	return result, nil
}

// List returns every order, newest first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.store.All(ctx)
}

// Get returns the order with the given number, or nil when absent.
func (s *Service) Get(ctx context.Context, number string) (*Order, error) {
	return s.store.ByNumber(ctx, number)
}

// UpdateStatus sets the status of an order. Any known status may replace
// any other; ErrInvalidStatus rejects values outside the enum, and the
// bool reports whether the order exists.
func (s *Service) UpdateStatus(ctx context.Context, number string, status Status) (bool, error) {
	if !status.Valid() {
		return false, ErrInvalidStatus
	}
	return s.store.UpdateStatus(ctx, number, status)
}

func validateSubmit(req SubmitRequest) error {
	if req.Email == "" {
		return ErrMissingEmail
	}
	if req.PaymentMethod == "" {
		return ErrMissingPayment
	}
	if !req.PaymentMethod.Valid() {
		return ErrUnknownPayment
	}
	if len(req.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return &InvalidQuantityError{Name: item.Name}
		}
	}
	return nil
}

// compareQuote recomputes the total server-side when the request carries a
// shipping tier, and logs when the client figure diverges by a cent or
// more. Recompute failures (unknown tier or promo) are logged the same way;
// they never block submission.
func (s *Service) compareQuote(lg *zap.Logger, req SubmitRequest) {
	if req.ShippingTier == "" {
		return
	}

	items := make([]pricing.Item, len(req.Items))
	for i, it := range req.Items {
		items[i] = pricing.Item{Name: it.Name, UnitPrice: it.UnitPrice, Quantity: it.Quantity}
	}

	quote, err := pricing.Compute(items, req.ShippingTier, req.PromoCode, string(req.PaymentMethod))
	if err != nil {
		lg.Warn("could not recompute order total",
			zap.String("tier", string(req.ShippingTier)),
			zap.Error(err),
		)
		return
	}

	if !quote.Total.Round(2).Equal(req.Total.Round(2)) {
		lg.Warn("client total diverges from server quote",
			zap.String("client_total", req.Total.StringFixed(2)),
			zap.String("server_total", quote.Total.StringFixed(2)),
		)
	}
}

// sendInstructions delivers the payment-instruction email. Failure is
// recorded on the result and logged; the order stands regardless.
func (s *Service) sendInstructions(ctx context.Context, o *Order, result *SubmitResult) {
	lines := make([]email.ConfirmationLine, len(o.Items))
	for i, item := range o.Items {
		lines[i] = email.ConfirmationLine{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.UnitPrice.StringFixed(2),
		}
	}

	html := email.ConfirmationHTML(o.Number, string(o.PaymentMethod), o.Total.StringFixed(2), lines)
	id, err := s.mail.Send(ctx, o.Email, email.ConfirmationSubject(o.Number), html)
	if err != nil {
		result.EmailWarning = err.Error()
		zctx.From(ctx).Warn("payment instruction email failed",
			zap.String("order", o.Number),
			zap.Error(err),
		)
		return
	}

	result.EmailSent = true
	zctx.From(ctx).Info("payment instruction email sent",
		zap.String("order", o.Number),
		zap.String("message_id", id),
	)
}
