package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/angiandrew/enhancedchem-sub000/internal/domain/order"
	"github.com/angiandrew/enhancedchem-sub000/internal/pricing"
)

// submitRequest is the POST /api/send-payment-email body. orderTotal is the
// client-computed final amount; shippingTier and promoCode are optional
// context used only for the server-side quote comparison.
type submitRequest struct {
	Email           string           `json:"email"`
	PaymentMethod   string           `json:"paymentMethod"`
	OrderTotal      decimal.Decimal  `json:"orderTotal"`
	Items           []order.LineItem `json:"items"`
	ShippingAddress order.Address    `json:"shippingAddress"`
	ShippingTier    string           `json:"shippingTier,omitempty"`
	PromoCode       string           `json:"promoCode,omitempty"`
}

type submitResponse struct {
	Success      bool   `json:"success"`
	OrderNumber  string `json:"orderNumber"`
	EmailSent    bool   `json:"emailSent"`
	EmailWarning string `json:"emailWarning,omitempty"`
}

// submitOrder accepts a checkout submission, creates the order, and reports
// the issued order number. Email delivery problems appear only as a warning
// field; they never fail the request.
func (h *Handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.orders.Submit(r.Context(), order.SubmitRequest{
		Email:           req.Email,
		PaymentMethod:   order.PaymentMethod(req.PaymentMethod),
		Total:           req.OrderTotal,
		Items:           req.Items,
		ShippingAddress: req.ShippingAddress,
		ShippingTier:    pricing.Tier(req.ShippingTier),
		PromoCode:       req.PromoCode,
	})
	if err != nil {
		if status, msg, ok := submitErrorStatus(err); ok {
			writeError(w, status, msg)
			return
		}
		logInternal(r, "order submission failed", err)
		writeError(w, http.StatusInternalServerError, "could not create order")
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Success:      true,
		OrderNumber:  result.Order.Number,
		EmailSent:    result.EmailSent,
		EmailWarning: result.EmailWarning,
	})
}

// submitErrorStatus maps validation errors onto 400 responses. Anything
// unmapped is an internal fault.
func submitErrorStatus(err error) (int, string, bool) {
	switch {
	case errors.Is(err, order.ErrMissingEmail),
		errors.Is(err, order.ErrMissingPayment),
		errors.Is(err, order.ErrUnknownPayment),
		errors.Is(err, order.ErrNoItems):
		return http.StatusBadRequest, err.Error(), true
	}

	var iqErr *order.InvalidQuantityError
	if errors.As(err, &iqErr) {
		return http.StatusBadRequest, iqErr.Error(), true
	}
	return 0, "", false
}

type estimateRequest struct {
	Items []order.LineItem `json:"items"`
}

// cartEstimate returns the cart-page running total. It deliberately uses
// the simpler estimate math; the checkout quote is the authoritative figure.
func (h *Handler) cartEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	items := make([]pricing.Item, len(req.Items))
	for i, it := range req.Items {
		items[i] = pricing.Item{Name: it.Name, UnitPrice: it.UnitPrice, Quantity: it.Quantity}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"estimate": pricing.CartEstimate(items).Round(2),
	})
}

// quoteRequest is the POST /api/checkout/quote body.
type quoteRequest struct {
	Items         []order.LineItem `json:"items"`
	ShippingTier  string           `json:"shippingTier"`
	PromoCode     string           `json:"promoCode,omitempty"`
	PaymentMethod string           `json:"paymentMethod,omitempty"`
}

type quoteBreakdown struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Shipping     decimal.Decimal `json:"shipping"`
	Tax          decimal.Decimal `json:"tax"`
	Discount     decimal.Decimal `json:"discount"`
	Surcharge    decimal.Decimal `json:"surcharge"`
	Total        decimal.Decimal `json:"total"`
	FreeShipping bool            `json:"freeShipping"`
	PromoCode    string          `json:"promoCode,omitempty"`
}

type quoteResponse struct {
	Success bool           `json:"success"`
	Quote   quoteBreakdown `json:"quote"`
}

// checkoutQuote computes the server-side price breakdown for the checkout
// page. Unknown promo codes are a user-visible 400 so the UI can surface
// the error state next to the input.
func (h *Handler) checkoutQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	items := make([]pricing.Item, len(req.Items))
	for i, it := range req.Items {
		items[i] = pricing.Item{Name: it.Name, UnitPrice: it.UnitPrice, Quantity: it.Quantity}
	}

	quote, err := pricing.Compute(items, pricing.Tier(req.ShippingTier), req.PromoCode, req.PaymentMethod)
	if err != nil {
		if errors.Is(err, pricing.ErrUnknownPromo) || errors.Is(err, pricing.ErrUnknownTier) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logInternal(r, "quote computation failed", err)
		writeError(w, http.StatusInternalServerError, "could not compute quote")
		return
	}

	writeJSON(w, http.StatusOK, quoteResponse{
		Success: true,
		Quote: quoteBreakdown{
			Subtotal:     quote.Subtotal.Round(2),
			Shipping:     quote.Shipping.Round(2),
			Tax:          quote.Tax.Round(2),
			Discount:     quote.Discount.Round(2),
			Surcharge:    quote.Surcharge.Round(2),
			Total:        quote.Total.Round(2),
			FreeShipping: quote.FreeShipping,
			PromoCode:    quote.PromoCode,
		},
	})
}
