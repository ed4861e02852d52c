// Package handler is the HTTP boundary: JSON request decoding, routing,
// and mapping of domain errors onto status codes. Business logic lives in
// the order service and pricing packages.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/angiandrew/enhancedchem-sub000/internal/catalog"
	"github.com/angiandrew/enhancedchem-sub000/internal/domain/order"
)

// Handler carries the dependencies of every route.
type Handler struct {
	orders     *order.Service
	products   catalog.Repository
	redis      *redis.Client // nil when no cache is configured
	adminToken []byte        // empty means the admin stub accepts everyone
}

// New constructs a Handler. redisClient may be nil; adminToken may be empty
// (the admin check is an acknowledged stub, not an auth system).
func New(orders *order.Service, products catalog.Repository, redisClient *redis.Client, adminToken string) *Handler {
	return &Handler{
		orders:     orders,
		products:   products,
		redis:      redisClient,
		adminToken: []byte(adminToken),
	}
}

// Register mounts all API routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/send-payment-email", h.submitOrder)
		r.Post("/checkout/quote", h.checkoutQuote)
		r.Post("/cart/estimate", h.cartEstimate)
		r.Get("/products", h.listProducts)
		r.Get("/products/{productID}", h.getProduct)

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.requireAdmin)
			r.Get("/orders", h.listOrders)
			r.Get("/orders/{orderNumber}", h.getOrder)
			r.Patch("/orders", h.updateOrderStatus)
			r.Get("/redis-check", h.redisCheck)
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody decodes a JSON request body into v, rejecting unknown fields
// is deliberately NOT done: the storefront client sends extra UI state.
func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(v)
}

// logInternal records a 500-class failure with the request-scoped logger.
func logInternal(r *http.Request, msg string, err error) {
	zctx.From(r.Context()).Error(msg, zap.Error(err))
}
