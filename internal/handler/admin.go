package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/angiandrew/enhancedchem-sub000/internal/domain/order"
)

type listOrdersResponse struct {
	Success bool          `json:"success"`
	Orders  []order.Order `json:"orders"`
}

// listOrders returns every order, newest first, for the admin view. There
// is no pagination; the full list loads on each call.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		logInternal(r, "listing orders failed", err)
		writeError(w, http.StatusInternalServerError, "could not list orders")
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, http.StatusOK, listOrdersResponse{Success: true, Orders: orders})
}

// getOrder returns a single order for the admin detail view. The order
// number arrives without the "#" prefix, which is not URL-friendly.
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	number := "#" + chi.URLParam(r, "orderNumber")

	o, err := h.orders.Get(r.Context(), number)
	if err != nil {
		logInternal(r, "fetching order failed", err)
		writeError(w, http.StatusInternalServerError, "could not fetch order")
		return
	}
	if o == nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type updateStatusRequest struct {
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
}

// updateOrderStatus sets the status of an existing order. Any of the four
// statuses may replace any other; the permissive transitions let admins
// correct mistakes.
func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.OrderNumber == "" || req.Status == "" {
		writeError(w, http.StatusBadRequest, "orderNumber and status are required")
		return
	}

	found, err := h.orders.UpdateStatus(r.Context(), req.OrderNumber, order.Status(req.Status))
	if err != nil {
		if errors.Is(err, order.ErrInvalidStatus) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logInternal(r, "status update failed", err)
		writeError(w, http.StatusInternalServerError, "could not update order")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type redisCheckResponse struct {
	Success    bool   `json:"success"`
	Configured bool   `json:"configured"`
	Reachable  bool   `json:"reachable,omitempty"`
	LatencyMs  int64  `json:"latencyMs,omitempty"`
	Error      string `json:"error,omitempty"`
}

// redisCheck is an operational diagnostic: it pings the optional cache and
// reports visibility data. It never fails the request; an unreachable cache
// is a finding, not an error.
func (h *Handler) redisCheck(w http.ResponseWriter, r *http.Request) {
	if h.redis == nil {
		writeJSON(w, http.StatusOK, redisCheckResponse{Success: true, Configured: false})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.redis.Ping(ctx).Err()
	latency := time.Since(start)

	resp := redisCheckResponse{Success: true, Configured: true}
	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.Reachable = true
		resp.LatencyMs = latency.Milliseconds()
	}
	writeJSON(w, http.StatusOK, resp)
}
