package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/angiandrew/enhancedchem-sub000/internal/catalog"
)

type productsResponse struct {
	Success  bool              `json:"success"`
	Products []catalog.Product `json:"products"`
}

// listProducts returns the full catalog.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		logInternal(r, "listing products failed", err)
		writeError(w, http.StatusInternalServerError, "could not list products")
		return
	}
	writeJSON(w, http.StatusOK, productsResponse{Success: true, Products: products})
}

// getProduct returns a single catalog item by ID.
func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		logInternal(r, "fetching product failed", err)
		writeError(w, http.StatusInternalServerError, "could not fetch product")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
