// Package catalog serves the product catalog from an embedded JSON
// document. The catalog is fixed at build time; there is no inventory
// tracking and no mutation surface.
package catalog

import (
	"context"
	_ "embed"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

//go:embed products.json
var productsJSON []byte

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is a catalog item available for purchase.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	// Purity is the assay note shown on the product page, e.g. ">=99.7% (HPLC)".
	Purity string `json:"purity,omitempty"`
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}

var _ Repository = (*Static)(nil)

// Static is the embedded-catalog Repository implementation. It is immutable
// after Load and safe for concurrent use.
type Static struct {
	products []Product
	byID     map[string]*Product
}

// Load parses the embedded catalog. It fails only when the embedded
// document is malformed, which is a build defect.
func Load() (*Static, error) {
	var products []Product
	if err := json.Unmarshal(productsJSON, &products); err != nil {
		return nil, errors.Wrap(err, "decode embedded catalog")
	}

	byID := make(map[string]*Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return &Static{products: products, byID: byID}, nil
}

// List returns every product in catalog order.
func (s *Static) List(_ context.Context) ([]Product, error) {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

// GetByID returns a single product, or ErrNotFound.
func (s *Static) GetByID(_ context.Context, id string) (*Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *p
	return &out, nil
}
