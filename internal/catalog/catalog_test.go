package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	products, err := c.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, products)

	for _, p := range products {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Name)
		assert.True(t, p.Price.IsPositive(), "product %s must have a positive price", p.ID)
		assert.NotEmpty(t, p.Category)
	}
}

func TestGetByID(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	p, err := c.GetByID(context.Background(), "bpc-157-5mg")
	require.NoError(t, err)
	assert.Equal(t, "BPC-157 (5mg)", p.Name)
	assert.Equal(t, "54.99", p.Price.StringFixed(2))
}

func TestGetByID_NotFound(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	_, err = c.GetByID(context.Background(), "unobtanium-1kg")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetByID_ReturnsCopy(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	ctx := context.Background()

	p, err := c.GetByID(ctx, "bpc-157-5mg")
	require.NoError(t, err)
	p.Name = "mutated"

	again, err := c.GetByID(ctx, "bpc-157-5mg")
	require.NoError(t, err)
	assert.Equal(t, "BPC-157 (5mg)", again.Name)
}
