package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(name, price string, qty int) Item {
	return Item{Name: name, UnitPrice: decimal.RequireFromString(price), Quantity: qty}
}

func TestCompute_GroundWithPromo(t *testing.T) {
	// subtotal 100, ground 9.78, tax 7.00 => 116.78; NICK8 takes 20% off.
	quote, err := Compute([]Item{item("widget", "50.00", 2)}, TierGround, "NICK8", "zelle")
	require.NoError(t, err)

	assert.Equal(t, "100.00", quote.Subtotal.StringFixed(2))
	assert.Equal(t, "9.78", quote.Shipping.StringFixed(2))
	assert.Equal(t, "7.00", quote.Tax.StringFixed(2))
	assert.Equal(t, "23.36", quote.Discount.Round(2).StringFixed(2))
	assert.True(t, quote.Surcharge.IsZero())
	assert.Equal(t, "93.42", quote.Total.Round(2).StringFixed(2))
	assert.Equal(t, "NICK8", quote.PromoCode)
	assert.False(t, quote.FreeShipping)
}

func TestCompute_BitcoinSurcharge(t *testing.T) {
	// Same cart as above but paying with Bitcoin: surcharge is 10% of the
	// post-discount total, (116.78 * 0.80) * 0.10 = 9.3424.
	quote, err := Compute([]Item{item("widget", "50.00", 2)}, TierGround, "NICK8", "bitcoin")
	require.NoError(t, err)

	assert.Equal(t, "9.34", quote.Surcharge.Round(2).StringFixed(2))
	assert.Equal(t, "102.77", quote.Total.Round(2).StringFixed(2))
}

func TestCompute_FreeShippingThreshold(t *testing.T) {
	// Subtotal 260 clears the 250 threshold for every tier.
	for _, tier := range []Tier{TierGround, TierExpedited, TierOvernight} {
		quote, err := Compute([]Item{item("bulk", "130.00", 2)}, tier, "", "zelle")
		require.NoError(t, err)
		assert.True(t, quote.FreeShipping, "tier %s", tier)
		assert.True(t, quote.Shipping.IsZero(), "tier %s", tier)
	}
}

func TestCompute_ThresholdBoundary(t *testing.T) {
	// Exactly 250 qualifies; a cent below does not.
	atThreshold, err := Compute([]Item{item("x", "250.00", 1)}, TierGround, "", "zelle")
	require.NoError(t, err)
	assert.True(t, atThreshold.FreeShipping)

	below, err := Compute([]Item{item("x", "249.99", 1)}, TierGround, "", "zelle")
	require.NoError(t, err)
	assert.False(t, below.FreeShipping)
	assert.Equal(t, "9.78", below.Shipping.StringFixed(2))
}

func TestCompute_PromoNormalization(t *testing.T) {
	for _, code := range []string{" cam ", "CAM", "Cam", "c a m"} {
		quote, err := Compute([]Item{item("widget", "100.00", 1)}, TierGround, code, "zelle")
		require.NoError(t, err, "code %q", code)
		assert.Equal(t, "CAM", quote.PromoCode, "code %q", code)
		// 10% of (100 + 9.78 + 7.00).
		assert.Equal(t, "11.68", quote.Discount.Round(2).StringFixed(2), "code %q", code)
	}
}

func TestCompute_UnknownPromo(t *testing.T) {
	_, err := Compute([]Item{item("widget", "100.00", 1)}, TierGround, "BOGUS99", "zelle")
	require.ErrorIs(t, err, ErrUnknownPromo)
}

func TestCompute_EmptyPromoIsNoDiscount(t *testing.T) {
	quote, err := Compute([]Item{item("widget", "100.00", 1)}, TierGround, "   ", "zelle")
	require.NoError(t, err)
	assert.True(t, quote.Discount.IsZero())
	assert.Empty(t, quote.PromoCode)
}

func TestCompute_UnknownTier(t *testing.T) {
	_, err := Compute([]Item{item("widget", "10.00", 1)}, Tier("teleport"), "", "zelle")
	require.ErrorIs(t, err, ErrUnknownTier)
}

func TestCompute_TierPrices(t *testing.T) {
	tests := []struct {
		tier Tier
		want string
	}{
		{TierGround, "9.78"},
		{TierExpedited, "19.99"},
		{TierOvernight, "39.99"},
	}
	for _, tt := range tests {
		quote, err := Compute([]Item{item("widget", "10.00", 1)}, tt.tier, "", "zelle")
		require.NoError(t, err)
		assert.Equal(t, tt.want, quote.Shipping.StringFixed(2), "tier %s", tt.tier)

		price, ok := TierPrice(tt.tier)
		require.True(t, ok)
		assert.Equal(t, tt.want, price.StringFixed(2))
	}

	_, ok := TierPrice(Tier("teleport"))
	assert.False(t, ok)
}

func TestCartEstimate_UsesPrototypeRate(t *testing.T) {
	// The cart page prototype taxes at 8%, not the checkout's 7%. The
	// mismatch is carried over deliberately.
	estimate := CartEstimate([]Item{item("widget", "100.00", 1)})
	assert.Equal(t, "108.00", estimate.StringFixed(2))

	quote, err := Compute([]Item{item("widget", "100.00", 1)}, TierGround, "", "zelle")
	require.NoError(t, err)
	assert.Equal(t, "7.00", quote.Tax.StringFixed(2))
}

func TestNormalizePromo(t *testing.T) {
	assert.Equal(t, "NICK8", NormalizePromo("\tni ck 8\n"))
	assert.Equal(t, "", NormalizePromo("   "))
	assert.Equal(t, "CAM", NormalizePromo("cam"))
}
