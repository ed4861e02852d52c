// Package pricing implements the checkout calculator: subtotal, tiered
// shipping with a free-shipping threshold, sales tax, promo discounts, and
// the Bitcoin payment surcharge.
package pricing

import (
	"strings"
	"unicode"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors surfaced to the checkout UI.
var (
	// ErrUnknownPromo is returned for promo codes absent from the table.
	// The caller shows it to the user; no discount is applied.
	ErrUnknownPromo = errors.New("unrecognized promo code")
	// ErrUnknownTier is returned for shipping tiers outside the fixed set.
	ErrUnknownTier = errors.New("unknown shipping tier")
)

// Tier is one of the three fixed shipping options.
type Tier string

const (
	TierGround    Tier = "ground"
	TierExpedited Tier = "expedited"
	TierOvernight Tier = "overnight"
)

// Fixed pricing constants. TaxRate applies to the checkout flow;
// CartEstimateTaxRate is the divergent rate used by the cart-page estimate.
// The two rates disagreeing is an observed discrepancy carried over as-is,
// not a design choice.
var (
	FreeShippingThreshold = decimal.RequireFromString("250")
	TaxRate               = decimal.RequireFromString("0.07")
	CartEstimateTaxRate   = decimal.RequireFromString("0.08")
	BitcoinSurchargeRate  = decimal.RequireFromString("0.10")

	tierPrices = map[Tier]decimal.Decimal{
		TierGround:    decimal.RequireFromString("9.78"),
		TierExpedited: decimal.RequireFromString("19.99"),
		TierOvernight: decimal.RequireFromString("39.99"),
	}

	// promoTable maps normalized codes to discount fractions of the
	// pre-discount total.
	promoTable = map[string]decimal.Decimal{
		"NICK8": decimal.RequireFromString("0.20"),
		"CAM":   decimal.RequireFromString("0.10"),
		"LAB15": decimal.RequireFromString("0.15"),
	}
)

// bitcoinMethod is compared against the payment method string so this
// package stays independent of the order package.
const bitcoinMethod = "bitcoin"

// Item is a cart line for pricing purposes.
type Item struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Quote is the full price breakdown for a checkout. Amounts are exact;
// round at presentation time (Total.Round(2)).
type Quote struct {
	Subtotal     decimal.Decimal
	Shipping     decimal.Decimal
	Tax          decimal.Decimal
	Discount     decimal.Decimal
	Surcharge    decimal.Decimal
	Total        decimal.Decimal
	FreeShipping bool
	// PromoCode is the normalized code that was applied, empty when none.
	PromoCode string
}

// Compute derives the chargeable total, applying each step in the fixed
// order: subtotal, shipping, tax, promo discount, Bitcoin surcharge.
//
//	subtotal    = sum(unitPrice * quantity)
//	shipping    = 0 when subtotal >= threshold, else tier price
//	tax         = subtotal * 7%
//	discount    = (subtotal + shipping + tax) * promo fraction
//	surcharge   = (preDiscount - discount) * 10% when paying with Bitcoin
//	total       = preDiscount - discount + surcharge
func Compute(items []Item, tier Tier, promoCode, paymentMethod string) (Quote, error) {
	tierPrice, ok := tierPrices[tier]
	if !ok {
		return Quote{}, ErrUnknownTier
	}

	subtotal := subtotalOf(items)

	shipping := tierPrice
	freeShipping := subtotal.GreaterThanOrEqual(FreeShippingThreshold)
	if freeShipping {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(TaxRate)
	preDiscount := subtotal.Add(shipping).Add(tax)

	discount := decimal.Zero
	appliedCode := ""
	if normalized := NormalizePromo(promoCode); normalized != "" {
		fraction, ok := promoTable[normalized]
		if !ok {
			return Quote{}, ErrUnknownPromo
		}
		discount = preDiscount.Mul(fraction)
		appliedCode = normalized
	}

	surcharge := decimal.Zero
	if paymentMethod == bitcoinMethod {
		surcharge = preDiscount.Sub(discount).Mul(BitcoinSurchargeRate)
	}

	return Quote{
		Subtotal:     subtotal,
		Shipping:     shipping,
		Tax:          tax,
		Discount:     discount,
		Surcharge:    surcharge,
		Total:        preDiscount.Sub(discount).Add(surcharge),
		FreeShipping: freeShipping,
		PromoCode:    appliedCode,
	}, nil
}

// CartEstimate is the cart-page prototype total: subtotal plus 8% tax, no
// shipping, promo, or surcharge. It intentionally disagrees with Compute's
// 7% rate; see TaxRate.
func CartEstimate(items []Item) decimal.Decimal {
	subtotal := subtotalOf(items)
	return subtotal.Add(subtotal.Mul(CartEstimateTaxRate))
}

// NormalizePromo strips all whitespace from code and uppercases it, making
// promo matching case- and whitespace-insensitive.
func NormalizePromo(code string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, code)
	return strings.ToUpper(stripped)
}

// TierPrice returns the fixed price of a shipping tier.
func TierPrice(tier Tier) (decimal.Decimal, bool) {
	p, ok := tierPrices[tier]
	return p, ok
}

func subtotalOf(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		sum = sum.Add(line)
	}
	return sum
}
