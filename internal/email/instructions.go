package email

import (
	"fmt"
	"html"
	"strings"
)

// Payment hand-off details shown in the instruction email. These are the
// store's receiving accounts, not secrets; rotating them is a deploy.
const (
	zelleAddress  = "payments@enhancedchem.com"
	cashAppHandle = "$EnhancedChem"
	venmoHandle   = "@EnhancedChem"
	btcWallet     = "bc1qenhchem7x2rlw5p0f4u9d3kq8s6yvt0a2m4n9e"
	usdcWallet    = "0xE4C9a17bD2f86b1c09343Fa8E51cbfD20A93617e"
	usdtWallet    = "0xE4C9a17bD2f86b1c09343Fa8E51cbfD20A93617e"
)

// methodInstructions maps each payment method to the HTML snippet telling
// the customer how to complete payment out-of-band.
var methodInstructions = map[string]string{
	"zelle":   fmt.Sprintf("Send your order total via <strong>Zelle</strong> to <code>%s</code>. Include your order number in the memo.", zelleAddress),
	"cashapp": fmt.Sprintf("Send your order total via <strong>Cash App</strong> to <code>%s</code>. Include your order number in the note.", cashAppHandle),
	"venmo":   fmt.Sprintf("Send your order total via <strong>Venmo</strong> to <code>%s</code>. Include your order number in the note.", venmoHandle),
	"bitcoin": fmt.Sprintf("Send the exact BTC equivalent of your order total to <code>%s</code>. Your total includes the 10%% Bitcoin processing surcharge.", btcWallet),
	"usdc":    fmt.Sprintf("Send your order total in <strong>USDC</strong> (ERC-20) to <code>%s</code>.", usdcWallet),
	"usdt":    fmt.Sprintf("Send your order total in <strong>USDT</strong> (ERC-20) to <code>%s</code>.", usdtWallet),
}

// Instructions returns the payment hand-off snippet for a method. Unknown
// methods get a generic support pointer rather than an error; the order is
// already accepted by the time this renders.
func Instructions(method string) string {
	if s, ok := methodInstructions[method]; ok {
		return s
	}
	return "Reply to this email and our support team will help you complete payment."
}

// ConfirmationSubject is the subject line of the payment-instruction email.
func ConfirmationSubject(orderNumber string) string {
	return fmt.Sprintf("Your EnhancedChem order %s — payment instructions", orderNumber)
}

// ConfirmationLine is one rendered line item.
type ConfirmationLine struct {
	Name     string
	Quantity int
	Price    string
}

// ConfirmationHTML renders the payment-instruction email body. Customer
// supplied strings are escaped; totals and prices arrive pre-formatted.
func ConfirmationHTML(orderNumber, method, total string, lines []ConfirmationLine) string {
	var b strings.Builder
	b.WriteString("<h2>Thanks for your order ")
	b.WriteString(html.EscapeString(orderNumber))
	b.WriteString("</h2>")

	b.WriteString("<p>Your order is <strong>pending payment</strong>. ")
	b.WriteString(Instructions(method))
	b.WriteString("</p>")

	b.WriteString("<table><tr><th align=\"left\">Item</th><th>Qty</th><th align=\"right\">Price</th></tr>")
	for _, line := range lines {
		fmt.Fprintf(&b, "<tr><td>%s</td><td align=\"center\">%d</td><td align=\"right\">$%s</td></tr>",
			html.EscapeString(line.Name), line.Quantity, html.EscapeString(line.Price))
	}
	fmt.Fprintf(&b, "<tr><td colspan=\"2\"><strong>Total due</strong></td><td align=\"right\"><strong>$%s</strong></td></tr>", html.EscapeString(total))
	b.WriteString("</table>")

	b.WriteString("<p>We ship within one business day of payment confirmation. All compounds are sold for laboratory research use only.</p>")
	return b.String()
}
