package commands

import (
	"fmt"
	"html"
	"strings"

	"phantomtrack/internal/core/domain/model/order"
	"phantomtrack/internal/core/ports"
)

// NotificationComposer renders customer-facing emails for order lifecycle
// events. It owns only wording and markup; sending and idempotency live
// with the callers.
type NotificationComposer struct {
	brandName string
	siteURL   string
}

// NewNotificationComposer creates a composer branded with the store name and
// public site URL used in email footers and order links.
func NewNotificationComposer(brandName, siteURL string) NotificationComposer {
	return NotificationComposer{
		brandName: strings.TrimSpace(brandName),
		siteURL:   strings.TrimRight(strings.TrimSpace(siteURL), "/"),
	}
}

// ShippingMail renders the "your order has shipped" message with the carrier,
// tracking number, and tracking link for the purchased label.
func (c NotificationComposer) ShippingMail(o *order.Order) ports.Mail {
	ref := o.Ref()
	carrier := o.TrackingCarrier()
	if carrier == "" {
		carrier = "the carrier"
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Hi %s,\n\n", firstNameOrFallback(o.ShippingName()))
	fmt.Fprintf(&text, "Good news: your order %s is on its way with %s.\n\n", ref, carrier)
	fmt.Fprintf(&text, "Tracking number: %s\n", o.TrackingNumber())
	if o.TrackingURL() != "" {
		fmt.Fprintf(&text, "Track your package: %s\n", o.TrackingURL())
	}
	fmt.Fprintf(&text, "\nThanks for shopping with %s.\n", c.brandName)

	var htmlBody strings.Builder
	htmlBody.WriteString("<div style=\"font-family:sans-serif;max-width:560px;margin:0 auto\">")
	fmt.Fprintf(&htmlBody, "<h2>Your order %s has shipped</h2>", html.EscapeString(ref))
	fmt.Fprintf(&htmlBody, "<p>Hi %s,</p>", html.EscapeString(firstNameOrFallback(o.ShippingName())))
	fmt.Fprintf(&htmlBody, "<p>Your order is on its way with <strong>%s</strong>.</p>", html.EscapeString(carrier))
	fmt.Fprintf(&htmlBody, "<p>Tracking number: <strong>%s</strong></p>", html.EscapeString(o.TrackingNumber()))
	if o.TrackingURL() != "" {
		fmt.Fprintf(&htmlBody, "<p><a href=\"%s\">Track your package</a></p>", html.EscapeString(o.TrackingURL()))
	}
	fmt.Fprintf(&htmlBody, "<p>Thanks for shopping with %s.</p>", html.EscapeString(c.brandName))
	htmlBody.WriteString("</div>")

	return ports.Mail{
		To:       o.CustomerEmail(),
		Subject:  fmt.Sprintf("Your %s order %s has shipped", c.brandName, ref),
		TextBody: text.String(),
		HTMLBody: htmlBody.String(),
	}
}

// ConfirmationMail renders the order-confirmation message sent after a paid
// checkout sync, with the line items and order total.
func (c NotificationComposer) ConfirmationMail(o *order.Order) ports.Mail {
	ref := o.Ref()

	var text strings.Builder
	fmt.Fprintf(&text, "Hi %s,\n\n", firstNameOrFallback(o.ShippingName()))
	fmt.Fprintf(&text, "We received your order %s and are getting it ready.\n\n", ref)
	for _, item := range o.LineItems() {
		fmt.Fprintf(&text, "  %d x %s - %s\n", item.Quantity, item.Description, formatCents(item.AmountCents, o.Currency()))
	}
	fmt.Fprintf(&text, "\nTotal: %s\n", formatCents(o.AmountTotalCents(), o.Currency()))
	fmt.Fprintf(&text, "\nThanks for shopping with %s.\n", c.brandName)

	var htmlBody strings.Builder
	htmlBody.WriteString("<div style=\"font-family:sans-serif;max-width:560px;margin:0 auto\">")
	fmt.Fprintf(&htmlBody, "<h2>Order %s confirmed</h2>", html.EscapeString(ref))
	fmt.Fprintf(&htmlBody, "<p>Hi %s,</p>", html.EscapeString(firstNameOrFallback(o.ShippingName())))
	htmlBody.WriteString("<p>We received your order and are getting it ready.</p><ul>")
	for _, item := range o.LineItems() {
		fmt.Fprintf(&htmlBody, "<li>%d x %s: %s</li>",
			item.Quantity, html.EscapeString(item.Description), formatCents(item.AmountCents, o.Currency()))
	}
	htmlBody.WriteString("</ul>")
	fmt.Fprintf(&htmlBody, "<p><strong>Total: %s</strong></p>", formatCents(o.AmountTotalCents(), o.Currency()))
	if c.siteURL != "" {
		fmt.Fprintf(&htmlBody, "<p><a href=\"%s\">Visit %s</a></p>", html.EscapeString(c.siteURL), html.EscapeString(c.brandName))
	}
	htmlBody.WriteString("</div>")

	return ports.Mail{
		To:       o.CustomerEmail(),
		Subject:  fmt.Sprintf("%s order confirmation %s", c.brandName, ref),
		TextBody: text.String(),
		HTMLBody: htmlBody.String(),
	}
}

func firstNameOrFallback(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return "there"
	}
	return fields[0]
}

func formatCents(cents int64, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%.2f %s", float64(cents)/100, strings.ToUpper(currency))
}
