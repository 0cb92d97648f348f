package report

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"users-report/internal/events"
	"users-report/internal/flatten"
)

// firstPurchase returns the first purchase not marked automatic.
func firstPurchase(purchases []events.Purchase) *events.Purchase {
	for i := range purchases {
		if !purchases[i].IsAuto {
			return &purchases[i]
		}
	}
	return nil
}

// buildSubscription derives the subscription sub-record. With no first
// purchase every field, including the cancel sub-record, is null.
func buildSubscription(first *events.Purchase, purchases []events.Purchase, cancel *events.Cancellation) *flatten.Object {
	sub := flatten.NewObject()
	if first == nil {
		for _, key := range []string{
			"firstPurchaseDate", "subscriptionType", "subscriptionId", "subscriptionInvoice",
			"productId", "productTitle", "price", "autoBillings",
		} {
			sub.Set(key, nil)
		}
		sub.Set("cancel", cancelRecord(nil))
		return sub
	}

	sub.Set("firstPurchaseDate", isoTime(first.HappenedAt))
	sub.Set("subscriptionType", stringValue(first.ProductTitle))
	sub.Set("subscriptionId", stringValue(first.SubscriptionID))
	sub.Set("subscriptionInvoice", first.InvoiceID)
	sub.Set("productId", stringValue(first.ProductID))
	sub.Set("productTitle", stringValue(first.ProductTitle))
	sub.Set("price", formatPrice(first.Value, first.Currency))

	var billings []string
	for _, p := range purchases {
		if !p.IsAuto {
			continue
		}
		billings = append(billings, p.InvoiceID+":"+formatPrice(p.Value, p.Currency)+":"+isoTime(p.HappenedAt))
	}
	sub.Set("autoBillings", strings.Join(billings, "\n"))
	sub.Set("cancel", cancelRecord(cancel))
	return sub
}

func cancelRecord(c *events.Cancellation) *flatten.Object {
	out := flatten.NewObject()
	if c == nil {
		out.Set("date", nil)
		out.Set("reason", nil)
		out.Set("comment", nil)
		out.Set("feedback", nil)
		return out
	}
	out.Set("date", isoTime(c.HappenedAt))
	out.Set("reason", stringValue(c.Reason))
	out.Set("comment", stringValue(c.Comment))
	out.Set("feedback", stringValue(c.Feedback))
	return out
}

// formatPrice renders "<value> <currency>" with the amount in shortest plain
// decimal form (9.90 -> 9.9, 1E+2 -> 100).
func formatPrice(value json.Number, currency string) string {
	return strings.TrimSpace(formatAmount(value) + " " + currency)
}

func formatAmount(value json.Number) string {
	raw := strings.TrimSpace(value.String())
	if raw == "" {
		return ""
	}
	d, _, err := apd.NewFromString(raw)
	if err != nil {
		return raw
	}
	d.Reduce(d)
	return d.Text('f')
}
