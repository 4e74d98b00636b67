// Package notify renders detected catalog changes into outbound messages
// and delivers them best-effort: one attempt per detected change, failures
// logged and swallowed.
package notify

import (
	"context"
	"strings"

	"github.com/TheAndersMadsen/shopify-monitor/internal/models"
)

// Event is one notifiable catalog change.
type Event struct {
	Site    string
	Product models.Product
	Kind    models.EventKind
	Changes string // newline-joined change lines; empty for new products
	Target  string // webhook delivery URL; empty means dry run
}

// Notifier delivers one rendered notification for an event.
type Notifier interface {
	Send(ctx context.Context, event Event) error
}

// ProductURL builds the public product page link for an event.
func ProductURL(site string, product models.Product) string {
	return site + "/products/" + product.Handle
}

// domain strips the scheme off a storefront URL for display.
func domain(site string) string {
	site = strings.TrimPrefix(site, "https://")
	return strings.TrimPrefix(site, "http://")
}
