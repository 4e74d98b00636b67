// Package repository defines the durable state contract the monitor
// depends on.
package repository

import (
	"context"

	"github.com/TheAndersMadsen/shopify-monitor/internal/models"
)

// StateRepository persists the last-known product snapshots with
// full-document semantics: LoadAll reads everything once at monitor start
// and SaveAll rewrites everything at the end of every cycle.
type StateRepository interface {
	LoadAll(ctx context.Context) (models.StoreState, error)
	SaveAll(ctx context.Context, state models.StoreState) error
}
