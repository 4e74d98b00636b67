package models

import "strconv"

// VariantSnapshot is the persisted subset of a variant's fields that the
// monitor tracks between cycles.
type VariantSnapshot struct {
	Price     string
	Available bool
}

// ProductSnapshot is the persisted, reduced representation of one product.
// Handle and images are intentionally not persisted: the handle is
// re-fetched every cycle for link building and images only matter while
// rendering a notification.
type ProductSnapshot struct {
	Title     string
	UpdatedAt string
	Variants  map[string]VariantSnapshot // keyed by variant id string
}

// SiteState maps product-id-string -> last-known snapshot for one storefront.
type SiteState map[string]ProductSnapshot

// StoreState is the complete durable state: storefront URL -> SiteState.
type StoreState map[string]SiteState

// Snapshot reduces a freshly fetched product to its persisted form.
func Snapshot(p Product) ProductSnapshot {
	variants := make(map[string]VariantSnapshot, len(p.Variants))
	for _, v := range p.Variants {
		variants[strconv.FormatInt(v.ID, 10)] = VariantSnapshot{
			Price:     v.Price,
			Available: v.Available,
		}
	}

	return ProductSnapshot{
		Title:     p.Title,
		UpdatedAt: p.UpdatedAt,
		Variants:  variants,
	}
}
