// Package diff classifies the difference between a freshly fetched product
// and its last-known persisted snapshot.
package diff

import (
	"fmt"
	"strconv"

	"github.com/TheAndersMadsen/shopify-monitor/internal/models"
)

// Kind is the outcome of classifying one product against its snapshot.
type Kind int

const (
	// KindNone means every tracked field matches the snapshot.
	KindNone Kind = iota
	// KindNew means the product has no prior snapshot.
	KindNew
	// KindUpdate means at least one variant-level change was detected.
	KindUpdate
)

// Result carries the classification and the human-readable change lines,
// in the iteration order of the fresh product's variants.
type Result struct {
	Kind  Kind
	Lines []string
}

// Classify compares a fresh product against its persisted snapshot.
// A nil snapshot always classifies as new, with no field-level diff.
// Variants present in the snapshot but missing from the fresh product are
// not flagged: delistings are deliberately not detected.
func Classify(fresh models.Product, prev *models.ProductSnapshot) Result {
	if prev == nil {
		return Result{Kind: KindNew}
	}

	var lines []string
	for _, v := range fresh.Variants {
		vid := strconv.FormatInt(v.ID, 10)

		old, found := prev.Variants[vid]
		if !found {
			lines = append(lines, fmt.Sprintf("New Variant: ID %s", vid))
			continue
		}
		if v.Price != old.Price {
			lines = append(lines, fmt.Sprintf("Price: $%s -> $%s", old.Price, v.Price))
		}
		if v.Available != old.Available {
			lines = append(lines, fmt.Sprintf("Stock: %s (Variant %s)", stockLabel(v.Available), vid))
		}
	}

	if len(lines) == 0 {
		return Result{Kind: KindNone}
	}

	return Result{Kind: KindUpdate, Lines: lines}
}

// stockLabel renders an availability flag as the human label used in
// change lines and notifications.
func stockLabel(available bool) string {
	if available {
		return "In Stock"
	}
	return "Out of Stock"
}
