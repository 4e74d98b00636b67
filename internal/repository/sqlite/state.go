package sqlite

import (
	"context"
	"fmt"

	"github.com/TheAndersMadsen/shopify-monitor/internal/models"
)

// LoadAll reads the complete persisted state: every storefront with every
// product snapshot observed on a prior successful fetch.
func (r *Repository) LoadAll(ctx context.Context) (models.StoreState, error) {
	const opn = "repository.sqlite.LoadAll"

	state := make(models.StoreState)

	// 1. Read product snapshots.
	rows, err := r.db.QueryContext(ctx, "SELECT site, product_id, title, updated_at FROM products")
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get products: %w", opn, err)
	}
	defer rows.Close()

	for rows.Next() {
		var site, productID, title, updatedAt string
		if err = rows.Scan(&site, &productID, &title, &updatedAt); err != nil {
			return nil, fmt.Errorf("%s: failed to scan product: %w", opn, err)
		}

		if state[site] == nil {
			state[site] = make(models.SiteState)
		}
		state[site][productID] = models.ProductSnapshot{
			Title:     title,
			UpdatedAt: updatedAt,
			Variants:  make(map[string]models.VariantSnapshot),
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	// 2. Attach the tracked variants to their products.
	variantRows, err := r.db.QueryContext(
		ctx,
		"SELECT site, product_id, variant_id, price, available FROM variants",
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get variants: %w", opn, err)
	}
	defer variantRows.Close()

	for variantRows.Next() {
		var site, productID, variantID, price string
		var available bool
		if err = variantRows.Scan(&site, &productID, &variantID, &price, &available); err != nil {
			return nil, fmt.Errorf("%s: failed to scan variant: %w", opn, err)
		}

		snapshot, found := state[site][productID]
		if !found {
			// Orphaned variant row; the product row is authoritative.
			continue
		}
		snapshot.Variants[variantID] = models.VariantSnapshot{Price: price, Available: available}
	}
	if err = variantRows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return state, nil
}

// SaveAll atomically rewrites the complete persisted state using a
// transaction: the previous rows are deleted and the current in-memory
// state is inserted in full.
func (r *Repository) SaveAll(ctx context.Context, state models.StoreState) error {
	const opn = "repository.sqlite.SaveAll"

	// 1. begin transaction
	tx, err := r.db.BeginTx(ctx, nil) //nolint:varnamelen // tx its a default naming for transaction
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", opn, err)
	}
	defer tx.Rollback() //nolint:errcheck // after a successful commit the rollback only returns sql.ErrTxDone

	// 2. Completely clear both tables to record the new current state.
	if _, err = tx.ExecContext(ctx, "DELETE FROM variants"); err != nil {
		return fmt.Errorf("%s: failed to delete old variants: %w", opn, err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM products"); err != nil {
		return fmt.Errorf("%s: failed to delete old products: %w", opn, err)
	}

	// 3. Preparing requests for the effective insertion of the new state.
	productStmt, err := tx.PrepareContext(
		ctx,
		"INSERT INTO products (site, product_id, title, updated_at) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare product insert statement: %w", opn, err)
	}
	defer productStmt.Close()

	variantStmt, err := tx.PrepareContext(
		ctx,
		"INSERT INTO variants (site, product_id, variant_id, price, available) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare variant insert statement: %w", opn, err)
	}
	defer variantStmt.Close()

	// 4. Insert each snapshot with its variants.
	for site, siteState := range state {
		for productID, snapshot := range siteState {
			if _, err = productStmt.ExecContext(ctx, site, productID, snapshot.Title, snapshot.UpdatedAt); err != nil {
				return fmt.Errorf("%s: failed to insert product %s: %w", opn, productID, err)
			}
			for variantID, variant := range snapshot.Variants {
				_, err = variantStmt.ExecContext(ctx, site, productID, variantID, variant.Price, variant.Available)
				if err != nil {
					return fmt.Errorf("%s: failed to insert variant %s: %w", opn, variantID, err)
				}
			}
		}
	}

	// 5. If all operations went through without errors - confirm the transaction.
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", opn, err)
	}

	return nil
}
