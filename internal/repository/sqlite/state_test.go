package sqlite_test

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/TheAndersMadsen/shopify-monitor/internal/models"
	"github.com/TheAndersMadsen/shopify-monitor/internal/repository/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Integration Tests (using a real temporary database)
// =============================================================================

// newTestDB is a helper function that creates a temporary database for a test.
func newTestDB(t *testing.T) *sqlite.Repository {
	t.Helper()

	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo, err := sqlite.NewRepository(t.Context(), logger, dbPath)
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		if err = repo.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	return repo
}

// TestRepository_Integration_SaveAndLoad simulates the full lifecycle of
// the repository against a real SQLite database.
func TestRepository_Integration_SaveAndLoad(t *testing.T) {
	repo := newTestDB(t)
	ctx := t.Context()

	// --- Scenario 1: A fresh database holds an empty store ---
	t.Run("load_from_empty_db", func(t *testing.T) {
		state, err := repo.LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, state)
	})

	state1 := models.StoreState{
		"https://kith.com": {
			"101": {
				Title:     "Oxford Shirt",
				UpdatedAt: "2025-05-01T10:00:00-04:00",
				Variants: map[string]models.VariantSnapshot{
					"5": {Price: "10.00", Available: true},
					"6": {Price: "12.00", Available: false},
				},
			},
		},
		"https://example-store.com": {
			"202": {
				Title:     "Cap",
				UpdatedAt: "2025-05-02T08:30:00-04:00",
				Variants: map[string]models.VariantSnapshot{
					"9": {Price: "25.00", Available: true},
				},
			},
		},
	}

	t.Run("save_state_first_time", func(t *testing.T) {
		require.NoError(t, repo.SaveAll(ctx, state1))
	})

	t.Run("load_round_trips_saved_state", func(t *testing.T) {
		loaded, err := repo.LoadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, state1, loaded)
	})

	// --- Scenario 2: Saving again replaces the full document ---
	state2 := models.StoreState{
		"https://kith.com": {
			"101": {
				Title:     "Oxford Shirt",
				UpdatedAt: "2025-05-03T12:00:00-04:00",
				Variants: map[string]models.VariantSnapshot{
					"5": {Price: "12.00", Available: true},
				},
			},
		},
	}

	t.Run("save_state_second_time", func(t *testing.T) {
		require.NoError(t, repo.SaveAll(ctx, state2))
	})

	t.Run("load_after_rewrite", func(t *testing.T) {
		loaded, err := repo.LoadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, state2, loaded)
		assert.NotContains(t, loaded, "https://example-store.com") // fully rewritten
	})
}

// =============================================================================
// Unit Tests (using sqlmock for failure scenarios)
// =============================================================================

// newMockedRepo creates a repository with a mocked database connection for testing failures.
func newMockedRepo(t *testing.T) (*sqlite.Repository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := sqlite.NewForTest(mockDB)

	t.Cleanup(func() { mockDB.Close() })

	return repo, mock
}

func TestRepository_LoadAll_Failures(t *testing.T) {
	ctx := t.Context()

	t.Run("error_on_products_query", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		expectedErr := errors.New("db connection lost")
		mock.ExpectQuery("SELECT site, product_id, title, updated_at FROM products").
			WillReturnError(expectedErr)

		_, err := repo.LoadAll(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), expectedErr.Error())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_variants_query", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		productRows := sqlmock.NewRows([]string{"site", "product_id", "title", "updated_at"}).
			AddRow("https://kith.com", "101", "Oxford Shirt", "2025-05-01")
		mock.ExpectQuery("SELECT site, product_id, title, updated_at FROM products").
			WillReturnRows(productRows)

		expectedErr := errors.New("table variants is locked")
		mock.ExpectQuery("SELECT site, product_id, variant_id, price, available FROM variants").
			WillReturnError(expectedErr)

		_, err := repo.LoadAll(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), expectedErr.Error())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_product_scan", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		productRows := sqlmock.NewRows([]string{"site", "product_id", "title", "updated_at"}).
			AddRow(nil, nil, nil, nil)
		mock.ExpectQuery("SELECT site, product_id, title, updated_at FROM products").
			WillReturnRows(productRows)

		_, err := repo.LoadAll(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to scan product")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_rows", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		productRows := sqlmock.NewRows([]string{"site", "product_id", "title", "updated_at"}).
			AddRow("https://kith.com", "101", "Oxford Shirt", "2025-05-01").
			RowError(0, assert.AnError)
		mock.ExpectQuery("SELECT site, product_id, title, updated_at FROM products").
			WillReturnRows(productRows)

		_, err := repo.LoadAll(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "rows iteration error")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_SaveAll_Failures(t *testing.T) {
	ctx := t.Context()
	state := models.StoreState{
		"https://kith.com": {
			"101": {
				Title:    "Oxford Shirt",
				Variants: map[string]models.VariantSnapshot{"5": {Price: "10.00", Available: true}},
			},
		},
	}

	t.Run("error_on_begin", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin().WillReturnError(assert.AnError)

		err := repo.SaveAll(ctx, state)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to begin transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_delete", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM variants").WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.SaveAll(ctx, state)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete old variants")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_insert", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM variants").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM products").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectPrepare("INSERT INTO products")
		mock.ExpectPrepare("INSERT INTO variants")
		mock.ExpectExec("INSERT INTO products").WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.SaveAll(ctx, state)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to insert product")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_commit", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM variants").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM products").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectPrepare("INSERT INTO products")
		mock.ExpectPrepare("INSERT INTO variants")
		mock.ExpectExec("INSERT INTO products").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO variants").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit().WillReturnError(assert.AnError)

		err := repo.SaveAll(ctx, state)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to commit transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
