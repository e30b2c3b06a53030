package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesaflow/pesaflow/internal/common"
	"github.com/pesaflow/pesaflow/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "pesaflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testLedger() model.Ledger {
	return model.Ledger{
		{
			Timestamp:   time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC),
			Description: "Business Payment from ACME LTD",
			ReceiptID:   "SFC111",
			Type:        model.TypeReceiveMoney,
			Category:    "Income",
			Amount:      decimal.RequireFromString("80000"),
			Balance:     decimal.RequireFromString("85200"),
		},
		{
			Timestamp:   time.Date(2025, 7, 2, 19, 47, 53, 0, time.UTC),
			Description: "Merchant Payment to NAIVAS",
			ReceiptID:   "SFC112",
			Type:        model.TypeBuyGoods,
			Category:    "Food",
			Amount:      decimal.RequireFromString("-5000"),
			Balance:     decimal.RequireFromString("80200"),
		},
	}
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pesaflow.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening re-runs migrate against an up-to-date schema.
	store, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestSaveAndLoadLedger(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLedger(ctx, "july-2025", testLedger()))

	loaded, err := store.LoadLedger(ctx, "july-2025")
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	want := testLedger()
	for i := range want {
		assert.True(t, loaded[i].Timestamp.Equal(want[i].Timestamp), "timestamp %d", i)
		assert.Equal(t, want[i].Description, loaded[i].Description)
		assert.Equal(t, want[i].ReceiptID, loaded[i].ReceiptID)
		assert.Equal(t, want[i].Type, loaded[i].Type)
		assert.Equal(t, want[i].Category, loaded[i].Category)
		assert.True(t, loaded[i].Amount.Equal(want[i].Amount), "amount %d", i)
		assert.True(t, loaded[i].Balance.Equal(want[i].Balance), "balance %d", i)
	}
	assert.True(t, loaded.IsSorted())
}

func TestSaveLedgerReplacesPreviousImport(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLedger(ctx, "july-2025", testLedger()))
	require.NoError(t, store.SaveLedger(ctx, "july-2025", testLedger()[:1]))

	loaded, err := store.LoadLedger(ctx, "july-2025")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestSaveLedgerRequiresName(t *testing.T) {
	store := testStore(t)
	assert.Error(t, store.SaveLedger(context.Background(), "", testLedger()))
}

func TestLoadLedgerMissing(t *testing.T) {
	store := testStore(t)

	_, err := store.LoadLedger(context.Background(), "never-imported")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.True(t, IsNotFound(err))
}

func TestListLedgers(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	empty, err := store.ListLedgers(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, store.SaveLedger(ctx, "july-2025", testLedger()))
	require.NoError(t, store.SaveLedger(ctx, "august-2025", testLedger()[:1]))

	ledgers, err := store.ListLedgers(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"july-2025": 2, "august-2025": 1}, ledgers)
}

func TestCategoryMappings(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetCategoryMapping(ctx, "UBER TRIP 4421", "Business"))
	require.NoError(t, store.SetCategoryMapping(ctx, "XYZ 99", "Food"))

	mappings, err := store.ListCategoryMappings(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"UBER TRIP 4421": "Business", "XYZ 99": "Food"}, mappings)

	// Setting again updates in place.
	require.NoError(t, store.SetCategoryMapping(ctx, "XYZ 99", "Entertainment"))
	mappings, err = store.ListCategoryMappings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Entertainment", mappings["XYZ 99"])

	require.NoError(t, store.DeleteCategoryMapping(ctx, "XYZ 99"))
	mappings, err = store.ListCategoryMappings(ctx)
	require.NoError(t, err)
	assert.NotContains(t, mappings, "XYZ 99")

	err = store.DeleteCategoryMapping(ctx, "XYZ 99")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSetCategoryMappingValidation(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	assert.Error(t, store.SetCategoryMapping(ctx, "", "Food"))
	assert.Error(t, store.SetCategoryMapping(ctx, "XYZ", ""))
}
