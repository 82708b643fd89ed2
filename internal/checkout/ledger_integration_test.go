//go:build integration

package checkout_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/testutil"
)

func TestPostgresLedgerIntegration(t *testing.T) {
	pool, _ := testutil.StartPostgres(t)
	ledger := checkout.NewPostgresLedger(pool)
	ctx := context.Background()

	rec := checkout.Record{
		SessionID:     "cs_int_1",
		URL:           "https://pay/cs_int_1",
		Status:        checkout.StatusCreated,
		AmountTotal:   139800,
		Currency:      "usd",
		CorrelationID: "cid-int",
		CreatedAt:     time.Now().UTC().Truncate(time.Millisecond),
		LineItems:     []checkout.LineItem{{Price: "price_a", Quantity: 1}, {Price: "price_b", Quantity: 1}},
	}
	require.NoError(t, ledger.RecordCreated(ctx, rec))
	// recording twice is a no-op
	require.NoError(t, ledger.RecordCreated(ctx, rec))

	got, err := ledger.Get(ctx, "cs_int_1")
	require.NoError(t, err)
	require.Equal(t, checkout.StatusCreated, got.Status)
	require.Equal(t, rec.LineItems, got.LineItems)

	require.NoError(t, ledger.MarkOutcome(ctx, "cs_int_1", checkout.StatusCompleted))
	got, err = ledger.Get(ctx, "cs_int_1")
	require.NoError(t, err)
	require.Equal(t, checkout.StatusCompleted, got.Status)

	// completed is final
	require.ErrorIs(t, ledger.MarkOutcome(ctx, "cs_int_1", checkout.StatusCanceled), checkout.ErrSessionFinished)
	got, err = ledger.Get(ctx, "cs_int_1")
	require.NoError(t, err)
	require.Equal(t, checkout.StatusCompleted, got.Status)

	require.ErrorIs(t, ledger.MarkOutcome(ctx, "cs_missing", checkout.StatusCanceled), checkout.ErrSessionNotFound)
	_, err = ledger.Get(ctx, "cs_missing")
	require.ErrorIs(t, err, checkout.ErrSessionNotFound)
}
