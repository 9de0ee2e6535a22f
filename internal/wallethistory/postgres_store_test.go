package wallethistory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unhackablewallet/txfirewall/internal/testutil"
)

func TestPostgresStore_RecentTransactions(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()
	addr := "0x742d35cc6634c0532925a3b844bc454e4438f44e"

	for i := 0; i < 12; i++ {
		from, to := addr, "0xother"
		if i%2 == 0 {
			from, to = to, addr
		}
		_, err := db.ExecContext(ctx, `
			INSERT INTO transactions (from_address, to_address, value, currency, status, created_at)
			VALUES ($1, $2, $3, 'ETH', 'confirmed', $4)
		`, from, to, float64(i), time.Now().Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}
	// One transaction not touching the address
	_, err := db.ExecContext(ctx, `
		INSERT INTO transactions (from_address, to_address, value, currency, status)
		VALUES ('0xaaa', '0xbbb', 99, 'ETH', 'confirmed')
	`)
	require.NoError(t, err)

	txs, err := store.RecentTransactions(ctx, addr, HistoryLimit)
	require.NoError(t, err)
	require.Len(t, txs, HistoryLimit)
	assert.Equal(t, 11.0, txs[0].Value, "ordered by created_at descending")
	for _, tx := range txs {
		assert.True(t, tx.FromAddress == addr || tx.ToAddress == addr)
	}
}

func TestPostgresStore_AnalyticsFor(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()
	addr := "0x742d35cc6634c0532925a3b844bc454e4438f44e"

	a, err := store.AnalyticsFor(ctx, addr)
	require.NoError(t, err)
	assert.Nil(t, a, "missing analytics is nil, not an error")

	_, err = db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO wallet_analytics (address, sent_tnx, total_ether_sent,
			erc20_most_sent_token_type, wallet_age_days, risk_score)
		VALUES ('%s', 42, 7.5, 'DAI', 365, 0.12)
	`, addr))
	require.NoError(t, err)

	a, err = store.AnalyticsFor(ctx, addr)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, 42.0, a.SentTnx)
	assert.Equal(t, 7.5, a.TotalEtherSent)
	assert.Equal(t, "DAI", a.ERC20MostSentTokenType)
	assert.Equal(t, 0.12, a.RiskScore)

	vec := a.FeatureVector()
	require.Len(t, vec, 18)
	assert.Equal(t, 42.0, vec[3])
	assert.Equal(t, "DAI", vec[16])
}
