// Package wallethistory provides the read-only wallet view: recent
// transactions and the analytics profile behind the fraud features.
package wallethistory

import (
	"context"
	"errors"
	"time"
)

// HistoryLimit is how many recent transactions a wallet lookup returns.
const HistoryLimit = 10

// ErrDatabaseUnavailable marks a lookup that failed because the database
// itself is unreachable, as opposed to a query failing.
var ErrDatabaseUnavailable = errors.New("database unavailable")

// Transaction is a single wallet transaction row.
type Transaction struct {
	ID          int64                  `json:"id"`
	FromAddress string                 `json:"from_address"`
	ToAddress   string                 `json:"to_address"`
	Value       float64                `json:"value"`
	Currency    string                 `json:"currency"`
	TxHash      string                 `json:"tx_hash,omitempty"`
	Network     string                 `json:"network,omitempty"`
	Risk        float64                `json:"risk"`
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	CreatedAt   time.Time              `json:"created_at"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// Analytics is the per-wallet behavioral profile. Its 16 numeric metrics
// and 2 token-type strings are the same 18 values the scorer's feature
// vector encodes.
type Analytics struct {
	Address                     string  `json:"address"`
	AvgMinBetweenSent           float64 `json:"avg_min_between_sent_tnx"`
	AvgMinBetweenReceived       float64 `json:"avg_min_between_received_tnx"`
	TimeDiffFirstLastMins       float64 `json:"time_diff_first_last_mins"`
	SentTnx                     float64 `json:"sent_tnx"`
	ReceivedTnx                 float64 `json:"received_tnx"`
	NumCreatedContracts         float64 `json:"num_created_contracts"`
	MaxValueReceived            float64 `json:"max_value_received"`
	AvgValueReceived            float64 `json:"avg_val_received"`
	AvgValueSent                float64 `json:"avg_val_sent"`
	TotalEtherSent              float64 `json:"total_ether_sent"`
	TotalEtherBalance           float64 `json:"total_ether_balance"`
	ERC20TotalEtherReceived     float64 `json:"erc20_total_ether_received"`
	ERC20TotalEtherSent         float64 `json:"erc20_total_ether_sent"`
	ERC20TotalEtherSentContract float64 `json:"erc20_total_ether_sent_contract"`
	ERC20UniqSentAddr           float64 `json:"erc20_uniq_sent_addr"`
	ERC20UniqRecTokenName       float64 `json:"erc20_uniq_rec_token_name"`
	ERC20MostSentTokenType      string  `json:"erc20_most_sent_token_type"`
	ERC20MostRecTokenType       string  `json:"erc20_most_rec_token_type"`
	WalletAgeDays               float64 `json:"wallet_age_days"`
	RiskScore                   float64 `json:"risk_score"`
}

// FeatureVector returns the analytics profile laid out as the scorer's
// 18-slot vector: 16 numeric metrics then 2 token-type strings.
func (a *Analytics) FeatureVector() []interface{} {
	return []interface{}{
		a.AvgMinBetweenSent,
		a.AvgMinBetweenReceived,
		a.TimeDiffFirstLastMins,
		a.SentTnx,
		a.ReceivedTnx,
		a.NumCreatedContracts,
		a.MaxValueReceived,
		a.AvgValueReceived,
		a.AvgValueSent,
		a.TotalEtherSent,
		a.TotalEtherBalance,
		a.ERC20TotalEtherReceived,
		a.ERC20TotalEtherSent,
		a.ERC20TotalEtherSentContract,
		a.ERC20UniqSentAddr,
		a.ERC20UniqRecTokenName,
		a.ERC20MostSentTokenType,
		a.ERC20MostRecTokenType,
	}
}

// Store is the read-only wallet data access interface.
type Store interface {
	// RecentTransactions returns up to limit transactions where the address
	// is sender or recipient, most recent first.
	RecentTransactions(ctx context.Context, address string, limit int) ([]Transaction, error)
	// AnalyticsFor returns the analytics row for the address, or nil when
	// none exists.
	AnalyticsFor(ctx context.Context, address string) (*Analytics, error)
}
