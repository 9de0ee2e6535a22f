package wallethistory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PostgresStore reads wallet history from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed wallet history store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Ping reports whether the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) RecentTransactions(ctx context.Context, address string, limit int) ([]Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, from_address, to_address, value, currency,
		       COALESCE(tx_hash, ''), COALESCE(network, ''),
		       risk, status, timestamp, created_at, COALESCE(metadata, '{}')
		FROM transactions
		WHERE from_address = $1 OR to_address = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, address, limit)
	if err != nil {
		return nil, s.classify(ctx, fmt.Errorf("query transactions: %w", err))
	}
	defer func() { _ = rows.Close() }()

	result := make([]Transaction, 0, limit)
	for rows.Next() {
		var tx Transaction
		var metadataJSON []byte
		if err := rows.Scan(
			&tx.ID, &tx.FromAddress, &tx.ToAddress, &tx.Value, &tx.Currency,
			&tx.TxHash, &tx.Network, &tx.Risk, &tx.Status,
			&tx.Timestamp, &tx.CreatedAt, &metadataJSON,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if len(metadataJSON) > 0 {
			_ = json.Unmarshal(metadataJSON, &tx.Metadata)
		}
		result = append(result, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return result, nil
}

func (s *PostgresStore) AnalyticsFor(ctx context.Context, address string) (*Analytics, error) {
	var a Analytics
	err := s.db.QueryRowContext(ctx, `
		SELECT address,
		       avg_min_between_sent_tnx, avg_min_between_received_tnx,
		       time_diff_first_last_mins, sent_tnx, received_tnx,
		       num_created_contracts, max_value_received, avg_val_received,
		       avg_val_sent, total_ether_sent, total_ether_balance,
		       erc20_total_ether_received, erc20_total_ether_sent,
		       erc20_total_ether_sent_contract, erc20_uniq_sent_addr,
		       erc20_uniq_rec_token_name, erc20_most_sent_token_type,
		       erc20_most_rec_token_type, wallet_age_days, risk_score
		FROM wallet_analytics
		WHERE address = $1
		LIMIT 1
	`, address).Scan(
		&a.Address,
		&a.AvgMinBetweenSent, &a.AvgMinBetweenReceived,
		&a.TimeDiffFirstLastMins, &a.SentTnx, &a.ReceivedTnx,
		&a.NumCreatedContracts, &a.MaxValueReceived, &a.AvgValueReceived,
		&a.AvgValueSent, &a.TotalEtherSent, &a.TotalEtherBalance,
		&a.ERC20TotalEtherReceived, &a.ERC20TotalEtherSent,
		&a.ERC20TotalEtherSentContract, &a.ERC20UniqSentAddr,
		&a.ERC20UniqRecTokenName, &a.ERC20MostSentTokenType,
		&a.ERC20MostRecTokenType, &a.WalletAgeDays, &a.RiskScore,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.classify(ctx, fmt.Errorf("query analytics: %w", err))
	}
	return &a, nil
}

// classify distinguishes an unreachable database from a failing query so
// handlers can keep the two error bodies apart.
func (s *PostgresStore) classify(ctx context.Context, err error) error {
	if pingErr := s.db.PingContext(ctx); pingErr != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseUnavailable, pingErr)
	}
	return err
}
