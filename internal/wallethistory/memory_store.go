package wallethistory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory wallet history store, used when no database
// is configured (local development, demos) and in tests.
type MemoryStore struct {
	mu           sync.RWMutex
	transactions []Transaction
	analytics    map[string]*Analytics
	nextID       int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		analytics: make(map[string]*Analytics),
		nextID:    1,
	}
}

// AddTransaction records a transaction. Missing timestamps default to now.
func (s *MemoryStore) AddTransaction(tx Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = s.nextID
	s.nextID++
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	if tx.Timestamp.IsZero() {
		tx.Timestamp = tx.CreatedAt
	}
	s.transactions = append(s.transactions, tx)
}

// SetAnalytics stores the analytics profile for an address.
func (s *MemoryStore) SetAnalytics(a *Analytics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analytics[strings.ToLower(a.Address)] = a
}

func (s *MemoryStore) RecentTransactions(ctx context.Context, address string, limit int) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	addr := strings.ToLower(address)
	matched := make([]Transaction, 0, limit)
	for _, tx := range s.transactions {
		if strings.ToLower(tx.FromAddress) == addr || strings.ToLower(tx.ToAddress) == addr {
			matched = append(matched, tx)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *MemoryStore) AnalyticsFor(ctx context.Context, address string) (*Analytics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.analytics[strings.ToLower(address)]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}
