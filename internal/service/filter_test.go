package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmswift/finconsole/internal/domain"
	"github.com/jmswift/finconsole/internal/models"
)

func reviewQueue() []models.Transaction {
	return []models.Transaction{
		{
			ID:                "1",
			Amount:            decimal.NewFromInt(100),
			TransactionUserID: "TX1",
			Status:            domain.StatusPending,
			CreatedAt:         time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			User:              models.TransactionUser{Username: "alice", Email: "a@x.com"},
		},
		{
			ID:                "2",
			Amount:            decimal.NewFromInt(200),
			TransactionUserID: "TX2",
			Status:            domain.StatusReceived,
			CreatedAt:         time.Date(2024, 5, 2, 18, 30, 0, 0, time.UTC),
			User:              models.TransactionUser{Username: "bruno", Email: "b@x.com"},
		},
		{
			ID:                "3",
			Amount:            decimal.NewFromInt(300),
			TransactionUserID: "TX3",
			Status:            domain.StatusRejected,
			RejectionNote:     "wrong account",
			CreatedAt:         time.Date(2024, 6, 10, 18, 30, 0, 0, time.UTC),
			User:              models.TransactionUser{Username: "carla", Email: "c@y.com"},
		},
	}
}

func TestFilterTransactionsIdentity(t *testing.T) {
	queue := reviewQueue()
	out := FilterTransactions(queue, TransactionFilter{})
	require.Equal(t, queue, out)

	require.Empty(t, FilterTransactions(nil, TransactionFilter{}))
}

func TestFilterTransactionsIdempotent(t *testing.T) {
	filters := []TransactionFilter{
		{},
		{Status: domain.StatusPending},
		{Query: "alice"},
		{DatePrefix: "2024-05", TimeFragment: "18:30"},
		{Query: "TX", Status: domain.StatusReceived, DatePrefix: "2024"},
	}
	for _, f := range filters {
		once := FilterTransactions(reviewQueue(), f)
		twice := FilterTransactions(once, f)
		require.Equal(t, once, twice)
	}
}

func TestFilterTransactionsFreeText(t *testing.T) {
	queue := []models.Transaction{
		{
			ID:                "1",
			Status:            domain.StatusPending,
			CreatedAt:         time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			TransactionUserID: "TX1",
			User:              models.TransactionUser{Username: "alice", Email: "a@x.com"},
		},
	}

	require.Len(t, FilterTransactions(queue, TransactionFilter{Query: "alice"}), 1)
	require.Empty(t, FilterTransactions(queue, TransactionFilter{Query: "bob"}))
}

func TestFilterTransactionsFreeTextIsCaseSensitive(t *testing.T) {
	queue := reviewQueue()
	require.Len(t, FilterTransactions(queue, TransactionFilter{Query: "alice"}), 1)
	require.Empty(t, FilterTransactions(queue, TransactionFilter{Query: "Alice"}))
}

func TestFilterTransactionsFreeTextMatchesAnyField(t *testing.T) {
	queue := reviewQueue()
	assert.Len(t, FilterTransactions(queue, TransactionFilter{Query: "TX2"}), 1)
	assert.Len(t, FilterTransactions(queue, TransactionFilter{Query: "b@x.com"}), 1)
	assert.Len(t, FilterTransactions(queue, TransactionFilter{Query: "carla"}), 1)
	assert.Len(t, FilterTransactions(queue, TransactionFilter{Query: "TX"}), 3)
}

func TestFilterTransactionsStatus(t *testing.T) {
	queue := reviewQueue()
	out := FilterTransactions(queue, TransactionFilter{Status: domain.StatusRejected})
	require.Len(t, out, 1)
	require.Equal(t, "3", out[0].ID)
}

func TestFilterTransactionsDatePrefix(t *testing.T) {
	queue := reviewQueue()
	assert.Len(t, FilterTransactions(queue, TransactionFilter{DatePrefix: "2024-05"}), 2)
	assert.Len(t, FilterTransactions(queue, TransactionFilter{DatePrefix: "2024-05-01"}), 1)
	assert.Len(t, FilterTransactions(queue, TransactionFilter{DatePrefix: "2023"}), 0)
}

func TestFilterTransactionsTimeFragment(t *testing.T) {
	queue := reviewQueue()
	out := FilterTransactions(queue, TransactionFilter{TimeFragment: "18:30"})
	require.Len(t, out, 2)
	require.Equal(t, "2", out[0].ID)
	require.Equal(t, "3", out[1].ID)
}

func TestFilterTransactionsCombined(t *testing.T) {
	queue := reviewQueue()
	out := FilterTransactions(queue, TransactionFilter{
		TimeFragment: "18:30",
		DatePrefix:   "2024-05",
		Status:       domain.StatusReceived,
		Query:        "bruno",
	})
	require.Len(t, out, 1)
	require.Equal(t, "2", out[0].ID)
}

func TestFilterTransactionsPreservesOrderAndSource(t *testing.T) {
	queue := reviewQueue()
	out := FilterTransactions(queue, TransactionFilter{DatePrefix: "2024"})
	require.Equal(t, []string{"1", "2", "3"}, []string{out[0].ID, out[1].ID, out[2].ID})
	// Source untouched.
	require.Equal(t, reviewQueue(), queue)
}

func TestFilterUsers(t *testing.T) {
	users := []models.User{
		{ID: "u1", Username: "Alice", Email: "Alice@X.com", Phone: "+90-1", IPAddress: "10.0.0.1", Role: domain.RoleUser},
		{ID: "u2", Username: "bruno", Email: "b@x.com", Phone: "+90-2", IPAddress: "10.0.0.2", Role: domain.RoleFinance},
		{ID: "u3", Username: "carla", Email: "c@x.com", Phone: "+44-3", IPAddress: "192.168.1.9", Role: domain.RoleAdmin},
	}

	require.Equal(t, users, FilterUsers(users, UserFilter{}))

	out := FilterUsers(users, UserFilter{Role: domain.RoleFinance})
	require.Len(t, out, 1)
	require.Equal(t, "u2", out[0].ID)

	// Username and email match case-insensitively.
	require.Len(t, FilterUsers(users, UserFilter{Query: "alice"}), 1)
	require.Len(t, FilterUsers(users, UserFilter{Query: "ALICE@x.COM"}), 1)

	// ID, phone and IP match verbatim.
	require.Len(t, FilterUsers(users, UserFilter{Query: "u3"}), 1)
	require.Len(t, FilterUsers(users, UserFilter{Query: "+90"}), 2)
	require.Len(t, FilterUsers(users, UserFilter{Query: "192.168"}), 1)

	require.Empty(t, FilterUsers(users, UserFilter{Query: "bruno", Role: domain.RoleUser}))
}
