package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securebank/corebank/internal/domain"
)

func TestUserRoundTrip(t *testing.T) {
	store := New()
	ctx := context.Background()

	user := &domain.User{
		ID:            "u1",
		Name:          "Rahul Gupta",
		AccountNumber: "1011122233344",
		PIN:           "1234",
		CreatedAt:     time.Now(),
	}
	require.NoError(t, store.CreateUser(ctx, user))

	byID, err := store.UserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Rahul Gupta", byID.Name)

	byNumber, err := store.UserByAccountNumber(ctx, "1011122233344")
	require.NoError(t, err)
	assert.Equal(t, "u1", byNumber.ID)

	_, err = store.UserByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateUserRequiresID(t *testing.T) {
	store := New()
	err := store.CreateUser(context.Background(), &domain.User{Name: "No ID"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReadsReturnCopies(t *testing.T) {
	store := New()
	ctx := context.Background()

	acc := &domain.Account{
		ID:      "a1",
		UserID:  "u1",
		Type:    domain.AccountSavings,
		Balance: decimal.NewFromInt(100),
	}
	require.NoError(t, store.CreateAccount(ctx, acc))

	// Mutating what the caller passed in or got back must not leak into
	// the store.
	acc.Balance = decimal.NewFromInt(999)

	got, err := store.AccountByID(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)))

	got.Balance = decimal.NewFromInt(0)
	again, err := store.AccountByID(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, again.Balance.Equal(decimal.NewFromInt(100)))
}

func TestDeleteUserAndAccount(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, &domain.User{ID: "u1", Name: "Rahul Gupta"}))
	require.NoError(t, store.CreateAccount(ctx, &domain.Account{ID: "a1", UserID: "u1"}))

	require.NoError(t, store.DeleteUser(ctx, "u1"))
	_, err := store.UserByID(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.DeleteAccount(ctx, "a1"))
	_, err = store.AccountByID(ctx, "a1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, store.DeleteUser(ctx, "u1"), domain.ErrNotFound)
	assert.ErrorIs(t, store.DeleteAccount(ctx, "a1"), domain.ErrNotFound)
}

func TestUpdateAccountUnknownID(t *testing.T) {
	store := New()
	err := store.UpdateAccount(context.Background(), &domain.Account{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransactionsSortedNewestFirst(t *testing.T) {
	store := New()
	ctx := context.Background()
	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	for i, offset := range []int{2, 0, 1} {
		txn := &domain.Transaction{
			ID:        string(rune('a' + i)),
			UserID:    "u1",
			AccountID: "a1",
			Type:      domain.TransactionCredit,
			Amount:    decimal.NewFromInt(int64(100 * (i + 1))),
			Date:      base.AddDate(0, 0, offset),
		}
		require.NoError(t, store.AppendTransaction(ctx, txn))
	}

	txns, err := store.ListTransactionsByAccount(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, txns, 3)
	assert.True(t, txns[0].Date.After(txns[1].Date))
	assert.True(t, txns[1].Date.After(txns[2].Date))
}

func TestMarkNotificationRead(t *testing.T) {
	store := New()
	ctx := context.Background()

	n := &domain.Notification{ID: "n1", UserID: "u1", Title: "Test", Date: time.Now()}
	require.NoError(t, store.AppendNotification(ctx, n))
	require.NoError(t, store.MarkNotificationRead(ctx, "n1"))

	list, err := store.ListNotificationsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Read)

	assert.ErrorIs(t, store.MarkNotificationRead(ctx, "missing"), domain.ErrNotFound)
}

func TestDefaultAdminSeeded(t *testing.T) {
	store := New()

	creds, err := store.AdminCredentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", creds.Username)
	assert.Equal(t, "admin123", creds.Password)
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, &domain.User{ID: "u1", Name: "Meera Nair"}))
	require.NoError(t, store.CreateAccount(ctx, &domain.Account{ID: "a1", UserID: "u1", Balance: decimal.NewFromInt(5000)}))
	require.NoError(t, store.AppendTransaction(ctx, &domain.Transaction{ID: "t1", UserID: "u1", AccountID: "a1", Amount: decimal.NewFromInt(5000), Date: time.Now()}))

	restored := NewFromSnapshot(store.Snapshot())

	users, err := restored.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	acc, err := restored.AccountByID(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(5000)))

	txns, err := restored.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, txns, 1)

	creds, err := restored.AdminCredentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultAdmin, *creds)
}
