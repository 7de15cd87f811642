package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securebank/corebank/internal/domain"
)

func TestOpenInitializesAdminFile(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)

	creds, err := store.AdminCredentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", creds.Username)

	_, err = os.Stat(filepath.Join(dir, "bank_admin.json"))
	assert.NoError(t, err)
}

func TestPersistAndReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir)
	require.NoError(t, err)

	user := &domain.User{
		ID:            "u1",
		Name:          "Suresh Verma",
		Email:         "suresh.verma@gmail.com",
		AccountNumber: "1099988877766",
		PIN:           "1234",
		CreatedAt:     time.Now().Truncate(time.Second),
	}
	require.NoError(t, store.CreateUser(ctx, user))

	acc := &domain.Account{
		ID:            "a1",
		UserID:        "u1",
		AccountNumber: user.AccountNumber,
		Type:          domain.AccountSavings,
		Balance:       decimal.NewFromInt(25000),
		Status:        domain.AccountStatusActive,
		CreatedAt:     time.Now().Truncate(time.Second),
	}
	require.NoError(t, store.CreateAccount(ctx, acc))

	txn := &domain.Transaction{
		ID:        "t1",
		UserID:    "u1",
		AccountID: "a1",
		Type:      domain.TransactionCredit,
		Amount:    decimal.NewFromInt(25000),
		Date:      time.Now().Truncate(time.Second),
		Category:  domain.CategoryDeposit,
	}
	require.NoError(t, store.AppendTransaction(ctx, txn))

	// A fresh open reads everything back from disk.
	reopened, err := Open(dir)
	require.NoError(t, err)

	gotUser, err := reopened.UserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Suresh Verma", gotUser.Name)
	assert.Equal(t, "1234", gotUser.PIN)

	gotAcc, err := reopened.AccountByID(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, gotAcc.Balance.Equal(decimal.NewFromInt(25000)))

	txns, err := reopened.ListTransactionsByAccount(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.True(t, txns[0].Amount.Equal(decimal.NewFromInt(25000)))
}

func TestUpdateSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, store.CreateAccount(ctx, &domain.Account{
		ID:      "a1",
		UserID:  "u1",
		Type:    domain.AccountSavings,
		Balance: decimal.NewFromInt(100),
	}))

	acc, err := store.AccountByID(ctx, "a1")
	require.NoError(t, err)
	acc.Balance = decimal.NewFromInt(5500)
	require.NoError(t, store.UpdateAccount(ctx, acc))

	reopened, err := Open(dir)
	require.NoError(t, err)
	got, err := reopened.AccountByID(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(5500)))
}

func TestSetAdminCredentialsPersist(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, store.SetAdminCredentials(ctx, &domain.AdminCredentials{
		Username: "admin",
		Password: "s3cret",
	}))

	reopened, err := Open(dir)
	require.NoError(t, err)
	creds, err := reopened.AdminCredentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", creds.Password)
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bank_users.json"), []byte("{not json"), 0o644))

	_, err := Open(dir)
	assert.Error(t, err)
}

func TestOpenToleratesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bank_users.json"), nil, 0o644))

	store, err := Open(dir)
	require.NoError(t, err)

	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}
