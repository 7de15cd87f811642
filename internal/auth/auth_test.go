package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securebank/corebank/internal/domain"
	"github.com/securebank/corebank/internal/notify"
	"github.com/securebank/corebank/internal/storage/memory"
)

const testAccountNumber = "1012345678901"

func newTestService(t *testing.T) (*Service, *memory.Store, *domain.User) {
	t.Helper()
	store := memory.New()
	svc := New(store, notify.New(store, zerolog.Nop()), zerolog.Nop())

	user := &domain.User{
		ID:            uuid.NewString(),
		Name:          "Sneha Singh",
		Email:         "sneha.singh@gmail.com",
		Phone:         "9988776655",
		AccountNumber: testAccountNumber,
		PIN:           "1234",
		CreatedAt:     time.Now(),
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return svc, store, user
}

func TestLogin(t *testing.T) {
	svc, store, user := newTestService(t)
	ctx := context.Background()

	got, err := svc.Login(ctx, testAccountNumber, "1234", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	history, err := store.ListLoginHistoryByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.LoginSuccess, history[0].Status)
	assert.Equal(t, "127.0.0.1", history[0].IP)
}

func TestLoginUnknownAccountNumber(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "0000000000000", "1234", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoginWrongPINCountsDown(t *testing.T) {
	svc, store, user := newTestService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, testAccountNumber, "9999", "")
	assert.ErrorIs(t, err, domain.ErrAuthentication)

	got, err := store.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.FailedAttempts)
	assert.False(t, got.Locked)
}

func TestLoginLockoutSequence(t *testing.T) {
	svc, store, user := newTestService(t)
	ctx := context.Background()

	// First two wrong PINs are authentication failures.
	for i := 0; i < 2; i++ {
		_, err := svc.Login(ctx, testAccountNumber, "0000", "")
		assert.ErrorIs(t, err, domain.ErrAuthentication)
	}

	// The third locks the user.
	_, err := svc.Login(ctx, testAccountNumber, "0000", "")
	assert.ErrorIs(t, err, domain.ErrLocked)

	got, err := store.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Locked)
	assert.Equal(t, 3, got.FailedAttempts)

	notifications, err := store.ListNotificationsByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Account Locked", notifications[0].Title)

	// Even the correct PIN is rejected once locked.
	_, err = svc.Login(ctx, testAccountNumber, "1234", "")
	assert.ErrorIs(t, err, domain.ErrLocked)

	history, err := store.ListLoginHistoryByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, history, 4)
	for _, e := range history {
		assert.Equal(t, domain.LoginFailure, e.Status)
	}
}

func TestLoginSuccessResetsCounter(t *testing.T) {
	svc, store, user := newTestService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, testAccountNumber, "0000", "")
	assert.ErrorIs(t, err, domain.ErrAuthentication)

	_, err = svc.Login(ctx, testAccountNumber, "1234", "")
	require.NoError(t, err)

	got, err := store.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.FailedAttempts)
}

func TestChangePIN(t *testing.T) {
	svc, store, user := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.ChangePIN(ctx, user.ID, "1234", "5678"))

	got, err := store.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "5678", got.PIN)
}

func TestChangePINRejections(t *testing.T) {
	svc, _, user := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		currentPIN string
		newPIN     string
		wantErr    error
	}{
		{"wrong current pin", "9999", "5678", domain.ErrAuthentication},
		{"new pin too short", "1234", "56", domain.ErrValidation},
		{"new pin not digits", "1234", "abcd", domain.ErrValidation},
		{"new pin unchanged", "1234", "1234", domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ChangePIN(ctx, user.ID, tt.currentPIN, tt.newPIN)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, store, user := newTestService(t)
	ctx := context.Background()

	updated, err := svc.UpdateProfile(ctx, user.ID, "Sneha Patel", "sneha.patel@gmail.com", "9876543211")
	require.NoError(t, err)
	assert.Equal(t, "Sneha Patel", updated.Name)
	assert.Equal(t, "sneha.patel@gmail.com", updated.Email)
	assert.Equal(t, "9876543211", updated.Phone)

	// PIN and account number are untouched.
	got, err := store.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sneha Patel", got.Name)
	assert.Equal(t, "1234", got.PIN)
	assert.Equal(t, testAccountNumber, got.AccountNumber)
}

func TestUpdateProfileRejections(t *testing.T) {
	svc, _, user := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		uname   string
		email   string
		phone   string
		wantErr error
	}{
		{"empty name", "", "a@b.com", "9876543210", domain.ErrValidation},
		{"bad email", "Sneha Singh", "not-an-email", "9876543210", domain.ErrValidation},
		{"short phone", "Sneha Singh", "a@b.com", "12345", domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateProfile(ctx, user.ID, tt.uname, tt.email, tt.phone)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := svc.UpdateProfile(ctx, "missing", "Sneha Singh", "a@b.com", "9876543210")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetLockedUnlocksAndResets(t *testing.T) {
	svc, store, user := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _ = svc.Login(ctx, testAccountNumber, "0000", "")
	}

	unlocked, err := svc.SetLocked(ctx, user.ID, false)
	require.NoError(t, err)
	assert.False(t, unlocked.Locked)
	assert.Equal(t, 0, unlocked.FailedAttempts)

	got, err := svc.Login(ctx, testAccountNumber, "1234", "")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = store.UserByID(ctx, user.ID)
	require.NoError(t, err)
}

func TestVerifyAdmin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	assert.NoError(t, svc.VerifyAdmin(ctx, "admin", "admin123"))
	assert.ErrorIs(t, svc.VerifyAdmin(ctx, "admin", "wrong"), domain.ErrAuthentication)
	assert.ErrorIs(t, svc.VerifyAdmin(ctx, "root", "admin123"), domain.ErrAuthentication)
}

func TestIsAuthFailure(t *testing.T) {
	assert.True(t, IsAuthFailure(domain.ErrAuthentication))
	assert.True(t, IsAuthFailure(domain.ErrLocked))
	assert.False(t, IsAuthFailure(domain.ErrValidation))
}
