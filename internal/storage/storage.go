// Package storage defines the repository interfaces over the bank's named
// collections. The engines depend only on these interfaces; implementations
// live in the memory and jsonfile subpackages.
//
// Transactions and login history are append-only by construction: the
// interfaces expose no update or delete for them.
package storage

import (
	"context"

	"github.com/securebank/corebank/internal/domain"
)

// UserStore persists bank customers.
type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	UserByID(ctx context.Context, id string) (*domain.User, error)
	UserByAccountNumber(ctx context.Context, accountNumber string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	UpdateUser(ctx context.Context, u *domain.User) error
	DeleteUser(ctx context.Context, id string) error
}

// AccountStore persists accounts.
type AccountStore interface {
	CreateAccount(ctx context.Context, a *domain.Account) error
	AccountByID(ctx context.Context, id string) (*domain.Account, error)
	ListAccountsByUser(ctx context.Context, userID string) ([]*domain.Account, error)
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
	UpdateAccount(ctx context.Context, a *domain.Account) error
	DeleteAccount(ctx context.Context, id string) error
}

// TransactionStore is the append-only transaction log.
type TransactionStore interface {
	AppendTransaction(ctx context.Context, t *domain.Transaction) error
	ListTransactionsByAccount(ctx context.Context, accountID string) ([]*domain.Transaction, error)
	ListTransactionsByUser(ctx context.Context, userID string) ([]*domain.Transaction, error)
	ListTransactions(ctx context.Context) ([]*domain.Transaction, error)
}

// FixedDepositStore persists fixed deposits.
type FixedDepositStore interface {
	CreateFixedDeposit(ctx context.Context, fd *domain.FixedDeposit) error
	FixedDepositByID(ctx context.Context, id string) (*domain.FixedDeposit, error)
	ListFixedDepositsByUser(ctx context.Context, userID string) ([]*domain.FixedDeposit, error)
	ListFixedDeposits(ctx context.Context) ([]*domain.FixedDeposit, error)
	UpdateFixedDeposit(ctx context.Context, fd *domain.FixedDeposit) error
}

// CardStore persists payment cards.
type CardStore interface {
	CreateCard(ctx context.Context, c *domain.Card) error
	CardByID(ctx context.Context, id string) (*domain.Card, error)
	ListCardsByUser(ctx context.Context, userID string) ([]*domain.Card, error)
	UpdateCard(ctx context.Context, c *domain.Card) error
}

// NotificationStore persists notifications. Existing rows mutate only
// through MarkNotificationRead.
type NotificationStore interface {
	AppendNotification(ctx context.Context, n *domain.Notification) error
	ListNotificationsByUser(ctx context.Context, userID string) ([]*domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}

// LoginHistoryStore is the append-only login audit log.
type LoginHistoryStore interface {
	AppendLoginHistory(ctx context.Context, e *domain.LoginHistoryEntry) error
	ListLoginHistoryByUser(ctx context.Context, userID string) ([]*domain.LoginHistoryEntry, error)
}

// RecurringTransferStore persists standing transfer instructions.
type RecurringTransferStore interface {
	CreateRecurringTransfer(ctx context.Context, rt *domain.RecurringTransfer) error
	RecurringTransferByID(ctx context.Context, id string) (*domain.RecurringTransfer, error)
	ListRecurringTransfersByUser(ctx context.Context, userID string) ([]*domain.RecurringTransfer, error)
	ListRecurringTransfers(ctx context.Context) ([]*domain.RecurringTransfer, error)
	UpdateRecurringTransfer(ctx context.Context, rt *domain.RecurringTransfer) error
}

// AdminStore persists the administrative credential singleton.
type AdminStore interface {
	AdminCredentials(ctx context.Context) (*domain.AdminCredentials, error)
	SetAdminCredentials(ctx context.Context, c *domain.AdminCredentials) error
}

// Store composes every collection.
type Store interface {
	UserStore
	AccountStore
	TransactionStore
	FixedDepositStore
	CardStore
	NotificationStore
	LoginHistoryStore
	RecurringTransferStore
	AdminStore
}

// Snapshot is a full copy of every collection, used to move state between
// store implementations and to persist to disk.
type Snapshot struct {
	Users              []*domain.User              `json:"users"`
	Accounts           []*domain.Account           `json:"accounts"`
	Transactions       []*domain.Transaction       `json:"transactions"`
	FixedDeposits      []*domain.FixedDeposit      `json:"fixedDeposits"`
	Cards              []*domain.Card              `json:"cards"`
	Notifications      []*domain.Notification      `json:"notifications"`
	LoginHistory       []*domain.LoginHistoryEntry `json:"loginHistory"`
	RecurringTransfers []*domain.RecurringTransfer `json:"recurringTransfers"`
	Admin              *domain.AdminCredentials    `json:"admin"`
}
