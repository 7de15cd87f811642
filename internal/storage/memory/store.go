// Package memory provides an in-memory storage.Store. It is safe for
// concurrent use and returns copies, so callers never share mutable state
// with the store. Data is lost on restart; use jsonfile for persistence.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/securebank/corebank/internal/domain"
	"github.com/securebank/corebank/internal/storage"
)

// DefaultAdmin is the seeded administrative credential, a deliberately weak
// demo default.
var DefaultAdmin = domain.AdminCredentials{Username: "admin", Password: "admin123"}

// Store keeps every collection as an ordered slice guarded by one RWMutex,
// mirroring the array-per-collection layout the bank persists on disk.
type Store struct {
	mu                 sync.RWMutex
	users              []*domain.User
	accounts           []*domain.Account
	transactions       []*domain.Transaction
	fixedDeposits      []*domain.FixedDeposit
	cards              []*domain.Card
	notifications      []*domain.Notification
	loginHistory       []*domain.LoginHistoryEntry
	recurringTransfers []*domain.RecurringTransfer
	admin              domain.AdminCredentials
}

// New creates an empty store with the default admin credentials.
func New() *Store {
	return &Store{admin: DefaultAdmin}
}

// NewFromSnapshot creates a store preloaded with snap.
func NewFromSnapshot(snap storage.Snapshot) *Store {
	s := New()
	for _, u := range snap.Users {
		c := *u
		s.users = append(s.users, &c)
	}
	for _, a := range snap.Accounts {
		c := *a
		s.accounts = append(s.accounts, &c)
	}
	for _, t := range snap.Transactions {
		c := *t
		s.transactions = append(s.transactions, &c)
	}
	for _, fd := range snap.FixedDeposits {
		c := *fd
		s.fixedDeposits = append(s.fixedDeposits, &c)
	}
	for _, cd := range snap.Cards {
		c := *cd
		s.cards = append(s.cards, &c)
	}
	for _, n := range snap.Notifications {
		c := *n
		s.notifications = append(s.notifications, &c)
	}
	for _, e := range snap.LoginHistory {
		c := *e
		s.loginHistory = append(s.loginHistory, &c)
	}
	for _, rt := range snap.RecurringTransfers {
		c := *rt
		s.recurringTransfers = append(s.recurringTransfers, &c)
	}
	if snap.Admin != nil {
		s.admin = *snap.Admin
	}
	return s
}

// Snapshot returns a full copy of every collection.
func (s *Store) Snapshot() storage.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := storage.Snapshot{Admin: &domain.AdminCredentials{}}
	*snap.Admin = s.admin
	for _, u := range s.users {
		c := *u
		snap.Users = append(snap.Users, &c)
	}
	for _, a := range s.accounts {
		c := *a
		snap.Accounts = append(snap.Accounts, &c)
	}
	for _, t := range s.transactions {
		c := *t
		snap.Transactions = append(snap.Transactions, &c)
	}
	for _, fd := range s.fixedDeposits {
		c := *fd
		snap.FixedDeposits = append(snap.FixedDeposits, &c)
	}
	for _, cd := range s.cards {
		c := *cd
		snap.Cards = append(snap.Cards, &c)
	}
	for _, n := range s.notifications {
		c := *n
		snap.Notifications = append(snap.Notifications, &c)
	}
	for _, e := range s.loginHistory {
		c := *e
		snap.LoginHistory = append(snap.LoginHistory, &c)
	}
	for _, rt := range s.recurringTransfers {
		c := *rt
		snap.RecurringTransfers = append(snap.RecurringTransfers, &c)
	}
	return snap
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		return fmt.Errorf("%w: user ID is required", domain.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *u
	s.users = append(s.users, &c)
	return nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
}

func (s *Store) UserByAccountNumber(ctx context.Context, accountNumber string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.AccountNumber == accountNumber {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("account number %s: %w", accountNumber, domain.ErrNotFound)
}

func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		c := *u
		out = append(out, &c)
	}
	return out, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.users {
		if existing.ID == u.ID {
			c := *u
			s.users[i] = &c
			return nil
		}
	}
	return fmt.Errorf("user %s: %w", u.ID, domain.ErrNotFound)
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
}

// Accounts

func (s *Store) CreateAccount(ctx context.Context, a *domain.Account) error {
	if a.ID == "" {
		return fmt.Errorf("%w: account ID is required", domain.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *a
	s.accounts = append(s.accounts, &c)
	return nil
}

func (s *Store) AccountByID(ctx context.Context, id string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.ID == id {
			c := *a
			return &c, nil
		}
	}
	return nil, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
}

func (s *Store) ListAccountsByUser(ctx context.Context, userID string) ([]*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Account
	for _, a := range s.accounts {
		if a.UserID == userID {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		c := *a
		out = append(out, &c)
	}
	return out, nil
}

func (s *Store) UpdateAccount(ctx context.Context, a *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.accounts {
		if existing.ID == a.ID {
			c := *a
			s.accounts[i] = &c
			return nil
		}
	}
	return fmt.Errorf("account %s: %w", a.ID, domain.ErrNotFound)
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.accounts {
		if a.ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
}

// Transactions (append-only)

func (s *Store) AppendTransaction(ctx context.Context, t *domain.Transaction) error {
	if t.ID == "" {
		return fmt.Errorf("%w: transaction ID is required", domain.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *t
	s.transactions = append(s.transactions, &c)
	return nil
}

func (s *Store) ListTransactionsByAccount(ctx context.Context, accountID string) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Transaction
	for _, t := range s.transactions {
		if t.AccountID == accountID {
			c := *t
			out = append(out, &c)
		}
	}
	sortTransactionsDesc(out)
	return out, nil
}

func (s *Store) ListTransactionsByUser(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Transaction
	for _, t := range s.transactions {
		if t.UserID == userID {
			c := *t
			out = append(out, &c)
		}
	}
	sortTransactionsDesc(out)
	return out, nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		c := *t
		out = append(out, &c)
	}
	sortTransactionsDesc(out)
	return out, nil
}

func sortTransactionsDesc(ts []*domain.Transaction) {
	sort.SliceStable(ts, func(i, j int) bool { return ts[i].Date.After(ts[j].Date) })
}

// Fixed deposits

func (s *Store) CreateFixedDeposit(ctx context.Context, fd *domain.FixedDeposit) error {
	if fd.ID == "" {
		return fmt.Errorf("%w: fixed deposit ID is required", domain.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *fd
	s.fixedDeposits = append(s.fixedDeposits, &c)
	return nil
}

func (s *Store) FixedDepositByID(ctx context.Context, id string) (*domain.FixedDeposit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, fd := range s.fixedDeposits {
		if fd.ID == id {
			c := *fd
			return &c, nil
		}
	}
	return nil, fmt.Errorf("fixed deposit %s: %w", id, domain.ErrNotFound)
}

func (s *Store) ListFixedDepositsByUser(ctx context.Context, userID string) ([]*domain.FixedDeposit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.FixedDeposit
	for _, fd := range s.fixedDeposits {
		if fd.UserID == userID {
			c := *fd
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *Store) ListFixedDeposits(ctx context.Context) ([]*domain.FixedDeposit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.FixedDeposit, 0, len(s.fixedDeposits))
	for _, fd := range s.fixedDeposits {
		c := *fd
		out = append(out, &c)
	}
	return out, nil
}

func (s *Store) UpdateFixedDeposit(ctx context.Context, fd *domain.FixedDeposit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.fixedDeposits {
		if existing.ID == fd.ID {
			c := *fd
			s.fixedDeposits[i] = &c
			return nil
		}
	}
	return fmt.Errorf("fixed deposit %s: %w", fd.ID, domain.ErrNotFound)
}

// Cards

func (s *Store) CreateCard(ctx context.Context, c *domain.Card) error {
	if c.ID == "" {
		return fmt.Errorf("%w: card ID is required", domain.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.cards = append(s.cards, &cp)
	return nil
}

func (s *Store) CardByID(ctx context.Context, id string) (*domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.cards {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("card %s: %w", id, domain.ErrNotFound)
}

func (s *Store) ListCardsByUser(ctx context.Context, userID string) ([]*domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Card
	for _, c := range s.cards {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) UpdateCard(ctx context.Context, c *domain.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.cards {
		if existing.ID == c.ID {
			cp := *c
			s.cards[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("card %s: %w", c.ID, domain.ErrNotFound)
}

// Notifications

func (s *Store) AppendNotification(ctx context.Context, n *domain.Notification) error {
	if n.ID == "" {
		return fmt.Errorf("%w: notification ID is required", domain.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *n
	s.notifications = append(s.notifications, &c)
	return nil
}

func (s *Store) ListNotificationsByUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			c := *n
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
}

// Login history (append-only)

func (s *Store) AppendLoginHistory(ctx context.Context, e *domain.LoginHistoryEntry) error {
	if e.ID == "" {
		return fmt.Errorf("%w: login history ID is required", domain.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *e
	s.loginHistory = append(s.loginHistory, &c)
	return nil
}

func (s *Store) ListLoginHistoryByUser(ctx context.Context, userID string) ([]*domain.LoginHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.LoginHistoryEntry
	for _, e := range s.loginHistory {
		if e.UserID == userID {
			c := *e
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// Recurring transfers

func (s *Store) CreateRecurringTransfer(ctx context.Context, rt *domain.RecurringTransfer) error {
	if rt.ID == "" {
		return fmt.Errorf("%w: recurring transfer ID is required", domain.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *rt
	s.recurringTransfers = append(s.recurringTransfers, &c)
	return nil
}

func (s *Store) RecurringTransferByID(ctx context.Context, id string) (*domain.RecurringTransfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rt := range s.recurringTransfers {
		if rt.ID == id {
			c := *rt
			return &c, nil
		}
	}
	return nil, fmt.Errorf("recurring transfer %s: %w", id, domain.ErrNotFound)
}

func (s *Store) ListRecurringTransfersByUser(ctx context.Context, userID string) ([]*domain.RecurringTransfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.RecurringTransfer
	for _, rt := range s.recurringTransfers {
		if rt.UserID == userID {
			c := *rt
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *Store) ListRecurringTransfers(ctx context.Context) ([]*domain.RecurringTransfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.RecurringTransfer, 0, len(s.recurringTransfers))
	for _, rt := range s.recurringTransfers {
		c := *rt
		out = append(out, &c)
	}
	return out, nil
}

func (s *Store) UpdateRecurringTransfer(ctx context.Context, rt *domain.RecurringTransfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.recurringTransfers {
		if existing.ID == rt.ID {
			c := *rt
			s.recurringTransfers[i] = &c
			return nil
		}
	}
	return fmt.Errorf("recurring transfer %s: %w", rt.ID, domain.ErrNotFound)
}

// Admin

func (s *Store) AdminCredentials(ctx context.Context) (*domain.AdminCredentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.admin
	return &c, nil
}

func (s *Store) SetAdminCredentials(ctx context.Context, c *domain.AdminCredentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admin = *c
	return nil
}

// Ensure Store implements the full repository surface.
var _ storage.Store = (*Store)(nil)
