// Package jsonfile provides a storage.Store persisted as one JSON file per
// collection under a data directory. It keeps the working set in an embedded
// memory store and rewrites the files after every mutation, the same
// collection-at-a-time discipline the bank's storage has always used.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/securebank/corebank/internal/domain"
	"github.com/securebank/corebank/internal/storage"
	"github.com/securebank/corebank/internal/storage/memory"

	"context"
)

// Collection file names. Kept stable so existing data directories load.
const (
	usersFile              = "bank_users.json"
	accountsFile           = "bank_accounts.json"
	transactionsFile       = "bank_transactions.json"
	fixedDepositsFile      = "bank_fixed_deposits.json"
	cardsFile              = "bank_cards.json"
	notificationsFile      = "bank_notifications.json"
	loginHistoryFile       = "bank_login_history.json"
	recurringTransfersFile = "bank_recurring_transfers.json"
	adminFile              = "bank_admin.json"
)

// Store is a file-backed storage.Store.
type Store struct {
	*memory.Store

	dir string
	mu  sync.Mutex // serializes flushes
}

// Open loads (or initializes) a store rooted at dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	var snap storage.Snapshot
	if err := readFile(dir, usersFile, &snap.Users); err != nil {
		return nil, err
	}
	if err := readFile(dir, accountsFile, &snap.Accounts); err != nil {
		return nil, err
	}
	if err := readFile(dir, transactionsFile, &snap.Transactions); err != nil {
		return nil, err
	}
	if err := readFile(dir, fixedDepositsFile, &snap.FixedDeposits); err != nil {
		return nil, err
	}
	if err := readFile(dir, cardsFile, &snap.Cards); err != nil {
		return nil, err
	}
	if err := readFile(dir, notificationsFile, &snap.Notifications); err != nil {
		return nil, err
	}
	if err := readFile(dir, loginHistoryFile, &snap.LoginHistory); err != nil {
		return nil, err
	}
	if err := readFile(dir, recurringTransfersFile, &snap.RecurringTransfers); err != nil {
		return nil, err
	}
	if err := readFile(dir, adminFile, &snap.Admin); err != nil {
		return nil, err
	}

	s := &Store{Store: memory.NewFromSnapshot(snap), dir: dir}
	if snap.Admin == nil {
		// First open: write the seeded default so the admin file exists.
		if err := s.flush(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func readFile(dir, name string, v any) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// flush rewrites every collection file from the current snapshot.
func (s *Store) flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.Store.Snapshot()
	files := []struct {
		name string
		v    any
	}{
		{usersFile, snap.Users},
		{accountsFile, snap.Accounts},
		{transactionsFile, snap.Transactions},
		{fixedDepositsFile, snap.FixedDeposits},
		{cardsFile, snap.Cards},
		{notificationsFile, snap.Notifications},
		{loginHistoryFile, snap.LoginHistory},
		{recurringTransfersFile, snap.RecurringTransfers},
		{adminFile, snap.Admin},
	}
	for _, f := range files {
		if err := writeFile(s.dir, f.name, f.v); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(dir, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	tmp := filepath.Join(dir, name+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func (s *Store) persist(err error) error {
	if err != nil {
		return err
	}
	return s.flush()
}

// Mutating methods delegate to the memory store and then flush to disk.

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	return s.persist(s.Store.CreateUser(ctx, u))
}

func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	return s.persist(s.Store.UpdateUser(ctx, u))
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.persist(s.Store.DeleteUser(ctx, id))
}

func (s *Store) CreateAccount(ctx context.Context, a *domain.Account) error {
	return s.persist(s.Store.CreateAccount(ctx, a))
}

func (s *Store) UpdateAccount(ctx context.Context, a *domain.Account) error {
	return s.persist(s.Store.UpdateAccount(ctx, a))
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	return s.persist(s.Store.DeleteAccount(ctx, id))
}

func (s *Store) AppendTransaction(ctx context.Context, t *domain.Transaction) error {
	return s.persist(s.Store.AppendTransaction(ctx, t))
}

func (s *Store) CreateFixedDeposit(ctx context.Context, fd *domain.FixedDeposit) error {
	return s.persist(s.Store.CreateFixedDeposit(ctx, fd))
}

func (s *Store) UpdateFixedDeposit(ctx context.Context, fd *domain.FixedDeposit) error {
	return s.persist(s.Store.UpdateFixedDeposit(ctx, fd))
}

func (s *Store) CreateCard(ctx context.Context, c *domain.Card) error {
	return s.persist(s.Store.CreateCard(ctx, c))
}

func (s *Store) UpdateCard(ctx context.Context, c *domain.Card) error {
	return s.persist(s.Store.UpdateCard(ctx, c))
}

func (s *Store) AppendNotification(ctx context.Context, n *domain.Notification) error {
	return s.persist(s.Store.AppendNotification(ctx, n))
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	return s.persist(s.Store.MarkNotificationRead(ctx, id))
}

func (s *Store) AppendLoginHistory(ctx context.Context, e *domain.LoginHistoryEntry) error {
	return s.persist(s.Store.AppendLoginHistory(ctx, e))
}

func (s *Store) CreateRecurringTransfer(ctx context.Context, rt *domain.RecurringTransfer) error {
	return s.persist(s.Store.CreateRecurringTransfer(ctx, rt))
}

func (s *Store) UpdateRecurringTransfer(ctx context.Context, rt *domain.RecurringTransfer) error {
	return s.persist(s.Store.UpdateRecurringTransfer(ctx, rt))
}

func (s *Store) SetAdminCredentials(ctx context.Context, c *domain.AdminCredentials) error {
	return s.persist(s.Store.SetAdminCredentials(ctx, c))
}

var _ storage.Store = (*Store)(nil)
