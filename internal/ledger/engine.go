// Package ledger implements the account-state mutation engine: every
// balance change in the bank goes through it. Operations validate before
// writing, hold a per-account lock for their whole read-modify-write, and
// record each committed change as an immutable transaction, so a transfer
// always leaves exactly one debit and one credit of equal magnitude.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/securebank/corebank/internal/domain"
	"github.com/securebank/corebank/internal/notify"
)

// Store is the slice of the repository the engine needs.
type Store interface {
	AccountByID(ctx context.Context, id string) (*domain.Account, error)
	CreateAccount(ctx context.Context, a *domain.Account) error
	UpdateAccount(ctx context.Context, a *domain.Account) error
	AppendTransaction(ctx context.Context, t *domain.Transaction) error
	UserByID(ctx context.Context, id string) (*domain.User, error)
}

// Engine applies validated balance-changing operations.
type Engine struct {
	store  Store
	alerts *notify.Emitter
	locks  *accountLocks
	log    zerolog.Logger
	now    func() time.Time
}

// New creates a ledger engine. alerts may be nil to disable notifications.
func New(store Store, alerts *notify.Emitter, log zerolog.Logger) *Engine {
	return &Engine{
		store:  store,
		alerts: alerts,
		locks:  newAccountLocks(),
		log:    log,
		now:    time.Now,
	}
}

// TransferRecord pairs the two legs of a committed transfer.
type TransferRecord struct {
	Debit  *domain.Transaction `json:"debit"`
	Credit *domain.Transaction `json:"credit"`
}

// DebitRequest is a withdrawal with an explicit transaction category, used
// by callers that book debits under their own category (fixed deposits).
type DebitRequest struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
	Category    string
}

// Deposit credits amount to an account and appends the credit transaction.
func (e *Engine) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: deposit amount must be greater than 0", domain.ErrValidation)
	}

	unlock := e.locks.lock(accountID)
	defer unlock()

	acc, err := e.store.AccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	acc.Balance = acc.Balance.Add(amount)
	if err := e.store.UpdateAccount(ctx, acc); err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}

	txn := e.newTransaction(acc, domain.TransactionCredit, amount, description, domain.CategoryDeposit)
	if err := e.store.AppendTransaction(ctx, txn); err != nil {
		// Put the balance back so a deposit without a ledger record
		// never survives.
		acc.Balance = acc.Balance.Sub(amount)
		if rbErr := e.store.UpdateAccount(ctx, acc); rbErr != nil {
			e.log.Error().Err(rbErr).Str("account_id", accountID).Msg("Deposit rollback failed")
		}
		return nil, fmt.Errorf("append transaction: %w", err)
	}

	e.log.Info().
		Str("account_id", accountID).
		Str("amount", amount.String()).
		Str("balance", acc.Balance.String()).
		Msg("Deposit committed")

	e.emitAlerts(ctx, acc, string(domain.TransactionCredit), amount)
	return txn, nil
}

// Withdraw debits amount from an account and appends the debit transaction.
func (e *Engine) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	return e.Debit(ctx, DebitRequest{
		AccountID:   accountID,
		Amount:      amount,
		Description: description,
		Category:    domain.CategoryWithdrawal,
	})
}

// Debit is the withdrawal primitive. It fails without touching state when
// the amount is not positive or exceeds the balance.
func (e *Engine) Debit(ctx context.Context, req DebitRequest) (*domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: debit amount must be greater than 0", domain.ErrValidation)
	}

	unlock := e.locks.lock(req.AccountID)
	defer unlock()

	acc, err := e.store.AccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if acc.Balance.LessThan(req.Amount) {
		return nil, fmt.Errorf("%w: balance %s is less than %s", domain.ErrInsufficientFunds, acc.Balance, req.Amount)
	}

	acc.Balance = acc.Balance.Sub(req.Amount)
	if err := e.store.UpdateAccount(ctx, acc); err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}

	txn := e.newTransaction(acc, domain.TransactionDebit, req.Amount.Neg(), req.Description, req.Category)
	if err := e.store.AppendTransaction(ctx, txn); err != nil {
		acc.Balance = acc.Balance.Add(req.Amount)
		if rbErr := e.store.UpdateAccount(ctx, acc); rbErr != nil {
			e.log.Error().Err(rbErr).Str("account_id", req.AccountID).Msg("Debit rollback failed")
		}
		return nil, fmt.Errorf("append transaction: %w", err)
	}

	e.log.Info().
		Str("account_id", req.AccountID).
		Str("amount", req.Amount.String()).
		Str("balance", acc.Balance.String()).
		Str("category", req.Category).
		Msg("Debit committed")

	e.emitAlerts(ctx, acc, string(domain.TransactionDebit), req.Amount)
	return txn, nil
}

// Transfer atomically moves amount from one account to another, appending a
// debit to the source and a credit to the destination with the same
// timestamp. When description is empty each leg references the counterpart
// account type. The sum of the two balances is unchanged.
func (e *Engine) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (*TransferRecord, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: transfer amount must be greater than 0", domain.ErrValidation)
	}

	unlock := e.locks.lock(fromID, toID)
	defer unlock()

	from, err := e.store.AccountByID(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := e.store.AccountByID(ctx, toID)
	if err != nil {
		return nil, err
	}
	if from.Balance.LessThan(amount) {
		return nil, fmt.Errorf("%w: balance %s is less than %s", domain.ErrInsufficientFunds, from.Balance, amount)
	}

	// A self-transfer is a degenerate no-op on the balance but still
	// produces both legs.
	if fromID != toID {
		from.Balance = from.Balance.Sub(amount)
		if err := e.store.UpdateAccount(ctx, from); err != nil {
			return nil, fmt.Errorf("update source balance: %w", err)
		}

		to.Balance = to.Balance.Add(amount)
		if err := e.store.UpdateAccount(ctx, to); err != nil {
			// Put the source back so a failed transfer changes nothing.
			from.Balance = from.Balance.Add(amount)
			if rbErr := e.store.UpdateAccount(ctx, from); rbErr != nil {
				e.log.Error().Err(rbErr).Str("account_id", fromID).Msg("Transfer rollback failed")
			}
			return nil, fmt.Errorf("update destination balance: %w", err)
		}
	}

	// Undoes the balance writes above, used when either leg fails to
	// append so a failed transfer changes nothing.
	restoreBalances := func() {
		if fromID == toID {
			return
		}
		from.Balance = from.Balance.Add(amount)
		if rbErr := e.store.UpdateAccount(ctx, from); rbErr != nil {
			e.log.Error().Err(rbErr).Str("account_id", fromID).Msg("Transfer rollback failed")
		}
		to.Balance = to.Balance.Sub(amount)
		if rbErr := e.store.UpdateAccount(ctx, to); rbErr != nil {
			e.log.Error().Err(rbErr).Str("account_id", toID).Msg("Transfer rollback failed")
		}
	}

	debitDesc := description
	creditDesc := description
	if description == "" {
		debitDesc = fmt.Sprintf("Transfer to %s account", to.Type)
		creditDesc = fmt.Sprintf("Transfer from %s account", from.Type)
	}

	now := e.now()
	debit := e.newTransaction(from, domain.TransactionDebit, amount.Neg(), debitDesc, domain.CategoryTransfer)
	debit.Date = now
	credit := e.newTransaction(to, domain.TransactionCredit, amount, creditDesc, domain.CategoryTransfer)
	credit.Date = now

	if err := e.store.AppendTransaction(ctx, debit); err != nil {
		restoreBalances()
		return nil, fmt.Errorf("append debit transaction: %w", err)
	}
	if err := e.store.AppendTransaction(ctx, credit); err != nil {
		restoreBalances()
		return nil, fmt.Errorf("append credit transaction: %w", err)
	}

	e.log.Info().
		Str("from_account_id", fromID).
		Str("to_account_id", toID).
		Str("amount", amount.String()).
		Msg("Transfer committed")

	e.emitAlerts(ctx, from, "transfer", amount)
	return &TransferRecord{Debit: debit, Credit: credit}, nil
}

// OpenAccount creates an additional zero-balance account for an existing
// user, reusing the user's account number. Funding only happens at
// onboarding, not here.
func (e *Engine) OpenAccount(ctx context.Context, userID string, accountType domain.AccountType) (*domain.Account, error) {
	if !accountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %q", domain.ErrValidation, accountType)
	}

	user, err := e.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	acc := &domain.Account{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		AccountNumber: user.AccountNumber,
		Type:          accountType,
		Balance:       decimal.Zero,
		Status:        domain.AccountStatusActive,
		CreatedAt:     e.now(),
	}
	if err := e.store.CreateAccount(ctx, acc); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	e.log.Info().
		Str("user_id", userID).
		Str("account_id", acc.ID).
		Str("type", string(accountType)).
		Msg("Account opened")
	return acc, nil
}

func (e *Engine) newTransaction(acc *domain.Account, typ domain.TransactionType, amount decimal.Decimal, description, category string) *domain.Transaction {
	return &domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      acc.UserID,
		AccountID:   acc.ID,
		Type:        typ,
		Amount:      amount,
		Description: description,
		Date:        e.now(),
		Category:    category,
	}
}

// emitAlerts runs the threshold rules. Alert failures are logged, not
// returned: the ledger write has already committed.
func (e *Engine) emitAlerts(ctx context.Context, acc *domain.Account, kind string, amount decimal.Decimal) {
	if e.alerts == nil {
		return
	}
	err := e.alerts.TransactionAlerts(ctx, notify.Event{
		UserID:      acc.UserID,
		AccountType: acc.Type,
		Kind:        kind,
		Amount:      amount,
		Balance:     acc.Balance,
	})
	if err != nil {
		e.log.Warn().Err(err).Str("account_id", acc.ID).Msg("Failed to emit transaction alerts")
	}
}
