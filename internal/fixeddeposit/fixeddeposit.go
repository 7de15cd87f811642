// Package fixeddeposit books fixed-term simple-interest deposits against an
// account. The principal leaves the account through the ledger's debit
// primitive, so the usual balance checks and transaction records apply.
package fixeddeposit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/securebank/corebank/internal/calc"
	"github.com/securebank/corebank/internal/domain"
	"github.com/securebank/corebank/internal/ledger"
	"github.com/securebank/corebank/internal/notify"
)

// MinPrincipal is the smallest bookable deposit.
var MinPrincipal = decimal.NewFromInt(5000)

// AnnualRate is the fixed simple-interest rate, percent per annum.
var AnnualRate = decimal.NewFromFloat(6.5)

// Store is the slice of the repository the service needs.
type Store interface {
	AccountByID(ctx context.Context, id string) (*domain.Account, error)
	CreateFixedDeposit(ctx context.Context, fd *domain.FixedDeposit) error
	FixedDepositByID(ctx context.Context, id string) (*domain.FixedDeposit, error)
	ListFixedDepositsByUser(ctx context.Context, userID string) ([]*domain.FixedDeposit, error)
	UpdateFixedDeposit(ctx context.Context, fd *domain.FixedDeposit) error
}

// Debiter is the ledger primitive the service books principal through.
type Debiter interface {
	Debit(ctx context.Context, req ledger.DebitRequest) (*domain.Transaction, error)
}

// Service books and lists fixed deposits.
type Service struct {
	store  Store
	ledger Debiter
	alerts *notify.Emitter
	log    zerolog.Logger
	now    func() time.Time
}

// New creates a fixed-deposit service.
func New(store Store, ledger Debiter, alerts *notify.Emitter, log zerolog.Logger) *Service {
	return &Service{store: store, ledger: ledger, alerts: alerts, log: log, now: time.Now}
}

// Create books a deposit: it debits principal from the source account,
// computes the simple-interest maturity amount and date, and persists the
// deposit as active. Principal, rate and tenure are immutable afterwards.
func (s *Service) Create(ctx context.Context, userID, accountID string, principal decimal.Decimal, tenureMonths int) (*domain.FixedDeposit, error) {
	if principal.LessThan(MinPrincipal) {
		return nil, fmt.Errorf("%w: minimum fixed deposit amount is %s", domain.ErrValidation, calc.FormatINR(MinPrincipal))
	}
	if tenureMonths <= 0 {
		return nil, fmt.Errorf("%w: tenure must be at least 1 month", domain.ErrValidation)
	}

	acc, err := s.store.AccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc.UserID != userID {
		return nil, fmt.Errorf("%w: account %s does not belong to user", domain.ErrValidation, accountID)
	}

	_, err = s.ledger.Debit(ctx, ledger.DebitRequest{
		AccountID:   accountID,
		Amount:      principal,
		Description: fmt.Sprintf("Fixed Deposit created for %d months", tenureMonths),
		Category:    domain.CategoryFixedDeposit,
	})
	if err != nil {
		return nil, err
	}

	createdAt := s.now()
	fd := &domain.FixedDeposit{
		ID:             uuid.NewString(),
		UserID:         userID,
		AccountID:      accountID,
		Amount:         principal,
		InterestRate:   AnnualRate,
		TenureMonths:   tenureMonths,
		MaturityAmount: calc.FDMaturityAmount(principal, AnnualRate, tenureMonths),
		MaturityDate:   calc.MaturityDate(createdAt, tenureMonths),
		CreatedAt:      createdAt,
		Status:         domain.FixedDepositActive,
	}
	if err := s.store.CreateFixedDeposit(ctx, fd); err != nil {
		return nil, fmt.Errorf("create fixed deposit: %w", err)
	}

	s.log.Info().
		Str("user_id", userID).
		Str("account_id", accountID).
		Str("principal", principal.String()).
		Int("tenure_months", tenureMonths).
		Str("maturity_amount", fd.MaturityAmount.String()).
		Msg("Fixed deposit created")

	if s.alerts != nil {
		if err := s.alerts.FixedDepositCreated(ctx, userID, principal); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("Failed to emit fixed deposit notification")
		}
	}
	return fd, nil
}

// ListByUser returns a user's fixed deposits.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*domain.FixedDeposit, error) {
	return s.store.ListFixedDepositsByUser(ctx, userID)
}

// MarkMatured transitions a deposit from active to matured. The engine never
// does this on its own, even past the maturity date; it is an explicit
// administrative action.
func (s *Service) MarkMatured(ctx context.Context, id string) (*domain.FixedDeposit, error) {
	fd, err := s.store.FixedDepositByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fd.Status != domain.FixedDepositActive {
		return nil, fmt.Errorf("%w: fixed deposit is already %s", domain.ErrValidation, fd.Status)
	}
	fd.Status = domain.FixedDepositMatured
	if err := s.store.UpdateFixedDeposit(ctx, fd); err != nil {
		return nil, fmt.Errorf("update fixed deposit: %w", err)
	}
	return fd, nil
}
