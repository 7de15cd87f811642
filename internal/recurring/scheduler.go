package recurring

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/securebank/corebank/internal/domain"
	"github.com/securebank/corebank/internal/ledger"
)

// Transferer is the ledger operation the scheduler drives.
type Transferer interface {
	Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (*ledger.TransferRecord, error)
}

// Scheduler executes due active instructions on a fixed tick. Each due
// instruction runs at most once per tick and then has its next execution
// advanced past now, so a long pause does not replay missed periods.
type Scheduler struct {
	store    Store
	ledger   Transferer
	log      zerolog.Logger
	interval time.Duration
	now      func() time.Time
}

// NewScheduler creates a scheduler ticking at interval.
func NewScheduler(store Store, ledger Transferer, interval time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		store:    store,
		ledger:   ledger,
		log:      log,
		interval: interval,
		now:      time.Now,
	}
}

// Run ticks until ctx is canceled. It returns ctx.Err on shutdown.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.interval).Msg("Recurring transfer scheduler started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("Recurring transfer scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runDue(ctx)
		}
	}
}

// runDue executes every active instruction whose next execution has passed.
func (s *Scheduler) runDue(ctx context.Context) {
	transfers, err := s.store.ListRecurringTransfers(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list recurring transfers")
		return
	}

	now := s.now()
	for _, rt := range transfers {
		if rt.Status != domain.TransferActive || rt.NextExecution.After(now) {
			continue
		}
		s.execute(ctx, rt, now)
	}
}

func (s *Scheduler) execute(ctx context.Context, rt *domain.RecurringTransfer, now time.Time) {
	_, err := s.ledger.Transfer(ctx, rt.FromAccount, rt.ToAccount, rt.Amount, rt.Description)
	switch {
	case err == nil:
		s.log.Info().
			Str("transfer_id", rt.ID).
			Str("from_account", rt.FromAccount).
			Str("to_account", rt.ToAccount).
			Str("amount", rt.Amount.String()).
			Msg("Recurring transfer executed")
	case errors.Is(err, domain.ErrInsufficientFunds):
		// Skip this period; the instruction stays active and the next
		// execution still advances so the scheduler does not spin on it.
		s.log.Warn().Str("transfer_id", rt.ID).Msg("Recurring transfer skipped: insufficient funds")
	default:
		s.log.Error().Err(err).Str("transfer_id", rt.ID).Msg("Recurring transfer failed")
	}

	next := rt.NextExecution
	for !next.After(now) {
		next = rt.Frequency.Next(next)
	}
	rt.NextExecution = next
	if err := s.store.UpdateRecurringTransfer(ctx, rt); err != nil {
		s.log.Error().Err(err).Str("transfer_id", rt.ID).Msg("Failed to advance next execution")
	}
}
