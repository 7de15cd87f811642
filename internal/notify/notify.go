// Package notify turns engine outcomes into user notifications. The emitter
// is stateless: given the facts of an operation it decides which alerts to
// append. Existing notifications are never removed; only the read flag ever
// changes, through MarkRead.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/securebank/corebank/internal/calc"
	"github.com/securebank/corebank/internal/domain"
)

// Alert thresholds.
var (
	// LargeTransactionThreshold triggers a warning for any single operation
	// of this size or more.
	LargeTransactionThreshold = decimal.NewFromInt(50000)

	// LowBalanceThreshold triggers a warning when a balance ends up below it.
	LowBalanceThreshold = decimal.NewFromInt(1000)
)

// Store is the slice of the repository the emitter needs.
type Store interface {
	AppendNotification(ctx context.Context, n *domain.Notification) error
	MarkNotificationRead(ctx context.Context, id string) error
}

// Emitter appends notifications for ledger, fixed-deposit and auth events.
type Emitter struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time
}

// New creates an emitter over store.
func New(store Store, log zerolog.Logger) *Emitter {
	return &Emitter{store: store, log: log, now: time.Now}
}

// Event describes a completed balance-changing operation.
type Event struct {
	UserID      string
	AccountType domain.AccountType
	// Kind is the operation wording used in messages: "credit", "debit"
	// or "transfer".
	Kind    string
	Amount  decimal.Decimal
	Balance decimal.Decimal
}

// TransactionAlerts applies the threshold rules to ev. Both rules are
// evaluated independently and may fire together. Transfers raise only the
// large-transaction alert; the per-leg balance warning belongs to deposits
// and withdrawals.
func (e *Emitter) TransactionAlerts(ctx context.Context, ev Event) error {
	if ev.Amount.GreaterThanOrEqual(LargeTransactionThreshold) {
		var msg string
		if ev.Kind == "transfer" {
			msg = fmt.Sprintf("A transfer of %s was made from your %s account.", calc.FormatINR(ev.Amount), ev.AccountType)
		} else {
			msg = fmt.Sprintf("A %s of %s was made to your %s account.", ev.Kind, calc.FormatINR(ev.Amount), ev.AccountType)
		}
		if err := e.append(ctx, ev.UserID, "Large Transaction Alert", msg, domain.NotificationWarning); err != nil {
			return err
		}
	}

	if ev.Kind != "transfer" && ev.Balance.LessThan(LowBalanceThreshold) {
		msg := fmt.Sprintf("Your %s account balance is below %s.", ev.AccountType, calc.FormatINR(LowBalanceThreshold))
		if err := e.append(ctx, ev.UserID, "Low Balance Alert", msg, domain.NotificationWarning); err != nil {
			return err
		}
	}
	return nil
}

// Welcome greets a newly onboarded user.
func (e *Emitter) Welcome(ctx context.Context, userID string) error {
	return e.append(ctx, userID, "Welcome to SecureBank!",
		"Your account has been created successfully.", domain.NotificationInfo)
}

// FixedDepositCreated confirms a booked fixed deposit.
func (e *Emitter) FixedDepositCreated(ctx context.Context, userID string, amount decimal.Decimal) error {
	msg := fmt.Sprintf("Your FD of %s has been created successfully.", calc.FormatINR(amount))
	return e.append(ctx, userID, "Fixed Deposit Created", msg, domain.NotificationSuccess)
}

// AccountLocked warns a user locked out after repeated failed logins.
func (e *Emitter) AccountLocked(ctx context.Context, userID string) error {
	return e.append(ctx, userID, "Account Locked",
		"Your account has been locked due to multiple failed login attempts.", domain.NotificationWarning)
}

// MarkRead flips a notification's read flag.
func (e *Emitter) MarkRead(ctx context.Context, id string) error {
	return e.store.MarkNotificationRead(ctx, id)
}

func (e *Emitter) append(ctx context.Context, userID, title, message string, typ domain.NotificationType) error {
	n := &domain.Notification{
		ID:      uuid.NewString(),
		UserID:  userID,
		Title:   title,
		Message: message,
		Date:    e.now(),
		Read:    false,
		Type:    typ,
	}
	if err := e.store.AppendNotification(ctx, n); err != nil {
		return fmt.Errorf("append notification: %w", err)
	}
	e.log.Debug().Str("user_id", userID).Str("title", title).Msg("Notification emitted")
	return nil
}
