// Package recurring manages standing transfer instructions and the
// scheduler that executes them when due. An instruction is created active,
// can be toggled between active and paused, and is otherwise immutable.
package recurring

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/securebank/corebank/internal/domain"
)

// Store is the slice of the repository the service needs.
type Store interface {
	CreateRecurringTransfer(ctx context.Context, rt *domain.RecurringTransfer) error
	RecurringTransferByID(ctx context.Context, id string) (*domain.RecurringTransfer, error)
	ListRecurringTransfersByUser(ctx context.Context, userID string) ([]*domain.RecurringTransfer, error)
	ListRecurringTransfers(ctx context.Context) ([]*domain.RecurringTransfer, error)
	UpdateRecurringTransfer(ctx context.Context, rt *domain.RecurringTransfer) error
}

// Service manages the instruction state machine.
type Service struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewService creates a recurring-transfer service.
func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

// CreateRequest is a new standing instruction.
type CreateRequest struct {
	UserID      string           `json:"userId"`
	FromAccount string           `json:"fromAccount"`
	ToAccount   string           `json:"toAccount"`
	Amount      decimal.Decimal  `json:"amount"`
	Frequency   domain.Frequency `json:"frequency"`
	Description string           `json:"description"`
}

// Create registers an instruction, active and due immediately.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.RecurringTransfer, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than 0", domain.ErrValidation)
	}
	if req.FromAccount == "" || req.ToAccount == "" {
		return nil, fmt.Errorf("%w: both accounts are required", domain.ErrValidation)
	}
	if !req.Frequency.Valid() {
		return nil, fmt.Errorf("%w: unknown frequency %q", domain.ErrValidation, req.Frequency)
	}
	if req.Description == "" {
		req.Description = "Recurring Transfer"
	}

	now := s.now()
	rt := &domain.RecurringTransfer{
		ID:            uuid.NewString(),
		UserID:        req.UserID,
		FromAccount:   req.FromAccount,
		ToAccount:     req.ToAccount,
		Amount:        req.Amount,
		Frequency:     req.Frequency,
		Description:   req.Description,
		Status:        domain.TransferActive,
		CreatedAt:     now,
		NextExecution: now,
	}
	if err := s.store.CreateRecurringTransfer(ctx, rt); err != nil {
		return nil, fmt.Errorf("create recurring transfer: %w", err)
	}

	s.log.Info().
		Str("user_id", req.UserID).
		Str("from_account", req.FromAccount).
		Str("to_account", req.ToAccount).
		Str("frequency", string(req.Frequency)).
		Msg("Recurring transfer registered")
	return rt, nil
}

// Toggle flips an instruction between active and paused.
func (s *Service) Toggle(ctx context.Context, id string) (*domain.RecurringTransfer, error) {
	rt, err := s.store.RecurringTransferByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rt.Status == domain.TransferActive {
		rt.Status = domain.TransferPaused
	} else {
		rt.Status = domain.TransferActive
	}
	if err := s.store.UpdateRecurringTransfer(ctx, rt); err != nil {
		return nil, fmt.Errorf("update recurring transfer: %w", err)
	}
	s.log.Info().Str("transfer_id", id).Str("status", string(rt.Status)).Msg("Recurring transfer toggled")
	return rt, nil
}

// ListByUser returns a user's standing instructions.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*domain.RecurringTransfer, error) {
	return s.store.ListRecurringTransfersByUser(ctx, userID)
}
