// Package cards issues payment cards and handles the freeze toggle, the
// only mutation a card ever sees.
package cards

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/securebank/corebank/internal/domain"
)

// Store is the slice of the repository the service needs.
type Store interface {
	CreateCard(ctx context.Context, c *domain.Card) error
	CardByID(ctx context.Context, id string) (*domain.Card, error)
	ListCardsByUser(ctx context.Context, userID string) ([]*domain.Card, error)
	UpdateCard(ctx context.Context, c *domain.Card) error
}

// Service issues and manages cards.
type Service struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time
}

// New creates a card service.
func New(store Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

// Issue creates a debit card for an account, valid five years.
func (s *Service) Issue(ctx context.Context, userID, accountID string) (*domain.Card, error) {
	now := s.now()
	card := &domain.Card{
		ID:         uuid.NewString(),
		UserID:     userID,
		AccountID:  accountID,
		CardNumber: GenerateCardNumber(),
		CVV:        generateCVV(),
		ExpiryDate: now.AddDate(5, 0, 0),
		Frozen:     false,
		Type:       "debit",
		CreatedAt:  now,
	}
	if err := s.store.CreateCard(ctx, card); err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}
	s.log.Info().Str("user_id", userID).Str("card_id", card.ID).Msg("Card issued")
	return card, nil
}

// ToggleFreeze flips a card's frozen flag and returns the updated card.
func (s *Service) ToggleFreeze(ctx context.Context, cardID string) (*domain.Card, error) {
	card, err := s.store.CardByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	card.Frozen = !card.Frozen
	if err := s.store.UpdateCard(ctx, card); err != nil {
		return nil, fmt.Errorf("update card: %w", err)
	}
	s.log.Info().Str("card_id", cardID).Bool("frozen", card.Frozen).Msg("Card freeze toggled")
	return card, nil
}

// ListByUser returns a user's cards.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*domain.Card, error) {
	return s.store.ListCardsByUser(ctx, userID)
}

// GenerateCardNumber returns a demo 16-digit card number: the "4532" prefix
// followed by 12 random digits. Not Luhn-valid, matching the established
// contract shape.
func GenerateCardNumber() string {
	return fmt.Sprintf("4532%012d", rand.Int63n(1_000_000_000_000))
}

// generateCVV returns a random 3-digit CVV.
func generateCVV() string {
	return fmt.Sprintf("%03d", rand.Intn(900)+100)
}
