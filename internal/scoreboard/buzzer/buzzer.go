// Package buzzer accepts buzzes into the append-only ledger, gated by the
// current game mode.
package buzzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/louisbranch/gameshow/internal/platform/errors"
	"github.com/louisbranch/gameshow/internal/scoreboard/domain"
	"github.com/louisbranch/gameshow/internal/scoreboard/storage"
)

// Service validates and records buzzes. Ordering authority is the ledger, not
// the client: the first persisted row wins regardless of render order.
type Service struct {
	store storage.Store
	now   func() time.Time
	newID func() string
}

// Option configures a Service.
type Option func(*Service)

// WithNow overrides the clock.
func WithNow(now func() time.Time) Option {
	return Option(func(s *Service) { s.now = now })
}

// WithIDGenerator overrides ledger row id generation.
func WithIDGenerator(newID func() string) Option {
	return Option(func(s *Service) { s.newID = newID })
}

// New returns a buzzer service backed by store.
func New(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Buzz records a buzz for the player against whatever is currently in play.
// Normal mode rejects every buzz; jeopardy requires a selected question; feud
// requires an active round. A second buzz from the same player for the same
// target fails with CodeBuzzDuplicate.
func (s *Service) Buzz(ctx context.Context, player storage.PlayerRecord) (storage.BuzzRecord, error) {
	targetID, err := s.currentTarget(ctx)
	if err != nil {
		return storage.BuzzRecord{}, err
	}
	team, err := s.store.GetTeam(ctx, player.TeamID)
	if err != nil {
		return storage.BuzzRecord{}, fmt.Errorf("get team: %w", err)
	}
	buzz, err := s.store.AppendBuzz(ctx, storage.BuzzRecord{
		ID:         s.newID(),
		QuestionID: targetID,
		PlayerID:   player.ID,
		PlayerName: player.Name,
		TeamName:   team.Name,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateBuzz) {
			return storage.BuzzRecord{}, err
		}
		return storage.BuzzRecord{}, fmt.Errorf("append buzz: %w", err)
	}
	return buzz, nil
}

// Order returns the ledger for whatever is currently in play, first buzz
// first. An empty ledger is an empty slice, not an error.
func (s *Service) Order(ctx context.Context) ([]storage.BuzzRecord, error) {
	targetID, err := s.currentTarget(ctx)
	if err != nil {
		return nil, err
	}
	buzzes, err := s.store.ListBuzzes(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("list buzzes: %w", err)
	}
	return buzzes, nil
}

// ResetCurrent clears the ledger for whatever is currently in play.
func (s *Service) ResetCurrent(ctx context.Context) error {
	targetID, err := s.currentTarget(ctx)
	if err != nil {
		return err
	}
	if err := s.store.DeleteBuzzes(ctx, targetID); err != nil {
		return fmt.Errorf("delete buzzes: %w", err)
	}
	return nil
}

// ResetAll clears the entire ledger.
func (s *Service) ResetAll(ctx context.Context) error {
	if err := s.store.DeleteAllBuzzes(ctx); err != nil {
		return fmt.Errorf("delete all buzzes: %w", err)
	}
	return nil
}

// currentTarget resolves the id the mode is accepting buzzes for.
func (s *Service) currentTarget(ctx context.Context) (string, error) {
	state, err := s.store.GetGameState(ctx)
	if err != nil {
		return "", fmt.Errorf("get game state: %w", err)
	}
	switch state.Mode {
	case domain.ModeJeopardy:
		if state.SelectedQuestionID == nil {
			return "", apperrors.New(apperrors.CodeBuzzNotAllowed, "no question is in play")
		}
		return *state.SelectedQuestionID, nil
	case domain.ModeFamilyFeud:
		round, err := s.store.GetActiveFeudRound(ctx)
		if errors.Is(err, storage.ErrNotFound) {
			return "", apperrors.New(apperrors.CodeBuzzNotAllowed, "no round is in play")
		}
		if err != nil {
			return "", fmt.Errorf("get active round: %w", err)
		}
		return round.ID, nil
	default:
		return "", apperrors.New(apperrors.CodeBuzzNotAllowed, "buzzing is disabled in normal mode")
	}
}
