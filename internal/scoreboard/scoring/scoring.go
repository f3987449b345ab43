// Package scoring applies admin point awards and serves the leaderboard.
package scoring

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/louisbranch/gameshow/internal/platform/errors"
	"github.com/louisbranch/gameshow/internal/scoreboard/storage"
)

// Service mutates scores through the store's atomic increments. Callers are
// responsible for admin gating; the service assumes the caller is allowed.
type Service struct {
	store storage.Store
}

// New returns a scoring service backed by store.
func New(store storage.Store) *Service {
	return &Service{store: store}
}

// AwardPoints applies delta to a player and mirrors it onto their team in one
// transaction. Negative deltas are deductions; zero is rejected.
func (s *Service) AwardPoints(ctx context.Context, playerID string, delta int64) (storage.PlayerRecord, error) {
	if delta == 0 {
		return storage.PlayerRecord{}, apperrors.New(apperrors.CodePointsDeltaMissing, "points delta is required")
	}
	player, err := s.store.AwardPlayerPoints(ctx, playerID, delta)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.PlayerRecord{}, apperrors.New(apperrors.CodeNotFound, "player not found")
	}
	if err != nil {
		return storage.PlayerRecord{}, fmt.Errorf("award points: %w", err)
	}
	return player, nil
}

// Leaderboard is the scoreboard read model: teams and players ranked by
// points.
type Leaderboard struct {
	Teams   []storage.TeamRecord
	Players []storage.PlayerRecord
}

// Board returns the current standings.
func (s *Service) Board(ctx context.Context) (Leaderboard, error) {
	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		return Leaderboard{}, fmt.Errorf("list teams: %w", err)
	}
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return Leaderboard{}, fmt.Errorf("list players: %w", err)
	}
	return Leaderboard{Teams: teams, Players: players}, nil
}
