// Package game drives the shared mode state machine: normal scoreboard,
// jeopardy board with question selection, and family-feud rounds.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	apperrors "github.com/louisbranch/gameshow/internal/platform/errors"
	"github.com/louisbranch/gameshow/internal/platform/random"
	"github.com/louisbranch/gameshow/internal/scoreboard/domain"
	"github.com/louisbranch/gameshow/internal/scoreboard/storage"
)

// Service coordinates mode transitions and the boards behind them. All
// transitions go through the store's compare-and-set so two admin tabs cannot
// silently clobber each other.
type Service struct {
	store    storage.Store
	now      func() time.Time
	seedFunc func() int64
}

// Option configures a Service.
type Option func(*Service)

// WithNow overrides the clock.
func WithNow(now func() time.Time) Option {
	return Option(func(s *Service) { s.now = now })
}

// WithSeedFunc overrides random seed generation for round picks.
func WithSeedFunc(seedFunc func() int64) Option {
	return Option(func(s *Service) { s.seedFunc = seedFunc })
}

// New returns a game service backed by store.
func New(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		now:      time.Now,
		seedFunc: random.NewSeed,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StateView aggregates everything a client needs to render the current mode.
type StateView struct {
	Mode             domain.Mode
	Version          int64
	SelectedQuestion *storage.QuestionRecord
	ActiveRound      *storage.FeudRoundRecord
	RoundAnswers     []storage.FeudAnswerRecord
}

// State returns the current mode with its selection or active round resolved.
func (s *Service) State(ctx context.Context) (StateView, error) {
	state, err := s.store.GetGameState(ctx)
	if err != nil {
		return StateView{}, fmt.Errorf("get game state: %w", err)
	}
	view := StateView{Mode: state.Mode, Version: state.Version}

	if state.Mode == domain.ModeJeopardy && state.SelectedQuestionID != nil {
		question, err := s.store.GetQuestion(ctx, *state.SelectedQuestionID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return StateView{}, fmt.Errorf("get selected question: %w", err)
		}
		if err == nil {
			view.SelectedQuestion = &question
		}
	}

	if state.Mode == domain.ModeFamilyFeud {
		round, err := s.store.GetActiveFeudRound(ctx)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return StateView{}, fmt.Errorf("get active round: %w", err)
		}
		if err == nil {
			view.ActiveRound = &round
			answers, err := s.store.ListFeudAnswers(ctx, round.ID)
			if err != nil {
				return StateView{}, fmt.Errorf("list round answers: %w", err)
			}
			view.RoundAnswers = answers
		}
	}
	return view, nil
}

// SetMode transitions the shared state machine to target. Entering family feud
// activates a randomly picked round; leaving any mode for normal resets the
// boards and clears the buzz ledger.
func (s *Service) SetMode(ctx context.Context, target domain.Mode) error {
	if !target.Valid() {
		return apperrors.WithMetadata(apperrors.CodeModeInvalid, "unknown game mode", map[string]string{
			"Mode": string(target),
		})
	}
	state, err := s.store.GetGameState(ctx)
	if err != nil {
		return fmt.Errorf("get game state: %w", err)
	}
	now := s.now().UTC()

	switch target {
	case domain.ModeNormal:
		if err := s.store.SetModeNormal(ctx, state.Version, now); err != nil {
			return fmt.Errorf("set mode normal: %w", err)
		}
	case domain.ModeJeopardy:
		if err := s.store.SetModeJeopardy(ctx, state.Version, now); err != nil {
			return fmt.Errorf("set mode jeopardy: %w", err)
		}
	case domain.ModeFamilyFeud:
		round, err := s.pickRound(ctx)
		if err != nil {
			return err
		}
		if err := s.store.SetModeFamilyFeud(ctx, state.Version, round.ID, now); err != nil {
			return fmt.Errorf("set mode family feud: %w", err)
		}
	}
	return nil
}

// EndMode returns to the normal scoreboard, resetting whatever mode was
// running.
func (s *Service) EndMode(ctx context.Context) error {
	state, err := s.store.GetGameState(ctx)
	if err != nil {
		return fmt.Errorf("get game state: %w", err)
	}
	if err := s.store.SetModeNormal(ctx, state.Version, s.now().UTC()); err != nil {
		return fmt.Errorf("end mode: %w", err)
	}
	return nil
}

// SelectQuestion puts a jeopardy question in play: the buzz ledger empties,
// the question comes off the board, and every client sees it at once.
func (s *Service) SelectQuestion(ctx context.Context, questionID string) error {
	state, err := s.requireMode(ctx, domain.ModeJeopardy, "select question")
	if err != nil {
		return err
	}
	if err := s.store.SelectQuestion(ctx, state.Version, questionID, s.now().UTC()); err != nil {
		return fmt.Errorf("select question: %w", err)
	}
	return nil
}

// ClearQuestion dismisses the current question and returns to the board. The
// buzz ledger keeps its entries until the next selection.
func (s *Service) ClearQuestion(ctx context.Context) error {
	state, err := s.requireMode(ctx, domain.ModeJeopardy, "clear question")
	if err != nil {
		return err
	}
	if err := s.store.ClearQuestion(ctx, state.Version, s.now().UTC()); err != nil {
		return fmt.Errorf("clear question: %w", err)
	}
	return nil
}

// NextFeudRound advances to a randomly picked round that has not been played.
func (s *Service) NextFeudRound(ctx context.Context) (storage.FeudRoundRecord, error) {
	if _, err := s.requireMode(ctx, domain.ModeFamilyFeud, "advance round"); err != nil {
		return storage.FeudRoundRecord{}, err
	}
	round, err := s.pickRound(ctx)
	if err != nil {
		return storage.FeudRoundRecord{}, err
	}
	if err := s.store.ActivateFeudRound(ctx, round.ID, s.now().UTC()); err != nil {
		return storage.FeudRoundRecord{}, fmt.Errorf("activate round: %w", err)
	}
	round.Active = true
	round.Strikes = 0
	return round, nil
}

// RevealAnswer flips one of the active round's answers face up.
func (s *Service) RevealAnswer(ctx context.Context, answerID string) error {
	if _, err := s.requireMode(ctx, domain.ModeFamilyFeud, "reveal answer"); err != nil {
		return err
	}
	round, err := s.activeRound(ctx)
	if err != nil {
		return err
	}
	answers, err := s.store.ListFeudAnswers(ctx, round.ID)
	if err != nil {
		return fmt.Errorf("list round answers: %w", err)
	}
	for _, a := range answers {
		if a.ID == answerID {
			if err := s.store.RevealAnswer(ctx, answerID); err != nil {
				return fmt.Errorf("reveal answer: %w", err)
			}
			return nil
		}
	}
	return apperrors.New(apperrors.CodeNotFound, "answer does not belong to the active round")
}

// AddStrike increments the active round's strike counter and returns the new
// count.
func (s *Service) AddStrike(ctx context.Context) (int64, error) {
	if _, err := s.requireMode(ctx, domain.ModeFamilyFeud, "add strike"); err != nil {
		return 0, err
	}
	round, err := s.activeRound(ctx)
	if err != nil {
		return 0, err
	}
	strikes, err := s.store.AddStrike(ctx, round.ID)
	if err != nil {
		return 0, fmt.Errorf("add strike: %w", err)
	}
	return strikes, nil
}

// CloseFeudRound awards the revealed answers' total to teamID and ends the
// round. Unrevealed answers never count.
func (s *Service) CloseFeudRound(ctx context.Context, teamID string) (int64, error) {
	if _, err := s.requireMode(ctx, domain.ModeFamilyFeud, "close round"); err != nil {
		return 0, err
	}
	round, err := s.activeRound(ctx)
	if err != nil {
		return 0, err
	}
	if _, err := s.store.GetTeam(ctx, teamID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, apperrors.New(apperrors.CodeNotFound, "team not found")
		}
		return 0, fmt.Errorf("get team: %w", err)
	}
	total, err := s.store.CloseFeudRound(ctx, round.ID, teamID)
	if err != nil {
		return 0, fmt.Errorf("close round: %w", err)
	}
	return total, nil
}

// Board returns the jeopardy question catalog with used flags.
func (s *Service) Board(ctx context.Context) ([]storage.QuestionRecord, error) {
	questions, err := s.store.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// Buzzes returns the ledger for one question or round in arrival order.
func (s *Service) Buzzes(ctx context.Context, questionID string) ([]storage.BuzzRecord, error) {
	buzzes, err := s.store.ListBuzzes(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("list buzzes: %w", err)
	}
	return buzzes, nil
}

func (s *Service) requireMode(ctx context.Context, want domain.Mode, op string) (storage.GameStateRecord, error) {
	state, err := s.store.GetGameState(ctx)
	if err != nil {
		return storage.GameStateRecord{}, fmt.Errorf("get game state: %w", err)
	}
	if state.Mode != want {
		return storage.GameStateRecord{}, apperrors.WithMetadata(
			apperrors.CodeModeDisallowsOp,
			fmt.Sprintf("cannot %s in %s mode", op, state.Mode),
			map[string]string{"Mode": string(state.Mode)},
		)
	}
	return state, nil
}

func (s *Service) activeRound(ctx context.Context) (storage.FeudRoundRecord, error) {
	round, err := s.store.GetActiveFeudRound(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.FeudRoundRecord{}, apperrors.New(apperrors.CodeNoActiveRound, "no round is active")
	}
	if err != nil {
		return storage.FeudRoundRecord{}, fmt.Errorf("get active round: %w", err)
	}
	return round, nil
}

// pickRound chooses uniformly among rounds that are not currently active.
func (s *Service) pickRound(ctx context.Context) (storage.FeudRoundRecord, error) {
	rounds, err := s.store.ListFeudRounds(ctx, true)
	if err != nil {
		return storage.FeudRoundRecord{}, fmt.Errorf("list rounds: %w", err)
	}
	if len(rounds) == 0 {
		return storage.FeudRoundRecord{}, apperrors.New(apperrors.CodeRoundsExhausted, "no rounds left to play")
	}
	rng := rand.New(rand.NewSource(s.seedFunc()))
	return rounds[rng.Intn(len(rounds))], nil
}
