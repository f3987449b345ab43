// Package quest runs the side-quest engine: personal secret missions assigned
// at random, switchable on a cooldown, and worth points on completion.
package quest

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/louisbranch/gameshow/internal/platform/errors"
	"github.com/louisbranch/gameshow/internal/platform/random"
	"github.com/louisbranch/gameshow/internal/scoreboard/domain"
	"github.com/louisbranch/gameshow/internal/scoreboard/storage"
)

// Service assigns, switches, and completes side quests.
type Service struct {
	store    storage.Store
	now      func() time.Time
	seedFunc func() int64
	newID    func() string
}

// Option configures a Service.
type Option func(*Service)

// WithNow overrides the clock.
func WithNow(now func() time.Time) Option {
	return Option(func(s *Service) { s.now = now })
}

// WithSeedFunc overrides random seed generation for quest picks.
func WithSeedFunc(seedFunc func() int64) Option {
	return Option(func(s *Service) { s.seedFunc = seedFunc })
}

// WithIDGenerator overrides assignment id generation.
func WithIDGenerator(newID func() string) Option {
	return Option(func(s *Service) { s.newID = newID })
}

// New returns a quest service backed by store.
func New(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		now:      time.Now,
		seedFunc: random.NewSeed,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AssignmentView pairs an assignment with its catalog quest.
type AssignmentView struct {
	Assignment storage.QuestAssignmentRecord
	Quest      storage.SideQuestRecord
}

// GetOrAssign returns the player's active quest, assigning a fresh one when
// none is active. Candidates exclude quests the player ever had and quests
// currently held by anyone else, so two players never chase the same mission.
func (s *Service) GetOrAssign(ctx context.Context, playerID string) (AssignmentView, error) {
	active, err := s.store.GetActiveAssignment(ctx, playerID)
	if err == nil {
		return s.view(ctx, active)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return AssignmentView{}, fmt.Errorf("get active assignment: %w", err)
	}

	quest, err := s.pickQuest(ctx, playerID)
	if err != nil {
		return AssignmentView{}, err
	}
	assignment := storage.QuestAssignmentRecord{
		ID:          s.newID(),
		PlayerID:    playerID,
		SideQuestID: quest.ID,
		AssignedAt:  s.now().UTC(),
		Active:      true,
	}
	if err := s.store.CreateAssignment(ctx, assignment); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			// A concurrent request won the assignment; hand back theirs.
			return s.GetOrAssign(ctx, playerID)
		}
		return AssignmentView{}, fmt.Errorf("create assignment: %w", err)
	}
	return AssignmentView{Assignment: assignment, Quest: quest}, nil
}

// Switch forfeits the active quest and draws a replacement. The cooldown gives
// each quest a fair shot: switching is refused until ten minutes pass. When no
// replacement exists the old quest is still forfeited.
func (s *Service) Switch(ctx context.Context, playerID string) (AssignmentView, error) {
	active, err := s.store.GetActiveAssignment(ctx, playerID)
	if errors.Is(err, storage.ErrNotFound) {
		return AssignmentView{}, apperrors.New(apperrors.CodeQuestNoneActive, "no quest to switch")
	}
	if err != nil {
		return AssignmentView{}, fmt.Errorf("get active assignment: %w", err)
	}

	now := s.now().UTC()
	if remaining := domain.CooldownRemaining(active.AssignedAt, now); remaining > 0 {
		return AssignmentView{}, apperrors.WithMetadata(
			apperrors.CodeQuestCooldown,
			fmt.Sprintf("wait %d more minutes before switching", remaining),
			map[string]string{"MinutesRemaining": strconv.Itoa(remaining)},
		)
	}

	quest, err := s.pickQuest(ctx, playerID)
	if apperrors.HasCode(err, apperrors.CodeQuestNoneAvailable) {
		if derr := s.store.DeactivateAssignment(ctx, active.ID); derr != nil {
			return AssignmentView{}, fmt.Errorf("deactivate assignment: %w", derr)
		}
		return AssignmentView{}, err
	}
	if err != nil {
		return AssignmentView{}, err
	}

	replacement := storage.QuestAssignmentRecord{
		ID:          s.newID(),
		PlayerID:    playerID,
		SideQuestID: quest.ID,
		AssignedAt:  now,
		Active:      true,
	}
	if err := s.store.SwitchAssignment(ctx, active.ID, replacement); err != nil {
		return AssignmentView{}, fmt.Errorf("switch assignment: %w", err)
	}
	return AssignmentView{Assignment: replacement, Quest: quest}, nil
}

// Complete finishes the active quest and awards its points to the player.
// Quest points are personal: the team total does not move.
func (s *Service) Complete(ctx context.Context, playerID string) (AssignmentView, error) {
	active, err := s.store.GetActiveAssignment(ctx, playerID)
	if errors.Is(err, storage.ErrNotFound) {
		return AssignmentView{}, apperrors.New(apperrors.CodeQuestNoneActive, "no quest to complete")
	}
	if err != nil {
		return AssignmentView{}, fmt.Errorf("get active assignment: %w", err)
	}
	quest, err := s.store.GetSideQuest(ctx, active.SideQuestID)
	if err != nil {
		return AssignmentView{}, fmt.Errorf("get side quest: %w", err)
	}

	now := s.now().UTC()
	if err := s.store.CompleteAssignment(ctx, active.ID, now); err != nil {
		return AssignmentView{}, fmt.Errorf("complete assignment: %w", err)
	}
	if err := s.store.AddPlayerPoints(ctx, playerID, quest.Points); err != nil {
		return AssignmentView{}, fmt.Errorf("award quest points: %w", err)
	}

	active.Active = false
	active.CompletedAt = &now
	return AssignmentView{Assignment: active, Quest: quest}, nil
}

// History returns the player's completed quests, newest first.
func (s *Service) History(ctx context.Context, playerID string) ([]storage.QuestHistoryEntry, error) {
	entries, err := s.store.ListCompletedAssignments(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("list completed assignments: %w", err)
	}
	return entries, nil
}

func (s *Service) view(ctx context.Context, a storage.QuestAssignmentRecord) (AssignmentView, error) {
	quest, err := s.store.GetSideQuest(ctx, a.SideQuestID)
	if err != nil {
		return AssignmentView{}, fmt.Errorf("get side quest: %w", err)
	}
	return AssignmentView{Assignment: a, Quest: quest}, nil
}

// pickQuest chooses uniformly among quests the player never had that no one
// currently holds.
func (s *Service) pickQuest(ctx context.Context, playerID string) (storage.SideQuestRecord, error) {
	catalog, err := s.store.ListSideQuests(ctx)
	if err != nil {
		return storage.SideQuestRecord{}, fmt.Errorf("list side quests: %w", err)
	}
	assigned, err := s.store.ListAssignedQuestIDs(ctx, playerID)
	if err != nil {
		return storage.SideQuestRecord{}, fmt.Errorf("list assigned quest ids: %w", err)
	}
	activeIDs, err := s.store.ListActiveQuestIDs(ctx)
	if err != nil {
		return storage.SideQuestRecord{}, fmt.Errorf("list active quest ids: %w", err)
	}

	excluded := make(map[string]bool, len(assigned)+len(activeIDs))
	for _, id := range assigned {
		excluded[id] = true
	}
	for _, id := range activeIDs {
		excluded[id] = true
	}

	var candidates []storage.SideQuestRecord
	for _, q := range catalog {
		if !excluded[q.ID] {
			candidates = append(candidates, q)
		}
	}
	if len(candidates) == 0 {
		return storage.SideQuestRecord{}, apperrors.New(apperrors.CodeQuestNoneAvailable, "no quests left for this player")
	}
	rng := rand.New(rand.NewSource(s.seedFunc()))
	return candidates[rng.Intn(len(candidates))], nil
}
