// Package notify decorates a storage.Store so every successful mutation
// publishes a change event on the feed hub. Reads pass through untouched.
package notify

import (
	"context"
	"time"

	"github.com/louisbranch/gameshow/internal/scoreboard/feed"
	"github.com/louisbranch/gameshow/internal/scoreboard/storage"
)

// Store wraps an inner store with change notifications.
type Store struct {
	storage.Store
	hub *feed.Hub
}

// Wrap returns a store that publishes to hub after each successful write.
func Wrap(inner storage.Store, hub *feed.Hub) *Store {
	return &Store{Store: inner, hub: hub}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) publish(table string, op feed.Op, id string) {
	s.hub.Publish(feed.Event{Table: table, Op: op, ID: id})
}

func (s *Store) CreatePlayer(ctx context.Context, p storage.PlayerRecord) error {
	if err := s.Store.CreatePlayer(ctx, p); err != nil {
		return err
	}
	s.publish(feed.TablePlayers, feed.OpInsert, p.ID)
	return nil
}

func (s *Store) AwardPlayerPoints(ctx context.Context, playerID string, delta int64) (storage.PlayerRecord, error) {
	player, err := s.Store.AwardPlayerPoints(ctx, playerID, delta)
	if err != nil {
		return storage.PlayerRecord{}, err
	}
	s.publish(feed.TablePlayers, feed.OpUpdate, player.ID)
	s.publish(feed.TableTeams, feed.OpUpdate, player.TeamID)
	return player, nil
}

func (s *Store) AddPlayerPoints(ctx context.Context, playerID string, delta int64) error {
	if err := s.Store.AddPlayerPoints(ctx, playerID, delta); err != nil {
		return err
	}
	s.publish(feed.TablePlayers, feed.OpUpdate, playerID)
	return nil
}

func (s *Store) EnsureTeam(ctx context.Context, name string, now time.Time) (storage.TeamRecord, bool, error) {
	team, created, err := s.Store.EnsureTeam(ctx, name, now)
	if err != nil {
		return storage.TeamRecord{}, false, err
	}
	if created {
		s.publish(feed.TableTeams, feed.OpInsert, team.ID)
	}
	return team, created, nil
}

func (s *Store) AddTeamPoints(ctx context.Context, teamID string, delta int64) error {
	if err := s.Store.AddTeamPoints(ctx, teamID, delta); err != nil {
		return err
	}
	s.publish(feed.TableTeams, feed.OpUpdate, teamID)
	return nil
}

func (s *Store) SetModeNormal(ctx context.Context, expectedVersion int64, now time.Time) error {
	if err := s.Store.SetModeNormal(ctx, expectedVersion, now); err != nil {
		return err
	}
	s.publish(feed.TableGameState, feed.OpUpdate, "")
	s.publish(feed.TableQuestions, feed.OpUpdate, "")
	s.publish(feed.TableBuzzes, feed.OpDelete, "")
	s.publish(feed.TableFeudRounds, feed.OpUpdate, "")
	s.publish(feed.TableFeudAnswers, feed.OpUpdate, "")
	return nil
}

func (s *Store) SetModeJeopardy(ctx context.Context, expectedVersion int64, now time.Time) error {
	if err := s.Store.SetModeJeopardy(ctx, expectedVersion, now); err != nil {
		return err
	}
	s.publish(feed.TableGameState, feed.OpUpdate, "")
	return nil
}

func (s *Store) SetModeFamilyFeud(ctx context.Context, expectedVersion int64, roundID string, now time.Time) error {
	if err := s.Store.SetModeFamilyFeud(ctx, expectedVersion, roundID, now); err != nil {
		return err
	}
	s.publish(feed.TableGameState, feed.OpUpdate, "")
	s.publish(feed.TableFeudRounds, feed.OpUpdate, roundID)
	s.publish(feed.TableBuzzes, feed.OpDelete, "")
	return nil
}

func (s *Store) SelectQuestion(ctx context.Context, expectedVersion int64, questionID string, now time.Time) error {
	if err := s.Store.SelectQuestion(ctx, expectedVersion, questionID, now); err != nil {
		return err
	}
	s.publish(feed.TableGameState, feed.OpUpdate, "")
	s.publish(feed.TableQuestions, feed.OpUpdate, questionID)
	s.publish(feed.TableBuzzes, feed.OpDelete, "")
	return nil
}

func (s *Store) ClearQuestion(ctx context.Context, expectedVersion int64, now time.Time) error {
	if err := s.Store.ClearQuestion(ctx, expectedVersion, now); err != nil {
		return err
	}
	s.publish(feed.TableGameState, feed.OpUpdate, "")
	return nil
}

func (s *Store) CreateQuestion(ctx context.Context, q storage.QuestionRecord) error {
	if err := s.Store.CreateQuestion(ctx, q); err != nil {
		return err
	}
	s.publish(feed.TableQuestions, feed.OpInsert, q.ID)
	return nil
}

func (s *Store) AppendBuzz(ctx context.Context, b storage.BuzzRecord) (storage.BuzzRecord, error) {
	buzz, err := s.Store.AppendBuzz(ctx, b)
	if err != nil {
		return storage.BuzzRecord{}, err
	}
	s.publish(feed.TableBuzzes, feed.OpInsert, buzz.ID)
	return buzz, nil
}

func (s *Store) DeleteBuzzes(ctx context.Context, questionID string) error {
	if err := s.Store.DeleteBuzzes(ctx, questionID); err != nil {
		return err
	}
	s.publish(feed.TableBuzzes, feed.OpDelete, "")
	return nil
}

func (s *Store) DeleteAllBuzzes(ctx context.Context) error {
	if err := s.Store.DeleteAllBuzzes(ctx); err != nil {
		return err
	}
	s.publish(feed.TableBuzzes, feed.OpDelete, "")
	return nil
}

func (s *Store) CreateFeudRound(ctx context.Context, r storage.FeudRoundRecord) error {
	if err := s.Store.CreateFeudRound(ctx, r); err != nil {
		return err
	}
	s.publish(feed.TableFeudRounds, feed.OpInsert, r.ID)
	return nil
}

func (s *Store) CreateFeudAnswer(ctx context.Context, a storage.FeudAnswerRecord) error {
	if err := s.Store.CreateFeudAnswer(ctx, a); err != nil {
		return err
	}
	s.publish(feed.TableFeudAnswers, feed.OpInsert, a.ID)
	return nil
}

func (s *Store) ActivateFeudRound(ctx context.Context, roundID string, now time.Time) error {
	if err := s.Store.ActivateFeudRound(ctx, roundID, now); err != nil {
		return err
	}
	s.publish(feed.TableFeudRounds, feed.OpUpdate, roundID)
	s.publish(feed.TableBuzzes, feed.OpDelete, "")
	return nil
}

func (s *Store) AddStrike(ctx context.Context, roundID string) (int64, error) {
	strikes, err := s.Store.AddStrike(ctx, roundID)
	if err != nil {
		return 0, err
	}
	s.publish(feed.TableFeudRounds, feed.OpUpdate, roundID)
	return strikes, nil
}

func (s *Store) RevealAnswer(ctx context.Context, answerID string) error {
	if err := s.Store.RevealAnswer(ctx, answerID); err != nil {
		return err
	}
	s.publish(feed.TableFeudAnswers, feed.OpUpdate, answerID)
	return nil
}

func (s *Store) CloseFeudRound(ctx context.Context, roundID, teamID string) (int64, error) {
	total, err := s.Store.CloseFeudRound(ctx, roundID, teamID)
	if err != nil {
		return 0, err
	}
	s.publish(feed.TableFeudRounds, feed.OpUpdate, roundID)
	s.publish(feed.TableTeams, feed.OpUpdate, teamID)
	return total, nil
}

func (s *Store) CreateAssignment(ctx context.Context, a storage.QuestAssignmentRecord) error {
	if err := s.Store.CreateAssignment(ctx, a); err != nil {
		return err
	}
	s.publish(feed.TableAssignments, feed.OpInsert, a.ID)
	return nil
}

func (s *Store) DeactivateAssignment(ctx context.Context, assignmentID string) error {
	if err := s.Store.DeactivateAssignment(ctx, assignmentID); err != nil {
		return err
	}
	s.publish(feed.TableAssignments, feed.OpUpdate, assignmentID)
	return nil
}

func (s *Store) SwitchAssignment(ctx context.Context, oldAssignmentID string, replacement storage.QuestAssignmentRecord) error {
	if err := s.Store.SwitchAssignment(ctx, oldAssignmentID, replacement); err != nil {
		return err
	}
	s.publish(feed.TableAssignments, feed.OpUpdate, oldAssignmentID)
	s.publish(feed.TableAssignments, feed.OpInsert, replacement.ID)
	return nil
}

func (s *Store) CompleteAssignment(ctx context.Context, assignmentID string, completedAt time.Time) error {
	if err := s.Store.CompleteAssignment(ctx, assignmentID, completedAt); err != nil {
		return err
	}
	s.publish(feed.TableAssignments, feed.OpUpdate, assignmentID)
	return nil
}
