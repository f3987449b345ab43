package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/gameshow/internal/scoreboard/storage"
)

// CreateSideQuest inserts one catalog quest.
func (s *Store) CreateSideQuest(ctx context.Context, q storage.SideQuestRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(q.ID) == "" {
		return fmt.Errorf("side quest id is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO side_quests (id, prompt, points) VALUES (?, ?, ?)`,
		q.ID,
		q.Prompt,
		q.Points,
	)
	if err != nil {
		if isUniqueViolation(err, "side_quests.") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create side quest: %w", err)
	}
	return nil
}

// GetSideQuest returns one catalog quest by id.
func (s *Store) GetSideQuest(ctx context.Context, id string) (storage.SideQuestRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.SideQuestRecord{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, prompt, points FROM side_quests WHERE id = ?`,
		id,
	)
	var q storage.SideQuestRecord
	err := row.Scan(&q.ID, &q.Prompt, &q.Points)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.SideQuestRecord{}, storage.ErrNotFound
		}
		return storage.SideQuestRecord{}, fmt.Errorf("get side quest: %w", err)
	}
	return q, nil
}

// ListSideQuests returns the full catalog.
func (s *Store) ListSideQuests(ctx context.Context) ([]storage.SideQuestRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, prompt, points FROM side_quests ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list side quests: %w", err)
	}
	defer rows.Close()

	var quests []storage.SideQuestRecord
	for rows.Next() {
		var q storage.SideQuestRecord
		if err := rows.Scan(&q.ID, &q.Prompt, &q.Points); err != nil {
			return nil, fmt.Errorf("list side quests: %w", err)
		}
		quests = append(quests, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list side quests: %w", err)
	}
	return quests, nil
}

// GetActiveAssignment returns the player's active assignment, or ErrNotFound.
func (s *Store) GetActiveAssignment(ctx context.Context, playerID string) (storage.QuestAssignmentRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.QuestAssignmentRecord{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, player_id, side_quest_id, assigned_at, active, completed_at
		   FROM player_side_quests
		  WHERE player_id = ? AND active = 1`,
		playerID,
	)
	return scanAssignment(row)
}

// ListAssignedQuestIDs returns every quest id ever assigned to the player.
func (s *Store) ListAssignedQuestIDs(ctx context.Context, playerID string) ([]string, error) {
	return s.listQuestIDs(
		ctx,
		`SELECT side_quest_id FROM player_side_quests WHERE player_id = ?`,
		playerID,
	)
}

// ListActiveQuestIDs returns quest ids currently active for any player.
func (s *Store) ListActiveQuestIDs(ctx context.Context) ([]string, error) {
	return s.listQuestIDs(
		ctx,
		`SELECT side_quest_id FROM player_side_quests WHERE active = 1`,
	)
}

func (s *Store) listQuestIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quest ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list quest ids: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list quest ids: %w", err)
	}
	return ids, nil
}

// CreateAssignment inserts one active assignment. The single-active unique
// index rejects a second active quest for the same player.
func (s *Store) CreateAssignment(ctx context.Context, a storage.QuestAssignmentRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("assignment id is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO player_side_quests (id, player_id, side_quest_id, assigned_at, active, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.PlayerID,
		a.SideQuestID,
		toMillis(a.AssignedAt),
		boolToInt(a.Active),
		toNullMillis(a.CompletedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "player_side_quests.") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// DeactivateAssignment closes an assignment without completing it.
func (s *Store) DeactivateAssignment(ctx context.Context, assignmentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE player_side_quests SET active = 0 WHERE id = ?`,
		assignmentID,
	)
	if err != nil {
		return fmt.Errorf("deactivate assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate assignment: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SwitchAssignment atomically retires the old assignment and inserts the
// replacement.
func (s *Store) SwitchAssignment(ctx context.Context, oldAssignmentID string, replacement storage.QuestAssignmentRecord) error {
	if strings.TrimSpace(replacement.ID) == "" {
		return fmt.Errorf("replacement assignment id is required")
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(
			ctx,
			`UPDATE player_side_quests SET active = 0 WHERE id = ? AND active = 1`,
			oldAssignmentID,
		)
		if err != nil {
			return fmt.Errorf("deactivate assignment: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("deactivate assignment: %w", err)
		}
		if affected == 0 {
			return storage.ErrNotFound
		}

		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO player_side_quests (id, player_id, side_quest_id, assigned_at, active, completed_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			replacement.ID,
			replacement.PlayerID,
			replacement.SideQuestID,
			toMillis(replacement.AssignedAt),
			boolToInt(replacement.Active),
			toNullMillis(replacement.CompletedAt),
		); err != nil {
			return fmt.Errorf("create replacement assignment: %w", err)
		}
		return nil
	})
}

// CompleteAssignment closes an assignment with a completion timestamp.
func (s *Store) CompleteAssignment(ctx context.Context, assignmentID string, completedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE player_side_quests SET active = 0, completed_at = ? WHERE id = ?`,
		toMillis(completedAt),
		assignmentID,
	)
	if err != nil {
		return fmt.Errorf("complete assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete assignment: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListCompletedAssignments returns the player's finished quests newest first.
func (s *Store) ListCompletedAssignments(ctx context.Context, playerID string) ([]storage.QuestHistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT a.id, a.player_id, a.side_quest_id, a.assigned_at, a.active, a.completed_at,
		        q.id, q.prompt, q.points
		   FROM player_side_quests a
		   JOIN side_quests q ON q.id = a.side_quest_id
		  WHERE a.player_id = ? AND a.completed_at IS NOT NULL
		  ORDER BY a.completed_at DESC`,
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list completed assignments: %w", err)
	}
	defer rows.Close()

	var entries []storage.QuestHistoryEntry
	for rows.Next() {
		var entry storage.QuestHistoryEntry
		var assignedAt int64
		var active int
		var completedAt sql.NullInt64
		if err := rows.Scan(
			&entry.Assignment.ID,
			&entry.Assignment.PlayerID,
			&entry.Assignment.SideQuestID,
			&assignedAt,
			&active,
			&completedAt,
			&entry.Quest.ID,
			&entry.Quest.Prompt,
			&entry.Quest.Points,
		); err != nil {
			return nil, fmt.Errorf("list completed assignments: %w", err)
		}
		entry.Assignment.AssignedAt = fromMillis(assignedAt)
		entry.Assignment.Active = active != 0
		entry.Assignment.CompletedAt = fromNullMillis(completedAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list completed assignments: %w", err)
	}
	return entries, nil
}

func scanAssignment(row *sql.Row) (storage.QuestAssignmentRecord, error) {
	var a storage.QuestAssignmentRecord
	var assignedAt int64
	var active int
	var completedAt sql.NullInt64
	err := row.Scan(&a.ID, &a.PlayerID, &a.SideQuestID, &assignedAt, &active, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.QuestAssignmentRecord{}, storage.ErrNotFound
		}
		return storage.QuestAssignmentRecord{}, fmt.Errorf("get assignment: %w", err)
	}
	a.AssignedAt = fromMillis(assignedAt)
	a.Active = active != 0
	a.CompletedAt = fromNullMillis(completedAt)
	return a, nil
}
