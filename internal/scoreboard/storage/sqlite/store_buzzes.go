package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/gameshow/internal/scoreboard/storage"
)

// AppendBuzz records one buzz ledger entry. The unique (question_id,
// player_id) index rejects a second buzz from the same player for the same
// question; the client-side button disable is advisory only.
func (s *Store) AppendBuzz(ctx context.Context, b storage.BuzzRecord) (storage.BuzzRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.BuzzRecord{}, err
	}
	if strings.TrimSpace(b.ID) == "" {
		b.ID = newRowID()
	}
	b.CreatedAt = b.CreatedAt.UTC()

	res, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO buzzes (id, question_id, player_id, player_name, team, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID,
		b.QuestionID,
		b.PlayerID,
		b.PlayerName,
		b.TeamName,
		toMillis(b.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "buzzes.question_id") || isUniqueViolation(err, "buzzes.player_id") {
			return storage.BuzzRecord{}, storage.ErrDuplicateBuzz
		}
		return storage.BuzzRecord{}, fmt.Errorf("append buzz: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return storage.BuzzRecord{}, fmt.Errorf("append buzz: %w", err)
	}
	b.Seq = seq
	return b, nil
}

// ListBuzzes returns the ledger for one question or round, first buzz first.
func (s *Store) ListBuzzes(ctx context.Context, questionID string) ([]storage.BuzzRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT seq, id, question_id, player_id, player_name, team, created_at
		   FROM buzzes
		  WHERE question_id = ?
		  ORDER BY created_at ASC, seq ASC`,
		questionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list buzzes: %w", err)
	}
	defer rows.Close()

	var buzzes []storage.BuzzRecord
	for rows.Next() {
		var b storage.BuzzRecord
		var createdAt int64
		if err := rows.Scan(&b.Seq, &b.ID, &b.QuestionID, &b.PlayerID, &b.PlayerName, &b.TeamName, &createdAt); err != nil {
			return nil, fmt.Errorf("list buzzes: %w", err)
		}
		b.CreatedAt = fromMillis(createdAt)
		buzzes = append(buzzes, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list buzzes: %w", err)
	}
	return buzzes, nil
}

// DeleteBuzzes removes the ledger entries for one question or round.
func (s *Store) DeleteBuzzes(ctx context.Context, questionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM buzzes WHERE question_id = ?`, questionID); err != nil {
		return fmt.Errorf("delete buzzes: %w", err)
	}
	return nil
}

// DeleteAllBuzzes removes every ledger entry.
func (s *Store) DeleteAllBuzzes(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM buzzes`); err != nil {
		return fmt.Errorf("delete all buzzes: %w", err)
	}
	return nil
}
