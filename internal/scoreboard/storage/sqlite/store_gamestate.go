package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/gameshow/internal/scoreboard/domain"
	"github.com/louisbranch/gameshow/internal/scoreboard/storage"
)

// GetGameState returns the singleton mode row.
func (s *Store) GetGameState(ctx context.Context) (storage.GameStateRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.GameStateRecord{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT game_mode, selected_question, version, updated_at
		   FROM game_state
		  WHERE id = 'global'`,
	)
	var state storage.GameStateRecord
	var mode string
	var selected sql.NullString
	var updatedAt int64
	err := row.Scan(&mode, &selected, &state.Version, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.GameStateRecord{}, storage.ErrNotFound
		}
		return storage.GameStateRecord{}, fmt.Errorf("get game state: %w", err)
	}
	state.Mode = domain.Mode(mode)
	state.SelectedQuestionID = fromNullString(selected)
	state.UpdatedAt = fromMillis(updatedAt)
	return state, nil
}

// bumpState writes the mode row inside tx, guarded by the expected version.
func bumpState(ctx context.Context, tx *sql.Tx, mode domain.Mode, selected *string, expectedVersion int64, now time.Time) error {
	res, err := tx.ExecContext(
		ctx,
		`UPDATE game_state
		    SET game_mode = ?, selected_question = ?, version = version + 1, updated_at = ?
		  WHERE id = 'global' AND version = ?`,
		string(mode),
		toNullString(selected),
		toMillis(now),
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update game state: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update game state: %w", err)
	}
	if affected == 0 {
		return storage.ErrVersionConflict
	}
	return nil
}

// SetModeNormal reverts everything to the plain scoreboard in one transaction.
func (s *Store) SetModeNormal(ctx context.Context, expectedVersion int64, now time.Time) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := bumpState(ctx, tx, domain.ModeNormal, nil, expectedVersion, now); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE jeopardy_questions SET used = 0 WHERE used = 1`); err != nil {
			return fmt.Errorf("reset questions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM buzzes`); err != nil {
			return fmt.Errorf("clear buzzes: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE family_feud_rounds SET active = 0, strikes = 0 WHERE active = 1 OR strikes != 0`); err != nil {
			return fmt.Errorf("deactivate rounds: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE family_feud_answers SET revealed = 0 WHERE revealed = 1`); err != nil {
			return fmt.Errorf("hide answers: %w", err)
		}
		return nil
	})
}

// SetModeJeopardy switches to the buzzer board with no selection.
func (s *Store) SetModeJeopardy(ctx context.Context, expectedVersion int64, now time.Time) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return bumpState(ctx, tx, domain.ModeJeopardy, nil, expectedVersion, now)
	})
}

// SetModeFamilyFeud switches to the round board and activates roundID.
func (s *Store) SetModeFamilyFeud(ctx context.Context, expectedVersion int64, roundID string, now time.Time) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := bumpState(ctx, tx, domain.ModeFamilyFeud, nil, expectedVersion, now); err != nil {
			return err
		}
		return activateRoundTx(ctx, tx, roundID)
	})
}

// SelectQuestion atomically clears the buzz ledger, marks the question used,
// and records the selection.
func (s *Store) SelectQuestion(ctx context.Context, expectedVersion int64, questionID string, now time.Time) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM buzzes`); err != nil {
			return fmt.Errorf("clear buzzes: %w", err)
		}

		res, err := tx.ExecContext(
			ctx,
			`UPDATE jeopardy_questions SET used = 1 WHERE id = ? AND used = 0`,
			questionID,
		)
		if err != nil {
			return fmt.Errorf("mark question used: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("mark question used: %w", err)
		}
		if affected == 0 {
			// Distinguish a missing question from one already taken.
			var used int
			row := tx.QueryRowContext(ctx, `SELECT used FROM jeopardy_questions WHERE id = ?`, questionID)
			if scanErr := row.Scan(&used); scanErr != nil {
				if errors.Is(scanErr, sql.ErrNoRows) {
					return storage.ErrNotFound
				}
				return fmt.Errorf("check question: %w", scanErr)
			}
			return storage.ErrQuestionUsed
		}

		return bumpState(ctx, tx, domain.ModeJeopardy, &questionID, expectedVersion, now)
	})
}

// ClearQuestion drops the selection without touching the buzz ledger.
func (s *Store) ClearQuestion(ctx context.Context, expectedVersion int64, now time.Time) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return bumpState(ctx, tx, domain.ModeJeopardy, nil, expectedVersion, now)
	})
}
