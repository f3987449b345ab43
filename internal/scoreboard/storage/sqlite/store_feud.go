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

// CreateFeudRound inserts one family-feud round.
func (s *Store) CreateFeudRound(ctx context.Context, r storage.FeudRoundRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("round id is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO family_feud_rounds (id, question, strikes, active)
		 VALUES (?, ?, ?, ?)`,
		r.ID,
		r.Question,
		r.Strikes,
		boolToInt(r.Active),
	)
	if err != nil {
		if isUniqueViolation(err, "family_feud_rounds.") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create feud round: %w", err)
	}
	return nil
}

// CreateFeudAnswer inserts one answer belonging to a round.
func (s *Store) CreateFeudAnswer(ctx context.Context, a storage.FeudAnswerRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("answer id is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO family_feud_answers (id, round_id, answer, points, revealed)
		 VALUES (?, ?, ?, ?, ?)`,
		a.ID,
		a.RoundID,
		a.Answer,
		a.Points,
		boolToInt(a.Revealed),
	)
	if err != nil {
		if isUniqueViolation(err, "family_feud_answers.") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create feud answer: %w", err)
	}
	return nil
}

// GetFeudRound returns one round by id.
func (s *Store) GetFeudRound(ctx context.Context, id string) (storage.FeudRoundRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.FeudRoundRecord{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, question, strikes, active FROM family_feud_rounds WHERE id = ?`,
		id,
	)
	return scanFeudRound(row)
}

// GetActiveFeudRound returns the single active round, or ErrNotFound.
func (s *Store) GetActiveFeudRound(ctx context.Context) (storage.FeudRoundRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.FeudRoundRecord{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, question, strikes, active FROM family_feud_rounds WHERE active = 1`,
	)
	return scanFeudRound(row)
}

// ListFeudRounds returns all rounds, or only inactive ones.
func (s *Store) ListFeudRounds(ctx context.Context, onlyInactive bool) ([]storage.FeudRoundRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query := `SELECT id, question, strikes, active FROM family_feud_rounds ORDER BY id ASC`
	if onlyInactive {
		query = `SELECT id, question, strikes, active FROM family_feud_rounds WHERE active = 0 ORDER BY id ASC`
	}
	rows, err := s.sqlDB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list feud rounds: %w", err)
	}
	defer rows.Close()

	var rounds []storage.FeudRoundRecord
	for rows.Next() {
		var r storage.FeudRoundRecord
		var active int
		if err := rows.Scan(&r.ID, &r.Question, &r.Strikes, &active); err != nil {
			return nil, fmt.Errorf("list feud rounds: %w", err)
		}
		r.Active = active != 0
		rounds = append(rounds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list feud rounds: %w", err)
	}
	return rounds, nil
}

// ListFeudAnswers returns a round's answers ordered by points descending.
func (s *Store) ListFeudAnswers(ctx context.Context, roundID string) ([]storage.FeudAnswerRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, round_id, answer, points, revealed
		   FROM family_feud_answers
		  WHERE round_id = ?
		  ORDER BY points DESC, answer ASC`,
		roundID,
	)
	if err != nil {
		return nil, fmt.Errorf("list feud answers: %w", err)
	}
	defer rows.Close()

	var answers []storage.FeudAnswerRecord
	for rows.Next() {
		var a storage.FeudAnswerRecord
		var revealed int
		if err := rows.Scan(&a.ID, &a.RoundID, &a.Answer, &a.Points, &revealed); err != nil {
			return nil, fmt.Errorf("list feud answers: %w", err)
		}
		a.Revealed = revealed != 0
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list feud answers: %w", err)
	}
	return answers, nil
}

// activateRoundTx deactivates the current round, activates roundID with zero
// strikes, and clears the buzz ledger, all inside the caller's transaction.
// Deactivation runs first so the single-active unique index never trips.
func activateRoundTx(ctx context.Context, tx *sql.Tx, roundID string) error {
	if _, err := tx.ExecContext(
		ctx,
		`UPDATE family_feud_rounds SET active = 0, strikes = 0 WHERE active = 1`,
	); err != nil {
		return fmt.Errorf("deactivate rounds: %w", err)
	}

	res, err := tx.ExecContext(
		ctx,
		`UPDATE family_feud_rounds SET active = 1, strikes = 0 WHERE id = ?`,
		roundID,
	)
	if err != nil {
		return fmt.Errorf("activate round: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("activate round: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM buzzes`); err != nil {
		return fmt.Errorf("clear buzzes: %w", err)
	}
	return nil
}

// ActivateFeudRound swaps the active round atomically.
func (s *Store) ActivateFeudRound(ctx context.Context, roundID string, now time.Time) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return activateRoundTx(ctx, tx, roundID)
	})
}

// AddStrike increments the strike counter in the database and returns the new
// count.
func (s *Store) AddStrike(ctx context.Context, roundID string) (int64, error) {
	var strikes int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(
			ctx,
			`UPDATE family_feud_rounds SET strikes = strikes + 1 WHERE id = ?`,
			roundID,
		)
		if err != nil {
			return fmt.Errorf("add strike: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("add strike: %w", err)
		}
		if affected == 0 {
			return storage.ErrNotFound
		}
		row := tx.QueryRowContext(ctx, `SELECT strikes FROM family_feud_rounds WHERE id = ?`, roundID)
		if err := row.Scan(&strikes); err != nil {
			return fmt.Errorf("add strike: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return strikes, nil
}

// RevealAnswer marks an answer revealed; revealing twice is a no-op.
func (s *Store) RevealAnswer(ctx context.Context, answerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE family_feud_answers SET revealed = 1 WHERE id = ?`,
		answerID,
	)
	if err != nil {
		return fmt.Errorf("reveal answer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reveal answer: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CloseFeudRound awards the revealed answers' total to the team and ends the
// round, atomically. Unrevealed answers never count.
func (s *Store) CloseFeudRound(ctx context.Context, roundID, teamID string) (int64, error) {
	var total int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(
			ctx,
			`SELECT COALESCE(SUM(points), 0)
			   FROM family_feud_answers
			  WHERE round_id = ? AND revealed = 1`,
			roundID,
		)
		if err := row.Scan(&total); err != nil {
			return fmt.Errorf("sum revealed answers: %w", err)
		}

		res, err := tx.ExecContext(
			ctx,
			`UPDATE teams SET points = points + ? WHERE id = ?`,
			total,
			teamID,
		)
		if err != nil {
			return fmt.Errorf("award team points: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("award team points: %w", err)
		}
		if affected == 0 {
			return storage.ErrNotFound
		}

		res, err = tx.ExecContext(
			ctx,
			`UPDATE family_feud_rounds SET strikes = 0, active = 0 WHERE id = ?`,
			roundID,
		)
		if err != nil {
			return fmt.Errorf("close feud round: %w", err)
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("close feud round: %w", err)
		}
		if affected == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func scanFeudRound(row *sql.Row) (storage.FeudRoundRecord, error) {
	var r storage.FeudRoundRecord
	var active int
	err := row.Scan(&r.ID, &r.Question, &r.Strikes, &active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.FeudRoundRecord{}, storage.ErrNotFound
		}
		return storage.FeudRoundRecord{}, fmt.Errorf("get feud round: %w", err)
	}
	r.Active = active != 0
	return r, nil
}
