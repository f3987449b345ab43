package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/gameshow/internal/scoreboard/storage"
)

// CreateQuestion inserts one jeopardy board cell.
func (s *Store) CreateQuestion(ctx context.Context, q storage.QuestionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(q.ID) == "" {
		return fmt.Errorf("question id is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO jeopardy_questions (id, category, value, question, answer, used)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		q.ID,
		q.Category,
		q.Value,
		q.Question,
		q.Answer,
		boolToInt(q.Used),
	)
	if err != nil {
		if isUniqueViolation(err, "jeopardy_questions.") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create question: %w", err)
	}
	return nil
}

// GetQuestion returns one question by id.
func (s *Store) GetQuestion(ctx context.Context, id string) (storage.QuestionRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.QuestionRecord{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, category, value, question, answer, used
		   FROM jeopardy_questions
		  WHERE id = ?`,
		id,
	)
	var q storage.QuestionRecord
	var used int
	err := row.Scan(&q.ID, &q.Category, &q.Value, &q.Question, &q.Answer, &used)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.QuestionRecord{}, storage.ErrNotFound
		}
		return storage.QuestionRecord{}, fmt.Errorf("get question: %w", err)
	}
	q.Used = used != 0
	return q, nil
}

// ListQuestions returns the board ordered by category, then value ascending.
func (s *Store) ListQuestions(ctx context.Context) ([]storage.QuestionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, category, value, question, answer, used
		   FROM jeopardy_questions
		  ORDER BY category ASC, value ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []storage.QuestionRecord
	for rows.Next() {
		var q storage.QuestionRecord
		var used int
		if err := rows.Scan(&q.ID, &q.Category, &q.Value, &q.Question, &q.Answer, &used); err != nil {
			return nil, fmt.Errorf("list questions: %w", err)
		}
		q.Used = used != 0
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
