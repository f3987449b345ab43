package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/gameshow/internal/scoreboard/storage"
)

// CreateSession binds a session token id to a player.
func (s *Store) CreateSession(ctx context.Context, sess storage.SessionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(sess.TokenID) == "" {
		return fmt.Errorf("session token id is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO player_sessions (token, player_id, created_at) VALUES (?, ?, ?)`,
		sess.TokenID,
		sess.PlayerID,
		toMillis(sess.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "player_sessions.") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSessionPlayer resolves a session token id to its player row.
func (s *Store) GetSessionPlayer(ctx context.Context, tokenID string) (storage.PlayerRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.PlayerRecord{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT p.id, p.name, p.team_id, p.points, p.created_at
		   FROM player_sessions s
		   JOIN players p ON p.id = s.player_id
		  WHERE s.token = ?`,
		tokenID,
	)
	return scanPlayer(row)
}

// CreateAdmin inserts one dashboard operator.
func (s *Store) CreateAdmin(ctx context.Context, a storage.AdminRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("admin id is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO admins (id, username, key_hash, created_at) VALUES (?, ?, ?, ?)`,
		a.ID,
		a.Username,
		a.KeyHash,
		toMillis(a.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "admins.") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

// GetAdmin returns one admin by id.
func (s *Store) GetAdmin(ctx context.Context, id string) (storage.AdminRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.AdminRecord{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, username, key_hash, created_at FROM admins WHERE id = ?`,
		id,
	)
	return scanAdmin(row)
}

// GetAdminByUsername returns one admin by login name.
func (s *Store) GetAdminByUsername(ctx context.Context, username string) (storage.AdminRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.AdminRecord{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, username, key_hash, created_at FROM admins WHERE username = ?`,
		username,
	)
	return scanAdmin(row)
}

func scanAdmin(row *sql.Row) (storage.AdminRecord, error) {
	var a storage.AdminRecord
	var createdAt int64
	err := row.Scan(&a.ID, &a.Username, &a.KeyHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.AdminRecord{}, storage.ErrNotFound
		}
		return storage.AdminRecord{}, fmt.Errorf("get admin: %w", err)
	}
	a.CreatedAt = fromMillis(createdAt)
	return a, nil
}
