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

// CreatePlayer inserts one player row.
func (s *Store) CreatePlayer(ctx context.Context, p storage.PlayerRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("player id is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO players (id, name, team_id, points, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID,
		p.Name,
		p.TeamID,
		p.Points,
		toMillis(p.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "players.") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create player: %w", err)
	}
	return nil
}

// GetPlayer returns one player by id.
func (s *Store) GetPlayer(ctx context.Context, id string) (storage.PlayerRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.PlayerRecord{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, team_id, points, created_at FROM players WHERE id = ?`,
		id,
	)
	return scanPlayer(row)
}

// GetPlayerByNameAndTeam returns the player matching the join identity pair.
func (s *Store) GetPlayerByNameAndTeam(ctx context.Context, name, teamID string) (storage.PlayerRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.PlayerRecord{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, team_id, points, created_at
		   FROM players
		  WHERE name = ? AND team_id = ?`,
		name,
		teamID,
	)
	return scanPlayer(row)
}

// ListPlayers returns all players ordered by points descending, then name.
func (s *Store) ListPlayers(ctx context.Context) ([]storage.PlayerRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, team_id, points, created_at
		   FROM players
		  ORDER BY points DESC, name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []storage.PlayerRecord
	for rows.Next() {
		var p storage.PlayerRecord
		var createdAt int64
		if err := rows.Scan(&p.ID, &p.Name, &p.TeamID, &p.Points, &createdAt); err != nil {
			return nil, fmt.Errorf("list players: %w", err)
		}
		p.CreatedAt = fromMillis(createdAt)
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return players, nil
}

// AwardPlayerPoints applies delta to a player and their team in one transaction.
// Both counters move via in-database increments.
func (s *Store) AwardPlayerPoints(ctx context.Context, playerID string, delta int64) (storage.PlayerRecord, error) {
	var updated storage.PlayerRecord
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(
			ctx,
			`UPDATE players SET points = points + ? WHERE id = ?`,
			delta,
			playerID,
		)
		if err != nil {
			return fmt.Errorf("award player points: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("award player points: %w", err)
		}
		if affected == 0 {
			return storage.ErrNotFound
		}

		row := tx.QueryRowContext(
			ctx,
			`SELECT id, name, team_id, points, created_at FROM players WHERE id = ?`,
			playerID,
		)
		var createdAt int64
		if err := row.Scan(&updated.ID, &updated.Name, &updated.TeamID, &updated.Points, &createdAt); err != nil {
			return fmt.Errorf("award player points: %w", err)
		}
		updated.CreatedAt = fromMillis(createdAt)

		if _, err := tx.ExecContext(
			ctx,
			`UPDATE teams SET points = points + ? WHERE id = ?`,
			delta,
			updated.TeamID,
		); err != nil {
			return fmt.Errorf("award team points: %w", err)
		}
		return nil
	})
	if err != nil {
		return storage.PlayerRecord{}, err
	}
	return updated, nil
}

// AddPlayerPoints applies delta to the player only.
func (s *Store) AddPlayerPoints(ctx context.Context, playerID string, delta int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE players SET points = points + ? WHERE id = ?`,
		delta,
		playerID,
	)
	if err != nil {
		return fmt.Errorf("add player points: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("add player points: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// EnsureTeam returns the named team, inserting it when absent.
func (s *Store) EnsureTeam(ctx context.Context, name string, now time.Time) (storage.TeamRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return storage.TeamRecord{}, false, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.TeamRecord{}, false, fmt.Errorf("team name is required")
	}

	existing, err := s.getTeamByName(ctx, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return storage.TeamRecord{}, false, err
	}

	team := storage.TeamRecord{
		ID:        newRowID(),
		Name:      name,
		CreatedAt: now.UTC(),
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO teams (id, name, points, created_at) VALUES (?, ?, 0, ?)`,
		team.ID,
		team.Name,
		toMillis(team.CreatedAt),
	)
	if err != nil {
		// Another join raced us to the insert; the existing row wins.
		if isUniqueViolation(err, "teams.name") {
			winner, getErr := s.getTeamByName(ctx, name)
			if getErr != nil {
				return storage.TeamRecord{}, false, getErr
			}
			return winner, false, nil
		}
		return storage.TeamRecord{}, false, fmt.Errorf("create team: %w", err)
	}
	return team, true, nil
}

// GetTeam returns one team by id.
func (s *Store) GetTeam(ctx context.Context, id string) (storage.TeamRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.TeamRecord{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, points, created_at FROM teams WHERE id = ?`,
		id,
	)
	return scanTeam(row)
}

func (s *Store) getTeamByName(ctx context.Context, name string) (storage.TeamRecord, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, points, created_at FROM teams WHERE name = ?`,
		name,
	)
	return scanTeam(row)
}

// ListTeams returns all teams ordered by points descending, then name.
func (s *Store) ListTeams(ctx context.Context) ([]storage.TeamRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, points, created_at FROM teams ORDER BY points DESC, name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []storage.TeamRecord
	for rows.Next() {
		var t storage.TeamRecord
		var createdAt int64
		if err := rows.Scan(&t.ID, &t.Name, &t.Points, &createdAt); err != nil {
			return nil, fmt.Errorf("list teams: %w", err)
		}
		t.CreatedAt = fromMillis(createdAt)
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

// AddTeamPoints applies delta to a team total in the database.
func (s *Store) AddTeamPoints(ctx context.Context, teamID string, delta int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE teams SET points = points + ? WHERE id = ?`,
		delta,
		teamID,
	)
	if err != nil {
		return fmt.Errorf("add team points: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("add team points: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanPlayer(row *sql.Row) (storage.PlayerRecord, error) {
	var p storage.PlayerRecord
	var createdAt int64
	err := row.Scan(&p.ID, &p.Name, &p.TeamID, &p.Points, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.PlayerRecord{}, storage.ErrNotFound
		}
		return storage.PlayerRecord{}, fmt.Errorf("get player: %w", err)
	}
	p.CreatedAt = fromMillis(createdAt)
	return p, nil
}

func scanTeam(row *sql.Row) (storage.TeamRecord, error) {
	var t storage.TeamRecord
	var createdAt int64
	err := row.Scan(&t.ID, &t.Name, &t.Points, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.TeamRecord{}, storage.ErrNotFound
		}
		return storage.TeamRecord{}, fmt.Errorf("get team: %w", err)
	}
	t.CreatedAt = fromMillis(createdAt)
	return t, nil
}
