// Package roster owns player identity: joining, session tokens, and the admin
// allow-list that gates scoring operations.
package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/louisbranch/gameshow/internal/platform/errors"
	"github.com/louisbranch/gameshow/internal/scoreboard/storage"
)

// Token lifetimes. A party runs for an evening; tokens outlive it comfortably
// so a page refresh never kicks a player out mid-game.
const (
	playerTokenTTL = 24 * time.Hour
	adminTokenTTL  = 24 * time.Hour
)

const (
	rolePlayer = "player"
	roleAdmin  = "admin"
)

// sessionClaims is the internal claims type used for JWT parsing.
type sessionClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Service mints and verifies sessions and handles the join flow.
type Service struct {
	store  storage.Store
	secret []byte
	now    func() time.Time
	newID  func() string
}

// Option configures a Service.
type Option func(*Service)

// WithNow overrides the clock.
func WithNow(now func() time.Time) Option {
	return Option(func(s *Service) { s.now = now })
}

// WithIDGenerator overrides row and token id generation.
func WithIDGenerator(newID func() string) Option {
	return Option(func(s *Service) { s.newID = newID })
}

// New returns a roster service signing tokens with secret.
func New(store storage.Store, secret []byte, opts ...Option) (*Service, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	s := &Service{
		store:  store,
		secret: secret,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// JoinResult is what a successful join hands back to the client.
type JoinResult struct {
	Player storage.PlayerRecord
	Team   storage.TeamRecord
	Token  string
}

// Join registers a player on a team, creating the team on first use. Joining
// again with the same name and team returns the existing player with a fresh
// session instead of a duplicate row.
func (s *Service) Join(ctx context.Context, name, teamName string) (JoinResult, error) {
	name = strings.TrimSpace(name)
	teamName = strings.TrimSpace(teamName)
	if name == "" {
		return JoinResult{}, apperrors.New(apperrors.CodePlayerNameEmpty, "player name is required")
	}
	if teamName == "" {
		return JoinResult{}, apperrors.New(apperrors.CodePlayerTeamEmpty, "team name is required")
	}

	now := s.now().UTC()
	team, _, err := s.store.EnsureTeam(ctx, teamName, now)
	if err != nil {
		return JoinResult{}, fmt.Errorf("ensure team: %w", err)
	}

	player, err := s.store.GetPlayerByNameAndTeam(ctx, name, team.ID)
	if errors.Is(err, storage.ErrNotFound) {
		player = storage.PlayerRecord{
			ID:        s.newID(),
			Name:      name,
			TeamID:    team.ID,
			CreatedAt: now,
		}
		err = s.store.CreatePlayer(ctx, player)
		if errors.Is(err, storage.ErrAlreadyExists) {
			// Two tabs raced the same join; the first insert wins.
			player, err = s.store.GetPlayerByNameAndTeam(ctx, name, team.ID)
		}
	}
	if err != nil {
		return JoinResult{}, fmt.Errorf("resolve player: %w", err)
	}

	token, err := s.mintToken(ctx, player, now)
	if err != nil {
		return JoinResult{}, err
	}
	return JoinResult{Player: player, Team: team, Token: token}, nil
}

func (s *Service) mintToken(ctx context.Context, player storage.PlayerRecord, now time.Time) (string, error) {
	tokenID := s.newID()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   player.ID,
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(playerTokenTTL)),
		},
		Role: rolePlayer,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	if err := s.store.CreateSession(ctx, storage.SessionRecord{
		TokenID:   tokenID,
		PlayerID:  player.ID,
		CreatedAt: now,
	}); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return signed, nil
}

// ResolvePlayer validates a session token and returns the player it belongs to.
func (s *Service) ResolvePlayer(ctx context.Context, token string) (storage.PlayerRecord, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return storage.PlayerRecord{}, err
	}
	if claims.Role != rolePlayer {
		return storage.PlayerRecord{}, apperrors.New(apperrors.CodeSessionInvalid, "token is not a player session")
	}
	player, err := s.store.GetSessionPlayer(ctx, claims.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.PlayerRecord{}, apperrors.New(apperrors.CodeSessionInvalid, "session is not recognized")
	}
	if err != nil {
		return storage.PlayerRecord{}, fmt.Errorf("resolve session: %w", err)
	}
	return player, nil
}

// AdminLogin checks the operator key against the stored hash and mints an
// admin token.
func (s *Service) AdminLogin(ctx context.Context, username, key string) (string, error) {
	username = strings.TrimSpace(username)
	admin, err := s.store.GetAdminByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return "", apperrors.New(apperrors.CodeAdminUnauthorized, "unknown admin or wrong key")
	}
	if err != nil {
		return "", fmt.Errorf("get admin: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.KeyHash), []byte(key)); err != nil {
		return "", apperrors.New(apperrors.CodeAdminUnauthorized, "unknown admin or wrong key")
	}

	now := s.now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID,
			ID:        s.newID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(adminTokenTTL)),
		},
		Role: roleAdmin,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}
	return signed, nil
}

// RequireAdmin validates an admin token and returns the operator row. A valid
// player token fails with CodeAdminForbidden rather than CodeAdminUnauthorized
// so callers can tell the two apart.
func (s *Service) RequireAdmin(ctx context.Context, token string) (storage.AdminRecord, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return storage.AdminRecord{}, apperrors.New(apperrors.CodeAdminUnauthorized, "admin token is invalid")
	}
	if claims.Role != roleAdmin {
		return storage.AdminRecord{}, apperrors.New(apperrors.CodeAdminForbidden, "admin access required")
	}
	admin, err := s.store.GetAdmin(ctx, claims.Subject)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.AdminRecord{}, apperrors.New(apperrors.CodeAdminForbidden, "admin access revoked")
	}
	if err != nil {
		return storage.AdminRecord{}, fmt.Errorf("get admin: %w", err)
	}
	return admin, nil
}

func (s *Service) parseToken(token string) (sessionClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return sessionClaims{}, apperrors.New(apperrors.CodeSessionInvalid, "session token is required")
	}
	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return s.now().UTC() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return sessionClaims{}, apperrors.New(apperrors.CodeSessionInvalid, "session token is expired")
		}
		return sessionClaims{}, apperrors.New(apperrors.CodeSessionInvalid, "session token is invalid")
	}
	if parsed.ID == "" || parsed.Subject == "" {
		return sessionClaims{}, apperrors.New(apperrors.CodeSessionInvalid, "session token is incomplete")
	}
	return parsed, nil
}
