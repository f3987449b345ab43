// Package seed loads starter content: a jeopardy board, family-feud rounds,
// the side-quest catalog, and an admin account.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/louisbranch/gameshow/internal/scoreboard/storage"
)

// Load inserts the bundled fixtures. Rows that already exist are left alone,
// so running the seeder twice is safe.
func Load(ctx context.Context, store storage.Store) error {
	for _, q := range Questions {
		if err := store.CreateQuestion(ctx, q); err != nil && !errors.Is(err, storage.ErrAlreadyExists) {
			return fmt.Errorf("seed question %s: %w", q.ID, err)
		}
	}
	for _, r := range Rounds {
		if err := store.CreateFeudRound(ctx, r); err != nil && !errors.Is(err, storage.ErrAlreadyExists) {
			return fmt.Errorf("seed round %s: %w", r.ID, err)
		}
	}
	for _, a := range Answers {
		if err := store.CreateFeudAnswer(ctx, a); err != nil && !errors.Is(err, storage.ErrAlreadyExists) {
			return fmt.Errorf("seed answer %s: %w", a.ID, err)
		}
	}
	for _, q := range SideQuests {
		if err := store.CreateSideQuest(ctx, q); err != nil && !errors.Is(err, storage.ErrAlreadyExists) {
			return fmt.Errorf("seed side quest %s: %w", q.ID, err)
		}
	}
	return nil
}

// CreateAdmin hashes the key and inserts one operator account.
func CreateAdmin(ctx context.Context, store storage.Store, username, key string, now time.Time) error {
	if username == "" || key == "" {
		return errors.New("admin username and key are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin key: %w", err)
	}
	err = store.CreateAdmin(ctx, storage.AdminRecord{
		ID:        "admin-" + username,
		Username:  username,
		KeyHash:   string(hash),
		CreatedAt: now.UTC(),
	})
	if err != nil && !errors.Is(err, storage.ErrAlreadyExists) {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}
