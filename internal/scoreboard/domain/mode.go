// Package domain holds the core scoreboard types shared across services.
package domain

import (
	apperrors "github.com/louisbranch/gameshow/internal/platform/errors"
)

// Mode identifies the mini-game currently governing buzz and scoring rules.
type Mode string

const (
	// ModeNormal is the default scoreboard with no active mini-game.
	ModeNormal Mode = "normal"
	// ModeJeopardy runs the buzzer board against a selected question.
	ModeJeopardy Mode = "jeopardy"
	// ModeFamilyFeud runs the round board against the active round.
	ModeFamilyFeud Mode = "familyfeud"
)

// Valid reports whether the mode is one of the known game modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeNormal, ModeJeopardy, ModeFamilyFeud:
		return true
	}
	return false
}

// ParseMode validates a raw mode string from the boundary.
func ParseMode(raw string) (Mode, error) {
	mode := Mode(raw)
	if !mode.Valid() {
		return "", apperrors.WithMetadata(apperrors.CodeModeInvalid, "invalid game mode", map[string]string{
			"mode": raw,
		})
	}
	return mode, nil
}
