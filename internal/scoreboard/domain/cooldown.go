package domain

import (
	"math"
	"time"
)

// SwitchCooldown is the minimum time a player must hold a side quest before
// voluntarily switching it.
const SwitchCooldown = 10 * time.Minute

// CooldownRemaining returns the whole minutes left before a quest assigned at
// assignedAt may be switched, rounded up. Zero means the cooldown has elapsed.
func CooldownRemaining(assignedAt, now time.Time) int {
	elapsed := now.Sub(assignedAt)
	if elapsed >= SwitchCooldown {
		return 0
	}
	remaining := SwitchCooldown - elapsed
	return int(math.Ceil(remaining.Minutes()))
}
