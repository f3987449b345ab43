// Package errors provides structured, coded error handling for the scoreboard.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Roster errors
	CodePlayerNameEmpty   Code = "PLAYER_NAME_EMPTY"
	CodePlayerTeamEmpty   Code = "PLAYER_TEAM_EMPTY"
	CodeSessionInvalid    Code = "SESSION_INVALID"
	CodeAdminUnauthorized Code = "ADMIN_UNAUTHORIZED"
	CodeAdminForbidden    Code = "ADMIN_FORBIDDEN"

	// Game-mode errors
	CodeModeInvalid          Code = "MODE_INVALID"
	CodeModeDisallowsOp      Code = "MODE_DISALLOWS_OPERATION"
	CodeQuestionUsed         Code = "QUESTION_ALREADY_USED"
	CodeNoActiveRound        Code = "NO_ACTIVE_ROUND"
	CodeRoundsExhausted      Code = "ROUNDS_EXHAUSTED"
	CodeStateVersionConflict Code = "STATE_VERSION_CONFLICT"

	// Buzz errors
	CodeBuzzNotAllowed    Code = "BUZZ_NOT_ALLOWED"
	CodeBuzzDuplicate     Code = "BUZZ_DUPLICATE"
	CodeResetScopeInvalid Code = "RESET_SCOPE_INVALID"

	// Side-quest errors
	CodeQuestNoneActive    Code = "QUEST_NONE_ACTIVE"
	CodeQuestCooldown      Code = "QUEST_COOLDOWN_ACTIVE"
	CodeQuestNoneAvailable Code = "QUEST_NONE_AVAILABLE"

	// Scoring errors
	CodePointsDeltaMissing Code = "POINTS_DELTA_MISSING"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
	CodeStoreFailure  Code = "STORE_FAILURE"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodePlayerNameEmpty,
		CodePlayerTeamEmpty,
		CodeModeInvalid,
		CodeResetScopeInvalid,
		CodePointsDeltaMissing:
		return http.StatusBadRequest

	// Missing or insufficient credentials
	case CodeSessionInvalid,
		CodeAdminUnauthorized:
		return http.StatusUnauthorized
	case CodeAdminForbidden:
		return http.StatusForbidden

	// Resource doesn't exist
	case CodeNotFound:
		return http.StatusNotFound

	// Conflict - current state doesn't allow the operation
	case CodeModeDisallowsOp,
		CodeQuestionUsed,
		CodeNoActiveRound,
		CodeRoundsExhausted,
		CodeStateVersionConflict,
		CodeBuzzNotAllowed,
		CodeBuzzDuplicate,
		CodeQuestNoneActive,
		CodeQuestCooldown,
		CodeQuestNoneAvailable,
		CodeAlreadyExists:
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
