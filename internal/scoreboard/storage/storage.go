// Package storage defines the persistence contract for the scoreboard.
package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/gameshow/internal/platform/errors"
	"github.com/louisbranch/gameshow/internal/scoreboard/domain"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate between legitimate "no such entity" states
// and transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrAlreadyExists indicates an insert collided with an existing row.
var ErrAlreadyExists = apperrors.New(apperrors.CodeAlreadyExists, "record already exists")

// ErrDuplicateBuzz indicates a player already buzzed for the current question
// or round; the ledger enforces uniqueness instead of trusting the client.
var ErrDuplicateBuzz = apperrors.New(apperrors.CodeBuzzDuplicate, "player already buzzed for this question")

// ErrQuestionUsed indicates a jeopardy question was already taken off the board.
var ErrQuestionUsed = apperrors.New(apperrors.CodeQuestionUsed, "question already used")

// ErrVersionConflict indicates a game-state write carried a stale version.
// The singleton row is guarded by compare-and-set, never last-write-wins.
var ErrVersionConflict = apperrors.New(apperrors.CodeStateVersionConflict, "game state changed concurrently")

// PlayerRecord captures one joined player and their running score.
type PlayerRecord struct {
	ID        string
	Name      string
	TeamID    string
	Points    int64
	CreatedAt time.Time
}

// TeamRecord captures a team and its aggregated score.
type TeamRecord struct {
	ID        string
	Name      string
	Points    int64
	CreatedAt time.Time
}

// GameStateRecord is the singleton mode row (id "global"). Version increments
// on every transition so concurrent writers surface conflicts instead of
// silently losing updates.
type GameStateRecord struct {
	Mode               domain.Mode
	SelectedQuestionID *string
	Version            int64
	UpdatedAt          time.Time
}

// QuestionRecord is one jeopardy board cell.
type QuestionRecord struct {
	ID       string
	Category string
	Value    int64
	Question string
	Answer   string
	Used     bool
}

// BuzzRecord is one append-only buzz ledger entry. QuestionID holds either a
// jeopardy question id or a family-feud round id depending on the mode that
// accepted the buzz. Seq is assigned by the store and breaks created-at ties.
type BuzzRecord struct {
	ID         string
	QuestionID string
	PlayerID   string
	PlayerName string
	TeamName   string
	Seq        int64
	CreatedAt  time.Time
}

// FeudRoundRecord is one family-feud question with its strike counter.
type FeudRoundRecord struct {
	ID       string
	Question string
	Strikes  int64
	Active   bool
}

// FeudAnswerRecord belongs to exactly one round; Revealed flips one way during
// play and is cleared when the mode ends.
type FeudAnswerRecord struct {
	ID       string
	RoundID  string
	Answer   string
	Points   int64
	Revealed bool
}

// SideQuestRecord is an immutable catalog entry.
type SideQuestRecord struct {
	ID     string
	Prompt string
	Points int64
}

// QuestAssignmentRecord tracks one player/quest pairing. At most one active
// assignment exists per player; a completed assignment has CompletedAt set,
// a switched-away one does not.
type QuestAssignmentRecord struct {
	ID          string
	PlayerID    string
	SideQuestID string
	AssignedAt  time.Time
	Active      bool
	CompletedAt *time.Time
}

// QuestHistoryEntry joins a finished assignment with its catalog quest.
type QuestHistoryEntry struct {
	Assignment QuestAssignmentRecord
	Quest      SideQuestRecord
}

// SessionRecord binds an opaque session token id to a player.
type SessionRecord struct {
	TokenID   string
	PlayerID  string
	CreatedAt time.Time
}

// AdminRecord is one dashboard operator allowed to mutate points and modes.
type AdminRecord struct {
	ID        string
	Username  string
	KeyHash   string
	CreatedAt time.Time
}

// PlayerStore owns player identity and per-player score state.
type PlayerStore interface {
	CreatePlayer(ctx context.Context, p PlayerRecord) error
	GetPlayer(ctx context.Context, id string) (PlayerRecord, error)
	// GetPlayerByNameAndTeam supports the idempotent join path.
	GetPlayerByNameAndTeam(ctx context.Context, name, teamID string) (PlayerRecord, error)
	ListPlayers(ctx context.Context) ([]PlayerRecord, error)
	// AwardPlayerPoints atomically applies delta to the player and their team
	// in one transaction using in-database increments.
	AwardPlayerPoints(ctx context.Context, playerID string, delta int64) (PlayerRecord, error)
	// AddPlayerPoints atomically applies delta to the player only.
	AddPlayerPoints(ctx context.Context, playerID string, delta int64) error
}

// TeamStore owns team rows and their aggregated totals.
type TeamStore interface {
	// EnsureTeam returns the team with the given name, creating it if needed.
	// The boolean return reports whether a new row was inserted.
	EnsureTeam(ctx context.Context, name string, now time.Time) (TeamRecord, bool, error)
	GetTeam(ctx context.Context, id string) (TeamRecord, error)
	ListTeams(ctx context.Context) ([]TeamRecord, error)
	AddTeamPoints(ctx context.Context, teamID string, delta int64) error
}

// GameStateStore owns the singleton mode row and its transactional
// transitions. Every transition takes the version observed at read time and
// fails with ErrVersionConflict when it is stale.
type GameStateStore interface {
	GetGameState(ctx context.Context) (GameStateRecord, error)
	// SetModeNormal reverts to the plain scoreboard: clears the selection,
	// resets every question to unused, deletes all buzzes, deactivates all
	// feud rounds, zeroes strikes, and hides revealed answers.
	SetModeNormal(ctx context.Context, expectedVersion int64, now time.Time) error
	// SetModeJeopardy switches to the buzzer board with no selection; the
	// board derives from the used flags already in storage.
	SetModeJeopardy(ctx context.Context, expectedVersion int64, now time.Time) error
	// SetModeFamilyFeud switches to the round board and activates roundID with
	// zero strikes, deactivating every other round and deleting all buzzes.
	SetModeFamilyFeud(ctx context.Context, expectedVersion int64, roundID string, now time.Time) error
	// SelectQuestion clears all buzzes, marks the question used, and records
	// the selection, atomically. Returns ErrQuestionUsed when the question was
	// already taken.
	SelectQuestion(ctx context.Context, expectedVersion int64, questionID string, now time.Time) error
	// ClearQuestion drops the selection and returns to the board without
	// touching the buzz ledger.
	ClearQuestion(ctx context.Context, expectedVersion int64, now time.Time) error
}

// JeopardyStore owns the question catalog.
type JeopardyStore interface {
	CreateQuestion(ctx context.Context, q QuestionRecord) error
	GetQuestion(ctx context.Context, id string) (QuestionRecord, error)
	ListQuestions(ctx context.Context) ([]QuestionRecord, error)
}

// BuzzStore owns the append-only buzz ledger. Ordering is by created_at
// ascending with the insert sequence as tie-break; the first entry wins.
type BuzzStore interface {
	// AppendBuzz records one buzz. Returns ErrDuplicateBuzz when the player
	// already buzzed for the same question or round.
	AppendBuzz(ctx context.Context, b BuzzRecord) (BuzzRecord, error)
	ListBuzzes(ctx context.Context, questionID string) ([]BuzzRecord, error)
	// DeleteBuzzes removes the ledger entries for one question or round.
	DeleteBuzzes(ctx context.Context, questionID string) error
	// DeleteAllBuzzes removes every ledger entry, for mode-exit paths.
	DeleteAllBuzzes(ctx context.Context) error
}

// FeudStore owns rounds, answers, and the round lifecycle.
type FeudStore interface {
	CreateFeudRound(ctx context.Context, r FeudRoundRecord) error
	CreateFeudAnswer(ctx context.Context, a FeudAnswerRecord) error
	GetFeudRound(ctx context.Context, id string) (FeudRoundRecord, error)
	// GetActiveFeudRound returns ErrNotFound when no round is active.
	GetActiveFeudRound(ctx context.Context) (FeudRoundRecord, error)
	// ListFeudRounds returns all rounds, or only inactive ones.
	ListFeudRounds(ctx context.Context, onlyInactive bool) ([]FeudRoundRecord, error)
	// ListFeudAnswers returns a round's answers ordered by points descending.
	ListFeudAnswers(ctx context.Context, roundID string) ([]FeudAnswerRecord, error)
	// ActivateFeudRound atomically deactivates the current round, activates
	// roundID with zero strikes, and deletes all buzzes.
	ActivateFeudRound(ctx context.Context, roundID string, now time.Time) error
	// AddStrike increments the round's strike counter in the database and
	// returns the new count. Never read-then-write.
	AddStrike(ctx context.Context, roundID string) (int64, error)
	// RevealAnswer marks an answer revealed; revealing twice is a no-op.
	RevealAnswer(ctx context.Context, answerID string) error
	// CloseFeudRound sums the revealed answers' points, adds the sum to the
	// team, resets strikes, and deactivates the round, atomically. Returns the
	// awarded total.
	CloseFeudRound(ctx context.Context, roundID, teamID string) (int64, error)
}

// SideQuestStore owns the quest catalog and per-player assignment lifecycle.
type SideQuestStore interface {
	CreateSideQuest(ctx context.Context, q SideQuestRecord) error
	GetSideQuest(ctx context.Context, id string) (SideQuestRecord, error)
	ListSideQuests(ctx context.Context) ([]SideQuestRecord, error)
	// GetActiveAssignment returns ErrNotFound when the player has no active quest.
	GetActiveAssignment(ctx context.Context, playerID string) (QuestAssignmentRecord, error)
	// ListAssignedQuestIDs returns every quest id ever assigned to the player,
	// regardless of completion.
	ListAssignedQuestIDs(ctx context.Context, playerID string) ([]string, error)
	// ListActiveQuestIDs returns quest ids currently active for any player.
	ListActiveQuestIDs(ctx context.Context) ([]string, error)
	CreateAssignment(ctx context.Context, a QuestAssignmentRecord) error
	// DeactivateAssignment closes an assignment without a completion
	// timestamp; switching forfeits the quest permanently.
	DeactivateAssignment(ctx context.Context, assignmentID string) error
	// SwitchAssignment atomically deactivates the old assignment and inserts
	// the replacement.
	SwitchAssignment(ctx context.Context, oldAssignmentID string, replacement QuestAssignmentRecord) error
	// CompleteAssignment closes an assignment with a completion timestamp.
	CompleteAssignment(ctx context.Context, assignmentID string, completedAt time.Time) error
	// ListCompletedAssignments returns finished quests newest first.
	ListCompletedAssignments(ctx context.Context, playerID string) ([]QuestHistoryEntry, error)
}

// SessionStore owns player session tokens minted on join.
type SessionStore interface {
	CreateSession(ctx context.Context, s SessionRecord) error
	// GetSessionPlayer resolves a session token id to its player.
	GetSessionPlayer(ctx context.Context, tokenID string) (PlayerRecord, error)
}

// AdminStore owns the operator allow-list gating point mutations.
type AdminStore interface {
	CreateAdmin(ctx context.Context, a AdminRecord) error
	GetAdmin(ctx context.Context, id string) (AdminRecord, error)
	GetAdminByUsername(ctx context.Context, username string) (AdminRecord, error)
}

// Store is the composite interface for all scoreboard persistence concerns.
type Store interface {
	PlayerStore
	TeamStore
	GameStateStore
	JeopardyStore
	BuzzStore
	FeudStore
	SideQuestStore
	SessionStore
	AdminStore
	Close() error
}
