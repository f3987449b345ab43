package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/gameshow/internal/scoreboard/domain"
	"github.com/louisbranch/gameshow/internal/scoreboard/storage"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestGameStateStartsNormal(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	state, err := store.GetGameState(context.Background())
	if err != nil {
		t.Fatalf("get game state: %v", err)
	}
	if state.Mode != domain.ModeNormal {
		t.Fatalf("mode = %q, want %q", state.Mode, domain.ModeNormal)
	}
	if state.Version != 1 {
		t.Fatalf("version = %d, want 1", state.Version)
	}
	if state.SelectedQuestionID != nil {
		t.Fatalf("selected question = %v, want nil", *state.SelectedQuestionID)
	}
}

func TestEnsureTeamReturnsExistingRow(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.August, 29, 19, 0, 0, 0, time.UTC)

	first, created, err := store.EnsureTeam(context.Background(), "Red", now)
	if err != nil {
		t.Fatalf("ensure team: %v", err)
	}
	if !created {
		t.Fatal("expected first ensure to create the team")
	}

	second, created, err := store.EnsureTeam(context.Background(), "Red", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("ensure team again: %v", err)
	}
	if created {
		t.Fatal("expected second ensure to reuse the row")
	}
	if second.ID != first.ID {
		t.Fatalf("team id = %q, want %q", second.ID, first.ID)
	}
}

func TestCreatePlayerRejectsDuplicateNameOnTeam(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.August, 29, 19, 5, 0, 0, time.UTC)
	team := mustTeam(t, store, "Blue", now)

	player := storage.PlayerRecord{ID: "p-1", Name: "Sam", TeamID: team.ID, CreatedAt: now}
	if err := store.CreatePlayer(context.Background(), player); err != nil {
		t.Fatalf("create player: %v", err)
	}
	player.ID = "p-2"
	err := store.CreatePlayer(context.Background(), player)
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate create error = %v, want %v", err, storage.ErrAlreadyExists)
	}
}

func TestAwardPlayerPointsMovesPlayerAndTeam(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.August, 29, 19, 10, 0, 0, time.UTC)
	team := mustTeam(t, store, "Green", now)
	mustPlayer(t, store, "p-award", "Ada", team.ID, now)

	player, err := store.AwardPlayerPoints(context.Background(), "p-award", 150)
	if err != nil {
		t.Fatalf("award points: %v", err)
	}
	if player.Points != 150 {
		t.Fatalf("player points = %d, want 150", player.Points)
	}

	if _, err := store.AwardPlayerPoints(context.Background(), "p-award", -50); err != nil {
		t.Fatalf("deduct points: %v", err)
	}
	gotTeam, err := store.GetTeam(context.Background(), team.ID)
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if gotTeam.Points != 100 {
		t.Fatalf("team points = %d, want 100", gotTeam.Points)
	}
}

func TestAwardPlayerPointsUnknownPlayer(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.AwardPlayerPoints(context.Background(), "nobody", 10)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestSetModeRejectsStaleVersion(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.August, 29, 19, 20, 0, 0, time.UTC)

	if err := store.SetModeJeopardy(context.Background(), 1, now); err != nil {
		t.Fatalf("set mode jeopardy: %v", err)
	}
	err := store.SetModeJeopardy(context.Background(), 1, now.Add(time.Second))
	if !errors.Is(err, storage.ErrVersionConflict) {
		t.Fatalf("stale write error = %v, want %v", err, storage.ErrVersionConflict)
	}
}

func TestSelectQuestionMarksUsedAndClearsBuzzes(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 29, 19, 30, 0, 0, time.UTC)
	team := mustTeam(t, store, "Yellow", now)
	mustPlayer(t, store, "p-sel", "Bo", team.ID, now)
	mustQuestion(t, store, "q-1")
	mustQuestion(t, store, "q-2")

	if err := store.SetModeJeopardy(ctx, 1, now); err != nil {
		t.Fatalf("set mode jeopardy: %v", err)
	}
	if err := store.SelectQuestion(ctx, 2, "q-1", now); err != nil {
		t.Fatalf("select question: %v", err)
	}
	if _, err := store.AppendBuzz(ctx, storage.BuzzRecord{
		QuestionID: "q-1", PlayerID: "p-sel", PlayerName: "Bo", TeamName: team.Name, CreatedAt: now,
	}); err != nil {
		t.Fatalf("append buzz: %v", err)
	}

	if err := store.SelectQuestion(ctx, 3, "q-2", now.Add(time.Minute)); err != nil {
		t.Fatalf("select second question: %v", err)
	}
	buzzes, err := store.ListBuzzes(ctx, "q-1")
	if err != nil {
		t.Fatalf("list buzzes: %v", err)
	}
	if len(buzzes) != 0 {
		t.Fatalf("buzzes after new selection = %d, want 0", len(buzzes))
	}

	q, err := store.GetQuestion(ctx, "q-1")
	if err != nil {
		t.Fatalf("get question: %v", err)
	}
	if !q.Used {
		t.Fatal("expected q-1 to be marked used")
	}
}

func TestSelectQuestionRefusesUsedQuestion(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 29, 19, 40, 0, 0, time.UTC)
	mustQuestion(t, store, "q-used")

	if err := store.SetModeJeopardy(ctx, 1, now); err != nil {
		t.Fatalf("set mode jeopardy: %v", err)
	}
	if err := store.SelectQuestion(ctx, 2, "q-used", now); err != nil {
		t.Fatalf("select question: %v", err)
	}
	err := store.SelectQuestion(ctx, 3, "q-used", now.Add(time.Second))
	if !errors.Is(err, storage.ErrQuestionUsed) {
		t.Fatalf("reselect error = %v, want %v", err, storage.ErrQuestionUsed)
	}
}

func TestSetModeNormalResetsBoards(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 29, 19, 50, 0, 0, time.UTC)
	team := mustTeam(t, store, "Purple", now)
	mustPlayer(t, store, "p-reset", "Cy", team.ID, now)
	mustQuestion(t, store, "q-reset")
	mustRound(t, store, "r-reset", "a-reset")

	if err := store.SetModeJeopardy(ctx, 1, now); err != nil {
		t.Fatalf("set mode jeopardy: %v", err)
	}
	if err := store.SelectQuestion(ctx, 2, "q-reset", now); err != nil {
		t.Fatalf("select question: %v", err)
	}
	if _, err := store.AppendBuzz(ctx, storage.BuzzRecord{
		QuestionID: "q-reset", PlayerID: "p-reset", PlayerName: "Cy", TeamName: team.Name, CreatedAt: now,
	}); err != nil {
		t.Fatalf("append buzz: %v", err)
	}
	if err := store.RevealAnswer(ctx, "a-reset"); err != nil {
		t.Fatalf("reveal answer: %v", err)
	}

	if err := store.SetModeNormal(ctx, 3, now.Add(time.Minute)); err != nil {
		t.Fatalf("set mode normal: %v", err)
	}

	q, err := store.GetQuestion(ctx, "q-reset")
	if err != nil {
		t.Fatalf("get question: %v", err)
	}
	if q.Used {
		t.Fatal("expected used flag reset")
	}
	buzzes, err := store.ListBuzzes(ctx, "q-reset")
	if err != nil {
		t.Fatalf("list buzzes: %v", err)
	}
	if len(buzzes) != 0 {
		t.Fatalf("buzzes = %d, want 0", len(buzzes))
	}
	answers, err := store.ListFeudAnswers(ctx, "r-reset")
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if answers[0].Revealed {
		t.Fatal("expected revealed flag cleared")
	}
	state, err := store.GetGameState(ctx)
	if err != nil {
		t.Fatalf("get game state: %v", err)
	}
	if state.Mode != domain.ModeNormal || state.SelectedQuestionID != nil {
		t.Fatalf("state = %+v, want normal with no selection", state)
	}
}

func TestAppendBuzzRejectsDuplicatePlayer(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 29, 20, 0, 0, 0, time.UTC)
	team := mustTeam(t, store, "Orange", now)
	mustPlayer(t, store, "p-dup", "Di", team.ID, now)

	buzz := storage.BuzzRecord{QuestionID: "q-x", PlayerID: "p-dup", PlayerName: "Di", TeamName: team.Name, CreatedAt: now}
	if _, err := store.AppendBuzz(ctx, buzz); err != nil {
		t.Fatalf("append buzz: %v", err)
	}
	_, err := store.AppendBuzz(ctx, buzz)
	if !errors.Is(err, storage.ErrDuplicateBuzz) {
		t.Fatalf("duplicate buzz error = %v, want %v", err, storage.ErrDuplicateBuzz)
	}
}

func TestListBuzzesBreaksTimestampTiesByInsertOrder(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 29, 20, 10, 0, 0, time.UTC)
	team := mustTeam(t, store, "Teal", now)
	mustPlayer(t, store, "p-a", "First", team.ID, now)
	mustPlayer(t, store, "p-b", "Second", team.ID, now)

	for _, playerID := range []string{"p-a", "p-b"} {
		if _, err := store.AppendBuzz(ctx, storage.BuzzRecord{
			QuestionID: "q-tie", PlayerID: playerID, PlayerName: playerID, TeamName: team.Name, CreatedAt: now,
		}); err != nil {
			t.Fatalf("append buzz %s: %v", playerID, err)
		}
	}

	buzzes, err := store.ListBuzzes(ctx, "q-tie")
	if err != nil {
		t.Fatalf("list buzzes: %v", err)
	}
	if len(buzzes) != 2 {
		t.Fatalf("buzzes = %d, want 2", len(buzzes))
	}
	if buzzes[0].PlayerID != "p-a" || buzzes[1].PlayerID != "p-b" {
		t.Fatalf("order = %s,%s want p-a,p-b", buzzes[0].PlayerID, buzzes[1].PlayerID)
	}
}

func TestActivateFeudRoundSwapsActiveRound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 29, 20, 20, 0, 0, time.UTC)
	mustRound(t, store, "r-one", "a-one")
	mustRound(t, store, "r-two", "a-two")

	if err := store.ActivateFeudRound(ctx, "r-one", now); err != nil {
		t.Fatalf("activate r-one: %v", err)
	}
	if _, err := store.AddStrike(ctx, "r-one"); err != nil {
		t.Fatalf("add strike: %v", err)
	}
	if err := store.ActivateFeudRound(ctx, "r-two", now.Add(time.Minute)); err != nil {
		t.Fatalf("activate r-two: %v", err)
	}

	active, err := store.GetActiveFeudRound(ctx)
	if err != nil {
		t.Fatalf("get active round: %v", err)
	}
	if active.ID != "r-two" {
		t.Fatalf("active = %q, want r-two", active.ID)
	}
	old, err := store.GetFeudRound(ctx, "r-one")
	if err != nil {
		t.Fatalf("get r-one: %v", err)
	}
	if old.Active || old.Strikes != 0 {
		t.Fatalf("r-one = %+v, want inactive with zero strikes", old)
	}
}

func TestAddStrikeIncrementsInDatabase(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	mustRound(t, store, "r-strike", "a-strike")

	for want := int64(1); want <= 3; want++ {
		got, err := store.AddStrike(ctx, "r-strike")
		if err != nil {
			t.Fatalf("add strike: %v", err)
		}
		if got != want {
			t.Fatalf("strikes = %d, want %d", got, want)
		}
	}
}

func TestCloseFeudRoundAwardsRevealedOnly(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 29, 20, 30, 0, 0, time.UTC)
	team := mustTeam(t, store, "Closers", now)

	if err := store.CreateFeudRound(ctx, storage.FeudRoundRecord{ID: "r-close", Question: "Survey says"}); err != nil {
		t.Fatalf("create round: %v", err)
	}
	answers := []storage.FeudAnswerRecord{
		{ID: "a-c1", RoundID: "r-close", Answer: "Top", Points: 40},
		{ID: "a-c2", RoundID: "r-close", Answer: "Middle", Points: 25},
		{ID: "a-c3", RoundID: "r-close", Answer: "Hidden", Points: 20},
	}
	for _, a := range answers {
		if err := store.CreateFeudAnswer(ctx, a); err != nil {
			t.Fatalf("create answer %s: %v", a.ID, err)
		}
	}
	if err := store.ActivateFeudRound(ctx, "r-close", now); err != nil {
		t.Fatalf("activate round: %v", err)
	}
	for _, id := range []string{"a-c1", "a-c2"} {
		if err := store.RevealAnswer(ctx, id); err != nil {
			t.Fatalf("reveal %s: %v", id, err)
		}
	}

	total, err := store.CloseFeudRound(ctx, "r-close", team.ID)
	if err != nil {
		t.Fatalf("close round: %v", err)
	}
	if total != 65 {
		t.Fatalf("awarded = %d, want 65", total)
	}
	gotTeam, err := store.GetTeam(ctx, team.ID)
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if gotTeam.Points != 65 {
		t.Fatalf("team points = %d, want 65", gotTeam.Points)
	}
	round, err := store.GetFeudRound(ctx, "r-close")
	if err != nil {
		t.Fatalf("get round: %v", err)
	}
	if round.Active || round.Strikes != 0 {
		t.Fatalf("round = %+v, want inactive with zero strikes", round)
	}
}

func TestCreateAssignmentRefusesSecondActiveQuest(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 29, 20, 40, 0, 0, time.UTC)
	team := mustTeam(t, store, "Questers", now)
	mustPlayer(t, store, "p-q", "Quinn", team.ID, now)
	mustSideQuest(t, store, "sq-1")
	mustSideQuest(t, store, "sq-2")

	if err := store.CreateAssignment(ctx, storage.QuestAssignmentRecord{
		ID: "as-1", PlayerID: "p-q", SideQuestID: "sq-1", AssignedAt: now, Active: true,
	}); err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	err := store.CreateAssignment(ctx, storage.QuestAssignmentRecord{
		ID: "as-2", PlayerID: "p-q", SideQuestID: "sq-2", AssignedAt: now, Active: true,
	})
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("second active error = %v, want %v", err, storage.ErrAlreadyExists)
	}
}

func TestSwitchAssignmentRetiresOldAndInsertsReplacement(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 29, 20, 50, 0, 0, time.UTC)
	team := mustTeam(t, store, "Switchers", now)
	mustPlayer(t, store, "p-sw", "Sy", team.ID, now)
	mustSideQuest(t, store, "sq-old")
	mustSideQuest(t, store, "sq-new")

	if err := store.CreateAssignment(ctx, storage.QuestAssignmentRecord{
		ID: "as-old", PlayerID: "p-sw", SideQuestID: "sq-old", AssignedAt: now, Active: true,
	}); err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	if err := store.SwitchAssignment(ctx, "as-old", storage.QuestAssignmentRecord{
		ID: "as-new", PlayerID: "p-sw", SideQuestID: "sq-new", AssignedAt: now.Add(11 * time.Minute), Active: true,
	}); err != nil {
		t.Fatalf("switch assignment: %v", err)
	}

	active, err := store.GetActiveAssignment(ctx, "p-sw")
	if err != nil {
		t.Fatalf("get active assignment: %v", err)
	}
	if active.ID != "as-new" {
		t.Fatalf("active = %q, want as-new", active.ID)
	}

	assigned, err := store.ListAssignedQuestIDs(ctx, "p-sw")
	if err != nil {
		t.Fatalf("list assigned ids: %v", err)
	}
	if len(assigned) != 2 {
		t.Fatalf("assigned ids = %d, want 2", len(assigned))
	}
}

func TestCompleteAssignmentShowsUpInHistory(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 29, 21, 0, 0, 0, time.UTC)
	team := mustTeam(t, store, "Finishers", now)
	mustPlayer(t, store, "p-hist", "Hal", team.ID, now)
	mustSideQuest(t, store, "sq-done")

	if err := store.CreateAssignment(ctx, storage.QuestAssignmentRecord{
		ID: "as-done", PlayerID: "p-hist", SideQuestID: "sq-done", AssignedAt: now, Active: true,
	}); err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	if err := store.CompleteAssignment(ctx, "as-done", now.Add(5*time.Minute)); err != nil {
		t.Fatalf("complete assignment: %v", err)
	}

	if _, err := store.GetActiveAssignment(ctx, "p-hist"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("active after complete = %v, want %v", err, storage.ErrNotFound)
	}

	history, err := store.ListCompletedAssignments(ctx, "p-hist")
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history len = %d, want 1", len(history))
	}
	if history[0].Quest.ID != "sq-done" {
		t.Fatalf("history quest = %q, want sq-done", history[0].Quest.ID)
	}
	if history[0].Assignment.CompletedAt == nil {
		t.Fatal("expected completed_at set")
	}
}

func TestSessionResolvesPlayer(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 29, 21, 10, 0, 0, time.UTC)
	team := mustTeam(t, store, "Sessions", now)
	mustPlayer(t, store, "p-sess", "Sasha", team.ID, now)

	if err := store.CreateSession(ctx, storage.SessionRecord{TokenID: "tok-1", PlayerID: "p-sess", CreatedAt: now}); err != nil {
		t.Fatalf("create session: %v", err)
	}
	player, err := store.GetSessionPlayer(ctx, "tok-1")
	if err != nil {
		t.Fatalf("get session player: %v", err)
	}
	if player.ID != "p-sess" {
		t.Fatalf("player = %q, want p-sess", player.ID)
	}
	if _, err := store.GetSessionPlayer(ctx, "tok-unknown"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("unknown token error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestAdminLookupByUsername(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 29, 21, 20, 0, 0, time.UTC)

	if err := store.CreateAdmin(ctx, storage.AdminRecord{ID: "adm-1", Username: "host", KeyHash: "hash", CreatedAt: now}); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	admin, err := store.GetAdminByUsername(ctx, "host")
	if err != nil {
		t.Fatalf("get admin by username: %v", err)
	}
	if admin.ID != "adm-1" {
		t.Fatalf("admin id = %q, want adm-1", admin.ID)
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "gameshow.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func mustTeam(t *testing.T, store *Store, name string, now time.Time) storage.TeamRecord {
	t.Helper()
	team, _, err := store.EnsureTeam(context.Background(), name, now)
	if err != nil {
		t.Fatalf("ensure team %s: %v", name, err)
	}
	return team
}

func mustPlayer(t *testing.T, store *Store, id, name, teamID string, now time.Time) {
	t.Helper()
	err := store.CreatePlayer(context.Background(), storage.PlayerRecord{
		ID: id, Name: name, TeamID: teamID, CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("create player %s: %v", id, err)
	}
}

func mustQuestion(t *testing.T, store *Store, id string) {
	t.Helper()
	err := store.CreateQuestion(context.Background(), storage.QuestionRecord{
		ID: id, Category: "General", Value: 100, Question: "Q " + id, Answer: "A " + id,
	})
	if err != nil {
		t.Fatalf("create question %s: %v", id, err)
	}
}

func mustRound(t *testing.T, store *Store, roundID, answerID string) {
	t.Helper()
	ctx := context.Background()
	if err := store.CreateFeudRound(ctx, storage.FeudRoundRecord{ID: roundID, Question: "Round " + roundID}); err != nil {
		t.Fatalf("create round %s: %v", roundID, err)
	}
	if err := store.CreateFeudAnswer(ctx, storage.FeudAnswerRecord{ID: answerID, RoundID: roundID, Answer: "Answer", Points: 10}); err != nil {
		t.Fatalf("create answer %s: %v", answerID, err)
	}
}

func mustSideQuest(t *testing.T, store *Store, id string) {
	t.Helper()
	err := store.CreateSideQuest(context.Background(), storage.SideQuestRecord{
		ID: id, Prompt: "Quest " + id, Points: 25,
	})
	if err != nil {
		t.Fatalf("create side quest %s: %v", id, err)
	}
}
