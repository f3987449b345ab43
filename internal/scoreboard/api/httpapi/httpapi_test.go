package httpapi_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/louisbranch/gameshow/internal/scoreboard/api/httpapi"
	"github.com/louisbranch/gameshow/internal/scoreboard/buzzer"
	"github.com/louisbranch/gameshow/internal/scoreboard/feed"
	"github.com/louisbranch/gameshow/internal/scoreboard/game"
	"github.com/louisbranch/gameshow/internal/scoreboard/quest"
	"github.com/louisbranch/gameshow/internal/scoreboard/roster"
	"github.com/louisbranch/gameshow/internal/scoreboard/scoring"
	"github.com/louisbranch/gameshow/internal/scoreboard/storage"
	"github.com/louisbranch/gameshow/internal/scoreboard/storage/notify"
	"github.com/louisbranch/gameshow/internal/scoreboard/storage/sqlite"
)

var testClock = time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)

type testServer struct {
	srv   *httptest.Server
	store storage.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	inner, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := inner.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})

	hub := feed.NewHub()
	store := notify.Wrap(inner, hub)

	rosterSvc, err := roster.New(store, []byte("api-test-secret"))
	if err != nil {
		t.Fatalf("create roster service: %v", err)
	}

	handler := httpapi.New(httpapi.Deps{
		Roster:  rosterSvc,
		Game:    game.New(store, game.WithNow(func() time.Time { return testClock })),
		Buzzer:  buzzer.New(store, buzzer.WithNow(func() time.Time { return testClock })),
		Quest:   quest.New(store, quest.WithNow(func() time.Time { return testClock })),
		Scoring: scoring.New(store),
		Hub:     hub,
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, store: store}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func (ts *testServer) join(t *testing.T, name, team string) (playerID, token string) {
	t.Helper()

	resp := ts.do(t, http.MethodPost, "/join", "", map[string]string{"name": name, "team": team})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("join status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Player struct {
			ID string `json:"id"`
		} `json:"player"`
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	return body.Player.ID, body.Token
}

func (ts *testServer) adminToken(t *testing.T) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("host-key"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash key: %v", err)
	}
	if err := ts.store.CreateAdmin(context.Background(), storage.AdminRecord{
		ID: "adm-1", Username: "host", KeyHash: string(hash), CreatedAt: testClock,
	}); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	resp := ts.do(t, http.MethodPost, "/admin/login", "", map[string]string{
		"username": "host", "key": "host-key",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin login status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	return body.Token
}

func TestJoinAndSession(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	playerID, token := ts.join(t, "Sam", "Red")

	resp := ts.do(t, http.MethodGet, "/session", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("session status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Player struct {
			ID string `json:"id"`
		} `json:"player"`
	}
	decodeBody(t, resp, &body)
	if body.Player.ID != playerID {
		t.Fatalf("session player = %q, want %q", body.Player.ID, playerID)
	}
}

func TestJoinValidation(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	resp := ts.do(t, http.MethodPost, "/join", "", map[string]string{"name": "", "team": "Red"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, resp, &body)
	if body.Error.Code != "PLAYER_NAME_EMPTY" {
		t.Fatalf("code = %q, want PLAYER_NAME_EMPTY", body.Error.Code)
	}
}

func TestBuzzRejectedInNormalMode(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	_, token := ts.join(t, "Sam", "Red")

	resp := ts.do(t, http.MethodPost, "/buzz", token, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestBuzzRequiresSession(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	resp := ts.do(t, http.MethodPost, "/buzz", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestAdminEndpointsRequireAdminToken(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	_, playerToken := ts.join(t, "Sam", "Red")

	resp := ts.do(t, http.MethodPost, "/admin/mode", "", map[string]string{"mode": "jeopardy"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", resp.StatusCode)
	}

	resp = ts.do(t, http.MethodPost, "/admin/mode", playerToken, map[string]string{"mode": "jeopardy"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("player token status = %d, want 403", resp.StatusCode)
	}
}

func TestJeopardyFlowOverHTTP(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ctx := context.Background()
	admin := ts.adminToken(t)
	playerID, playerToken := ts.join(t, "Sam", "Red")

	if err := ts.store.CreateQuestion(ctx, storage.QuestionRecord{
		ID: "q-1", Category: "Movies", Value: 100, Question: "Q", Answer: "A",
	}); err != nil {
		t.Fatalf("create question: %v", err)
	}

	resp := ts.do(t, http.MethodPost, "/admin/mode", admin, map[string]string{"mode": "jeopardy"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set mode status = %d, want 200", resp.StatusCode)
	}
	resp = ts.do(t, http.MethodPost, "/admin/questions/q-1/select", admin, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("select status = %d, want 200", resp.StatusCode)
	}

	resp = ts.do(t, http.MethodPost, "/buzz", playerToken, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("buzz status = %d, want 201", resp.StatusCode)
	}
	resp = ts.do(t, http.MethodPost, "/buzz", playerToken, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second buzz status = %d, want 409", resp.StatusCode)
	}

	resp = ts.do(t, http.MethodGet, "/buzzes", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("buzzes status = %d, want 200", resp.StatusCode)
	}
	var buzzes struct {
		Buzzes []struct {
			PlayerID string `json:"player_id"`
		} `json:"buzzes"`
	}
	decodeBody(t, resp, &buzzes)
	if len(buzzes.Buzzes) != 1 || buzzes.Buzzes[0].PlayerID != playerID {
		t.Fatalf("buzzes = %+v, want one from %s", buzzes.Buzzes, playerID)
	}

	resp = ts.do(t, http.MethodPost, "/admin/points", admin, map[string]any{
		"player_id": playerID, "delta": 100,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("points status = %d, want 200", resp.StatusCode)
	}
	var awarded struct {
		Player struct {
			Points int64 `json:"points"`
		} `json:"player"`
	}
	decodeBody(t, resp, &awarded)
	if awarded.Player.Points != 100 {
		t.Fatalf("points = %d, want 100", awarded.Player.Points)
	}
}

func TestAwardPointsRejectsZeroDelta(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	admin := ts.adminToken(t)
	playerID, _ := ts.join(t, "Sam", "Red")

	resp := ts.do(t, http.MethodPost, "/admin/points", admin, map[string]any{
		"player_id": playerID, "delta": 0,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestEventsStreamDeliversChangeFrames(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.srv.URL+"/events?tables=teams", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := ts.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("open event stream: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("content type = %q, want text/event-stream", got)
	}

	reader := bufio.NewReader(resp.Body)
	readFrame := func() (event, data string) {
		t.Helper()
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("read stream: %v", err)
			}
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "" && event != "":
				return event, data
			}
		}
	}

	if event, _ := readFrame(); event != "ready" {
		t.Fatalf("first frame = %q, want ready", event)
	}

	ts.join(t, "Sam", "Aubergines")

	event, data := readFrame()
	if event != "change" {
		t.Fatalf("frame = %q, want change", event)
	}
	var change struct {
		Table string `json:"table"`
		Op    string `json:"op"`
	}
	if err := json.Unmarshal([]byte(data), &change); err != nil {
		t.Fatalf("decode change %q: %v", data, err)
	}
	if change.Table != "teams" || change.Op != "insert" {
		t.Fatalf("change = %+v, want teams insert", change)
	}
}

func TestStateReflectsFeudRound(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ctx := context.Background()
	admin := ts.adminToken(t)

	if err := ts.store.CreateFeudRound(ctx, storage.FeudRoundRecord{ID: "r-1", Question: "Survey"}); err != nil {
		t.Fatalf("create round: %v", err)
	}
	if err := ts.store.CreateFeudAnswer(ctx, storage.FeudAnswerRecord{
		ID: "a-1", RoundID: "r-1", Answer: "Top", Points: 40,
	}); err != nil {
		t.Fatalf("create answer: %v", err)
	}

	resp := ts.do(t, http.MethodPost, "/admin/mode", admin, map[string]string{"mode": "familyfeud"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set mode status = %d, want 200", resp.StatusCode)
	}

	resp = ts.do(t, http.MethodGet, "/state", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("state status = %d, want 200", resp.StatusCode)
	}
	var state struct {
		Mode        string `json:"mode"`
		ActiveRound *struct {
			ID string `json:"id"`
		} `json:"active_round"`
		RoundAnswers []struct {
			Revealed bool `json:"revealed"`
		} `json:"round_answers"`
	}
	decodeBody(t, resp, &state)
	if state.Mode != "familyfeud" {
		t.Fatalf("mode = %q, want familyfeud", state.Mode)
	}
	if state.ActiveRound == nil || state.ActiveRound.ID != "r-1" {
		t.Fatalf("active round = %+v, want r-1", state.ActiveRound)
	}
	if len(state.RoundAnswers) != 1 {
		t.Fatalf("answers = %d, want 1", len(state.RoundAnswers))
	}

	resp = ts.do(t, http.MethodPost, fmt.Sprintf("/admin/feud/answers/%s/reveal", "a-1"), admin, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reveal status = %d, want 200", resp.StatusCode)
	}
}
