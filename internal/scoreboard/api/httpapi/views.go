package httpapi

import (
	"time"

	"github.com/louisbranch/gameshow/internal/scoreboard/quest"
	"github.com/louisbranch/gameshow/internal/scoreboard/storage"
)

// Views are raw row projections. Clients re-query on feed events, so the API
// ships rows as stored instead of computed view-models.

type playerView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TeamID    string    `json:"team_id"`
	Points    int64     `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

type teamView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int64  `json:"points"`
}

type questionView struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Value    int64  `json:"value"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Used     bool   `json:"used"`
}

type buzzView struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	TeamName   string    `json:"team"`
	CreatedAt  time.Time `json:"created_at"`
}

type roundView struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Strikes  int64  `json:"strikes"`
	Active   bool   `json:"active"`
}

type answerView struct {
	ID       string `json:"id"`
	RoundID  string `json:"round_id"`
	Answer   string `json:"answer"`
	Points   int64  `json:"points"`
	Revealed bool   `json:"revealed"`
}

type assignmentView struct {
	ID          string     `json:"id"`
	QuestID     string     `json:"quest_id"`
	Prompt      string     `json:"prompt"`
	Points      int64      `json:"points"`
	AssignedAt  time.Time  `json:"assigned_at"`
	Active      bool       `json:"active"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func toPlayerView(p storage.PlayerRecord) playerView {
	return playerView{ID: p.ID, Name: p.Name, TeamID: p.TeamID, Points: p.Points, CreatedAt: p.CreatedAt}
}

func toPlayerViews(players []storage.PlayerRecord) []playerView {
	views := make([]playerView, 0, len(players))
	for _, p := range players {
		views = append(views, toPlayerView(p))
	}
	return views
}

func toTeamViews(teams []storage.TeamRecord) []teamView {
	views := make([]teamView, 0, len(teams))
	for _, t := range teams {
		views = append(views, teamView{ID: t.ID, Name: t.Name, Points: t.Points})
	}
	return views
}

func toQuestionView(q storage.QuestionRecord) questionView {
	return questionView{ID: q.ID, Category: q.Category, Value: q.Value, Question: q.Question, Answer: q.Answer, Used: q.Used}
}

func toQuestionViews(questions []storage.QuestionRecord) []questionView {
	views := make([]questionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, toQuestionView(q))
	}
	return views
}

func toBuzzViews(buzzes []storage.BuzzRecord) []buzzView {
	views := make([]buzzView, 0, len(buzzes))
	for _, b := range buzzes {
		views = append(views, buzzView{
			ID:         b.ID,
			QuestionID: b.QuestionID,
			PlayerID:   b.PlayerID,
			PlayerName: b.PlayerName,
			TeamName:   b.TeamName,
			CreatedAt:  b.CreatedAt,
		})
	}
	return views
}

func toRoundView(r storage.FeudRoundRecord) roundView {
	return roundView{ID: r.ID, Question: r.Question, Strikes: r.Strikes, Active: r.Active}
}

func toAnswerViews(answers []storage.FeudAnswerRecord) []answerView {
	views := make([]answerView, 0, len(answers))
	for _, a := range answers {
		views = append(views, answerView{ID: a.ID, RoundID: a.RoundID, Answer: a.Answer, Points: a.Points, Revealed: a.Revealed})
	}
	return views
}

func toAssignmentView(v quest.AssignmentView) assignmentView {
	return assignmentView{
		ID:          v.Assignment.ID,
		QuestID:     v.Quest.ID,
		Prompt:      v.Quest.Prompt,
		Points:      v.Quest.Points,
		AssignedAt:  v.Assignment.AssignedAt,
		Active:      v.Assignment.Active,
		CompletedAt: v.Assignment.CompletedAt,
	}
}

func toHistoryViews(entries []storage.QuestHistoryEntry) []assignmentView {
	views := make([]assignmentView, 0, len(entries))
	for _, e := range entries {
		views = append(views, toAssignmentView(quest.AssignmentView{Assignment: e.Assignment, Quest: e.Quest}))
	}
	return views
}
