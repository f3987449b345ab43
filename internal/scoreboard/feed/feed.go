// Package feed fans out storage change events to subscribers.
//
// Clients watch tables, not rows: an event names the table that changed, the
// kind of change, and the row id when the mutation touched a single row. Bulk
// mutations (clearing the buzz ledger, resetting the board) carry an empty id
// and subscribers refetch the table.
package feed

import (
	"context"
	"sync"
)

// Op is the kind of change applied to a table.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Table names mirror the storage schema so subscribers and the SSE surface
// share one vocabulary.
const (
	TablePlayers     = "players"
	TableTeams       = "teams"
	TableGameState   = "game_state"
	TableQuestions   = "jeopardy_questions"
	TableBuzzes      = "buzzes"
	TableFeudRounds  = "family_feud_rounds"
	TableFeudAnswers = "family_feud_answers"
	TableAssignments = "player_side_quests"
)

// Event is one table change.
type Event struct {
	Table string `json:"table"`
	Op    Op     `json:"op"`
	ID    string `json:"id,omitempty"`
}

type subscriber struct {
	ch     chan Event
	tables map[string]bool
}

// Hub distributes events to any number of subscribers. Publishing never
// blocks; a subscriber whose buffer is full misses the event and catches up on
// its next refetch.
type Hub struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

const subscriberBuffer = 64

// Subscribe registers interest in the given tables, or every table when none
// are named. The returned channel closes when ctx is done.
func (h *Hub) Subscribe(ctx context.Context, tables ...string) <-chan Event {
	sub := &subscriber{ch: make(chan Event, subscriberBuffer)}
	if len(tables) > 0 {
		sub.tables = make(map[string]bool, len(tables))
		for _, t := range tables {
			sub.tables[t] = true
		}
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, sub)
		h.mu.Unlock()
		close(sub.ch)
	}()

	return sub.ch
}

// Publish delivers an event to every matching subscriber without blocking.
func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		if sub.tables != nil && !sub.tables[e.Table] {
			continue
		}
		select {
		case sub.ch <- e:
		default:
		}
	}
}
