package game

import (
	"context"
	"sync"
	"time"

	"triviarena/server/internal/protocol"
)

// RevealBufferSeconds is the reveal window appended to every question: the
// correct answer is disclosed this many seconds before the next question
// starts.
const RevealBufferSeconds = 5

// Game is one running round of trivia. The question list, player map and
// start instant are fixed at creation; only the online set and the records'
// contents mutate.
type Game struct {
	id              string
	questions       []Question
	timePerQuestion uint
	start           time.Time

	onlineMu sync.RWMutex
	online   map[string]struct{}

	playersMu sync.RWMutex
	players   map[string]*PlayerRecord
}

// NewGame starts a game for the given players. The start instant is captured
// now; Go time.Time carries a monotonic reading, so wall-clock changes do not
// shift the schedule.
func NewGame(id string, questions []Question, players []string, timePerQuestion uint) *Game {
	g := &Game{
		id:              id,
		questions:       questions,
		timePerQuestion: timePerQuestion,
		start:           time.Now(),
		online:          make(map[string]struct{}, len(players)),
		players:         make(map[string]*PlayerRecord, len(players)),
	}
	for _, p := range players {
		g.online[p] = struct{}{}
		g.players[p] = newPlayerRecord(len(questions), timePerQuestion)
	}
	return g
}

func (g *Game) ID() string            { return g.id }
func (g *Game) TimePerQuestion() uint { return g.timePerQuestion }

// Questions returns the game's question list.
func (g *Game) Questions() []Question {
	return append([]Question(nil), g.questions...)
}

// cycleSeconds is one question's answer window plus its reveal buffer.
func (g *Game) cycleSeconds() uint {
	return g.timePerQuestion + RevealBufferSeconds
}

func (g *Game) elapsedSeconds() uint {
	return uint(time.Since(g.start) / time.Second)
}

// CurrentIndex derives the running question from elapsed time alone.
func (g *Game) CurrentIndex() uint {
	return g.elapsedSeconds() / g.cycleSeconds()
}

// Finished reports whether every question's cycle has elapsed.
func (g *Game) Finished() bool {
	return g.elapsedSeconds() >= uint(len(g.questions))*g.cycleSeconds()
}

// CurrentQuestion returns the running question and its index.
func (g *Game) CurrentQuestion() (uint, Question, *protocol.Error) {
	idx := g.CurrentIndex()
	if idx >= uint(len(g.questions)) {
		return 0, Question{}, protocol.E(protocol.ErrInvalidRequest, "Game is already finished")
	}
	return idx, g.questions[idx], nil
}

// SubmitAnswer validates a submission against the current question, then
// blocks the caller until the question's reveal boundary before recording the
// answer and disclosing the correct index. Every submitter of the same
// question computes the same boundary from the shared start instant, so all
// of them wake at effectively the same moment; the response itself is the
// disclosure. ctx cancellation (a dying connection) aborts the wait.
func (g *Game) SubmitAnswer(ctx context.Context, username string, answerIdx, questionIdx uint) (uint, *protocol.Error) {
	elapsed := g.elapsedSeconds()

	if answerIdx > NoAnswerIndex {
		return 0, protocol.E(protocol.ErrInvalidRequest, "Invalid answer index, use only our client!")
	}

	current := elapsed / g.cycleSeconds()
	if current >= uint(len(g.questions)) {
		return 0, protocol.E(protocol.ErrInvalidRequest, "Game is already finished")
	}
	if questionIdx != current {
		return 0, protocol.E(protocol.ErrInvalidRequest, "Answer submitted for wrong question")
	}

	// the instant the reveal buffer begins, as an offset from game start
	release := (current+1)*g.cycleSeconds() - RevealBufferSeconds
	if elapsed >= release {
		return 0, protocol.E(protocol.ErrInvalidRequest, "Answer already released")
	}

	deadline := g.start.Add(time.Duration(release) * time.Second)
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return 0, protocol.E(protocol.ErrDisconnected, "")
	}

	// time consumed out of the answer window, measured against the boundary
	answerTime := g.timePerQuestion - (release - elapsed)

	g.playersMu.Lock()
	if rec, ok := g.players[username]; ok {
		rec.Answers[questionIdx] = Answer{Chosen: answerIdx, Time: answerTime}
	}
	g.playersMu.Unlock()

	return g.questions[questionIdx].CorrectIndex, nil
}

// RemovePlayer drops a player from the online set; the record stays, the
// game keeps running. Removing an absent player is a no-op.
func (g *Game) RemovePlayer(username string) {
	g.onlineMu.Lock()
	defer g.onlineMu.Unlock()
	delete(g.online, username)
}

// OnlinePlayers returns the players still connected to this game.
func (g *Game) OnlinePlayers() []string {
	g.onlineMu.RLock()
	defer g.onlineMu.RUnlock()

	out := make([]string, 0, len(g.online))
	for p := range g.online {
		out = append(out, p)
	}
	return out
}

// IsOnline reports whether the player has not left the game.
func (g *Game) IsOnline(username string) bool {
	g.onlineMu.RLock()
	defer g.onlineMu.RUnlock()
	_, ok := g.online[username]
	return ok
}

// OnlineCount returns the size of the online set.
func (g *Game) OnlineCount() int {
	g.onlineMu.RLock()
	defer g.onlineMu.RUnlock()
	return len(g.online)
}

// Punish flags a player for abandoning an unfinished game.
func (g *Game) Punish(username string) {
	g.playersMu.Lock()
	defer g.playersMu.Unlock()
	if rec, ok := g.players[username]; ok {
		rec.Punished = true
	}
}

// MarkPersisted flips the player's persisted flag and reports whether this
// call did the flipping. The check and the set are one critical section, so
// two concurrent persistence triggers cannot both win.
func (g *Game) MarkPersisted(username string) bool {
	g.playersMu.Lock()
	defer g.playersMu.Unlock()

	rec, ok := g.players[username]
	if !ok || rec.Persisted {
		return false
	}
	rec.Persisted = true
	return true
}

// Record returns a copy of one player's record.
func (g *Game) Record(username string) (*PlayerRecord, bool) {
	g.playersMu.RLock()
	defer g.playersMu.RUnlock()

	rec, ok := g.players[username]
	if !ok {
		return nil, false
	}
	return rec.clone(), true
}

// Results returns a deep-copied snapshot of every player's record.
func (g *Game) Results() map[string]*PlayerRecord {
	g.playersMu.RLock()
	defer g.playersMu.RUnlock()

	out := make(map[string]*PlayerRecord, len(g.players))
	for name, rec := range g.players {
		out[name] = rec.clone()
	}
	return out
}
