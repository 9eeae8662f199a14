package game

import (
	"log/slog"
	"sync"

	"triviarena/server/internal/protocol"
	"triviarena/server/internal/room"
	"triviarena/server/internal/storage"
)

// Registry owns every in-progress game, keyed by the originating room's id.
type Registry struct {
	mu    sync.RWMutex
	games map[string]*Game
	store storage.Store
	log   *slog.Logger
}

// NewRegistry returns an empty registry persisting results through store.
func NewRegistry(store storage.Store, log *slog.Logger) *Registry {
	return &Registry{games: make(map[string]*Game), store: store, log: log}
}

// Create builds a game from a room's roster and question demand. The room's
// full member list becomes the fixed player map. The room-to-game membership
// transfer is deliberately not atomic across the two registries; no
// correctness property depends on it and keeping the lock scopes independent
// lets unrelated rooms proceed concurrently.
func (reg *Registry) Create(r *room.Room) (*Game, *protocol.Error) {
	meta := r.Metadata()

	data, err := reg.store.FetchQuestions(int(meta.QuestionCount))
	if err != nil {
		reg.log.Error("failed to fetch questions for game", "room_id", meta.ID, "err", err)
		return nil, protocol.E(protocol.ErrNotFound, "Not enough questions found")
	}

	questions := make([]Question, len(data))
	for i, d := range data {
		questions[i] = NewQuestion(d)
	}

	g := NewGame(meta.ID, questions, r.Members(), meta.TimePerQuestion)
	reg.mu.Lock()
	reg.games[g.ID()] = g
	reg.mu.Unlock()
	return g, nil
}

// Get looks a game up by id.
func (reg *Registry) Get(id string) (*Game, *protocol.Error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	g, ok := reg.games[id]
	if !ok {
		return nil, protocol.E(protocol.ErrNotFound, "Game not found")
	}
	return g, nil
}

// Count returns the number of running games.
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.games)
}

// RemovePlayer takes a player out of a game's online set and settles their
// statistics. A player leaving an unfinished game is punished and persisted
// immediately, because the game keeps running without them and their tally
// cannot be recomputed later. Once the game has finished, every remaining
// unpersisted record is written instead. The game is dropped when its last
// online player is gone.
func (reg *Registry) RemovePlayer(g *Game, username string) {
	finished := g.Finished()

	if !finished {
		g.Punish(username)
	}
	g.RemovePlayer(username)

	if !finished {
		if g.MarkPersisted(username) {
			reg.persist(g, username)
		}
	}

	// the game may have crossed the finish line while we worked
	if g.Finished() {
		reg.persistAll(g)
	}

	if g.OnlineCount() == 0 {
		reg.mu.Lock()
		delete(reg.games, g.ID())
		reg.mu.Unlock()
	}
}

// RemovePlayerByID is RemovePlayer for callers holding only the game id.
// Unknown ids are a no-op: the game already ended and was settled.
func (reg *Registry) RemovePlayerByID(id, username string) {
	g, err := reg.Get(id)
	if err != nil {
		return
	}
	reg.RemovePlayer(g, username)
}

// persist writes one player's game result. Failures are logged and swallowed:
// a storage hiccup must not block the player's departure.
func (reg *Registry) persist(g *Game, username string) {
	rec, ok := g.Record(username)
	if !ok {
		return
	}

	questions := g.Questions()
	res := storage.GameResult{
		CorrectAnswers: rec.CorrectCount(questions),
		WrongAnswers:   rec.WrongCount(questions),
		AvgAnswerTime:  rec.AverageAnswerTime(),
		ScoreChange:    rec.ScoreChange(questions, g.TimePerQuestion()),
	}
	if err := reg.store.RecordGameResult(res, username); err != nil {
		reg.log.Warn("failed to persist game statistics", "game_id", g.ID(), "username", username, "err", err)
	}
}

func (reg *Registry) persistAll(g *Game) {
	for username := range g.Results() {
		if g.MarkPersisted(username) {
			reg.persist(g, username)
		}
	}
}
