// Package session implements the per-connection protocol state machine. A
// session is created in the unauthenticated state and routes each request to
// the behavior of its current phase, transitioning as the client logs in,
// enters rooms and plays games.
package session

import (
	"context"
	"log/slog"

	"triviarena/server/internal/game"
	"triviarena/server/internal/mail"
	"triviarena/server/internal/protocol"
	"triviarena/server/internal/room"
	"triviarena/server/internal/storage"
)

// State is the session's phase; it decides which requests are accepted.
type State int

const (
	StateUnauthenticated State = iota
	StateAwaitingVerification
	StateMenu
	StateRoomMember
	StateRoomAdmin
	StateInGame
)

// Deps bundles the process-wide services a session acts on. One instance is
// built at startup and shared by every session.
type Deps struct {
	Store       storage.Store
	Mail        mail.Notifier
	Rooms       *room.Registry
	Games       *game.Registry
	Logins      *LoginTracker
	Log         *slog.Logger
	TokenSecret string
}

// Result is a handler's outcome: the response to frame back to the client.
// State transitions happen inside the session itself.
type Result struct {
	Kind    protocol.Kind
	Payload any
}

// Session is the per-connection state holder.
type Session struct {
	deps     *Deps
	endpoint string

	state    State
	username string

	// verification phase
	email string
	code  string
	tries int

	// room phase
	roomID   string
	roomName string

	// game phase
	gameID string
}

// New returns a session in the unauthenticated state.
func New(deps *Deps, endpoint string) *Session {
	return &Session{deps: deps, endpoint: endpoint, state: StateUnauthenticated}
}

// State returns the session's current phase.
func (s *Session) State() State { return s.state }

// Username returns the authenticated identity, or "" before login.
func (s *Session) Username() string { return s.username }

// Handle dispatches one request to the current phase's handler. Requests
// outside the phase's accepted set are rejected with an error response, never
// silently dropped. A disconnect request runs the phase's leave cleanup; its
// result is not written to the wire.
func (s *Session) Handle(ctx context.Context, req protocol.Request) Result {
	switch s.state {
	case StateUnauthenticated:
		return s.handleUnauthenticated(req)
	case StateAwaitingVerification:
		return s.handleVerification(req)
	case StateMenu:
		return s.handleMenu(req)
	case StateRoomAdmin:
		return s.handleRoomAdmin(req)
	case StateRoomMember:
		return s.handleRoomMember(req)
	case StateInGame:
		return s.handleInGame(ctx, req)
	}
	return s.fail(protocol.E(protocol.ErrInvalidRequest, ""))
}

// fail logs a handler failure with the acting endpoint and renders it as an
// error response.
func (s *Session) fail(err *protocol.Error) Result {
	s.deps.Log.Warn("request failed", "endpoint", s.endpoint, "username", s.username, "err", err.Message)
	return Result{Kind: protocol.KindError, Payload: protocol.ErrorResponse{Message: err.Message}}
}

// failStorage hides collaborator detail from the wire: the specific failure
// is logged, the client sees a generic message.
func (s *Session) failStorage(err error) Result {
	s.deps.Log.Error("storage failure", "endpoint", s.endpoint, "username", s.username, "err", err)
	return Result{Kind: protocol.KindError, Payload: protocol.ErrorResponse{Message: "Database error"}}
}

// players resolves usernames to their public player summaries.
func (s *Session) players(usernames []string) ([]protocol.Player, error) {
	players := make([]protocol.Player, 0, len(usernames))
	for _, name := range usernames {
		p, err := s.deps.Store.GetPlayerSummary(name)
		if err != nil {
			return nil, err
		}
		players = append(players, protocol.Player{
			Username:    p.Username,
			AvatarColor: p.AvatarColor,
			Score:       p.Score,
		})
	}
	return players, nil
}

// logout releases the authenticated identity. Idempotent: a second call is a
// no-op.
func (s *Session) logout() {
	if s.username != "" {
		s.deps.Logins.Remove(s.username)
	}
	s.username = ""
	s.state = StateUnauthenticated
}
