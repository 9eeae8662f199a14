// Package room owns the lobby registry: rooms of users waiting for a game.
package room

import (
	"sync"

	"triviarena/server/internal/protocol"
)

// Metadata is a room's configuration. Active flips true exactly once, when
// the room's game has been created.
type Metadata struct {
	ID              string
	Name            string
	MaxPlayers      uint
	QuestionCount   uint
	TimePerQuestion uint
	Active          bool
}

// Room is one lobby. Membership has its own lock so rooms mutate
// independently of each other and of the registry.
type Room struct {
	mu      sync.RWMutex
	meta    Metadata
	members []string
}

func newRoom(admin string, meta Metadata) *Room {
	return &Room{meta: meta, members: []string{admin}}
}

// Metadata returns a snapshot of the room's configuration.
func (r *Room) Metadata() Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.meta
}

// SetActive marks the room's game as started.
func (r *Room) SetActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meta.Active = active
}

// AddMember appends a user, refusing duplicates and overflow.
func (r *Room) AddMember(username string) *protocol.Error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if uint(len(r.members)) >= r.meta.MaxPlayers {
		return protocol.E(protocol.ErrRoomFull, "")
	}
	for _, m := range r.members {
		if m == username {
			return protocol.E(protocol.ErrAlreadyExists, "User already in the room")
		}
	}
	r.members = append(r.members, username)
	return nil
}

// RemoveMember drops a user; removing an absent user is a no-op.
func (r *Room) RemoveMember(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, m := range r.members {
		if m == username {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return
		}
	}
}

// Members returns a copy of the membership list in join order.
func (r *Room) Members() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.members...)
}

// MemberCount returns the current number of members.
func (r *Room) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}
