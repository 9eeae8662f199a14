package room

import (
	"sync"

	"github.com/google/uuid"

	"triviarena/server/internal/protocol"
)

// Registry owns every open room, keyed by id.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Create registers a new room with a fresh unique id; the admin is its first
// member.
func (reg *Registry) Create(admin string, meta Metadata) *Room {
	meta.ID = reg.generateID()
	meta.Active = false

	r := newRoom(admin, meta)
	reg.mu.Lock()
	reg.rooms[meta.ID] = r
	reg.mu.Unlock()
	return r
}

// Get looks a room up by id.
func (reg *Registry) Get(id string) (*Room, *protocol.Error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	r, ok := reg.rooms[id]
	if !ok {
		return nil, protocol.E(protocol.ErrNotFound, "Room not found")
	}
	return r, nil
}

// Delete drops a room; deleting an absent id is a no-op.
func (reg *Registry) Delete(id string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.rooms, id)
}

// List returns a snapshot of every room's metadata.
func (reg *Registry) List() []Metadata {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	out := make([]Metadata, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		out = append(out, r.Metadata())
	}
	return out
}

// Count returns the number of open rooms.
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// RemoveMember drops a user from a room and deletes the room once it is
// empty. Unknown rooms are a no-op.
func (reg *Registry) RemoveMember(id, username string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[id]
	if !ok {
		return
	}
	r.RemoveMember(username)
	if r.MemberCount() == 0 {
		delete(reg.rooms, id)
	}
}

// generateID retries random uuids until one misses the current registry
// snapshot. Collisions are astronomically unlikely, so this loop is
// effectively a single iteration.
func (reg *Registry) generateID() string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	for {
		id := uuid.NewString()
		if _, taken := reg.rooms[id]; !taken {
			return id
		}
	}
}
