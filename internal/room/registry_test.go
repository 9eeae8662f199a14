package room

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triviarena/server/internal/protocol"
)

func testMeta(maxPlayers uint) Metadata {
	return Metadata{Name: "quiz night", MaxPlayers: maxPlayers, QuestionCount: 5, TimePerQuestion: 10}
}

func TestRegistryCreate(t *testing.T) {
	reg := NewRegistry()

	r := reg.Create("alice", testMeta(4))
	meta := r.Metadata()
	require.NotEmpty(t, meta.ID)
	assert.False(t, meta.Active)
	assert.Equal(t, []string{"alice"}, r.Members())
	assert.Equal(t, 1, reg.Count())

	r2 := reg.Create("bob", testMeta(4))
	assert.NotEqual(t, meta.ID, r2.Metadata().ID)
	assert.Equal(t, 2, reg.Count())
}

func TestRegistryGet(t *testing.T) {
	reg := NewRegistry()
	r := reg.Create("alice", testMeta(4))

	got, err := reg.Get(r.Metadata().ID)
	require.Nil(t, err)
	assert.Same(t, r, got)

	_, err = reg.Get("no-such-room")
	require.NotNil(t, err)
	assert.Equal(t, protocol.ErrNotFound, err.Kind)
}

func TestRoomMembership(t *testing.T) {
	t.Run("capacity is enforced", func(t *testing.T) {
		reg := NewRegistry()
		r := reg.Create("alice", testMeta(2))

		require.Nil(t, r.AddMember("bob"))
		err := r.AddMember("carol")
		require.NotNil(t, err)
		assert.Equal(t, protocol.ErrRoomFull, err.Kind)
		assert.Equal(t, 2, r.MemberCount())
	})

	t.Run("duplicate join is refused", func(t *testing.T) {
		reg := NewRegistry()
		r := reg.Create("alice", testMeta(4))

		err := r.AddMember("alice")
		require.NotNil(t, err)
		assert.Equal(t, protocol.ErrAlreadyExists, err.Kind)
	})

	t.Run("members keeps join order", func(t *testing.T) {
		reg := NewRegistry()
		r := reg.Create("alice", testMeta(4))
		require.Nil(t, r.AddMember("bob"))
		require.Nil(t, r.AddMember("carol"))

		assert.Equal(t, []string{"alice", "bob", "carol"}, r.Members())

		r.RemoveMember("bob")
		assert.Equal(t, []string{"alice", "carol"}, r.Members())

		r.RemoveMember("nobody")
		assert.Equal(t, 2, r.MemberCount())
	})
}

func TestRegistryRemoveMember(t *testing.T) {
	reg := NewRegistry()
	r := reg.Create("alice", testMeta(4))
	require.Nil(t, r.AddMember("bob"))
	id := r.Metadata().ID

	reg.RemoveMember(id, "bob")
	assert.Equal(t, 1, reg.Count())

	// the last member leaving deletes the room
	reg.RemoveMember(id, "alice")
	assert.Equal(t, 0, reg.Count())
	_, err := reg.Get(id)
	require.NotNil(t, err)
	assert.Equal(t, protocol.ErrNotFound, err.Kind)

	// removing from a deleted room is a no-op
	reg.RemoveMember(id, "alice")
}

func TestRegistryDelete(t *testing.T) {
	reg := NewRegistry()
	r := reg.Create("alice", testMeta(4))

	reg.Delete(r.Metadata().ID)
	assert.Equal(t, 0, reg.Count())
	reg.Delete("no-such-room")
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := NewRegistry()
	r := reg.Create("admin", testMeta(200))
	id := r.Metadata().ID

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			username := fmt.Sprintf("user%d", n)
			assert.Nil(t, r.AddMember(username))
			_ = r.Members()
			reg.RemoveMember(id, username)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, r.MemberCount())
	assert.Equal(t, 1, reg.Count())
}
