package server

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triviarena/server/internal/game"
	"triviarena/server/internal/protocol"
	"triviarena/server/internal/room"
	"triviarena/server/internal/session"
	"triviarena/server/internal/storage"
)

// loginOnlyStore answers the existence check; nothing else is reached in
// these tests.
type loginOnlyStore struct {
	storage.Store
}

func (loginOnlyStore) UserExists(username string) (bool, error) { return false, nil }

type noopNotifier struct{}

func (noopNotifier) SendVerificationEmail(address, code, username string) error { return nil }
func (noopNotifier) SendPasswordRecoveryEmail(address, secret string) error     { return nil }

func startTestServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps := &session.Deps{
		Store:  loginOnlyStore{},
		Mail:   noopNotifier{},
		Rooms:  room.NewRegistry(),
		Games:  game.NewRegistry(loginOnlyStore{}, logger),
		Logins: session.NewLoginTracker(),
		Log:    logger,
	}
	srv := New(deps, logger)
	go func() {
		if err := srv.ListenAndServe("127.0.0.1:0"); err != nil {
			t.Errorf("server stopped: %v", err)
		}
	}()
	t.Cleanup(srv.Shutdown)

	require.Eventually(t, func() bool { return srv.Addr() != nil }, time.Second, 10*time.Millisecond)
	return srv
}

func writeFrame(t *testing.T, conn net.Conn, kind protocol.Kind, payload any) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	frame := make([]byte, 5+len(body))
	frame[0] = byte(kind)
	binary.BigEndian.PutUint32(frame[1:5], uint32(len(body)))
	copy(frame[5:], body)
	_, err = conn.Write(frame)
	require.NoError(t, err)
}

func readFrame(t *testing.T, conn net.Conn) (protocol.Kind, []byte) {
	t.Helper()
	var header [5]byte
	_, err := io.ReadFull(conn, header[:])
	require.NoError(t, err)
	body := make([]byte, binary.BigEndian.Uint32(header[1:]))
	_, err = io.ReadFull(conn, body)
	require.NoError(t, err)
	return protocol.Kind(header[0]), body
}

func TestServerHandlesRequests(t *testing.T) {
	srv := startTestServer(t)

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return srv.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	writeFrame(t, conn, protocol.KindLogin, protocol.LoginRequest{Username: "ghost", Password: "pw"})
	kind, body := readFrame(t, conn)
	assert.Equal(t, protocol.KindLogin, kind)

	var resp protocol.LoginResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.False(t, resp.Status)
	assert.Equal(t, "User does not exist", resp.Message)
}

func TestServerRejectsMalformedFrames(t *testing.T) {
	srv := startTestServer(t)

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	// unknown kind: error response, connection stays usable
	_, err = conn.Write([]byte{42, 0, 0, 0, 0})
	require.NoError(t, err)

	kind, _ := readFrame(t, conn)
	assert.Equal(t, protocol.KindError, kind)

	writeFrame(t, conn, protocol.KindLogin, protocol.LoginRequest{Username: "ghost", Password: "pw"})
	kind, _ = readFrame(t, conn)
	assert.Equal(t, protocol.KindLogin, kind)
}

func TestServerTracksDisconnects(t *testing.T) {
	srv := startTestServer(t)

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	require.Eventually(t, func() bool { return srv.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return srv.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}
