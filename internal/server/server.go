// Package server accepts TCP clients and runs one protocol session per
// connection.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"

	"triviarena/server/internal/protocol"
	"triviarena/server/internal/session"
)

// client is one live connection and the cancel that tears it down.
type client struct {
	conn   net.Conn
	cancel context.CancelFunc
}

// Server owns the listener and the set of live connections.
type Server struct {
	deps *session.Deps
	log  *slog.Logger

	listener net.Listener

	mu      sync.RWMutex
	clients map[string]client
	closed  bool
}

// New returns a server handling sessions with the given dependencies.
func New(deps *session.Deps, log *slog.Logger) *Server {
	return &Server{deps: deps, log: log, clients: make(map[string]client)}
}

// ListenAndServe binds addr and accepts connections until Shutdown. Each
// connection gets its own goroutine and session.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.log.Info("server listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Error("accept failed", "err", err)
			continue
		}
		go s.serve(conn)
	}
}

// serve runs one connection's read loop from accept to cleanup.
func (s *Server) serve(conn net.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	id := s.register(conn, cancel)
	endpoint := conn.RemoteAddr().String()

	s.log.Info("client connected", "endpoint", endpoint, "conn_id", id)

	sess := session.New(s.deps, endpoint)
	defer func() {
		s.unregister(id)
		cancel()
		conn.Close()
		s.log.Info("client disconnected", "endpoint", endpoint, "conn_id", id)
	}()

	for {
		req, rerr := s.read(conn, endpoint)
		if rerr != nil {
			// a dead socket still runs the session's leave cleanup
			sess.Handle(ctx, protocol.Request{Kind: protocol.KindDisconnect})
			return
		}

		// ReadRequest never yields KindDisconnect, so every handled request
		// has a response to write
		res := sess.Handle(ctx, req)
		if werr := protocol.WriteMessage(conn, res.Kind, res.Payload); werr != nil {
			s.log.Warn("write failed, dropping client", "endpoint", endpoint, "err", werr.Message)
			sess.Handle(ctx, protocol.Request{Kind: protocol.KindDisconnect})
			return
		}
	}
}

// read pulls one frame off the wire. Malformed frames get an error response
// and the loop continues; transport failures end the connection.
func (s *Server) read(conn net.Conn, endpoint string) (protocol.Request, *protocol.Error) {
	for {
		req, err := protocol.ReadRequest(conn)
		if err == nil {
			return req, nil
		}
		if err.Kind != protocol.ErrInvalidRequest {
			return protocol.Request{}, err
		}

		s.log.Warn("malformed request", "endpoint", endpoint, "err", err.Message)
		if werr := protocol.WriteMessage(conn, protocol.KindError, protocol.ErrorResponse{Message: err.Message}); werr != nil {
			return protocol.Request{}, werr
		}
	}
}

func (s *Server) register(conn net.Conn, cancel context.CancelFunc) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id string
	for {
		id = uuid.NewString()
		if _, taken := s.clients[id]; !taken {
			break
		}
	}
	s.clients[id] = client{conn: conn, cancel: cancel}
	return id
}

func (s *Server) unregister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, id)
}

// Addr returns the bound listen address, or nil before ListenAndServe.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ClientCount returns the number of live connections.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Shutdown stops accepting and tears every live connection down; their read
// loops run the per-state disconnect cleanup on the way out.
func (s *Server) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	ln := s.listener
	clients := make([]client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	if ln != nil {
		ln.Close()
	}
	for _, c := range clients {
		c.cancel()
		c.conn.Close()
	}
}
