package main

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/nickyhof/RecordDB/db"
	"golang.org/x/sync/errgroup"
)

// Server is a TCP server that executes one command per line against a shared
// database and answers each with a JSON db.Response.
type Server struct {
	listener   net.Listener
	database   *db.AnyDatabase
	authConfig *AuthConfig
	tlsEnabled bool
	logger     *slog.Logger

	mu sync.Mutex // serializes ExecuteCommand

	// group runs the accept loop and one goroutine per connection; ctx is
	// cancelled by Stop or when the accept loop fails.
	group    *errgroup.Group
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	stopErr  error
}

// NewServer creates a server without authentication.
func NewServer(database *db.AnyDatabase, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)
	return &Server{
		database: database,
		logger:   logger,
		group:    group,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// NewServerWithAuth creates a server that requires AUTH before any command.
func NewServerWithAuth(database *db.AnyDatabase, authConfig *AuthConfig, logger *slog.Logger) *Server {
	server := NewServer(database, logger)
	server.authConfig = authConfig
	return server
}

// Start begins listening for connections on the specified address.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listen(listener)
	return nil
}

// StartTLS is Start with a TLS listener.
func (s *Server) StartTLS(addr, certFile, keyFile string) error {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	listener, err := tls.Listen("tcp", addr, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
	if err != nil {
		return fmt.Errorf("failed to start TLS server: %w", err)
	}
	s.tlsEnabled = true
	s.listen(listener)
	return nil
}

func (s *Server) listen(listener net.Listener) {
	s.listener = listener
	s.logger.Info("server listening",
		"addr", listener.Addr().String(),
		"tls", s.tlsEnabled,
		"auth", s.authConfig != nil)
	s.group.Go(s.acceptLoop)
}

// Serve blocks until ctx is cancelled or the accept loop fails, then stops
// the server.
func (s *Server) Serve(ctx context.Context) error {
	select {
	case <-ctx.Done():
		s.logger.Info("shutting down server")
	case <-s.ctx.Done():
	}
	return s.Stop()
}

// Stop closes the listener and open connections and waits for their
// goroutines. It is safe to call more than once.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		s.cancel()
		if s.listener != nil {
			_ = s.listener.Close()
		}
		s.stopErr = s.group.Wait()
	})
	return s.stopErr
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// TLSEnabled reports whether the listener speaks TLS.
func (s *Server) TLSEnabled() bool {
	return s.tlsEnabled
}

func (s *Server) acceptLoop() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}

		s.group.Go(func() error {
			s.handleConnection(conn)
			return nil
		})
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	logger := s.logger.With("conn", uuid.NewString(), "remote", conn.RemoteAddr().String())
	logger.Info("client connected")
	defer logger.Info("client disconnected")

	// unblock the read below on shutdown
	stop := context.AfterFunc(s.ctx, func() { _ = conn.Close() })
	defer stop()

	reader := bufio.NewReader(conn)
	state := &ConnectionState{}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF && !errors.Is(err, net.ErrClosed) {
				logger.Warn("read failed", "error", err)
			}
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if state.pending == "" && (strings.EqualFold(line, "quit") || strings.EqualFold(line, "exit")) {
			return
		}

		response, ok := s.handleLine(line, state, logger)
		if !ok {
			continue
		}

		data, err := db.EncodeResponse(response)
		if err != nil {
			logger.Error("failed to encode response", "error", err)
			continue
		}
		if _, err := conn.Write(data); err != nil {
			logger.Warn("write failed", "error", err)
			return
		}
	}
}

// handleLine runs one input line. It returns false when the line is the first
// half of a CREATE and nothing should be sent yet.
func (s *Server) handleLine(line string, state *ConnectionState, logger *slog.Logger) (db.Response, bool) {
	if state.pending == "" && isAuthCommand(line) {
		response := s.handleAuth(line, state)
		if response.Success {
			logger.Info("client authenticated", "identity", state.Identity().String())
		} else {
			logger.Warn("authentication failed", "error", response.Error)
		}
		return response, true
	}

	if err := s.checkAuth(state); err != nil {
		state.pending = ""
		return authError(err), true
	}

	text := line
	switch {
	case state.pending != "":
		text = state.pending + "\n" + line
		state.pending = ""
	case db.NeedsContinuation(line):
		state.pending = line
		return db.Response{}, false
	}

	return s.execute(text, logger), true
}

func (s *Server) execute(text string, logger *slog.Logger) db.Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.database.ExecuteCommand(text)
	if err != nil {
		logger.Debug("command failed", "error", err)
	}
	return db.NewResponse(result, err)
}
