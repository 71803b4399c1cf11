package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/netutil"

	apperrors "github.com/Onyx-Digital-Dev/vacuum-launcher/internal/errors"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/ipc"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/logfields"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/metrics"
)

const (
	// defaultIOTimeout bounds one whole exchange: a client that connects
	// and never writes cannot pin a handler goroutine.
	defaultIOTimeout = 5 * time.Second

	// defaultMaxConns caps handler goroutines. A desktop front-end opens a
	// handful of connections; anything near this limit is misbehavior.
	defaultMaxConns = 64

	staleProbeTimeout = time.Second
)

// ServerConfig bounds the socket server's intake. Zero fields fall back to
// the package defaults.
type ServerConfig struct {
	Path      string
	MaxConns  int
	IOTimeout time.Duration
}

// SocketServer answers one command per connection on the launcher's Unix
// socket. It enforces the single-instance rule at startup by probing any
// existing socket file before claiming it.
type SocketServer struct {
	path       string
	maxConns   int
	ioTimeout  time.Duration
	dispatcher *Dispatcher
	logger     *slog.Logger
	recorder   metrics.Recorder

	listener net.Listener
	wg       sync.WaitGroup
}

// NewSocketServer builds a server bound to cfg.Path once Start is called.
func NewSocketServer(cfg ServerConfig, dispatcher *Dispatcher, logger *slog.Logger, recorder metrics.Recorder) *SocketServer {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = defaultMaxConns
	}
	if cfg.IOTimeout <= 0 {
		cfg.IOTimeout = defaultIOTimeout
	}
	return &SocketServer{
		path:       cfg.Path,
		maxConns:   cfg.MaxConns,
		ioTimeout:  cfg.IOTimeout,
		dispatcher: dispatcher,
		logger:     logger,
		recorder:   recorder,
	}
}

// Path returns the socket path the server claims.
func (s *SocketServer) Path() string {
	return s.path
}

// Start claims the socket and begins accepting connections in the
// background. It returns once the listener is live.
func (s *SocketServer) Start(ctx context.Context) error {
	if err := s.claimSocket(); err != nil {
		return err
	}

	ln, err := net.Listen("unix", s.path)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CategoryIPC, apperrors.SeverityFatal, "failed to bind unix socket").
			WithContext("socket", s.path)
	}
	// The socket carries session-control commands; only the owning user
	// may connect.
	if err := os.Chmod(s.path, 0o600); err != nil {
		ln.Close()
		return apperrors.Wrap(err, apperrors.CategoryIPC, apperrors.SeverityFatal, "failed to restrict socket permissions").
			WithContext("socket", s.path)
	}
	s.listener = netutil.LimitListener(ln, s.maxConns)

	s.logger.Info("Daemon listening on socket", logfields.Socket(s.path))

	s.wg.Add(1)
	go s.acceptLoop(ctx)
	return nil
}

// claimSocket enforces the single-instance rule. An existing socket file
// with a live daemon behind it is fatal; one nobody answers is left over
// from a crash and gets removed.
func (s *SocketServer) claimSocket() error {
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return apperrors.Wrap(err, apperrors.CategoryIPC, apperrors.SeverityFatal, "failed to stat socket path").
			WithContext("socket", s.path)
	}

	conn, err := net.DialTimeout("unix", s.path, staleProbeTimeout)
	if err == nil {
		conn.Close()
		return apperrors.SocketInUse(s.path)
	}

	s.logger.Info("Removing stale socket from previous run", logfields.Socket(s.path))
	if err := os.Remove(s.path); err != nil {
		return apperrors.Wrap(err, apperrors.CategoryIPC, apperrors.SeverityFatal, "failed to remove stale socket").
			WithContext("socket", s.path)
	}
	return nil
}

func (s *SocketServer) acceptLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
			s.logger.Error("Failed to accept connection", logfields.Error(err))
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

// handleConn performs one request/response exchange. Every early return
// closes the connection; the server itself is unaffected by anything that
// happens here.
func (s *SocketServer) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	connID := uuid.NewString()
	s.recorder.ConnOpened()
	defer s.recorder.ConnClosed()

	if err := conn.SetDeadline(time.Now().Add(s.ioTimeout)); err != nil {
		s.logger.Warn("Failed to set connection deadline",
			logfields.ConnID(connID), logfields.Error(err))
		return
	}

	buf := make([]byte, ipc.MaxRequestBytes)
	n, err := conn.Read(buf)
	if n == 0 {
		// A connect-and-close probe (the instance guard does this) is not
		// worth a log line.
		if err != nil && !errors.Is(err, io.EOF) {
			s.logger.Warn("Request read failed",
				logfields.ConnID(connID), logfields.Error(err))
		}
		return
	}

	if n == ipc.MaxRequestBytes {
		// The buffer filled, so the command may be truncated. Processing a
		// prefix of a command must never happen.
		s.respond(conn, connID, ipc.Errorf("message too large"))
		return
	}

	var cmd ipc.Command
	if err := json.Unmarshal(buf[:n], &cmd); err != nil {
		s.respond(conn, connID, ipc.ErrorFrom(err))
		return
	}

	s.logger.Debug("Handling command",
		logfields.ConnID(connID), logfields.Command(string(cmd.Kind)))

	s.respond(conn, connID, s.dispatcher.Dispatch(ctx, cmd))
}

func (s *SocketServer) respond(conn net.Conn, connID string, resp ipc.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("Failed to encode response",
			logfields.ConnID(connID), logfields.Error(err))
		return
	}
	if _, err := conn.Write(data); err != nil {
		s.logger.Warn("Failed to write response",
			logfields.ConnID(connID), logfields.Error(err))
	}
}

// Stop closes the listener, waits for in-flight handlers, and removes the
// socket file so the next start finds a clean path.
func (s *SocketServer) Stop(ctx context.Context) error {
	if s.listener == nil {
		return nil
	}

	closeErr := s.listener.Close()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("Timed out waiting for connections to drain")
	}

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("Failed to remove socket file",
			logfields.Socket(s.path), logfields.Error(err))
	}

	if closeErr != nil && !errors.Is(closeErr, net.ErrClosed) {
		return apperrors.Wrap(closeErr, apperrors.CategoryIPC, apperrors.SeverityError, "failed to close listener")
	}
	return nil
}
