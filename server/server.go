// Package server accepts print jobs over TCP, encodes them and forwards the
// resulting ESC/POS bytes to a printer adapter.
package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nixxel-company-limited/escpos-encoder/adapter"
)

const (
	defaultIdleTimeout = 5 * time.Minute
	defaultMaxJobSize  = 8 << 20
)

// Server represents a TCP server that turns jobs into printer output
type Server struct {
	adapter     adapter.Adapter
	listener    net.Listener
	address     string
	idleTimeout time.Duration
	maxJobSize  int
	maxPixels   int
	conns       map[net.Conn]struct{}
	mu          sync.Mutex
	running     bool
	wg          sync.WaitGroup
	logger      *zap.Logger
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIdleTimeout closes connections that send nothing for d. Zero disables it.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) { s.idleTimeout = d }
}

// WithMaxJobSize limits the length of one job line in bytes
func WithMaxJobSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxJobSize = n
		}
	}
}

// WithMaxImagePixels limits the decoded width times height of image jobs
func WithMaxImagePixels(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxPixels = n
		}
	}
}

// New creates a new server instance
func New(device adapter.Adapter, address string, opts ...Option) *Server {
	s := &Server{
		adapter:     device,
		address:     address,
		idleTimeout: defaultIdleTimeout,
		maxJobSize:  defaultMaxJobSize,
		maxPixels:   DefaultMaxImagePixels,
		conns:       make(map[net.Conn]struct{}),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("server")
	return s
}

// Start starts the TCP server and blocks until Stop is called
func (s *Server) Start() error {
	if err := s.listen(); err != nil {
		return err
	}

	s.wg.Add(1)
	s.logger.Info("Ready to accept connections")
	s.acceptConnections()
	return nil
}

// StartAsync starts the TCP server in a goroutine (non-blocking)
func (s *Server) StartAsync() error {
	if err := s.listen(); err != nil {
		return err
	}

	s.wg.Add(1)
	go s.acceptConnections()
	s.logger.Info("Server started in background")
	return nil
}

// listen binds the listener and opens the adapter
func (s *Server) listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.logger.Error("Server already running")
		return errors.New("server already running")
	}

	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		s.logger.Error("Failed to start server", zap.String("address", s.address), zap.Error(err))
		return fmt.Errorf("failed to start server: %w", err)
	}

	if !s.adapter.IsOpen() {
		s.logger.Info("Opening printer adapter")
		if err := s.adapter.Open(); err != nil {
			listener.Close()
			s.logger.Error("Failed to open adapter", zap.Error(err))
			return fmt.Errorf("failed to open adapter: %w", err)
		}
	}

	s.listener = listener
	s.running = true
	s.logger.Info("Server listening", zap.String("address", listener.Addr().String()))
	return nil
}

// acceptConnections handles incoming client connections
func (s *Server) acceptConnections() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.IsRunning() {
				s.logger.Debug("Stopping accept loop")
				return
			}
			s.logger.Warn("Error accepting connection", zap.Error(err))
			continue
		}

		if !s.track(conn) {
			conn.Close()
			return
		}

		s.logger.Info("Client connected", zap.Stringer("remote", conn.RemoteAddr()))
		go s.handleConnection(conn)
	}
}

// handleConnection reads jobs line by line and answers each with a Reply
func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrack(conn)

	log := s.logger.With(zap.Stringer("remote", conn.RemoteAddr()))
	defer log.Info("Client disconnected")

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, min(64*1024, s.maxJobSize)), s.maxJobSize)
	replies := json.NewEncoder(conn)

	for {
		if s.idleTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(s.idleTimeout)); err != nil {
				log.Warn("Failed to set read deadline", zap.Error(err))
				return
			}
		}
		if !scanner.Scan() {
			break
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		reply, fatal := s.process(line, log)
		if err := replies.Encode(reply); err != nil {
			log.Warn("Failed to send reply", zap.Error(err))
			return
		}
		if fatal {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		log.Warn("Error reading from client", zap.Error(err))
		if errors.Is(err, bufio.ErrTooLong) {
			replies.Encode(Reply{Error: fmt.Sprintf("job exceeds %d bytes", s.maxJobSize)})
			// unread input would turn the close into a reset and lose the reply
			conn.SetReadDeadline(time.Now().Add(time.Second))
			io.Copy(io.Discard, conn)
		}
	}
}

// track registers conn unless the server is stopping
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return false
	}
	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	conn.Close()
}

// process runs one job. fatal is set when the printer could not be written
// to and the connection should be dropped.
func (s *Server) process(line []byte, log *zap.Logger) (reply Reply, fatal bool) {
	var job Job
	if err := json.Unmarshal(line, &job); err != nil {
		log.Warn("Malformed job", zap.Error(err))
		return Reply{Error: fmt.Sprintf("malformed job: %v", err)}, false
	}

	data, err := job.build(s.maxPixels)
	if err != nil {
		log.Warn("Rejected job", zap.String("type", job.Type), zap.Error(err))
		return Reply{Error: err.Error()}, false
	}

	written, err := s.adapter.Write(data)
	if err != nil {
		log.Error("Error writing to adapter", zap.Error(err))
		return Reply{Error: err.Error()}, true
	}

	log.Info("Job printed", zap.String("type", job.Type), zap.Int("bytes", written))
	return Reply{OK: true, Bytes: written}, false
}

// Stop stops the TCP server, drops open connections and closes the adapter
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}

	s.logger.Info("Stopping server")
	s.running = false
	listener := s.listener
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	if listener != nil {
		listener.Close()
	}

	s.wg.Wait()

	if s.adapter.IsOpen() {
		if err := s.adapter.Close(); err != nil {
			s.logger.Error("Error closing adapter", zap.Error(err))
			return err
		}
	}

	s.logger.Info("Server stopped")
	return nil
}

// IsRunning returns whether the server is running
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Address returns the configured listen address
func (s *Server) Address() string {
	return s.address
}

// ListenAddr returns the bound address, or nil before Start
func (s *Server) ListenAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// GetAdapter returns the underlying adapter
func (s *Server) GetAdapter() adapter.Adapter {
	return s.adapter
}
