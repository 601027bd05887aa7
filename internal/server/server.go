package server

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

var ErrServerClosed = errors.New("server closed")

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Config holds the connection loop settings.
type Config struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	ReadBufferSize int
	// AcceptRate limits new connections per second. Zero disables the limit.
	AcceptRate  float64
	AcceptBurst int
}

func DefaultConfig() Config {
	return Config{
		Addr:           "127.0.0.1:8080",
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		ReadBufferSize: 1024,
	}
}

type Server struct {
	cfg        Config
	handler    Handler
	middleware []Middleware
	logger     Logger
	metrics    *Metrics
	limiter    *rate.Limiter
	buffers    *BufferPool

	mu       sync.Mutex
	listener net.Listener
	closed   atomic.Bool
	conns    sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

type Option func(*Server)

func WithLogger(l Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

func WithMiddleware(middleware ...Middleware) Option {
	return func(s *Server) {
		s.middleware = append(s.middleware, middleware...)
	}
}

// New creates a server that answers every connection through h. Zero values
// in cfg are replaced by the DefaultConfig ones.
func New(cfg Config, h Handler, opts ...Option) *Server {
	def := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = def.ReadBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:     cfg,
		handler: h,
		buffers: NewBufferPool(cfg.ReadBufferSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = defaultLogger()
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	if cfg.AcceptRate > 0 {
		burst := cfg.AcceptBurst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.AcceptRate), burst)
	}

	return s
}

// Use adds middleware. It must be called before Serve.
func (s *Server) Use(middleware ...Middleware) {
	s.middleware = append(s.middleware, middleware...)
}

func (s *Server) Logger() Logger {
	return s.logger
}

func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) Stats() MetricsSnapshot {
	return s.metrics.Snapshot()
}

// Addr returns the listening address, or nil before Serve was called.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}

	return s.listener.Addr()
}

func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.cfg.Addr)
	}

	return s.Serve(ln)
}

// Serve accepts connections from ln until the server is shut down, serving
// each one on its own goroutine. It always returns a non-nil error;
// ErrServerClosed after Shutdown or Close.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		ln.Close()
		return ErrServerClosed
	}
	s.listener = ln
	s.mu.Unlock()

	handler := Chain(s.handler, s.middleware...)
	s.logger.Info("listening", String("addr", ln.Addr().String()))

	var acceptDelay time.Duration

	for {
		if s.limiter != nil {
			if err := s.limiter.Wait(s.ctx); err != nil {
				if s.closed.Load() {
					return ErrServerClosed
				}
				return errors.Wrap(err, "wait for accept")
			}
		}

		conn, err := ln.Accept()
		if err != nil {
			if s.closed.Load() {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return errors.Wrap(err, "accept")
			}

			if acceptDelay == 0 {
				acceptDelay = minAcceptDelay
			} else {
				acceptDelay *= 2
			}
			if acceptDelay > maxAcceptDelay {
				acceptDelay = maxAcceptDelay
			}
			s.logger.Error("failed to accept a connection",
				Err(err), String("retry_in", acceptDelay.String()))

			select {
			case <-time.After(acceptDelay):
			case <-s.ctx.Done():
				return ErrServerClosed
			}
			continue
		}
		acceptDelay = 0

		if !s.track() {
			conn.Close()
			return ErrServerClosed
		}

		go func() {
			defer s.conns.Done()
			s.serveConn(conn, handler)
		}()
	}
}

// track registers a connection with the in-flight group unless the server
// is already closed. close holds the same lock, so Shutdown never waits on
// a group that is still growing.
func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return false
	}
	s.conns.Add(1)

	return true
}

// Shutdown stops accepting new connections and waits for the ones in flight
// to finish, or for ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.close()

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()

	select {
	case <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting new connections without waiting for the ones in flight.
func (s *Server) Close() error {
	return s.close()
}

func (s *Server) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Swap(true) {
		return nil
	}
	s.cancel()

	if s.listener == nil {
		return nil
	}

	return s.listener.Close()
}
