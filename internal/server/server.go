// Package server hosts one session for remote UI shells: a chi router for
// health and read-only state, and a websocket carrying input and table
// frames.
//
// Only the tick goroutine touches the session. Websocket readers and HTTP
// handlers hand it commands through a queue; the queue is drained in order
// at the start of each tick.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arcanaland/cardhouse/internal/face"
	"github.com/arcanaland/cardhouse/internal/protocol"
	"github.com/arcanaland/cardhouse/internal/session"
)

// ErrStopped is returned for work submitted after the tick loop ended.
var ErrStopped = errors.New("server stopped")

// Config tunes the server.
type Config struct {
	Addr     string
	TickRate int // ticks per second
}

type pending struct {
	cmd  command
	done chan error // nil for fire-and-forget
}

// Server owns a session and the clients watching it.
type Server struct {
	cfg  Config
	sess *session.Session
	log  *zap.Logger

	cmds    chan pending
	stopped chan struct{}

	mu      sync.Mutex
	clients map[*client]struct{}

	facesMu sync.Mutex
	faces   *face.Cache

	lastVersion uint64
}

// New builds a server around a fresh session. opts.Notify is replaced: the
// server broadcasts notices to every client.
func New(cfg Config, opts session.Options, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	s := &Server{
		cfg:     cfg,
		log:     log,
		cmds:    make(chan pending, 256),
		stopped: make(chan struct{}),
		clients: make(map[*client]struct{}),
		faces:   face.NewCache(),
	}
	if opts.Logger == nil {
		opts.Logger = log.Named("session")
	}
	opts.Notify = s.broadcastNotice
	s.sess = session.New(opts)
	return s
}

// Run drives the tick loop until ctx is cancelled.
func (s *Server) Run(ctx context.Context) {
	dt := 1.0 / float64(s.cfg.TickRate)
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.TickRate))
	defer ticker.Stop()
	defer close(s.stopped)

	for {
		select {
		case <-ctx.Done():
			s.failPending()
			return
		case <-ticker.C:
			s.tick(dt)
		}
	}
}

func (s *Server) tick(dt float64) {
	for {
		select {
		case p := <-s.cmds:
			err := p.cmd(s.sess)
			if p.done != nil {
				p.done <- err
			} else if err != nil {
				s.log.Debug("command failed", zap.Error(err))
			}
			continue
		default:
		}
		break
	}

	s.sess.Tick(dt)

	if v := s.sess.Version(); v != s.lastVersion || !s.sess.Settled() {
		s.lastVersion = v
		s.broadcastTable()
	}
}

func (s *Server) failPending() {
	for {
		select {
		case p := <-s.cmds:
			if p.done != nil {
				p.done <- ErrStopped
			}
		default:
			return
		}
	}
}

// enqueue queues cmd without waiting.
func (s *Server) enqueue(cmd command) error {
	select {
	case <-s.stopped:
		return ErrStopped
	default:
	}
	select {
	case s.cmds <- pending{cmd: cmd}:
		return nil
	default:
		return fmt.Errorf("command queue full")
	}
}

// do runs cmd on the tick goroutine and waits for it.
func (s *Server) do(ctx context.Context, cmd command) error {
	done := make(chan error, 1)
	select {
	case s.cmds <- pending{cmd: cmd, done: done}:
	case <-s.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-done:
		return err
	case <-s.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) table(ctx context.Context) (protocol.Table, error) {
	var t protocol.Table
	err := s.do(ctx, func(sess *session.Session) error {
		t = tableFrame(sess.View())
		return nil
	})
	return t, err
}

func (s *Server) broadcastTable() {
	frame, err := protocol.Encode(protocol.TypeTable, tableFrame(s.sess.View()))
	if err != nil {
		s.log.Error("encode table", zap.Error(err))
		return
	}
	s.broadcast(frame)
}

func (s *Server) broadcastNotice(n session.Notice) {
	frame, err := protocol.Encode(protocol.TypeNotice, protocol.Notice{Kind: string(n.Kind), Message: n.String()})
	if err != nil {
		return
	}
	s.broadcast(frame)
}

func (s *Server) broadcast(frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.trySend(frame)
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	go s.Run(ctx)

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.cfg.Addr), zap.Int("tick_rate", s.cfg.TickRate))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.closeClients()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.conn.Close()
	}
}
