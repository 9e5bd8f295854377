package remote

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/widgetkit/internal/errors"
	"github.com/vango-dev/widgetkit/pkg/binder"
	"github.com/vango-dev/widgetkit/pkg/protocol"
	"github.com/vango-dev/widgetkit/pkg/tree"
)

// EventHandler handles a widget event reported by the client. A returned
// error is reported back to the client as a FrameError.
type EventHandler func(ctx context.Context, s *Session, ev *protocol.Event) error

// SessionConfig configures a Session.
type SessionConfig struct {
	// ReadTimeout bounds the wait for the next client frame. Zero disables
	// the deadline.
	ReadTimeout time.Duration

	// WriteTimeout bounds each frame write.
	WriteTimeout time.Duration

	// OnEvent handles client widget events. Nil drops them.
	OnEvent EventHandler

	// Logger is the session logger. The default is slog.Default().
	Logger *slog.Logger

	// BinderOptions are passed to binder.New.
	BinderOptions []binder.Option
}

// Session is one live connection: a remote host, the binder that drives it
// and the tree currently mounted.
type Session struct {
	id     string
	conn   *websocket.Conn
	host   *Host
	binder *binder.Binder
	config SessionConfig
	logger *slog.Logger

	renderMu sync.Mutex
	root     *tree.Node
	released bool // bindings torn down by Close; guarded by renderMu

	writeMu sync.Mutex

	closed    atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
}

// NewSession creates a session over conn.
func NewSession(id string, conn *websocket.Conn, config SessionConfig) *Session {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("session", id)

	host := NewHost()
	opts := append([]binder.Option{binder.WithLogger(logger)}, config.BinderOptions...)
	return &Session{
		id:     id,
		conn:   conn,
		host:   host,
		binder: binder.New(host, opts...),
		config: config,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Host returns the session's remote host.
func (s *Session) Host() *Host { return s.host }

// Binder returns the session's binder.
func (s *Session) Binder() *binder.Binder { return s.binder }

// Root returns the mounted tree.
func (s *Session) Root() *tree.Node {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	return s.root
}

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} { return s.done }

// Mount attaches root under the host root and flushes the resulting
// operations. A session mounts once; later trees go through Render. After
// Close it returns websocket.ErrCloseSent without touching the binder.
func (s *Session) Mount(ctx context.Context, root *tree.Node) error {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	if s.released {
		return websocket.ErrCloseSent
	}
	if s.root != nil {
		return errors.Newf(errors.CategoryLifecycle, "session %s already mounted; use Render", s.id)
	}
	if err := s.binder.Attach(ctx, root); err != nil {
		s.host.Take()
		return err
	}
	s.root = root
	return s.flush()
}

// Render reconciles next against the mounted tree, applies the pass and
// flushes it. Operations recorded before a partial failure are still sent
// so the client matches the binder. After Close it returns
// websocket.ErrCloseSent.
func (s *Session) Render(ctx context.Context, next *tree.Node) error {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	if s.released {
		return websocket.ErrCloseSent
	}
	pass := tree.Reconcile(s.root, next)
	applyErr := s.binder.Apply(ctx, pass)
	s.root = next
	if err := s.flush(); err != nil {
		return err
	}
	return applyErr
}

// Flush sends any recorded operations.
func (s *Session) Flush() error {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	return s.flush()
}

func (s *Session) flush() error {
	ops := s.host.Take()
	if len(ops) == 0 {
		return nil
	}
	frames, err := protocol.OpFrames(ops)
	if err != nil {
		return err
	}
	for _, f := range frames {
		if err := s.writeFrame(f); err != nil {
			return err
		}
	}
	s.logger.Debug("flushed ops", "ops", len(ops), "frames", len(frames))
	return nil
}

func (s *Session) writeFrame(f *protocol.Frame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.closed.Load() {
		return websocket.ErrCloseSent
	}
	if s.config.WriteTimeout > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	}
	return s.conn.WriteMessage(websocket.BinaryMessage, f.Encode())
}

// ReadLoop reads client frames until the connection ends or the client
// sends a close message. It closes the session on return.
func (s *Session) ReadLoop(ctx context.Context) {
	defer s.Close(protocol.CloseNormal, "")

	for {
		if s.config.ReadTimeout > 0 {
			s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		}
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.logger.Error("frame decode error", "error", err)
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			s.handleEventFrame(ctx, frame.Payload)

		case protocol.FrameControl:
			if !s.handleControlFrame(frame.Payload) {
				return
			}

		default:
			s.logger.Warn("unexpected frame type", "type", frame.Type)
		}
	}
}

func (s *Session) handleEventFrame(ctx context.Context, payload []byte) {
	ev, err := protocol.DecodeEvent(payload)
	if err != nil {
		s.logger.Error("event decode error", "error", err)
		s.sendError(err)
		return
	}
	if s.config.OnEvent == nil {
		s.logger.Debug("event dropped", "element", ev.Element, "event", ev.Name)
		return
	}
	if err := s.config.OnEvent(ctx, s, ev); err != nil {
		s.logger.Warn("event handler failed", "element", ev.Element, "event", ev.Name, "error", err)
		s.sendError(err)
	}
}

// handleControlFrame reports whether the read loop should continue.
func (s *Session) handleControlFrame(payload []byte) bool {
	ct, data, err := protocol.DecodeControl(payload)
	if err != nil {
		s.logger.Error("control decode error", "error", err)
		return true
	}

	switch ct {
	case protocol.ControlPing:
		if pp, ok := data.(*protocol.PingPong); ok {
			ct, pong := protocol.NewPong(pp.Timestamp)
			if err := s.writeFrame(protocol.NewFrame(protocol.FrameControl, protocol.EncodeControl(ct, pong))); err != nil {
				s.logger.Error("pong error", "error", err)
			}
		}

	case protocol.ControlPong:
		s.logger.Debug("received pong")

	case protocol.ControlClose:
		if cm, ok := data.(*protocol.CloseMessage); ok {
			s.logger.Info("client closing", "reason", cm.Reason, "message", cm.Message)
		}
		return false
	}
	return true
}

func (s *Session) sendError(err error) {
	msg := &protocol.ErrorMessage{Code: errors.Code(err), Message: err.Error()}
	if werr := s.writeFrame(protocol.NewFrame(protocol.FrameError, protocol.EncodeError(msg))); werr != nil {
		s.logger.Debug("error frame not sent", "error", werr)
	}
}

// Close ends the session: every binding is detached, the client gets a
// close message and the connection is closed. It is safe to call more than
// once.
func (s *Session) Close(reason protocol.CloseReason, message string) {
	s.closeOnce.Do(func() {
		s.renderMu.Lock()
		if err := s.binder.DetachAll(context.Background()); err != nil {
			s.logger.Warn("detach on close failed", "error", err)
		}
		s.host.Take()
		s.root = nil
		s.released = true
		s.renderMu.Unlock()

		ct, cm := protocol.NewClose(reason, message)
		if err := s.writeFrame(protocol.NewFrame(protocol.FrameControl, protocol.EncodeControl(ct, cm))); err != nil {
			s.logger.Debug("close message not sent", "error", err)
		}

		s.writeMu.Lock()
		s.closed.Store(true)
		s.conn.Close()
		s.writeMu.Unlock()

		close(s.done)
		s.logger.Info("session closed", "reason", reason)
	})
}
