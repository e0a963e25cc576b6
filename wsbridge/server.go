package wsbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"

	"pagepilot/agent"
	"pagepilot/streamers"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Session is one browser-backed task runner bound to a connection. The
// page session persists across runs, so a later run sees the page state
// an earlier run left behind.
type Session interface {
	// Navigate opens a URL in the session's page.
	Navigate(url string) error

	// Run executes tasks in order and returns one result per task.
	Run(ctx context.Context, tasks []string) []agent.Result

	// Close releases the session and the page behind it.
	Close() error
}

// SessionFactory builds a connection's Session when its first run_tasks
// request arrives. model names a declared model block, empty for the
// default; progress events must go to handler.
type SessionFactory func(model string, handler streamers.RunHandler) (Session, error)

// Options configures a Server.
type Options struct {
	// Sessions builds one Session per connection.
	Sessions SessionFactory

	Logger hclog.Logger
}

// Server exposes task runs over a WebSocket endpoint. Each connection
// owns one Session and executes one run at a time.
type Server struct {
	sessions SessionFactory
	log      hclog.Logger
	upgrader websocket.Upgrader
}

func NewServer(opts Options) (*Server, error) {
	if opts.Sessions == nil {
		return nil, errors.New("wsbridge: session factory is required")
	}
	log := opts.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Server{
		sessions: opts.Sessions,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}, nil
}

// Handler returns the HTTP handler serving the /ws endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", "error", err)
		return
	}

	ctx, stop := context.WithCancel(context.Background())
	c := &conn{
		server: s,
		ws:     ws,
		send:   make(chan []byte, 256),
		done:   make(chan struct{}),
		ctx:    ctx,
		stop:   stop,
		log:    s.log.With("remote", ws.RemoteAddr().String()),
	}

	c.log.Info("client connected")
	go c.writePump()
	c.readPump()
	c.log.Info("client disconnected")
}

// conn is one client connection and the session state bound to it.
type conn struct {
	server *Server
	ws     *websocket.Conn
	send   chan []byte
	done   chan struct{}
	ctx    context.Context
	stop   context.CancelFunc
	log    hclog.Logger

	runWG sync.WaitGroup

	mu       sync.Mutex
	session  Session
	streamer *runStreamer
	model    string
	running  bool
}

func (c *conn) readPump() {
	defer func() {
		// Unblock queued sends first so a run in flight can drain, then
		// cancel its model calls and wait for it before closing the page.
		close(c.done)
		c.stop()
		c.runWG.Wait()
		c.closeSession()
		c.ws.Close()
	}()

	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("websocket read failed", "error", err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			c.sendEnvelope(NewError("", CodeInvalidPayload, "malformed envelope: "+err.Error()))
			continue
		}

		c.dispatch(&env)
	}
}

func (c *conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *conn) sendEnvelope(env *Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		c.log.Error("marshal envelope", "type", env.Type, "error", err)
		return
	}
	select {
	case c.send <- data:
	case <-c.done:
	}
}

func (c *conn) dispatch(env *Envelope) {
	switch env.Type {
	case TypeRunTasks:
		c.handleRunTasks(env)
	default:
		c.sendEnvelope(NewError(env.RequestID, CodeUnsupportedType,
			fmt.Sprintf("unsupported envelope type %q", env.Type)))
	}
}

func (c *conn) handleRunTasks(env *Envelope) {
	var payload RunTasksPayload
	if err := DecodePayload(env, &payload); err != nil {
		c.sendEnvelope(NewError(env.RequestID, CodeInvalidPayload, "decode run_tasks: "+err.Error()))
		return
	}
	if len(payload.Tasks) == 0 {
		c.sendEnvelope(NewError(env.RequestID, CodeInvalidPayload, "run_tasks declares no tasks"))
		return
	}

	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		c.sendEnvelope(NewError(env.RequestID, CodeRunInProgress,
			"a run is already executing on this connection"))
		return
	}
	if c.session != nil && payload.Model != "" && payload.Model != c.model {
		bound := "the default model"
		if c.model != "" {
			bound = fmt.Sprintf("model %q", c.model)
		}
		c.mu.Unlock()
		c.sendEnvelope(NewError(env.RequestID, CodeSessionBound,
			fmt.Sprintf("connection already uses %s; open a new connection for %q", bound, payload.Model)))
		return
	}
	if c.session == nil {
		streamer := newRunStreamer(c)
		sess, err := c.server.sessions(payload.Model, streamer)
		if err != nil {
			c.mu.Unlock()
			c.sendEnvelope(NewError(env.RequestID, CodeSessionFailed, err.Error()))
			return
		}
		c.session = sess
		c.streamer = streamer
		c.model = payload.Model
	}
	sess := c.session
	streamer := c.streamer
	c.running = true
	c.mu.Unlock()

	runID := uuid.NewString()
	streamer.begin(runID)
	c.log.Info("run accepted", "run", runID, "tasks", len(payload.Tasks))

	c.runWG.Add(1)
	go func() {
		defer c.runWG.Done()
		defer func() {
			c.mu.Lock()
			c.running = false
			c.mu.Unlock()
		}()

		if payload.URL != "" {
			if err := sess.Navigate(payload.URL); err != nil {
				c.log.Warn("navigation failed", "run", runID, "url", payload.URL, "error", err)
				c.sendEnvelope(NewError(env.RequestID, CodeNavigateFailed,
					fmt.Sprintf("opening %s: %v", payload.URL, err)))
				return
			}
		}

		results := sess.Run(c.ctx, payload.Tasks)

		resp, err := NewResponse(env.RequestID, TypeRunComplete, &RunCompletePayload{
			RunID:   runID,
			Results: results,
		})
		if err != nil {
			c.sendEnvelope(NewError(env.RequestID, CodeSessionFailed, err.Error()))
			return
		}
		c.sendEnvelope(resp)
		c.log.Info("run complete", "run", runID)
	}()
}

func (c *conn) closeSession() {
	c.mu.Lock()
	sess := c.session
	c.session = nil
	c.mu.Unlock()

	if sess == nil {
		return
	}
	if err := sess.Close(); err != nil {
		c.log.Warn("closing session", "error", err)
	}
}
