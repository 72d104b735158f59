// Package preview serves the currently rendered episode package over HTTP
// and pushes re-renders to connected browsers over a websocket whenever a
// data or template file changes. Single-user local tooling only.
package preview

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fireverse/worldengine/internal/engine"
	"github.com/fireverse/worldengine/internal/logger"
)

// writeWait bounds a single websocket write so one dead client can't hold
// its writer goroutine forever.
const writeWait = 10 * time.Second

// sendBuffer is the per-client queue depth. A client that falls this far
// behind is dropped rather than waited on.
const sendBuffer = 8

// previewClient is one connected browser. All writes to the connection go
// through the send channel and a single writer goroutine; gorilla permits
// only one concurrent writer per connection.
type previewClient struct {
	conn *websocket.Conn
	send chan string
}

// Server watches the engine's sources and serves live renders.
type Server struct {
	engine    *engine.Engine
	arcID     string
	episodeID int

	upgrader websocket.Upgrader
	watch    *watcher

	mu      sync.RWMutex
	current string
	clients map[*previewClient]bool
}

// NewServer creates a preview server for one episode. pollInterval governs
// how often source files are checked for changes.
func NewServer(eng *engine.Engine, arcID string, episodeID int, pollInterval time.Duration) *Server {
	s := &Server{
		engine:    eng,
		arcID:     arcID,
		episodeID: episodeID,
		upgrader: websocket.Upgrader{
			// Local preview tool; origin checks would only get in the way
			// of file:// pages.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		watch:   newWatcher(eng.Paths().All(), pollInterval),
		clients: make(map[*previewClient]bool),
	}
	s.rerender()
	return s
}

// ListenAndServe serves the preview endpoints until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handlePackage)
	mux.HandleFunc("/ws", s.handleWebSocket)

	go s.watch.run(func() {
		logger.Info("Source change detected, re-rendering")
		s.rerender()
		s.broadcast()
	})
	defer s.watch.close()

	logger.Info("Preview server listening", "addr", addr)
	return http.ListenAndServe(addr, mux)
}

// handlePackage serves the current episode package as plain text.
func (s *Server) handlePackage(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, current)
}

// handleWebSocket upgrades the connection and streams re-renders.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warning("WebSocket upgrade failed", "error", err)
		return
	}

	client := &previewClient{
		conn: conn,
		send: make(chan string, sendBuffer),
	}

	// Register and queue the current render in one critical section so the
	// client isn't blank until the next file change. The fresh buffered
	// channel cannot block here.
	s.mu.Lock()
	s.clients[client] = true
	client.send <- s.current
	s.mu.Unlock()

	logger.Info("Preview client connected", "remote", conn.RemoteAddr().String())

	go s.writeLoop(client)

	// Drain reads to notice disconnects; the preview protocol is
	// push-only.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.dropClient(client)
				return
			}
		}
	}()
}

// writeLoop is the sole writer for one connection. It exits when the send
// channel is closed by dropClient or when a write fails.
func (s *Server) writeLoop(c *previewClient) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			s.dropClient(c)
			return
		}
	}
}

// rerender runs the full pipeline and stores either the package or the
// error text.
func (s *Server) rerender() {
	result, err := s.engine.Run(s.arcID, s.episodeID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.current = fmt.Sprintf("pipeline error: %v\n", err)
		logger.Error("Pipeline failed", "error", err)
		return
	}
	s.current = result.Output.Package()
}

// broadcast queues the current render to every connected client. Sends are
// non-blocking: a client whose queue is full has stopped consuming and is
// dropped instead of waited on. Queueing under the lock keeps every send
// channel open for the duration (dropClient closes channels under the same
// lock).
func (s *Server) broadcast() {
	var stale []*previewClient

	s.mu.Lock()
	current := s.current
	for client := range s.clients {
		select {
		case client.send <- current:
		default:
			stale = append(stale, client)
		}
	}
	s.mu.Unlock()

	for _, client := range stale {
		logger.Warning("Dropping stalled preview client", "remote", client.conn.RemoteAddr().String())
		s.dropClient(client)
	}
}

// clientCount reports the number of registered clients.
func (s *Server) clientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) dropClient(c *previewClient) {
	s.mu.Lock()
	if s.clients[c] {
		delete(s.clients, c)
		close(c.send)
		c.conn.Close()
	}
	s.mu.Unlock()
}
