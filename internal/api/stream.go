package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
	"github.com/quaestorlabs/quaestor/backend/internal/hybrid"
	"github.com/quaestorlabs/quaestor/backend/pkg/logger"
)

const (
	writeWait    = 10 * time.Second
	clientBuffer = 16
)

// StageEvent is the wire format for one pipeline stage transition.
type StageEvent struct {
	Type    string              `json:"type"`
	RunID   string              `json:"runId"`
	Persona contracts.PersonaID `json:"persona"`
	Stage   hybrid.Stage        `json:"stage"`
	At      time.Time           `json:"at"`
}

// ProgressHub broadcasts pipeline stage transitions to websocket
// subscribers. It implements hybrid.ProgressSink; StageChanged never
// blocks the pipeline, slow clients just drop events.
type ProgressHub struct {
	upgrader websocket.Upgrader
	logger   *logger.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]chan StageEvent
}

// NewProgressHub creates a progress hub.
func NewProgressHub(log *logger.Logger) *ProgressHub {
	return &ProgressHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:  log,
		clients: make(map[*websocket.Conn]chan StageEvent),
	}
}

// StageChanged fans the transition out to every connected client.
func (h *ProgressHub) StageChanged(runID string, persona contracts.PersonaID, stage hybrid.Stage) {
	event := StageEvent{
		Type:    "stage",
		RunID:   runID,
		Persona: persona,
		Stage:   stage,
		At:      time.Now().UTC(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.clients {
		select {
		case ch <- event:
		default:
			// Client buffer full, drop the event rather than stall the run.
		}
	}
}

// ServeWS upgrades the connection and streams stage events until the
// client disconnects
// GET /ws/progress
func (h *ProgressHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	ch := make(chan StageEvent, clientBuffer)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()

	h.logger.WithFields(map[string]interface{}{
		"remote": conn.RemoteAddr().String(),
	}).Debug("Progress subscriber connected")

	go h.writeLoop(conn, ch)
	h.readLoop(conn)
}

func (h *ProgressHub) writeLoop(conn *websocket.Conn, ch chan StageEvent) {
	for event := range ch {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(event); err != nil {
			h.remove(conn)
			return
		}
	}
}

// readLoop drains client frames so pings are answered and closes are seen.
func (h *ProgressHub) readLoop(conn *websocket.Conn) {
	defer h.remove(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *ProgressHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if ch, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(ch)
	}
	h.mu.Unlock()
	conn.Close()
}
