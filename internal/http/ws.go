package http

import (
	"encoding/json"
	"net/http"

	"github.com/olahol/melody"

	"trackmate/internal/log"
)

// changeEvent is the wire format broadcast to connected clients whenever a
// record changes. Clients refetch whatever the entity affects; the event
// carries no payload beyond identity.
type changeEvent struct {
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     string `json:"id,omitempty"`
}

// Hub fans out change notifications to websocket clients.
type Hub struct {
	m      *melody.Melody
	logger *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	h := &Hub{
		m:      melody.New(),
		logger: logger.WithComponent(log.ComponentWS),
	}

	h.m.HandleConnect(func(s *melody.Session) {
		h.logger.Debug("Websocket client connected", log.FieldClientIP, s.Request.RemoteAddr)
	})
	h.m.HandleDisconnect(func(s *melody.Session) {
		h.logger.Debug("Websocket client disconnected", log.FieldClientIP, s.Request.RemoteAddr)
	})

	return h
}

// NotifyChange broadcasts a change event to every connected client. It never
// blocks the caller; melody buffers per-session and drops slow consumers.
func (h *Hub) NotifyChange(entity, action, id string) {
	payload, err := json.Marshal(changeEvent{Entity: entity, Action: action, ID: id})
	if err != nil {
		return
	}
	if err := h.m.Broadcast(payload); err != nil {
		h.logger.Warn("Websocket broadcast failed", log.FieldError, err.Error())
	}
}

// HandleRequest upgrades an HTTP request to a websocket session.
func (h *Hub) HandleRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.m.HandleRequest(w, r); err != nil {
		h.logger.Warn("Websocket upgrade failed", log.FieldError, err.Error())
	}
}

// ConnectedClients returns the number of open sessions.
func (h *Hub) ConnectedClients() int {
	return h.m.Len()
}

// Close disconnects all sessions.
func (h *Hub) Close() error {
	return h.m.Close()
}
