package stream

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/civicnav/navigator/internal/model/chat"
	"github.com/civicnav/navigator/internal/service/assistant"
)

// Handler serves the live chat transport over a websocket: the client sends
// turns, the server answers with the transcript entries each turn appended.
type Handler struct {
	engine   *assistant.Service
	upgrader websocket.Upgrader
}

// New creates the websocket handler.
func New(engine *assistant.Service) *Handler {
	return &Handler{
		engine: engine,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the websocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/chat/ws", h.handleWebSocket)
}

type inboundMessage struct {
	Type string `json:"type"` // message | action | new_chat
	Text string `json:"text,omitempty"`
	Kind string `json:"kind,omitempty"`
}

type outgoingMessage struct {
	Type      string       `json:"type"` // snapshot | entries | error
	SessionID string       `json:"sessionId,omitempty"`
	Entries   []chat.Entry `json:"entries,omitempty"`
	Error     string       `json:"error,omitempty"`
	Timestamp int64        `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Opening snapshot so the client can render the existing conversation.
	h.send(conn, outgoingMessage{
		Type:      "snapshot",
		SessionID: h.engine.SessionID(),
		Entries:   h.engine.Transcript(),
	})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read failed: %v", err)
			}
			return
		}
		h.send(conn, h.dispatch(r, inbound))
	}
}

// dispatch routes one inbound frame to the engine and shapes the response.
func (h *Handler) dispatch(r *http.Request, inbound inboundMessage) outgoingMessage {
	switch inbound.Type {
	case "message":
		entries, err := h.engine.HandleMessage(r.Context(), inbound.Text)
		if err != nil {
			return errorMessage(err.Error())
		}
		return h.entriesMessage(entries)
	case "action":
		entries, err := h.engine.InvokeAction(r.Context(), chat.ActionKind(inbound.Kind))
		if err != nil {
			return errorMessage(err.Error())
		}
		return h.entriesMessage(entries)
	case "new_chat":
		return h.entriesMessage(h.engine.NewChat())
	default:
		return errorMessage("unknown message type: " + inbound.Type)
	}
}

func (h *Handler) entriesMessage(entries []chat.Entry) outgoingMessage {
	return outgoingMessage{
		Type:      "entries",
		SessionID: h.engine.SessionID(),
		Entries:   entries,
		Timestamp: time.Now().UnixMilli(),
	}
}

func errorMessage(text string) outgoingMessage {
	return outgoingMessage{
		Type:      "error",
		Error:     text,
		Timestamp: time.Now().UnixMilli(),
	}
}

func (h *Handler) send(conn *websocket.Conn, msg outgoingMessage) {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[ws] write failed: %v", err)
	}
}
