package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/civicnav/navigator/internal/model/chat"
	"github.com/civicnav/navigator/internal/service/assistant"
	"github.com/civicnav/navigator/pkg/utils"
)

// Handler exposes the assistant engine over REST.
type Handler struct {
	engine *assistant.Service
}

// New creates the chat handler.
func New(engine *assistant.Service) *Handler {
	return &Handler{engine: engine}
}

// RegisterRoutes registers the chat endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/message", h.handleMessage)
	r.Post("/chat/action", h.handleAction)
	r.Post("/chat/new", h.handleNewChat)
	r.Get("/chat/transcript", h.handleTranscript)
}

type turnResponse struct {
	SessionID string       `json:"sessionId"`
	Entries   []chat.Entry `json:"entries"`
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entries, err := h.engine.HandleMessage(r.Context(), payload.Message)
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyMessage) {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, turnResponse{
		SessionID: h.engine.SessionID(),
		Entries:   entries,
	})
}

func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Kind string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entries, err := h.engine.InvokeAction(r.Context(), chat.ActionKind(payload.Kind))
	if err != nil {
		switch {
		case errors.Is(err, assistant.ErrSubmitInFlight):
			utils.RespondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, assistant.ErrNoActiveReview), errors.Is(err, assistant.ErrUnknownAction):
			utils.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, turnResponse{
		SessionID: h.engine.SessionID(),
		Entries:   entries,
	})
}

func (h *Handler) handleNewChat(w http.ResponseWriter, r *http.Request) {
	entries := h.engine.NewChat()
	utils.RespondJSON(w, http.StatusCreated, turnResponse{
		SessionID: h.engine.SessionID(),
		Entries:   entries,
	})
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessionId": h.engine.SessionID(),
		"step":      h.engine.Step(),
		"entries":   h.engine.Transcript(),
	})
}
