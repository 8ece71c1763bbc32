package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/civicnav/navigator/internal/handler/chat"
	streamHandler "github.com/civicnav/navigator/internal/handler/stream"
	middlewarePkg "github.com/civicnav/navigator/internal/middleware"
	"github.com/civicnav/navigator/internal/service/assistant"
)

// NewRouter wires HTTP routes to the assistant engine.
func NewRouter(engine *assistant.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chat := chatHandler.New(engine)
	stream := streamHandler.New(engine)

	r.Route("/api", func(api chi.Router) {
		chat.RegisterRoutes(api)
		stream.RegisterRoutes(api)
	})

	return r
}
