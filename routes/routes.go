package routes

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"

	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/handlers"
	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/middleware"
)

const requestTimeout = 15 * time.Second

func SetupRoutes(
	router chi.Router,
	logger *slog.Logger,
	allowedOrigins []string,
	cardsHandler *handlers.CardsHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", handlers.HealthHandler)

	// WebSocket живёт вне таймаута: соединение долгое.
	router.Get("/ws/cards/{tournamentID}", webSocketHandler.ServeWs)

	router.Route("/api/cards/tournaments", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(requestTimeout))

		r.Get("/", cardsHandler.ListHandler)
		r.Post("/", cardsHandler.CreateHandler)
		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", cardsHandler.GetHandler)
			r.Delete("/", cardsHandler.DeleteHandler)
			r.Get("/standings", cardsHandler.StandingsHandler)
			r.Get("/final-standings", cardsHandler.FinalStandingsHandler)
			r.Get("/rounds/{round}/matches", cardsHandler.RoundMatchesHandler)
			r.Post("/matches/{matchID}/result", cardsHandler.RecordResultHandler)
		})
	})
}
