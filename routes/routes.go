package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/pitchside/crease/docs"
	"github.com/pitchside/crease/handlers"
	"github.com/pitchside/crease/metrics"
	"github.com/pitchside/crease/middleware"
	"github.com/pitchside/crease/models"
)

// SetupRoutes wires every handler into the router. Reads are public; writes
// require a token, and destructive operations require the admin role.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	squadHandler *handlers.SquadHandler,
	playerHandler *handlers.PlayerHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticated := middleware.Authenticate(jwtSecret)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	anyRole := middleware.RequireRole(models.RoleAdmin, models.RoleScorer)

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{tournamentID}", tournamentHandler.GetByID)
		r.Get("/{tournamentID}/standings", tournamentHandler.Standings)
		r.Get("/{tournamentID}/champion", tournamentHandler.Champion)
		r.Get("/{tournamentID}/matches", matchHandler.ListByTournament)
		r.Get("/{tournamentID}/squads", squadHandler.ListByTournament)

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.With(adminOnly).Post("/", tournamentHandler.Create)
			r.With(adminOnly).Patch("/{tournamentID}/status", tournamentHandler.UpdateStatus)
			r.With(adminOnly).Post("/{tournamentID}/logo", tournamentHandler.UploadLogo)
			r.With(anyRole).Post("/{tournamentID}/knockout/seed", tournamentHandler.SeedKnockout)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.With(anyRole).Post("/", matchHandler.Create)
			r.With(anyRole).Patch("/{matchID}/status", matchHandler.UpdateStatus)
			r.With(anyRole).Post("/{matchID}/sync-stats", matchHandler.SyncStats)
			r.With(adminOnly).Delete("/{matchID}", matchHandler.Delete)
		})
	})

	router.Route("/squads", func(r chi.Router) {
		r.Get("/{squadID}", squadHandler.GetByID)
		r.Get("/{squadID}/players", playerHandler.ListBySquad)

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.With(adminOnly).Post("/", squadHandler.Create)
			r.With(adminOnly).Post("/{squadID}/logo", squadHandler.UploadLogo)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/{playerID}", playerHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.With(adminOnly).Post("/", playerHandler.Create)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeTournament)

	router.Handle("/metrics", metrics.Handler())

	router.Get("/docs/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(docs.OpenAPI)
	})
	router.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/openapi.json"),
	))
}
