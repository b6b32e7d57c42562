package routes

import (
	"github.com/bpaddle/competition-engine/handlers"
	"github.com/bpaddle/competition-engine/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes mounts the HTTP surface. Reads are public; mutations sit
// behind bearer-token authentication.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	matchHandler *handlers.MatchHandler,
	tournamentHandler *handlers.TournamentHandler,
	leagueHandler *handlers.LeagueHandler,
	ratingHandler *handlers.RatingHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)

	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Post("/results", matchHandler.SubmitResultHandler)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/{tournamentID}", tournamentHandler.GetTournamentHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", tournamentHandler.CreateTournamentHandler)
		})
	})

	router.Route("/leagues", func(r chi.Router) {
		r.Get("/{leagueID}/standings", leagueHandler.GetStandingsHandler)
		r.Get("/{leagueID}/ranking", leagueHandler.GetRankingHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/{leagueID}/qualify", leagueHandler.QualifyPlayoffsHandler)
		})
	})

	router.Get("/players/{playerID}/ratings/{discipline}", ratingHandler.GetRatingHandler)

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeTournamentWs)
	router.Get("/ws/leagues/{leagueID}", webSocketHandler.ServeLeagueWs)

	router.Handle("/metrics", promhttp.Handler())
}
