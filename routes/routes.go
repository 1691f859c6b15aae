package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rachao-basket/scoreboard/handlers"
	"github.com/rachao-basket/scoreboard/middleware"
	"github.com/rachao-basket/scoreboard/models"
)

// SetupRoutes mounts the whole HTTP surface. Viewing endpoints are public,
// the scoring intents require the master role, and check-ins require any
// authenticated player.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	gameHandler *handlers.GameHandler,
	liveHandler *handlers.LiveHandler,
	teamHandler *handlers.TeamHandler,
	tournamentHandler *handlers.TournamentHandler,
	checkInHandler *handlers.CheckInHandler,
	historyHandler *handlers.HistoryHandler,
	settingsHandler *handlers.SettingsHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	// Public viewing surface.
	router.Get("/live", liveHandler.GetLive)
	router.Get("/ws/live", webSocketHandler.ServeWs)
	router.Get("/game/state", gameHandler.State)
	router.Get("/settings", settingsHandler.Get)
	router.Get("/teams", teamHandler.ListTeams)

	router.Route("/history", func(r chi.Router) {
		r.Get("/", historyHandler.ListByDate)
		r.Get("/range", historyHandler.ListByRange)
		r.Get("/export.csv", historyHandler.ExportCSV)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleMaster))
			r.Post("/export", historyHandler.ExportAndUpload)
		})
	})

	// Scoring intents, master only.
	router.Route("/game", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(middleware.Authorize(models.RoleMaster))

		r.Post("/quick", gameHandler.StartQuick)
		r.Post("/tournament/{matchID}/start", gameHandler.StartTournament)
		r.Post("/play", gameHandler.Play)
		r.Post("/pause", gameHandler.Pause)
		r.Post("/points", gameHandler.AddPoint)
		r.Post("/reset-timer", gameHandler.ResetTimer)
		r.Post("/finish", gameHandler.Finish)
		r.Post("/prompt", gameHandler.ResolvePrompt)
		r.Post("/team-names", gameHandler.SetTeamNames)
		r.Post("/clear-alert", gameHandler.ClearAlert)
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(middleware.Authorize(models.RoleMaster))

		r.Post("/live/reset", liveHandler.Reset)
		r.Put("/settings", settingsHandler.Update)
		r.Put("/settings/app-date", settingsHandler.UpdateAppDate)

		r.Post("/teams", teamHandler.CreateTeam)
		r.Delete("/teams/{teamID}", teamHandler.DeleteTeam)

		r.Get("/users", authHandler.ListUsers)
		r.Put("/users/{userID}/role", authHandler.UpdateRole)
		r.Delete("/users/{userID}", authHandler.DeleteUser)
	})

	router.Route("/tournament", func(r chi.Router) {
		r.Get("/current", tournamentHandler.GetCurrent)
		r.Get("/{tournamentID}/matches", tournamentHandler.ListMatches)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleMaster))

			r.Post("/matches", tournamentHandler.ScheduleMatch)
			r.Post("/{tournamentID}/round-robin", tournamentHandler.GenerateRoundRobin)
			r.Delete("/matches/{matchID}", tournamentHandler.DeleteMatch)
		})
	})

	router.Route("/matches/{matchID}", func(r chi.Router) {
		r.Get("/roster", checkInHandler.Roster)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/checkin", checkInHandler.CheckIn)
			r.Delete("/checkin", checkInHandler.CheckOut)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Get("/me/entries", checkInHandler.MyEntries)
	})
}
