package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/socialguillotine/backend/api/handler"
)

type Handlers struct {
	Auth       *apiHandler.AuthHandler
	Task       *apiHandler.TaskHandler
	Punishment *apiHandler.PunishmentHandler
	Stats      *apiHandler.StatsHandler
	Group      *apiHandler.GroupHandler
	Health     *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Health)

	// Auth routes
	r.POST("/api/auth/register", handlers.Auth.Register)
	r.POST("/api/auth/login", handlers.Auth.Login)
	r.POST("/api/auth/logout", authMiddleware(handlers.Auth.Logout))

	// Dashboard routes, form-driven like the UI submits them
	r.GET("/", authMiddleware(handlers.Task.Dashboard))
	r.POST("/add", authMiddleware(handlers.Task.AddTask))
	r.POST("/delete/{id}", authMiddleware(handlers.Task.CompleteTask))
	r.GET("/check_punishments", authMiddleware(handlers.Punishment.CheckPunishments))

	// JSON API
	r.GET("/api/tasks", authMiddleware(handlers.Task.ListTasks))
	r.GET("/api/stats", authMiddleware(handlers.Stats.Stats))
	r.GET("/api/rankings", authMiddleware(handlers.Stats.Rankings))
	r.GET("/api/badges", authMiddleware(handlers.Stats.Badges))
	r.GET("/api/punishments", authMiddleware(handlers.Punishment.History))
	r.GET("/api/group-rankings/{id}", authMiddleware(handlers.Group.Rankings))

	// Groups
	r.POST("/group/create", authMiddleware(handlers.Group.Create))
	r.POST("/group/join", authMiddleware(handlers.Group.Join))

	return r
}
