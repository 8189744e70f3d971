package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/wadepvenga/gerenciador-tarefas-familia/controllers"
	"github.com/wadepvenga/gerenciador-tarefas-familia/middleware"
)

func Setup(app *fiber.App) {
	api := app.Group("/api")

	// 1. AUTH
	auth := api.Group("/auth")
	auth.Post("/register", controllers.Register)
	auth.Post("/login",    controllers.Login)
	auth.Post("/refresh",  controllers.Refresh)
	auth.Post("/logout",   controllers.Logout)

	// 2. USERS (администрирование)
	users := api.Group("/users", middleware.JWTProtected())
	users.Get("/",                    controllers.GetUsers)
	users.Post("/",                   controllers.CreateUser)
	users.Put("/:id",                 controllers.UpdateUser)
	users.Post("/:id/toggle",         controllers.ToggleUserStatus)
	users.Post("/:id/reset-password", controllers.ResetUserPassword)

	// 3. NUCLEI (семейные ядра)
	nuclei := api.Group("/nuclei", middleware.JWTProtected())
	nuclei.Post("/",       controllers.CreateNucleus)
	nuclei.Get("/",        controllers.GetNuclei)
	nuclei.Get("/details", controllers.GetNucleusDetails)
	nuclei.Delete("/:id",  controllers.DeleteNucleus)
	nuclei.Post("/invite", controllers.InviteMember)
	api.Get("/nuclei/accept/:token", controllers.AcceptInvitation)

	// 4. TASKS
	api.Get("/tasks/ws", websocket.New(controllers.TaskFeedWS))
	tasks := api.Group("/tasks", middleware.JWTProtected())
	tasks.Post("/",             controllers.CreateTask)
	tasks.Get("/",              controllers.GetTasks)
	tasks.Get("/my",            controllers.GetMyTasks)
	tasks.Put("/:id",           controllers.UpdateTask)
	tasks.Post("/:id/complete", controllers.CompleteTask)
	tasks.Delete("/:id",        controllers.DeleteTask)

	// 5. GOOGLE CALENDAR
	// callback приходит от Google без нашего JWT
	api.Get("/gcal/callback", controllers.GoogleCallback)
	gcal := api.Group("/gcal", middleware.JWTProtected())
	gcal.Get("/status",    controllers.GetCalendarStatus)
	gcal.Get("/settings",  controllers.GetCalendarSettings)
	gcal.Put("/settings",  controllers.UpdateCalendarSettings)
	gcal.Get("/calendars", controllers.ListGoogleCalendars)
	gcal.Post("/sync",     controllers.SyncTasks)
	gcal.Get("/connect",   controllers.ConnectGoogle)
}
