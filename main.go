package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/wadepvenga/gerenciador-tarefas-familia/config"
	"github.com/wadepvenga/gerenciador-tarefas-familia/controllers"
	"github.com/wadepvenga/gerenciador-tarefas-familia/routes"
)

func main() {
	config.LoadEnv()
	config.ConnectDB()
	controllers.InitSync()

	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.EnvOr("CLIENT_URL", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	routes.Setup(app)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	port := config.EnvOr("PORT", "8080")
	log.Fatal(app.Listen(":" + port))
}
