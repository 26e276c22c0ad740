package server

import (
	"log"

	"rag-filesearch-be/internal/bootstrap"
	"rag-filesearch-be/internal/config"
	"rag-filesearch-be/internal/pkg/serverutils"
	ws "rag-filesearch-be/internal/websocket"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	// Initialize Fiber App. The body limit sits above the upload cap so
	// oversized files reach the handler and get the JSON error, not a 413.
	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.FileSearch.MaxFileSize) + 1*1024*1024,
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.App.CorsAllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Type, Authorization",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	// WebSocket endpoint for live import progress
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		ws.ServeWs(container.WebSocketHub, conn)
	}))

	// Routes
	registerRoutes(app, container)

	// Static frontend, registered last so API routes take precedence
	app.Static("/", cfg.App.WebDir)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	root := app.Group("/")

	c.StoreController.RegisterRoutes(root)
	c.ChatController.RegisterRoutes(root)
	c.AdminController.RegisterRoutes(root)
}
