package routes

import (
	"github.com/AyushSid28/Coach-Loop/internal/config"
	"github.com/AyushSid28/Coach-Loop/internal/handlers"
	"github.com/AyushSid28/Coach-Loop/internal/observability"
	"github.com/AyushSid28/Coach-Loop/internal/repository"
	"github.com/AyushSid28/Coach-Loop/internal/scheduler"
	"github.com/AyushSid28/Coach-Loop/internal/services"
	sessionws "github.com/AyushSid28/Coach-Loop/internal/websocket"
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires repositories, services, and handlers onto the app and
// returns the expiry scheduler for the caller to start.
func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) *scheduler.Scheduler {
	paymentRepo := repository.NewPaymentRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	metrics := observability.NewMetrics("coachloop")

	hub := sessionws.NewHub()
	go hub.Run()

	var mailer services.Mailer
	if cfg.EmailUser != "" && cfg.EmailPass != "" {
		mailer = services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass)
	}

	paymentService := services.NewPaymentService(paymentRepo, cfg.PaymentKeySecret)
	sessionService := services.NewSessionService(sessionRepo, messageRepo, paymentRepo, cfg.DisplayTZ)
	summaryService := services.NewSummaryService(
		cfg.OpenAIAPIKey,
		cfg.OpenAIModel,
		sessionRepo,
		messageRepo,
		mailer,
		cfg.DisplayTZ,
	)
	coachService := services.NewCoachService(cfg.OpenAIAPIKey, cfg.OpenAIModel)

	sched := scheduler.New(sessionRepo, messageRepo, summaryService, mailer, hub, metrics)
	sessionService.SetOnExpired(sched.NotifyExpired)

	paymentHandler := handlers.NewPaymentHandler(paymentService)
	sessionHandler := handlers.NewSessionHandler(sessionService, sched)
	chatHandler := handlers.NewChatHandler(sessionService, coachService, hub)
	summaryHandler := handlers.NewSummaryHandler(summaryService)
	agentHandler := handlers.NewAgentHandler()
	webhookHandler := handlers.NewWebhookHandler(cfg.WebhookSecret)

	api := app.Group("/api")

	payment := api.Group("/payment")
	payment.Post("/create-order", paymentHandler.CreateOrder)
	payment.Post("/verify", paymentHandler.VerifyPayment)
	payment.Get("/options", paymentHandler.GetOptions)

	sessions := api.Group("/sessions")
	sessions.Post("/book", sessionHandler.BookSession)
	sessions.Post("/validate", sessionHandler.ValidateSession)
	sessions.Post("/message", sessionHandler.SaveMessage)
	sessions.Get("/:id/messages", sessionHandler.GetMessages)

	agents := api.Group("/agents")
	agents.Get("", agentHandler.ListAgents)
	agents.Get("/:type", agentHandler.GetAgentByType)

	api.Post("/session-summary/:sessionId", summaryHandler.GenerateSummary)
	api.Post("/webhook", webhookHandler.HandleWebhook)

	app.Post("/chat", chatHandler.Chat)

	api.Use("/ws", chatHandler.WebSocketUpgrade)
	api.Get("/ws", websocket.New(chatHandler.HandleWebSocket))

	app.Get("/metrics", adaptor.HTTPHandler(observability.MetricsHandler()))

	return sched
}
