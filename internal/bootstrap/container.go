package bootstrap

import (
	"context"
	"log"
	"time"

	"rag-filesearch-be/internal/config"
	"rag-filesearch-be/internal/controller"
	"rag-filesearch-be/internal/pkg/logger"
	"rag-filesearch-be/internal/repository/memory"
	"rag-filesearch-be/internal/repository/statefile"
	"rag-filesearch-be/internal/service"
	"rag-filesearch-be/internal/websocket"
	"rag-filesearch-be/pkg/events"
	"rag-filesearch-be/pkg/filesearch"
)

type Container struct {
	// Controllers
	StoreController controller.IStoreController
	ChatController  controller.IChatController
	AdminController controller.IAdminController

	// Infrastructure (exposed for main.go / server wiring)
	Logger       logger.ILogger
	Bus          *events.Bus
	WebSocketHub *websocket.Hub
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. External Client
	clientOpts := []filesearch.Option{}
	if cfg.FileSearch.BaseURL != "" {
		clientOpts = append(clientOpts, filesearch.WithBaseURL(cfg.FileSearch.BaseURL))
	}
	fsClient := filesearch.NewClient(cfg.FileSearch.APIKey, clientOpts...)

	// 3. State
	stateRepo := statefile.NewRepository(cfg.App.StateFilePath, sysLogger)
	if err := stateRepo.Load(); err != nil {
		log.Printf("[WARN] Could not load state file: %v", err)
	}
	verifyStore(fsClient, stateRepo, sysLogger)

	transcriptRepo := memory.NewTranscriptRepository()

	// 4. Event Bus & WebSocket Hub
	bus := events.NewBus()
	hub := websocket.NewHub(sysLogger)

	// 5. Services
	uploadService := service.NewUploadService(cfg, fsClient, stateRepo, bus, sysLogger)
	chatService := service.NewChatService(cfg, fsClient, stateRepo, transcriptRepo, sysLogger)
	storeService := service.NewStoreService(cfg, fsClient, stateRepo, transcriptRepo, bus, sysLogger)
	adminService := service.NewAdminService(cfg, fsClient, stateRepo, sysLogger)

	// 6. Controllers
	return &Container{
		StoreController: controller.NewStoreController(uploadService, storeService),
		ChatController:  controller.NewChatController(chatService),
		AdminController: controller.NewAdminController(adminService, cfg.Admin.AuthEnabled),

		Logger:       sysLogger,
		Bus:          bus,
		WebSocketHub: hub,
	}
}

// verifyStore checks that a persisted store name still resolves against the
// external service. The reference is dropped only when the service says the
// store is gone; transient failures keep the name so a flaky network cannot
// wipe local state.
func verifyStore(fs *filesearch.Client, state *statefile.Repository, log logger.ILogger) {
	name := state.StoreName()
	if name == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := fs.GetStore(ctx, name); err != nil {
		if filesearch.IsNotFound(err) {
			log.Warn("Bootstrap", "Persisted store no longer exists, resetting state", map[string]interface{}{"store": name})
			if cerr := state.ClearStore(); cerr != nil {
				log.Error("Bootstrap", "Could not reset state file", map[string]interface{}{"error": cerr.Error()})
			}
			return
		}
		log.Warn("Bootstrap", "Could not verify persisted store, keeping it", map[string]interface{}{"store": name, "error": err.Error()})
	}
}

// RunEventForwarder pumps bus events to connected websocket clients. Meant
// to run as a goroutine for the lifetime of the process.
func (c *Container) RunEventForwarder(ctx context.Context) error {
	messages, err := c.Bus.Subscribe(ctx)
	if err != nil {
		return err
	}
	for msg := range messages {
		c.WebSocketHub.Broadcast(msg.Payload)
		msg.Ack()
	}
	return nil
}
