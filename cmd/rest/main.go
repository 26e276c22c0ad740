package main

import (
	"context"
	"log"

	"rag-filesearch-be/internal/bootstrap"
	"rag-filesearch-be/internal/config"
	"rag-filesearch-be/internal/server"
	"rag-filesearch-be/internal/tracer"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()
	if cfg.FileSearch.APIKey == "" {
		log.Println("[WARN] GEMINI_API_KEY is not set; set it via .env or POST /update-api-key")
	}

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Start Background Services
	go container.WebSocketHub.Run()
	go func() {
		if err := container.RunEventForwarder(context.Background()); err != nil {
			log.Printf("Background Event Forwarder Error: %v", err)
		}
	}()

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
