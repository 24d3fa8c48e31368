package main

import (
	"context"
	"log"

	"borrowed-brain-be/internal/bootstrap"
	"borrowed-brain-be/internal/config"
	"borrowed-brain-be/internal/server"
	"borrowed-brain-be/internal/tracer"
	"borrowed-brain-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	// The container also starts the sync worker consumer, the status-bus
	// fanout and the websocket hub.
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.JobSubscriber.Close()
	defer container.JobPublisher.Close()

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
