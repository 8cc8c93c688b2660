package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/yumozi/ConCreate/internal/platform"
	"github.com/yumozi/ConCreate/models"
	"github.com/yumozi/ConCreate/tasks"
	"github.com/yumozi/ConCreate/worker"
)

func main() {
	// Use the shared initializers
	db := platform.NewDBConnection()
	rdb := platform.NewRedisClient()

	if err := db.AutoMigrate(&models.RenderJob{}, &models.RenderSegment{}); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := worker.NewProcessor(db, rdb, platform.NewOrchestrator())
	p.Register(tasks.QueueVideoRender, p.HandleRenderVideo)

	log.Println("Worker started, waiting for queue tasks...")
	p.Listen(ctx, tasks.QueueVideoRender)
}
