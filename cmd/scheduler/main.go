package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"

	"github.com/yumozi/ConCreate/internal/platform"
	"github.com/yumozi/ConCreate/retention"
)

// sweepLockKey guards against concurrent sweeps when multiple scheduler
// instances run by mistake.
const sweepLockKey = "retention_sweep_lock"

func main() {
	rdb := platform.NewRedisClient()
	ctx := context.Background()

	videoTTL := durationEnv("VIDEO_TTL", 24*time.Hour)
	workspaceTTL := durationEnv("WORKSPACE_TTL", 6*time.Hour)
	workDir := os.Getenv("PIPELINE_WORK_DIR")
	if workDir == "" {
		workDir = os.TempDir()
	}

	c := cron.New()
	_, err := c.AddFunc("@hourly", func() {
		sweep(ctx, rdb, workDir, videoTTL, workspaceTTL)
	})
	if err != nil {
		log.Fatalf("Failed to schedule sweep: %v", err)
	}
	c.Start()
	defer c.Stop()

	log.Println("Scheduler started, sweeping hourly...")
	select {}
}

func sweep(ctx context.Context, rdb *redis.Client, workDir string, videoTTL, workspaceTTL time.Duration) {
	ok, err := rdb.SetNX(ctx, sweepLockKey, 1, 10*time.Minute).Result()
	if err != nil {
		log.Printf("Sweep lock error: %v", err)
		return
	}
	if !ok {
		log.Println("Sweep already running elsewhere, skipping")
		return
	}
	defer rdb.Del(ctx, sweepLockKey)

	now := time.Now()
	if n, err := retention.Sweep(platform.PublicVideoDir(), "final_video_", videoTTL, now); err != nil {
		log.Printf("Public video sweep failed: %v", err)
	} else if n > 0 {
		log.Printf("Removed %d expired videos", n)
	}

	// Workspaces are normally removed by the pipeline itself; this catches
	// leftovers from crashed runs.
	if n, err := retention.Sweep(workDir, "concreate-", workspaceTTL, now); err != nil {
		log.Printf("Workspace sweep failed: %v", err)
	} else if n > 0 {
		log.Printf("Removed %d stale workspaces", n)
	}
}

func durationEnv(name string, fallback time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid %s %q, using %s", name, v, fallback)
		return fallback
	}
	return d
}
