package worker

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/yumozi/ConCreate/pipeline"
	"github.com/yumozi/ConCreate/tasks"
)

// TaskHandler is a function that processes a task payload.
type TaskHandler func(ctx context.Context, payload string) error

// Runner is the slice of the pipeline orchestrator the worker needs.
type Runner interface {
	RunObserved(ctx context.Context, voiceID string, segments []pipeline.Segment, orientation pipeline.Orientation, onState func(index int, state string)) (pipeline.Result, error)
}

// Processor holds dependencies and registered task handlers.
type Processor struct {
	DB       *gorm.DB
	RDB      *redis.Client
	Runner   Runner
	handlers map[string]TaskHandler
}

// NewProcessor creates a new worker processor.
func NewProcessor(db *gorm.DB, rdb *redis.Client, runner Runner) *Processor {
	return &Processor{
		DB:       db,
		RDB:      rdb,
		Runner:   runner,
		handlers: make(map[string]TaskHandler),
	}
}

// Register maps a queue name (task type) to a handler function.
func (p *Processor) Register(queueName string, handler TaskHandler) {
	p.handlers[queueName] = handler
	log.Printf("Registered handler for queue: %s", queueName)
}

// Enqueue adds a new task to a queue.
func (p *Processor) Enqueue(ctx context.Context, queueName string, payload interface{}) error {
	payloadStr, err := tasks.Marshal(payload)
	if err != nil {
		return err
	}
	return p.RDB.LPush(ctx, queueName, payloadStr).Err()
}

// Listen starts the worker, blocking on all registered queues until the
// context is cancelled.
func (p *Processor) Listen(ctx context.Context, queueNames ...string) {
	log.Printf("Worker listening on %d queues: %v", len(queueNames), queueNames)

	for {
		if ctx.Err() != nil {
			log.Println("Worker shutting down")
			return
		}

		// BRPop blocks until a task is available on any of the listed
		// queues; only one worker receives any given task.
		result, err := p.RDB.BRPop(ctx, 0, queueNames...).Result()
		if err != nil {
			if ctx.Err() != nil {
				log.Println("Worker shutting down")
				return
			}
			log.Printf("Error popping from queue: %v", err)
			time.Sleep(time.Second)
			continue
		}

		// result[0] is the queue name, result[1] is the payload
		queueName := result[0]
		payload := result[1]

		handler, ok := p.handlers[queueName]
		if !ok {
			log.Printf("Error: No handler registered for queue %s", queueName)
			continue
		}

		log.Printf("Received task from queue %s", queueName)
		if err := handler(ctx, payload); err != nil {
			log.Printf("Error processing task from %s: %v", queueName, err)
		}
	}
}
