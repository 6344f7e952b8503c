package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"visaconsult/internal/config"

	"github.com/hibiken/asynq"
)

const (
	// TaskSendEmail is enqueued for every outgoing message when Redis is configured.
	TaskSendEmail = "email:send"

	maxRetry = 5
)

// NewSendEmailTask encodes msg as an asynq task
func NewSendEmailTask(msg Message) (*asynq.Task, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(TaskSendEmail, data, asynq.MaxRetry(maxRetry)), nil
}

// ParseSendEmailTask decodes the payload of a TaskSendEmail task
func ParseSendEmailTask(task *asynq.Task) (Message, error) {
	var msg Message
	if err := json.Unmarshal(task.Payload(), &msg); err != nil {
		return msg, fmt.Errorf("decode payload: %w", err)
	}
	return msg, msg.Validate()
}

// RedisOpt converts the config into asynq connection options
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// QueueSender enqueues messages for cmd/worker
type QueueSender struct {
	client *asynq.Client
}

// NewQueueSender connects an asynq client
func NewQueueSender(cfg config.RedisConfig) *QueueSender {
	return &QueueSender{client: asynq.NewClient(RedisOpt(cfg))}
}

func (q *QueueSender) Send(ctx context.Context, msg Message) error {
	task, err := NewSendEmailTask(msg)
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue email task: %w", err)
	}
	return nil
}

// Close releases the Redis connection
func (q *QueueSender) Close() error {
	return q.client.Close()
}

// NewServeMux routes queued e-mail tasks to sender. Undecodable payloads
// are skipped rather than retried.
func NewServeMux(sender Sender) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskSendEmail, func(ctx context.Context, task *asynq.Task) error {
		msg, err := ParseSendEmailTask(task)
		if err != nil {
			log.Printf("❌ dropping email task: %v", err)
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return sender.Send(ctx, msg)
	})
	return mux
}
