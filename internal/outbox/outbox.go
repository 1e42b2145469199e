// Package outbox persists deferred side effects (shipment creation after a
// captured payment, and similar fire-and-forget work) and retries them with
// bounded exponential backoff instead of bare in-process timers.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"obazaar/internal/domain"
	"obazaar/internal/models"

	"gorm.io/gorm"
)

const (
	defaultMaxAttempts = 8
	baseBackoff        = time.Minute
	maxBackoff         = time.Hour
)

// Handler executes one task type; a returned error schedules a retry.
type Handler func(ctx context.Context, payload []byte) error

type Queue struct {
	db *gorm.DB
}

func NewQueue(db *gorm.DB) *Queue {
	return &Queue{db: db}
}

// Enqueue stores a task for asynchronous delivery.
func (q *Queue) Enqueue(ctx context.Context, taskType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("outbox payload: %w", err)
	}
	task := models.OutboxTask{
		Type:        taskType,
		Payload:     data,
		Status:      domain.OutboxStatusPending,
		MaxAttempts: defaultMaxAttempts,
		NextRunAt:   time.Now(),
	}
	return q.db.WithContext(ctx).Create(&task).Error
}

func (q *Queue) due(ctx context.Context, now time.Time, limit int) ([]models.OutboxTask, error) {
	var tasks []models.OutboxTask
	err := q.db.WithContext(ctx).
		Where("status = ? AND next_run_at <= ?", domain.OutboxStatusPending, now).
		Order("next_run_at asc").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

func (q *Queue) update(ctx context.Context, id uint, fields map[string]interface{}) error {
	return q.db.WithContext(ctx).Model(&models.OutboxTask{}).Where("id = ?", id).Updates(fields).Error
}

// taskStore is what the worker needs from the queue.
type taskStore interface {
	due(ctx context.Context, now time.Time, limit int) ([]models.OutboxTask, error)
	update(ctx context.Context, id uint, fields map[string]interface{}) error
}

// Backoff returns the delay before the next attempt: base doubled per
// attempt, capped at maxBackoff.
func Backoff(attempts int) time.Duration {
	d := baseBackoff
	for i := 0; i < attempts; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

// Worker polls for due tasks and dispatches them to registered handlers.
type Worker struct {
	queue    taskStore
	handlers map[string]Handler
	interval time.Duration
	batch    int
}

func NewWorker(queue *Queue, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Worker{
		queue:    queue,
		handlers: make(map[string]Handler),
		interval: interval,
		batch:    50,
	}
}

func (w *Worker) Register(taskType string, h Handler) {
	w.handlers[taskType] = h
}

// Run polls until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.drain(ctx); err != nil {
				log.Printf("[Outbox] drain: %v", err)
			}
		}
	}
}

func (w *Worker) drain(ctx context.Context) error {
	tasks, err := w.queue.due(ctx, time.Now(), w.batch)
	if err != nil {
		return err
	}
	for _, task := range tasks {
		w.process(ctx, task)
	}
	return nil
}

func (w *Worker) process(ctx context.Context, task models.OutboxTask) {
	h, ok := w.handlers[task.Type]
	if !ok {
		log.Printf("[Outbox] no handler for task %d type=%s", task.ID, task.Type)
		w.update(ctx, task.ID, map[string]interface{}{
			"status":     domain.OutboxStatusDead,
			"last_error": "no handler registered",
		})
		return
	}
	err := h(ctx, task.Payload)
	if err == nil {
		w.update(ctx, task.ID, map[string]interface{}{
			"status":   domain.OutboxStatusDone,
			"attempts": task.Attempts + 1,
		})
		return
	}
	attempts := task.Attempts + 1
	if attempts >= task.MaxAttempts {
		log.Printf("[Outbox] task %d type=%s dead after %d attempts: %v", task.ID, task.Type, attempts, err)
		w.update(ctx, task.ID, map[string]interface{}{
			"status":     domain.OutboxStatusDead,
			"attempts":   attempts,
			"last_error": err.Error(),
		})
		return
	}
	next := time.Now().Add(Backoff(task.Attempts))
	log.Printf("[Outbox] task %d type=%s attempt %d failed, retry at %s: %v", task.ID, task.Type, attempts, next.Format(time.RFC3339), err)
	w.update(ctx, task.ID, map[string]interface{}{
		"attempts":    attempts,
		"next_run_at": next,
		"last_error":  err.Error(),
	})
}

func (w *Worker) update(ctx context.Context, id uint, fields map[string]interface{}) {
	if err := w.queue.update(ctx, id, fields); err != nil {
		log.Printf("[Outbox] update task %d: %v", id, err)
	}
}
