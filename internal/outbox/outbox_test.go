package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"obazaar/internal/domain"
	"obazaar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestBackoff(t *testing.T) {
	assert.Equal(t, time.Minute, Backoff(0))
	assert.Equal(t, 2*time.Minute, Backoff(1))
	assert.Equal(t, 4*time.Minute, Backoff(2))
	assert.Equal(t, 32*time.Minute, Backoff(5))
	// Capped at one hour from the sixth retry on.
	assert.Equal(t, time.Hour, Backoff(6))
	assert.Equal(t, time.Hour, Backoff(20))
}

type fakeTaskStore struct {
	tasks   map[uint]*models.OutboxTask
	updates []map[string]interface{}
}

func newFakeTaskStore(tasks ...models.OutboxTask) *fakeTaskStore {
	s := &fakeTaskStore{tasks: make(map[uint]*models.OutboxTask)}
	for i := range tasks {
		t := tasks[i]
		s.tasks[t.ID] = &t
	}
	return s
}

func (s *fakeTaskStore) due(ctx context.Context, now time.Time, limit int) ([]models.OutboxTask, error) {
	var out []models.OutboxTask
	for _, t := range s.tasks {
		if t.Status == domain.OutboxStatusPending && !t.NextRunAt.After(now) {
			out = append(out, *t)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *fakeTaskStore) update(ctx context.Context, id uint, fields map[string]interface{}) error {
	s.updates = append(s.updates, fields)
	t, ok := s.tasks[id]
	if !ok {
		return nil
	}
	if v, ok := fields["status"]; ok {
		t.Status = v.(string)
	}
	if v, ok := fields["attempts"]; ok {
		t.Attempts = v.(int)
	}
	if v, ok := fields["next_run_at"]; ok {
		t.NextRunAt = v.(time.Time)
	}
	if v, ok := fields["last_error"]; ok {
		t.LastError = v.(string)
	}
	return nil
}

func newTestWorker(store *fakeTaskStore) *Worker {
	return &Worker{queue: store, handlers: make(map[string]Handler), interval: time.Second, batch: 50}
}

func pendingTask(id uint, taskType string, attempts, maxAttempts int) models.OutboxTask {
	return models.OutboxTask{
		ID:          id,
		Type:        taskType,
		Payload:     datatypes.JSON(`{"order_id":1}`),
		Status:      domain.OutboxStatusPending,
		Attempts:    attempts,
		MaxAttempts: maxAttempts,
		NextRunAt:   time.Now().Add(-time.Second),
	}
}

func TestWorker_SuccessMarksDone(t *testing.T) {
	store := newFakeTaskStore(pendingTask(1, "shipment.create", 0, 8))
	w := newTestWorker(store)
	var got []byte
	w.Register("shipment.create", func(ctx context.Context, payload []byte) error {
		got = payload
		return nil
	})

	require.NoError(t, w.drain(context.Background()))

	assert.JSONEq(t, `{"order_id":1}`, string(got))
	assert.Equal(t, domain.OutboxStatusDone, store.tasks[1].Status)
	assert.Equal(t, 1, store.tasks[1].Attempts)
}

func TestWorker_NoHandlerDeadLetters(t *testing.T) {
	store := newFakeTaskStore(pendingTask(1, "unknown.task", 0, 8))
	w := newTestWorker(store)

	require.NoError(t, w.drain(context.Background()))

	assert.Equal(t, domain.OutboxStatusDead, store.tasks[1].Status)
	assert.Equal(t, "no handler registered", store.tasks[1].LastError)
}

func TestWorker_FailureReschedulesWithBackoff(t *testing.T) {
	store := newFakeTaskStore(pendingTask(1, "shipment.create", 2, 8))
	w := newTestWorker(store)
	w.Register("shipment.create", func(ctx context.Context, payload []byte) error {
		return errors.New("carrier unreachable")
	})

	require.NoError(t, w.drain(context.Background()))

	task := store.tasks[1]
	assert.Equal(t, domain.OutboxStatusPending, task.Status)
	assert.Equal(t, 3, task.Attempts)
	assert.Equal(t, "carrier unreachable", task.LastError)
	assert.WithinDuration(t, time.Now().Add(Backoff(2)), task.NextRunAt, time.Minute)
}

func TestWorker_MaxAttemptsDeadLetters(t *testing.T) {
	store := newFakeTaskStore(pendingTask(1, "shipment.create", 7, 8))
	w := newTestWorker(store)
	w.Register("shipment.create", func(ctx context.Context, payload []byte) error {
		return errors.New("carrier unreachable")
	})

	require.NoError(t, w.drain(context.Background()))

	task := store.tasks[1]
	assert.Equal(t, domain.OutboxStatusDead, task.Status)
	assert.Equal(t, 8, task.Attempts)
	assert.Equal(t, "carrier unreachable", task.LastError)
}
