package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/DRSN-tech/petshop-backend/internal/usecase"
	"github.com/DRSN-tech/petshop-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memOutbox struct {
	mu     sync.Mutex
	events []*usecase.OutboxEvent
}

func (m *memOutbox) Create(_ context.Context, ev *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ev.ID = int64(len(m.events) + 1)
	m.events = append(m.events, ev)
	return ev, nil
}

func (m *memOutbox) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var res []*usecase.OutboxEvent
	for _, ev := range m.events {
		if ev.Status == usecase.Pending && len(res) < limit {
			ev.Status = usecase.Processing
			res = append(res, ev)
		}
	}
	return res, nil
}

func (m *memOutbox) set(id int64, status usecase.OutboxStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ev := range m.events {
		if ev.ID == id {
			ev.Status = status
		}
	}
}

func (m *memOutbox) MarkAsProcessed(_ context.Context, id int64) error {
	m.set(id, usecase.Processed)
	return nil
}

func (m *memOutbox) MarkAsPending(_ context.Context, id int64) error {
	m.set(id, usecase.Pending)
	return nil
}

func (m *memOutbox) statuses() []usecase.OutboxStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]usecase.OutboxStatus, 0, len(m.events))
	for _, ev := range m.events {
		res = append(res, ev.Status)
	}
	return res
}

type stubProducer struct {
	sent []*usecase.WriteRawMessageReq
	// failFor - ключи агрегатов, для которых возвращается ошибка.
	failFor map[int64]error
}

func (p *stubProducer) WriteRawMessage(_ context.Context, req *usecase.WriteRawMessageReq) error {
	if err, ok := p.failFor[req.Key]; ok {
		return err
	}
	p.sent = append(p.sent, req)
	return nil
}

func newEvent(t *testing.T, repo *memOutbox, aggregateID int64) {
	t.Helper()

	ev, err := usecase.NewOutboxEvent(usecase.StockAdjusted, aggregateID, usecase.StockAdjustedEvent{ProductID: aggregateID})
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), ev)
	require.NoError(t, err)
}

func TestOutboxWorker_DrainDeliversEverything(t *testing.T) {
	repo := &memOutbox{}
	for i := int64(1); i <= 5; i++ {
		newEvent(t, repo, i)
	}
	producer := &stubProducer{}

	w := NewOutboxWorker(repo, logger.NewNop(), producer, "", 2)
	w.drain(context.Background())

	require.Len(t, producer.sent, 5)
	assert.Equal(t, string(usecase.StockAdjusted), producer.sent[0].EventType)
	assert.Equal(t, int64(1), producer.sent[0].Key)
	for _, s := range repo.statuses() {
		assert.Equal(t, usecase.Processed, s)
	}
}

func TestOutboxWorker_FailedDeliveries(t *testing.T) {
	repo := &memOutbox{}
	newEvent(t, repo, 1)
	newEvent(t, repo, 2)
	newEvent(t, repo, 3)

	producer := &stubProducer{failFor: map[int64]error{
		2: errors.New("dial tcp: connection refused"),
		3: errors.New("message too large"),
	}}

	w := NewOutboxWorker(repo, logger.NewNop(), producer, "", 10)
	sent, err := w.processBatch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, sent)
	assert.Equal(t, []usecase.OutboxStatus{
		usecase.Processed,
		usecase.Pending,
		usecase.Processing,
	}, repo.statuses())
}

func TestOutboxWorker_DrainStopsWhenNothingSent(t *testing.T) {
	repo := &memOutbox{}
	newEvent(t, repo, 1)
	producer := &stubProducer{failFor: map[int64]error{1: errors.New("i/o timeout")}}

	w := NewOutboxWorker(repo, logger.NewNop(), producer, "", 10)
	w.drain(context.Background())

	assert.Empty(t, producer.sent)
	assert.Equal(t, []usecase.OutboxStatus{usecase.Pending}, repo.statuses())
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{err: nil, want: false},
		{err: errors.New("dial tcp 10.0.0.1:9092: connect: Connection Refused"), want: true},
		{err: errors.New("read: i/o timeout"), want: true},
		{err: errors.New("write: broken pipe"), want: true},
		{err: errors.New("[10] Message Size Too Large"), want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isRetryableError(tt.err), "%v", tt.err)
	}
}

func TestNewMessage(t *testing.T) {
	msg := newMessage(&usecase.WriteRawMessageReq{
		Key:       42,
		EventType: string(usecase.ProductConsumptionCreated),
		Payload:   []byte(`{"id":42}`),
	})

	assert.Equal(t, []byte("42"), msg.Key)
	assert.JSONEq(t, `{"id":42}`, string(msg.Value))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, eventTypeHeader, msg.Headers[0].Key)
	assert.Equal(t, "product_consumption.created", string(msg.Headers[0].Value))
}
