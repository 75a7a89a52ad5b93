package kafka

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/petshop-backend/internal/repository/pgdb"
	"github.com/DRSN-tech/petshop-backend/internal/usecase"
	"github.com/DRSN-tech/petshop-backend/pkg/e"
	"github.com/DRSN-tech/petshop-backend/pkg/jitter"
	"github.com/DRSN-tech/petshop-backend/pkg/logger"
	"github.com/jackc/pgx/v5"
)

const (
	pollInterval     = 30 * time.Second
	reconnectBase    = 2 * time.Second
	reconnectMax     = time.Minute
	defaultBatchSize = 10
)

// OutboxWorker переносит события из outbox_events в Kafka.
// Будится по NOTIFY и дополнительно опрашивает таблицу раз в pollInterval,
// чтобы подобрать события, вернувшиеся в очередь после ошибок.
type OutboxWorker struct {
	repo      usecase.OutboxRepository
	logger    logger.Logger
	producer  usecase.MessageProducer
	stop      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	dbConnStr string
	batchSize int
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	dbConnStr string,
	batchSize int,
) *OutboxWorker {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &OutboxWorker{
		repo:      repo,
		logger:    logger,
		producer:  producer,
		stop:      make(chan struct{}),
		dbConnStr: dbConnStr,
		batchSize: batchSize,
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		<-w.stop
		cancel()
	}()

	go func() {
		defer w.wg.Done()

		w.logger.Infof("Draining pending outbox events on startup...")
		w.drain(ctx)
		w.listenOutboxNotifications(ctx)
	}()
}

// Stop останавливает воркер и ждёт завершения текущего пакета.
func (w *OutboxWorker) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	w.wg.Wait()
}

func (w *OutboxWorker) listenOutboxNotifications(ctx context.Context) {
	var conn *pgx.Conn

	connect := func() error {
		c, err := pgx.Connect(ctx, w.dbConnStr)
		if err != nil {
			return e.Wrap("failed to connect for LISTEN", err)
		}

		if _, err := c.Exec(ctx, "LISTEN "+pgdb.NotifyChannel); err != nil {
			c.Close(ctx)
			return e.Wrap("failed to LISTEN", err)
		}

		conn = c
		w.logger.Infof("Subscribed to '%s' channel", pgdb.NotifyChannel)
		return nil
	}

	closeConn := func() {
		if conn != nil {
			conn.Close(context.Background())
			conn = nil
		}
	}
	defer closeConn()

	attempt := 0
	for {
		if ctx.Err() != nil {
			return
		}

		if conn == nil {
			if err := connect(); err != nil {
				delay := jitter.ExponentialBackoff(reconnectBase, reconnectMax, attempt, jitter.DefaultJitter)
				attempt++
				w.logger.Warnf("LISTEN connect failed, retry in %s: %v", delay, err)
				if !sleep(ctx, delay) {
					return
				}
				continue
			}
			attempt = 0
		}

		waitCtx, cancel := context.WithTimeout(ctx, pollInterval)
		notif, err := conn.WaitForNotification(waitCtx)
		cancel()

		switch {
		case err == nil:
			if notif.Channel == pgdb.NotifyChannel {
				w.logger.Debugf("Received outbox notification, draining outbox events")
				w.drain(ctx)
			}
		case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
			w.drain(ctx)
		case ctx.Err() != nil:
			return
		default:
			w.logger.Warnf("Connection lost: %v. Reconnecting...", err)
			closeConn()
		}
	}
}

// drain обрабатывает пакеты, пока они отправляются.
// Пакет без единой успешной отправки прерывает цикл до следующего пробуждения.
func (w *OutboxWorker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		sent, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("Batch processing failed: %v", err)
			return
		}
		if sent == 0 {
			return
		}
	}
}

// processBatch возвращает число доставленных событий.
func (w *OutboxWorker) processBatch(ctx context.Context) (int, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, event := range events {
		if err := w.processEvent(ctx, event); err != nil {
			if !isRetryableError(err) {
				// Событие остаётся в processing до ручного разбора.
				w.logger.Errorf(err, "Outbox event %s dropped from delivery", event.EventID)
				continue
			}

			w.logger.Warnf("Outbox event %s not delivered: %v", event.EventID, err)
			if err := w.repo.MarkAsPending(ctx, event.ID); err != nil {
				w.logger.Warnf("return to pending failed: %v", err)
			}
			continue
		}

		if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
		}
		sent++
	}

	return sent, nil
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *usecase.OutboxEvent) error {
	if err := w.producer.WriteRawMessage(ctx, usecase.NewWriteRawMessageReq(event)); err != nil {
		if isRetryableError(err) {
			return e.Wrap("Temporary Kafka failure, will retry", err)
		}
		return e.Wrap("Permanent Kafka failure", err)
	}
	return nil
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}
	return false
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
