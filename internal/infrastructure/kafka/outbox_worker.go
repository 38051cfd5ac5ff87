package kafka

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/shop-admin/internal/usecase"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/DRSN-tech/shop-admin/pkg/jitter"
	"github.com/DRSN-tech/shop-admin/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/segmentio/kafka-go"
)

const (
	defaultBatchLimit  = 10
	staleAfterSeconds  = 60
	pollInterval       = 30 * time.Second
	waitNotifyTimeout  = 30 * time.Second
	reconnectBaseDelay = time.Second
	reconnectMaxDelay  = 30 * time.Second
)

// OutboxWorker переносит события из таблицы outbox_events в Kafka.
// Просыпается по NOTIFY, а также по таймеру, чтобы подобрать зависшие события.
type OutboxWorker struct {
	repo       usecase.OutboxRepository
	logger     logger.Logger
	producer   usecase.MessageProducer
	stop       chan struct{}
	stopOnce   sync.Once
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	dbConnStr  string
	channel    string
	batchLimit int
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	dbConnStr string,
	channel string,
	batchLimit int,
) *OutboxWorker {
	if batchLimit <= 0 {
		batchLimit = defaultBatchLimit
	}

	return &OutboxWorker{
		repo:       repo,
		logger:     logger,
		producer:   producer,
		stop:       make(chan struct{}),
		dbConnStr:  dbConnStr,
		channel:    channel,
		batchLimit: batchLimit,
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	wake := make(chan struct{}, 1)

	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		w.run(ctx, wake)
	}()

	// Запускаем слушатель уведомлений
	go func() {
		defer w.wg.Done()
		w.listenOutboxNotifications(ctx, wake)
	}()
}

// Stop останавливает воркер и дожидается завершения горутин.
func (w *OutboxWorker) Stop(ctx context.Context) error {
	w.stopOnce.Do(func() {
		close(w.stop)
		if w.cancel != nil {
			w.cancel()
		}
	})

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return e.Wrap("OutboxWorker.Stop", ctx.Err())
	}
}

func (w *OutboxWorker) run(ctx context.Context, wake <-chan struct{}) {
	// Обрабатываем "остатки" при старте
	w.logger.Infof("Draining pending outbox events on startup...")
	w.releaseStale(ctx)
	w.Drain(ctx)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("Outbox worker stopped by context cancellation")
			return
		case <-w.stop:
			w.logger.Infof("Outbox worker stopped")
			return
		case <-wake:
			w.Drain(ctx)
		case <-ticker.C:
			w.releaseStale(ctx)
			w.Drain(ctx)
		}
	}
}

// Drain публикует пачки событий, пока в очереди остаются ожидающие.
func (w *OutboxWorker) Drain(ctx context.Context) {
	for {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("outbox batch processing failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

// releaseStale возвращает в очередь события, застрявшие в PROCESSING после сбоя публикации.
func (w *OutboxWorker) releaseStale(ctx context.Context) {
	released, err := w.repo.ReleaseStale(ctx, staleAfterSeconds)
	if err != nil {
		w.logger.Warnf("release stale outbox events failed: %v", err)
		return
	}
	if released > 0 {
		w.logger.Infof("released %d stale outbox events", released)
	}
}

func (w *OutboxWorker) listenOutboxNotifications(ctx context.Context, wake chan<- struct{}) {
	var conn *pgx.Conn

	connect := func() error {
		c, err := pgx.Connect(ctx, w.dbConnStr)
		if err != nil {
			return e.Wrap("failed to connect for LISTEN", err)
		}

		if _, err = c.Exec(ctx, "LISTEN "+pgx.Identifier{w.channel}.Sanitize()); err != nil {
			_ = c.Close(ctx)
			return e.Wrap("failed to LISTEN", err)
		}

		conn = c
		w.logger.Infof("Subscribed to '%s' channel", w.channel)
		return nil
	}

	defer func() {
		if conn != nil {
			_ = conn.Close(context.Background())
		}
	}()

	for attempt := 0; ; {
		if conn == nil {
			if err := connect(); err != nil {
				w.logger.Warnf("LISTEN connect failed: %v", err)
				if !w.sleep(ctx, jitter.ExponentialBackoff(reconnectBaseDelay, reconnectMaxDelay, attempt, jitter.DefaultJitter)) {
					return
				}
				attempt++
				continue
			}
			attempt = 0
		}

		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		default:
		}

		waitCtx, cancel := context.WithTimeout(ctx, waitNotifyTimeout)
		notif, err := conn.WaitForNotification(waitCtx)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				continue
			}
			w.logger.Warnf("LISTEN connection lost: %v. Reconnecting...", err)
			_ = conn.Close(ctx)
			conn = nil
			continue
		}

		if notif != nil && notif.Channel == w.channel {
			w.logger.Debugf("Received outbox notification")
			select {
			case wake <- struct{}{}:
			default:
			}
		}
	}
}

// sleep ждёт d и возвращает false, если воркер остановлен раньше.
func (w *OutboxWorker) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	case <-w.stop:
		return false
	}
}

func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, w.batchLimit)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	for _, event := range events {
		if err := w.processEvent(ctx, event); err != nil {
			w.handlePublishError(ctx, event, err)
			continue
		}
		if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
		}
	}

	return len(events) == w.batchLimit, nil
}

// handlePublishError оставляет событие в PROCESSING при временной ошибке, его вернёт ReleaseStale.
// Постоянная ошибка переводит событие в FAILED.
func (w *OutboxWorker) handlePublishError(ctx context.Context, event *usecase.OutboxEvent, err error) {
	if isRetryableError(err) {
		w.logger.Warnf("Temporary Kafka failure for outbox event %s, will retry: %v", event.EventID, err)
		return
	}

	w.logger.Errorf(err, "Permanent Kafka failure for outbox event %s, marking as failed", event.EventID)
	if markErr := w.repo.MarkAsFailed(ctx, event.ID, err.Error()); markErr != nil {
		w.logger.Warnf("mark failed failed: %v", markErr)
	}
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *usecase.OutboxEvent) error {
	return w.SendBytes(ctx, event.AggregateID, event.Payload)
}

func (w *OutboxWorker) SendBytes(ctx context.Context, aggregateID int64, payload []byte) error {
	return w.producer.WriteRawMessage(ctx, usecase.NewWriteRawMessageReq(strconv.FormatInt(aggregateID, 10), payload))
}

// isRetryableError решает, стоит ли повторять публикацию. Отмена контекста, сетевые сбои
// и временные коды Kafka считаются временными, остальные ошибки постоянными.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var writeErrs kafka.WriteErrors
	if errors.As(err, &writeErrs) {
		for _, inner := range writeErrs {
			if inner != nil && !isRetryableError(inner) {
				return false
			}
		}
		return true
	}

	var kafkaErr kafka.Error
	if errors.As(err, &kafkaErr) {
		return kafkaErr.Temporary() || kafkaErr.Timeout()
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
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
