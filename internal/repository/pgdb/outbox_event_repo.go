package pgdb

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/shop-admin/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/shop-admin/internal/usecase"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/DRSN-tech/shop-admin/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const outboxColumns = `id, event_id::TEXT AS event_id, event_type, aggregate_type, aggregate_id, payload, status, created_at, processed_at`

// OutboxChannel — канал LISTEN/NOTIFY, в который сообщается о новых событиях.
const OutboxChannel = "outbox_pending"

type OutboxEventRepo struct {
	pool *pgxpool.Pool
	conv converter.OutboxEventConverter
}

func NewOutboxEventRepo(pool *pgxpool.Pool, conv converter.OutboxEventConverter) *OutboxEventRepo {
	return &OutboxEventRepo{
		pool: pool,
		conv: conv,
	}
}

// Create сохраняет событие в текущей транзакции и будит воркер через NOTIFY.
// Уведомление доставляется только после коммита.
func (o *OutboxEventRepo) Create(ctx context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	db := tr.FromCtx(ctx, o.pool)

	model := o.conv.ToModel(event)
	query := `
		INSERT INTO outbox_events (
			event_id,
			event_type,
			aggregate_type,
			aggregate_id,
			payload,
			status,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at;
	`

	if err := db.QueryRow(ctx, query,
		model.EventID,
		model.EventType,
		model.AggregateType,
		model.AggregateID,
		model.Payload,
		model.Status,
		model.CreatedAt,
	).Scan(&model.ID, &model.CreatedAt); err != nil {
		if postgresDuplicate(err) {
			return nil, fmt.Errorf("%s: event with id %s already exists", whereami.WhereAmI(), event.EventID)
		}

		return nil, fmt.Errorf("%s: failed to insert event: %w", whereami.WhereAmI(), err)
	}

	if _, err := db.Exec(ctx, "SELECT pg_notify($1, '')", OutboxChannel); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(model), nil
}

// GetAndMarkAsProcessing забирает пачку ожидающих событий, пропуская строки, заблокированные другими воркерами.
func (o *OutboxEventRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) (_ []*usecase.OutboxEvent, err error) {
	tx, err := o.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", whereami.WhereAmI(), err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	query := `
		UPDATE outbox_events
		SET status = $1, processing_started_at = now()
		WHERE id IN (
			SELECT id FROM outbox_events
			WHERE status = $2
			ORDER BY created_at, id
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + outboxColumns

	rows, err := tx.Query(ctx, query, usecase.OutboxStatusProcessing, usecase.OutboxStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query pending events: %w", whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.OutboxEventModel])
	if err != nil {
		return nil, fmt.Errorf("%s: failed to scan events: %w", whereami.WhereAmI(), err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", whereami.WhereAmI(), err)
	}

	return o.conv.ToArrEntity(models), nil
}

func (o *OutboxEventRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	query := `
		UPDATE outbox_events
		SET status = $1, processed_at = NOW()
		WHERE id = $2 AND status = $3
	`

	// Событие могло быть уже обработано другим воркером, это не ошибка
	if _, err := o.pool.Exec(ctx, query, usecase.OutboxStatusProcessed, id, usecase.OutboxStatusProcessing); err != nil {
		return fmt.Errorf("%s: failed to mark event %d as processed: %w", whereami.WhereAmI(), id, err)
	}

	return nil
}

// MarkAsFailed переводит событие в FAILED. ReleaseStale такие события не трогает.
func (o *OutboxEventRepo) MarkAsFailed(ctx context.Context, id int64, reason string) error {
	query := `
		UPDATE outbox_events
		SET status = $1, last_error = $2, failed_at = now(), processing_started_at = NULL
		WHERE id = $3 AND status = $4
	`

	if _, err := o.pool.Exec(ctx, query, usecase.OutboxStatusFailed, reason, id, usecase.OutboxStatusProcessing); err != nil {
		return fmt.Errorf("%s: failed to mark event %d as failed: %w", whereami.WhereAmI(), id, err)
	}

	return nil
}

// ReleaseStale возвращает в очередь события, зависшие в обработке дольше olderThanSeconds.
func (o *OutboxEventRepo) ReleaseStale(ctx context.Context, olderThanSeconds int) (int64, error) {
	query := `
		UPDATE outbox_events
		SET status = $1, processing_started_at = NULL
		WHERE status = $2 AND processing_started_at < now() - ($3::INT * INTERVAL '1 second')
	`

	tag, err := o.pool.Exec(ctx, query, usecase.OutboxStatusPending, usecase.OutboxStatusProcessing, olderThanSeconds)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return tag.RowsAffected(), nil
}
