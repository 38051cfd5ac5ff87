package usecase

import (
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "PENDING"
	OutboxStatusProcessing OutboxStatus = "PROCESSING"
	OutboxStatusProcessed  OutboxStatus = "PROCESSED"
	// OutboxStatusFailed — событие, которое Kafka отвергла окончательно. Повторно не публикуется.
	OutboxStatusFailed OutboxStatus = "FAILED"
)

const (
	AggregateCategory = "category"
	AggregateProduct  = "product"
)

const (
	EventCategoryCreated     = "category.created"
	EventCategoryUpdated     = "category.updated"
	EventCategoryDeleted     = "category.deleted"
	EventCategoryUsageBumped = "category.usage_incremented"
	EventProductCreated      = "product.created"
	EventProductUpdated      = "product.updated"
	EventProductDeleted      = "product.deleted"
)

// OutboxEvent — событие каталога, ожидающее публикации в Kafka.
type OutboxEvent struct {
	ID            int64
	EventID       string
	EventType     string
	AggregateType string
	AggregateID   int64
	Payload       []byte
	Status        OutboxStatus
	CreatedAt     time.Time
	ProcessedAt   *time.Time
}

// NewOutboxEvent упаковывает данные события в google.protobuf.Struct.
func NewOutboxEvent(eventType, aggregateType string, aggregateID int64, data map[string]any) (*OutboxEvent, error) {
	eventID := uuid.NewString()
	now := time.Now().UTC()

	envelope, err := structpb.NewStruct(map[string]any{
		"event_id":       eventID,
		"event_type":     eventType,
		"aggregate_type": aggregateType,
		"aggregate_id":   aggregateID,
		"occurred_at":    now.Format(time.RFC3339Nano),
		"data":           data,
	})
	if err != nil {
		return nil, err
	}

	payload, err := proto.Marshal(envelope)
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:       eventID,
		EventType:     eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Payload:       payload,
		Status:        OutboxStatusPending,
		CreatedAt:     now,
	}, nil
}
