package eventbus

import (
	"context"
	"errors"
	"time"
)

// ErrClosed - шина закрыта
var ErrClosed = errors.New("шина событий закрыта")

// Envelope - контейнер события шахт. Payload хранит JSON одного из типов events.go.
type Envelope struct {
	ID            string            `json:"id" bson:"_id"` // UUID
	Timestamp     time.Time         `json:"timestamp" bson:"timestamp"`
	Source        string            `json:"source" bson:"source"`
	EventType     string            `json:"event_type" bson:"event_type"`
	Version       int               `json:"version" bson:"version"` // версия схемы Payload
	CorrelationID string            `json:"correlation_id,omitempty" bson:"correlation_id"`
	Priority      int               `json:"priority" bson:"priority"` // PriorityHigh и выше не отбрасываются
	Payload       []byte            `json:"payload" bson:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// Filter ограничивает подписку типами и источниками.
type Filter struct {
	Types   []string // пусто - все типы
	Sources []string // пусто - все источники
}

// Subscription отменяет подписку
type Subscription interface {
	Unsubscribe()
}

// Handler вызывается для каждого подходящего события
type Handler func(ctx context.Context, ev *Envelope)

// Stats агрегированные метрики шины.
type Stats struct {
	Published uint64
	Consumed  uint64
	Dropped   uint64
	InFlight  int
}

// EventBus определяет абстракцию шины событий: в памяти процесса или JetStream.
type EventBus interface {
	Publish(ctx context.Context, ev *Envelope) error
	Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error)
	Metrics() Stats
	Close() error
}
