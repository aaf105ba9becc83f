// Package journal хранит историю игровых событий шины.
package journal

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/annel0/mine-game/internal/eventbus"
	"github.com/annel0/mine-game/internal/logging"
)

// Entry - запись журнала
type Entry struct {
	ID        string         `json:"id" bson:"_id"`
	Timestamp time.Time      `json:"timestamp" bson:"timestamp"`
	Type      string         `json:"type" bson:"type"`
	Source    string         `json:"source" bson:"source"`
	Data      map[string]any `json:"data" bson:"data"`
}

// Journal - хранилище записей
type Journal interface {
	Record(ctx context.Context, e Entry) error
	// Recent возвращает последние записи, новые первыми. Пустой eventType - все типы.
	Recent(ctx context.Context, eventType string, limit int) ([]Entry, error)
	Close(ctx context.Context) error
}

// FromEnvelope превращает событие шины в запись
func FromEnvelope(ev *eventbus.Envelope) Entry {
	e := Entry{
		ID:        ev.ID,
		Timestamp: ev.Timestamp,
		Type:      ev.EventType,
		Source:    ev.Source,
	}
	if err := json.Unmarshal(ev.Payload, &e.Data); err != nil {
		e.Data = map[string]any{"raw": string(ev.Payload)}
	}
	return e
}

// Attach подписывает журнал на все события шины
func Attach(bus eventbus.EventBus, j Journal, logger *logging.Logger) (eventbus.Subscription, error) {
	return bus.Subscribe(context.Background(), eventbus.Filter{}, func(ctx context.Context, ev *eventbus.Envelope) {
		if err := j.Record(ctx, FromEnvelope(ev)); err != nil {
			logger.Warn("не удалось записать событие %s %s в журнал: %v", ev.EventType, ev.ID, err)
		}
	})
}

// MemoryJournal - кольцевой буфер последних записей
type MemoryJournal struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

// NewMemoryJournal создаёт журнал на capacity записей
func NewMemoryJournal(capacity int) *MemoryJournal {
	if capacity <= 0 {
		capacity = 256
	}
	return &MemoryJournal{entries: make([]Entry, capacity)}
}

func (m *MemoryJournal) Record(ctx context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[m.next] = e
	m.next = (m.next + 1) % len(m.entries)
	if m.next == 0 {
		m.full = true
	}
	return nil
}

func (m *MemoryJournal) Recent(ctx context.Context, eventType string, limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	size := m.next
	if m.full {
		size = len(m.entries)
	}

	var out []Entry
	for i := 1; i <= size && (limit <= 0 || len(out) < limit); i++ {
		idx := (m.next - i + len(m.entries)) % len(m.entries)
		e := m.entries[idx]
		if eventType == "" || e.Type == eventType {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MemoryJournal) Close(ctx context.Context) error { return nil }
