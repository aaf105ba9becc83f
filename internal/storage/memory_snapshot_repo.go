package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/annel0/mine-game/internal/world/mine"
)

// MemorySnapshotRepo реализует SnapshotRepo в памяти.
// Используется по умолчанию и в тестах.
// ВНИМАНИЕ: Данные теряются при перезапуске сервера!
type MemorySnapshotRepo struct {
	mu   sync.RWMutex
	data map[string][]byte // локация -> сериализованный снимок
}

// NewMemorySnapshotRepo создает новый репозиторий снимков в памяти.
func NewMemorySnapshotRepo() *MemorySnapshotRepo {
	return &MemorySnapshotRepo{data: make(map[string][]byte)}
}

// Save сохраняет сериализованную копию снимка.
func (r *MemorySnapshotRepo) Save(ctx context.Context, state mine.State) error {
	if err := validateLocation(state.Location); err != nil {
		return err
	}
	if err := checkContext(ctx); err != nil {
		return err
	}

	data, err := encodeJSON(state)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[state.Location] = data
	return nil
}

// Load загружает снимок из памяти.
func (r *MemorySnapshotRepo) Load(ctx context.Context, location string) (mine.State, bool, error) {
	if err := validateLocation(location); err != nil {
		return mine.State{}, false, err
	}
	if err := checkContext(ctx); err != nil {
		return mine.State{}, false, err
	}

	r.mu.RLock()
	data, exists := r.data[location]
	r.mu.RUnlock()

	if !exists {
		return mine.State{}, false, nil
	}
	state, err := decodeJSON(data)
	if err != nil {
		return mine.State{}, false, err
	}
	return state, true, nil
}

// Delete удаляет снимок из памяти.
func (r *MemorySnapshotRepo) Delete(ctx context.Context, location string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[location]; !exists {
		return fmt.Errorf("%s: %w", location, ErrNotFound)
	}
	delete(r.data, location)
	return nil
}

// List возвращает сохранённые локации.
func (r *MemorySnapshotRepo) List(ctx context.Context) ([]string, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.data))
	for loc := range r.data {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out, nil
}

// BatchSave сохраняет все снимки под одной блокировкой.
func (r *MemorySnapshotRepo) BatchSave(ctx context.Context, states []mine.State) error {
	encoded := make(map[string][]byte, len(states))
	for _, s := range states {
		if err := validateLocation(s.Location); err != nil {
			return err
		}
		data, err := encodeJSON(s)
		if err != nil {
			return err
		}
		encoded[s.Location] = data
	}
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for loc, data := range encoded {
		r.data[loc] = data
	}
	return nil
}

// Close для памяти ничего не делает.
func (r *MemorySnapshotRepo) Close() error {
	return nil
}

// Count возвращает количество сохранённых снимков (для тестов).
func (r *MemorySnapshotRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
