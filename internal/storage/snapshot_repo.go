package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/annel0/mine-game/internal/config"
	"github.com/annel0/mine-game/internal/world/mine"
)

// ErrNotFound - снимок для локации отсутствует
var ErrNotFound = errors.New("снимок шахты не найден")

// ErrClosed - хранилище закрыто
var ErrClosed = errors.New("хранилище закрыто")

// SnapshotRepo определяет интерфейс сохранения состояния шахт между перезапусками.
// Снимки адресуются именем локации (VillageMine, DeepMine).
type SnapshotRepo interface {
	// Save сохраняет или заменяет снимок шахты.
	Save(ctx context.Context, state mine.State) error

	// Load загружает снимок. bool == false, если снимка нет.
	Load(ctx context.Context, location string) (mine.State, bool, error)

	// Delete удаляет снимок. Отсутствующий снимок - ErrNotFound.
	Delete(ctx context.Context, location string) error

	// List возвращает имена локаций с сохранёнными снимками в порядке возрастания.
	List(ctx context.Context) ([]string, error)

	// BatchSave сохраняет несколько снимков (автосохранение всех шахт).
	BatchSave(ctx context.Context, states []mine.State) error

	Close() error
}

// Open создаёт хранилище по секции storage конфигурации
func Open(cfg config.StorageConfig) (SnapshotRepo, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemorySnapshotRepo(), nil
	case "badger":
		return NewBadgerSnapshotRepo(cfg.Path)
	case "redis":
		rc := DefaultRedisConfig()
		if cfg.RedisURL != "" {
			rc.Addr = cfg.RedisURL
		}
		rc.DB = cfg.RedisDB
		return NewRedisSnapshotRepo(rc)
	case "maria", "mysql":
		return NewMariaSnapshotRepo(cfg.MariaDSN)
	default:
		return nil, fmt.Errorf("неизвестное хранилище %q", cfg.Backend)
	}
}

func validateLocation(location string) error {
	if location == "" {
		return fmt.Errorf("пустое имя локации")
	}
	return nil
}

// checkContext возвращает ошибку отменённого контекста
func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
