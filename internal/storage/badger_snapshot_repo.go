package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v3"

	"github.com/annel0/mine-game/internal/world/mine"
)

const badgerKeyPrefix = "mine:"

// BadgerSnapshotRepo хранит сжатые снимки шахт во встроенной BadgerDB.
type BadgerSnapshotRepo struct {
	db      *badger.DB
	dbPath  string
	codec   *Codec
	mutex   sync.RWMutex
	isReady bool
}

// NewBadgerSnapshotRepo открывает (или создаёт) базу в dataPath/mines
func NewBadgerSnapshotRepo(dataPath string) (*BadgerSnapshotRepo, error) {
	dbPath := filepath.Join(dataPath, "mines")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	codec, err := NewCodec()
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BadgerSnapshotRepo{
		db:      db,
		dbPath:  dbPath,
		codec:   codec,
		isReady: true,
	}, nil
}

func badgerKey(location string) []byte {
	return []byte(badgerKeyPrefix + location)
}

// Save сохраняет снимок шахты
func (r *BadgerSnapshotRepo) Save(ctx context.Context, state mine.State) error {
	return r.BatchSave(ctx, []mine.State{state})
}

// BatchSave сохраняет снимки в одной транзакции
func (r *BadgerSnapshotRepo) BatchSave(ctx context.Context, states []mine.State) error {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if !r.isReady {
		return ErrClosed
	}
	if err := checkContext(ctx); err != nil {
		return err
	}

	encoded := make(map[string][]byte, len(states))
	for _, s := range states {
		if err := validateLocation(s.Location); err != nil {
			return err
		}
		data, err := r.codec.Encode(s)
		if err != nil {
			return err
		}
		encoded[s.Location] = data
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		for loc, data := range encoded {
			if err := txn.Set(badgerKey(loc), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}
	return nil
}

// Load загружает снимок шахты
func (r *BadgerSnapshotRepo) Load(ctx context.Context, location string) (mine.State, bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if !r.isReady {
		return mine.State{}, false, ErrClosed
	}
	if err := validateLocation(location); err != nil {
		return mine.State{}, false, err
	}
	if err := checkContext(ctx); err != nil {
		return mine.State{}, false, err
	}

	var data []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(location))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return mine.State{}, false, nil
	}
	if err != nil {
		return mine.State{}, false, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	state, err := r.codec.Decode(data)
	if err != nil {
		return mine.State{}, false, fmt.Errorf("%s: %w", location, err)
	}
	return state, true, nil
}

// Delete удаляет снимок шахты
func (r *BadgerSnapshotRepo) Delete(ctx context.Context, location string) error {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if !r.isReady {
		return ErrClosed
	}
	if err := checkContext(ctx); err != nil {
		return err
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(badgerKey(location)); err != nil {
			return err
		}
		return txn.Delete(badgerKey(location))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%s: %w", location, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("ошибка удаления из BadgerDB: %w", err)
	}
	return nil
}

// List перечисляет локации по префиксу ключа
func (r *BadgerSnapshotRepo) List(ctx context.Context) ([]string, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if !r.isReady {
		return nil, ErrClosed
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	var out []string
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(badgerKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			out = append(out, strings.TrimPrefix(string(it.Item().Key()), badgerKeyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка перебора BadgerDB: %w", err)
	}
	sort.Strings(out)
	return out, nil
}

// Close закрывает хранилище данных
func (r *BadgerSnapshotRepo) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.isReady {
		return nil
	}

	r.isReady = false
	r.codec.Close()
	return r.db.Close()
}
