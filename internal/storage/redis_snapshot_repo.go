package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/annel0/mine-game/internal/world/mine"
)

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Addr      string        // Адрес Redis сервера
	Password  string        // Пароль (пустой если не требуется)
	DB        int           // Номер базы данных
	KeyPrefix string        // Префикс для ключей
	TTL       time.Duration // Время жизни записей; 0 - без срока
}

// DefaultRedisConfig возвращает конфигурацию по умолчанию
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:      "localhost:6379",
		KeyPrefix: "mine:snapshot:",
	}
}

// RedisSnapshotRepo хранит сжатые снимки шахт в Redis, общем для нескольких серверов
type RedisSnapshotRepo struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
	codec     *Codec
}

// NewRedisSnapshotRepo подключается к Redis и проверяет соединение
func NewRedisSnapshotRepo(config *RedisConfig) (*RedisSnapshotRepo, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("не удалось подключиться к Redis %s: %w", config.Addr, err)
	}

	return NewRedisSnapshotRepoWithClient(client, config)
}

// NewRedisSnapshotRepoWithClient использует готовый клиент
func NewRedisSnapshotRepoWithClient(client redis.UniversalClient, config *RedisConfig) (*RedisSnapshotRepo, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}
	codec, err := NewCodec()
	if err != nil {
		return nil, err
	}
	return &RedisSnapshotRepo{
		client:    client,
		keyPrefix: config.KeyPrefix,
		ttl:       config.TTL,
		codec:     codec,
	}, nil
}

func (r *RedisSnapshotRepo) key(location string) string {
	return r.keyPrefix + location
}

// Save сохраняет снимок шахты
func (r *RedisSnapshotRepo) Save(ctx context.Context, state mine.State) error {
	if err := validateLocation(state.Location); err != nil {
		return err
	}
	data, err := r.codec.Encode(state)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(state.Location), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("ошибка сохранения снимка %s в Redis: %w", state.Location, err)
	}
	return nil
}

// BatchSave сохраняет снимки одним MULTI/EXEC
func (r *RedisSnapshotRepo) BatchSave(ctx context.Context, states []mine.State) error {
	if len(states) == 0 {
		return nil
	}

	pipe := r.client.TxPipeline()
	for _, s := range states {
		if err := validateLocation(s.Location); err != nil {
			return err
		}
		data, err := r.codec.Encode(s)
		if err != nil {
			return err
		}
		pipe.Set(ctx, r.key(s.Location), data, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("ошибка пакетного сохранения в Redis: %w", err)
	}
	return nil
}

// Load загружает снимок шахты
func (r *RedisSnapshotRepo) Load(ctx context.Context, location string) (mine.State, bool, error) {
	if err := validateLocation(location); err != nil {
		return mine.State{}, false, err
	}

	data, err := r.client.Get(ctx, r.key(location)).Bytes()
	if errors.Is(err, redis.Nil) {
		return mine.State{}, false, nil
	}
	if err != nil {
		return mine.State{}, false, fmt.Errorf("ошибка чтения снимка %s из Redis: %w", location, err)
	}

	state, err := r.codec.Decode(data)
	if err != nil {
		return mine.State{}, false, fmt.Errorf("%s: %w", location, err)
	}
	return state, true, nil
}

// Delete удаляет снимок шахты
func (r *RedisSnapshotRepo) Delete(ctx context.Context, location string) error {
	n, err := r.client.Del(ctx, r.key(location)).Result()
	if err != nil {
		return fmt.Errorf("ошибка удаления снимка %s из Redis: %w", location, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", location, ErrNotFound)
	}
	return nil
}

// List перебирает ключи SCAN по префиксу
func (r *RedisSnapshotRepo) List(ctx context.Context) ([]string, error) {
	var out []string
	iter := r.client.Scan(ctx, 0, r.keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		out = append(out, strings.TrimPrefix(iter.Val(), r.keyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("ошибка перебора ключей Redis: %w", err)
	}
	sort.Strings(out)
	return out, nil
}

// Close закрывает соединение
func (r *RedisSnapshotRepo) Close() error {
	r.codec.Close()
	return r.client.Close()
}
