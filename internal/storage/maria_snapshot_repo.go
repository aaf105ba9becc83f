package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/annel0/mine-game/internal/world/mine"
)

// MariaSnapshotRepo реализует SnapshotRepo для базы данных MariaDB/MySQL.
// Использует таблицу mine_snapshots; снимок хранится сжатым в BLOB.
type MariaSnapshotRepo struct {
	db    *sql.DB
	codec *Codec
}

// NewMariaSnapshotRepo создает новый репозиторий снимков для MariaDB.
// Автоматически создает таблицу, если она не существует.
//
// Параметры:
//
//	dsn - строка подключения к базе данных (user:pass@tcp(host:port)/dbname)
func NewMariaSnapshotRepo(dsn string) (*MariaSnapshotRepo, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к MariaDB: %w", err)
	}

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось проверить соединение с MariaDB: %w", err)
	}

	repo, err := NewMariaSnapshotRepoWithDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// NewMariaSnapshotRepoWithDB использует открытое соединение и создаёт таблицу
func NewMariaSnapshotRepoWithDB(db *sql.DB) (*MariaSnapshotRepo, error) {
	codec, err := NewCodec()
	if err != nil {
		return nil, err
	}
	repo := &MariaSnapshotRepo{db: db, codec: codec}

	if err := repo.createTable(); err != nil {
		codec.Close()
		return nil, fmt.Errorf("не удалось создать таблицу: %w", err)
	}
	return repo, nil
}

// createTable создает таблицу mine_snapshots, если она не существует.
func (r *MariaSnapshotRepo) createTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS mine_snapshots (
			location   VARCHAR(64) PRIMARY KEY,
			generation INT         NOT NULL,
			data       MEDIUMBLOB  NOT NULL,
			updated_at TIMESTAMP   DEFAULT CURRENT_TIMESTAMP
			           ON UPDATE   CURRENT_TIMESTAMP
		) ENGINE=InnoDB
	`

	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("ошибка создания таблицы mine_snapshots: %w", err)
	}
	return nil
}

const upsertSnapshot = `
		INSERT INTO mine_snapshots (location, generation, data)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE
			generation = VALUES(generation),
			data = VALUES(data),
			updated_at = CURRENT_TIMESTAMP
	`

// Save сохраняет снимок через INSERT ... ON DUPLICATE KEY UPDATE.
func (r *MariaSnapshotRepo) Save(ctx context.Context, state mine.State) error {
	if err := validateLocation(state.Location); err != nil {
		return err
	}
	data, err := r.codec.Encode(state)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, upsertSnapshot, state.Location, state.Generation, data); err != nil {
		return fmt.Errorf("ошибка сохранения снимка %s: %w", state.Location, err)
	}
	return nil
}

// BatchSave сохраняет снимки в одной транзакции.
func (r *MariaSnapshotRepo) BatchSave(ctx context.Context, states []mine.State) error {
	if len(states) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback() // Откат в случае ошибки

	stmt, err := tx.PrepareContext(ctx, upsertSnapshot)
	if err != nil {
		return fmt.Errorf("ошибка подготовки запроса: %w", err)
	}
	defer stmt.Close()

	for _, s := range states {
		if err := validateLocation(s.Location); err != nil {
			return err
		}
		data, err := r.codec.Encode(s)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, s.Location, s.Generation, data); err != nil {
			return fmt.Errorf("ошибка сохранения снимка %s в batch: %w", s.Location, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return nil
}

// Load загружает снимок из базы данных.
func (r *MariaSnapshotRepo) Load(ctx context.Context, location string) (mine.State, bool, error) {
	if err := validateLocation(location); err != nil {
		return mine.State{}, false, err
	}

	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM mine_snapshots WHERE location = ?`, location).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return mine.State{}, false, nil
	}
	if err != nil {
		return mine.State{}, false, fmt.Errorf("ошибка загрузки снимка %s: %w", location, err)
	}

	state, err := r.codec.Decode(data)
	if err != nil {
		return mine.State{}, false, fmt.Errorf("%s: %w", location, err)
	}
	return state, true, nil
}

// Delete удаляет снимок.
func (r *MariaSnapshotRepo) Delete(ctx context.Context, location string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM mine_snapshots WHERE location = ?`, location)
	if err != nil {
		return fmt.Errorf("ошибка удаления снимка %s: %w", location, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения количества затронутых строк: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", location, ErrNotFound)
	}
	return nil
}

// List возвращает сохранённые локации.
func (r *MariaSnapshotRepo) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT location FROM mine_snapshots ORDER BY location`)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса списка снимков: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var loc string
		if err := rows.Scan(&loc); err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

// Close закрывает соединение с базой данных.
func (r *MariaSnapshotRepo) Close() error {
	r.codec.Close()
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
