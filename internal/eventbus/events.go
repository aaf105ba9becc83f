package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Типы игровых событий
const (
	TypeCaveGenerated = "CaveGenerated"
	TypeRockRespawned = "RockRespawned"
	TypeRockMined     = "RockMined"
	TypeMobSpawned    = "MobSpawned"
	TypeMobDefeated   = "MobDefeated"
)

// SchemaVersion - версия полезной нагрузки игровых событий
const SchemaVersion = 1

// Приоритеты событий. При переполненном буфере шины события ниже PriorityHigh отбрасываются.
const (
	PriorityNormal = 3
	PriorityHigh   = 5
)

// Причины генерации пещеры
const (
	ReasonInitial  = "initial"
	ReasonTimer    = "timer"
	ReasonManual   = "manual"
	ReasonRestored = "restored"
)

// Drop - предмет, выпавший игроку
type Drop struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// CaveGenerated - в шахте построена новая пещера
type CaveGenerated struct {
	Location   string `json:"location"`
	Generation int    `json:"generation"`
	Seed       int64  `json:"seed"`
	FloorCells int    `json:"floor_cells"`
	Rocks      int    `json:"rocks"`
	Reason     string `json:"reason"`
}

// RockRespawned - по таймеру появилась порода
type RockRespawned struct {
	Location string `json:"location"`
	Rock     string `json:"rock"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// RockMined - игрок добыл породу
type RockMined struct {
	Location string `json:"location"`
	Rock     string `json:"rock"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Drops    []Drop `json:"drops"`
}

// MobSpawned - в подземелье появился моб
type MobSpawned struct {
	Location string `json:"location"`
	Mob      string `json:"mob"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// MobDefeated - игрок победил моба
type MobDefeated struct {
	Location string `json:"location"`
	Mob      string `json:"mob"`
	Gold     int    `json:"gold"`
	XP       int    `json:"xp"`
	Drops    []Drop `json:"drops"`
}

// NewEnvelope упаковывает полезную нагрузку в Envelope с новым UUID
func NewEnvelope(source, eventType string, payload any) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("сериализация %s: %w", eventType, err)
	}
	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: eventType,
		Version:   SchemaVersion,
		Priority:  priorityOf(eventType),
		Payload:   data,
	}, nil
}

// Смена пещеры и победа над мобом не теряются при перегрузке
func priorityOf(eventType string) int {
	switch eventType {
	case TypeCaveGenerated, TypeMobDefeated:
		return PriorityHigh
	default:
		return PriorityNormal
	}
}

// Decode распаковывает полезную нагрузку события
func Decode[T any](ev *Envelope) (T, error) {
	var out T
	if err := json.Unmarshal(ev.Payload, &out); err != nil {
		return out, fmt.Errorf("разбор %s %s: %w", ev.EventType, ev.ID, err)
	}
	return out, nil
}
