package mob

import (
	"github.com/annel0/mine-game/internal/game/loot"
	"github.com/google/uuid"
)

// CombatStats - боевые характеристики экземпляра
type CombatStats struct {
	MaxHealth int `json:"max_health"`
	Health    int `json:"health"`
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
}

// HasStats - сущность с боевыми характеристиками
type HasStats interface {
	Stats() CombatStats
}

// Combatant - участник боя
type Combatant interface {
	HasStats
	TakeDamage(amount int) int
	IsAlive() bool
}

// HasLoot - сущность с таблицей добычи
type HasLoot interface {
	LootTable() *loot.Table
}

// HasRewards - сущность, за победу над которой дают золото и опыт
type HasRewards interface {
	Rewards() (gold, xp int)
}

// Mob - экземпляр моба. Владелец - бой или этаж подземелья.
type Mob struct {
	InstanceID uuid.UUID   `json:"instance_id"`
	Kind       ID          `json:"kind"`
	Name       string      `json:"name"`
	Quality    Quality     `json:"quality"`
	Combat     CombatStats `json:"combat"`
	Gold       int         `json:"gold"`
	XP         int         `json:"xp"`

	loot           *loot.Table
	deathProcessed bool
}

var (
	_ Combatant  = (*Mob)(nil)
	_ HasLoot    = (*Mob)(nil)
	_ HasRewards = (*Mob)(nil)
)

// Stats реализует HasStats
func (m *Mob) Stats() CombatStats {
	return m.Combat
}

// TakeDamage уменьшает здоровье с учётом защиты (минимум 1) и возвращает нанесённый урон
func (m *Mob) TakeDamage(amount int) int {
	if !m.IsAlive() || amount <= 0 {
		return 0
	}
	dealt := amount - m.Combat.Defense
	if dealt < 1 {
		dealt = 1
	}
	if dealt > m.Combat.Health {
		dealt = m.Combat.Health
	}
	m.Combat.Health -= dealt
	return dealt
}

// IsAlive проверяет, жив ли моб
func (m *Mob) IsAlive() bool {
	return m.Combat.Health > 0
}

// LootTable реализует HasLoot
func (m *Mob) LootTable() *loot.Table {
	return m.loot
}

// Rewards реализует HasRewards
func (m *Mob) Rewards() (gold, xp int) {
	return m.Gold, m.XP
}

// MarkDeathProcessed отмечает обработку смерти.
// Возвращает true только при первом вызове для мёртвого моба: награда выдаётся ровно один раз.
func (m *Mob) MarkDeathProcessed() bool {
	if m.IsAlive() || m.deathProcessed {
		return false
	}
	m.deathProcessed = true
	return true
}

// DeathProcessed сообщает, была ли смерть уже обработана
func (m *Mob) DeathProcessed() bool {
	return m.deathProcessed
}
