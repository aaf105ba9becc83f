package mine

import (
	"fmt"

	"github.com/annel0/mine-game/internal/game/location"
	"github.com/annel0/mine-game/internal/world/cave"
	"github.com/annel0/mine-game/internal/world/refresh"
)

// State - сохраняемое состояние шахты
type State struct {
	Location     string            `json:"location"`
	Generation   int               `json:"generation"`
	Layout       cave.Snapshot     `json:"layout"`
	Respawn      refresh.Countdown `json:"respawn"`
	Regeneration refresh.Countdown `json:"regeneration"`
}

// State снимает состояние шахты
func (m *Mine) State() State {
	return State{
		Location:     m.id.String(),
		Generation:   m.generation,
		Layout:       m.layout.Snapshot(),
		Respawn:      m.respawn,
		Regeneration: m.regeneration,
	}
}

// Restore заменяет пещеру и таймеры сохранённым состоянием.
// Интервалы и предел пород берутся из текущей конфигурации, сохраняется только прошедшее время.
func (m *Mine) Restore(s State) error {
	id, ok := location.Parse(s.Location)
	if !ok || id != m.id {
		return fmt.Errorf("состояние %q не относится к шахте %s", s.Location, m.id)
	}

	layout, err := m.generator.Restore(s.Layout)
	if err != nil {
		return fmt.Errorf("%s: %w", m.id, err)
	}

	m.layout = layout
	m.generation = s.Generation
	m.respawn.Elapsed = s.Respawn.Elapsed
	m.regeneration.Elapsed = s.Regeneration.Elapsed
	return nil
}
