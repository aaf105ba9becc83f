package cave

import (
	"errors"
	"fmt"

	"github.com/annel0/mine-game/internal/game/rock"
	"github.com/annel0/mine-game/internal/vec"
)

// ErrInvalidSnapshot - снимок нарушает инварианты пещеры
var ErrInvalidSnapshot = errors.New("некорректный снимок пещеры")

// RockSnapshot - порода в снимке
type RockSnapshot struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Kind   string `json:"kind"`
	Health int    `json:"health,omitempty"` // 0 - целая порода
}

// Snapshot - сериализуемая копия пещеры только для чтения
type Snapshot struct {
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Seed     int64          `json:"seed"`
	MaxRocks int            `json:"max_rocks"`
	Rows     []string       `json:"rows"`
	Rocks    []RockSnapshot `json:"rocks"`
	Player   vec.Vec2       `json:"player"`
	Exit     vec.Vec2       `json:"exit"`
}

// Snapshot снимает копию пещеры
func (l *Layout) Snapshot() Snapshot {
	rows := make([]string, l.height)
	buf := make([]byte, l.width)
	for y := 0; y < l.height; y++ {
		for x := 0; x < l.width; x++ {
			if l.cells[vec.Vec2{X: x, Y: y}.Index(l.width)] == Floor {
				buf[x] = '.'
			} else {
				buf[x] = '#'
			}
		}
		rows[y] = string(buf)
	}

	rocks := make([]RockSnapshot, len(l.rocks))
	for i, r := range l.rocks {
		rocks[i] = RockSnapshot{X: r.Pos.X, Y: r.Pos.Y, Kind: r.Kind.String(), Health: r.Health}
	}

	return Snapshot{
		Width:    l.width,
		Height:   l.height,
		Seed:     l.seed,
		MaxRocks: l.maxRocks,
		Rows:     rows,
		Rocks:    rocks,
		Player:   l.player,
		Exit:     l.exit,
	}
}

// Restore восстанавливает пещеру из снимка и проверяет её инварианты.
// Предел пород берётся из конфигурации генератора, поле MaxRocks снимка не доверяется.
func (g *Generator) Restore(s Snapshot) (*Layout, error) {
	return fromSnapshot(s, g.cfg.MaxRocks, g.spawnRock)
}

func fromSnapshot(s Snapshot, maxRocks int, spawn RockSpawner) (*Layout, error) {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidSnapshot, fmt.Sprintf(format, args...))
	}

	if s.Width <= 0 || s.Height <= 0 || len(s.Rows) != s.Height {
		return nil, invalid("размер %dx%d не совпадает с %d строками", s.Width, s.Height, len(s.Rows))
	}
	if len(s.Rocks) > maxRocks {
		return nil, invalid("%d пород больше предела %d", len(s.Rocks), maxRocks)
	}

	l := newLayout(s.Width, s.Height, maxRocks, spawn)
	l.seed = s.Seed
	for y, row := range s.Rows {
		if len(row) != s.Width {
			return nil, invalid("строка %d длины %d", y, len(row))
		}
		for x := 0; x < s.Width; x++ {
			switch row[x] {
			case '.':
				l.cells[vec.Vec2{X: x, Y: y}.Index(s.Width)] = Floor
			case '#':
			default:
				return nil, invalid("неизвестная клетка %q в (%d,%d)", row[x], x, y)
			}
		}
	}

	if !l.IsFloor(s.Player) {
		return nil, invalid("игрок %v не на полу", s.Player)
	}
	if !l.IsFloor(s.Exit) {
		return nil, invalid("выход %v не на полу", s.Exit)
	}
	l.player, l.exit = s.Player, s.Exit
	if err := l.occupancy.Occupy(l.player, playerHandle); err != nil {
		return nil, invalid("игрок: %v", err)
	}

	for _, r := range s.Rocks {
		kind, ok := rock.Parse(r.Kind)
		if !ok {
			return nil, invalid("неизвестная порода %q", r.Kind)
		}
		if err := l.placeRock(vec.Vec2{X: r.X, Y: r.Y}, kind); err != nil {
			return nil, invalid("порода: %v", err)
		}
		placed := &l.rocks[len(l.rocks)-1]
		if r.Health < 0 || r.Health > placed.MaxHealth {
			return nil, invalid("прочность %d породы %s вне [0,%d]", r.Health, r.Kind, placed.MaxHealth)
		}
		if r.Health > 0 {
			placed.Health = r.Health
		}
	}

	if !l.Connected() {
		return nil, invalid("пол не связан")
	}
	return l, nil
}
