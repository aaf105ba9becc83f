package grid

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/annel0/mine-game/internal/vec"
	"gopkg.in/yaml.v3"
)

// ErrInvalidMap - карта не может быть разобрана
var ErrInvalidMap = errors.New("некорректная карта")

// TileMap - прямоугольная карта клеток, заданная вручную
type TileMap struct {
	Name   string
	width  int
	height int
	tiles  []TileType
}

// tileMapFile - YAML-представление карты
type tileMapFile struct {
	Name   string            `yaml:"name"`
	Rows   []string          `yaml:"rows"`
	Legend map[string]string `yaml:"legend"`
}

// NewTileMap создаёт карту, заполненную стенами
func NewTileMap(name string, width, height int) *TileMap {
	return &TileMap{
		Name:   name,
		width:  width,
		height: height,
		tiles:  make([]TileType, width*height),
	}
}

// ParseRows строит карту из строк глифов. legend переопределяет или дополняет стандартные глифы.
func ParseRows(name string, rows []string, legend map[rune]TileType) (*TileMap, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: пустая карта: %w", name, ErrInvalidMap)
	}
	width := len([]rune(rows[0]))
	if width == 0 {
		return nil, fmt.Errorf("%s: пустая строка: %w", name, ErrInvalidMap)
	}

	m := NewTileMap(name, width, len(rows))
	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("%s: строка %d длины %d, ожидалось %d: %w", name, y, len(runes), width, ErrInvalidMap)
		}
		for x, r := range runes {
			t, ok := legend[r]
			if !ok {
				t, ok = TileFromGlyph(r)
			}
			if !ok {
				return nil, fmt.Errorf("%s: неизвестный глиф %q в (%d,%d): %w", name, r, x, y, ErrInvalidMap)
			}
			m.tiles[vec.Vec2{X: x, Y: y}.Index(width)] = t
		}
	}
	return m, nil
}

// ParseTileMap разбирает карту из YAML
func ParseTileMap(data []byte) (*TileMap, error) {
	var f tileMapFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("ошибка разбора YAML карты: %w", err)
	}

	legend := make(map[rune]TileType, len(f.Legend))
	for glyph, name := range f.Legend {
		runes := []rune(glyph)
		if len(runes) != 1 {
			return nil, fmt.Errorf("%s: глиф легенды %q должен быть одним символом: %w", f.Name, glyph, ErrInvalidMap)
		}
		t, ok := tileByName(name)
		if !ok {
			return nil, fmt.Errorf("%s: неизвестный тип клетки %q: %w", f.Name, name, ErrInvalidMap)
		}
		legend[runes[0]] = t
	}

	return ParseRows(f.Name, f.Rows, legend)
}

// LoadTileMap читает карту из файла
func LoadTileMap(path string) (*TileMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения карты %s: %w", path, err)
	}
	return ParseTileMap(data)
}

func tileByName(name string) (TileType, bool) {
	for i, n := range tileNames {
		if n == name {
			return TileType(i), true
		}
	}
	return 0, false
}

// Width возвращает ширину карты
func (m *TileMap) Width() int { return m.width }

// Height возвращает высоту карты
func (m *TileMap) Height() int { return m.height }

// TileAt возвращает клетку. За пределами карты - стена.
func (m *TileMap) TileAt(pos vec.Vec2) TileType {
	if !pos.InBounds(m.width, m.height) {
		return Wall
	}
	return m.tiles[pos.Index(m.width)]
}

// SetTile меняет клетку внутри карты
func (m *TileMap) SetTile(pos vec.Vec2, t TileType) {
	if pos.InBounds(m.width, m.height) {
		m.tiles[pos.Index(m.width)] = t
	}
}

// Find возвращает позиции клеток, удовлетворяющих условию, в построчном порядке
func (m *TileMap) Find(match func(TileType) bool) []vec.Vec2 {
	var out []vec.Vec2
	for i, t := range m.tiles {
		if match(t) {
			out = append(out, vec.FromIndex(i, m.width))
		}
	}
	return out
}

// SpawnPoints возвращает клетки, где можно разместить сущность
func (m *TileMap) SpawnPoints() []vec.Vec2 {
	return m.Find(TileType.CanSpawnEntity)
}

// PlayerSpawn возвращает первую клетку появления игрока
func (m *TileMap) PlayerSpawn() (vec.Vec2, bool) {
	return m.first(TileType.CanSpawnPlayer)
}

// Exit возвращает первую клетку выхода
func (m *TileMap) Exit() (vec.Vec2, bool) {
	return m.first(func(t TileType) bool { return t == Exit })
}

func (m *TileMap) first(match func(TileType) bool) (vec.Vec2, bool) {
	for i, t := range m.tiles {
		if match(t) {
			return vec.FromIndex(i, m.width), true
		}
	}
	return vec.Vec2{}, false
}

// Rows возвращает карту в виде строк глифов
func (m *TileMap) Rows() []string {
	rows := make([]string, m.height)
	for y := 0; y < m.height; y++ {
		var b strings.Builder
		for x := 0; x < m.width; x++ {
			b.WriteRune(m.tiles[vec.Vec2{X: x, Y: y}.Index(m.width)].Glyph())
		}
		rows[y] = b.String()
	}
	return rows
}
