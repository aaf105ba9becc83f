package grid

// TileType - тип клетки карты
type TileType uint8

const (
	Wall TileType = iota
	Floor
	Entrance
	Exit
	Door
	DoorOpen
	PlayerSpawn
	SpawnPoint
	TorchWall
	Empty
)

var tileNames = [...]string{"wall", "floor", "entrance", "exit", "door", "door_open", "player_spawn", "spawn_point", "torch_wall", "empty"}

func (t TileType) String() string {
	if int(t) < len(tileNames) {
		return tileNames[t]
	}
	return "unknown"
}

// IsFloor - клетка отрисовывается как пол
func (t TileType) IsFloor() bool {
	switch t {
	case Floor, Entrance, Exit, DoorOpen, PlayerSpawn, SpawnPoint:
		return true
	}
	return false
}

// IsWalkable - по клетке можно ходить
func (t TileType) IsWalkable() bool {
	return t.IsFloor()
}

// IsSolid - клетка блокирует движение
func (t TileType) IsSolid() bool {
	return !t.IsWalkable()
}

// CanSpawnEntity - в клетке можно разместить моба или породу
func (t TileType) CanSpawnEntity() bool {
	switch t {
	case Floor, DoorOpen, SpawnPoint:
		return true
	}
	return false
}

// CanSpawnPlayer - в клетке может появиться игрок
func (t TileType) CanSpawnPlayer() bool {
	return t == PlayerSpawn || t == SpawnPoint || t == Entrance
}

// Глифы текстового представления карт
var glyphs = map[rune]TileType{
	'#': Wall,
	'.': Floor,
	'E': Entrance,
	'>': Exit,
	'+': Door,
	'/': DoorOpen,
	'@': PlayerSpawn,
	's': SpawnPoint,
	'T': TorchWall,
	' ': Empty,
}

// TileFromGlyph возвращает тип клетки по символу
func TileFromGlyph(r rune) (TileType, bool) {
	t, ok := glyphs[r]
	return t, ok
}

// Glyph возвращает символ клетки
func (t TileType) Glyph() rune {
	for r, tt := range glyphs {
		if tt == t {
			return r
		}
	}
	return '?'
}
