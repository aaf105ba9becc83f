package mob

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/annel0/mine-game/internal/game/item"
	"github.com/annel0/mine-game/internal/game/loot"
	"github.com/annel0/mine-game/internal/game/stats"
	"github.com/annel0/mine-game/internal/registry"
	"gopkg.in/yaml.v3"
)

// lootEntryFile - строка таблицы добычи в файле данных
type lootEntryFile struct {
	Item        string      `yaml:"item"`
	Numerator   int         `yaml:"numerator"`
	Denominator int         `yaml:"denominator"`
	Quantity    stats.Range `yaml:"quantity"`
}

// specFile - описание моба в YAML
type specFile struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Quality     string          `yaml:"quality"`
	MaxHealth   stats.Range     `yaml:"max_health"`
	Attack      stats.Range     `yaml:"attack"`
	Defense     stats.Range     `yaml:"defense"`
	DroppedGold stats.Range     `yaml:"dropped_gold"`
	DroppedXP   stats.Range     `yaml:"dropped_xp"`
	Loot        []lootEntryFile `yaml:"loot"`
}

func (f specFile) toSpec() (ID, Spec, error) {
	id, ok := Parse(f.ID)
	if !ok {
		return 0, Spec{}, fmt.Errorf("неизвестный тип моба %q", f.ID)
	}

	quality := Normal
	switch f.Quality {
	case "", "normal":
	case "boss":
		quality = Boss
	default:
		return 0, Spec{}, fmt.Errorf("%s: неизвестный ранг %q", f.ID, f.Quality)
	}

	table := loot.NewTable()
	for _, e := range f.Loot {
		itemID, ok := item.Parse(e.Item)
		if !ok {
			return 0, Spec{}, fmt.Errorf("%s: неизвестный предмет %q", f.ID, e.Item)
		}
		entry, err := loot.NewEntry(itemID, e.Numerator, e.Denominator, e.Quantity)
		if err != nil {
			return 0, Spec{}, fmt.Errorf("%s: %w", f.ID, err)
		}
		if err := table.Add(entry); err != nil {
			return 0, Spec{}, fmt.Errorf("%s: %w", f.ID, err)
		}
	}

	spec := Spec{
		Name:        f.Name,
		Quality:     quality,
		MaxHealth:   f.MaxHealth,
		Attack:      f.Attack,
		Defense:     f.Defense,
		DroppedGold: f.DroppedGold,
		DroppedXP:   f.DroppedXP,
		Loot:        table,
	}
	if err := spec.Validate(); err != nil {
		return 0, Spec{}, err
	}
	return id, spec, nil
}

// ParseSpec разбирает одно YAML-описание моба
func ParseSpec(data []byte) (ID, Spec, error) {
	var f specFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return 0, Spec{}, fmt.Errorf("ошибка разбора YAML: %w", err)
	}
	return f.toSpec()
}

// LoadDir загружает *.yaml из каталога поверх уже зарегистрированных спецификаций.
// Возвращает число загруженных файлов. После загрузки реестр проверяется на полноту.
func LoadDir(r *Registry, dir string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return 0, fmt.Errorf("ошибка поиска файлов мобов: %w", err)
	}
	sort.Strings(matches)

	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, fmt.Errorf("ошибка чтения %s: %w", path, err)
		}
		id, spec, err := ParseSpec(data)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
		r.Register(id, spec)
	}

	if err := registry.Verify(r, All); err != nil {
		return len(matches), err
	}
	return len(matches), nil
}
