package cave

import (
	"errors"
	"fmt"

	"github.com/annel0/mine-game/internal/game/rock"
)

// ErrInvalidConfig - параметры генерации не позволяют построить пещеру
var ErrInvalidConfig = errors.New("некорректная конфигурация пещеры")

// FillMode - способ начального заполнения сетки
type FillMode string

const (
	// FillRandom - белый шум с вероятностью стены WallFillProbability
	FillRandom FillMode = "random"
	// FillNoise - шум Перлина: стена там, где значение выше 1-WallFillProbability
	FillNoise FillMode = "noise"
	// FillEllipse - гарантированный пол в центральном эллипсе с рваным краем
	FillEllipse FillMode = "ellipse"
)

// RockWeight - вес типа породы при размещении
type RockWeight struct {
	Kind   rock.ID `json:"kind" yaml:"kind"`
	Weight int     `json:"weight" yaml:"weight"`
}

// DefaultRockWeights - Медь 50, Уголь 30, Олово 20
var DefaultRockWeights = []RockWeight{
	{Kind: rock.Copper, Weight: 50},
	{Kind: rock.Coal, Weight: 30},
	{Kind: rock.Tin, Weight: 20},
}

// Config - параметры генератора пещер
type Config struct {
	Width               int      // Ширина сетки
	Height              int      // Высота сетки
	FillMode            FillMode // Способ начального заполнения
	WallFillProbability float64  // Вероятность стены при заполнении
	NoiseScale          float64  // Масштаб шума для FillNoise
	SmoothingIterations int      // Число шагов клеточного автомата
	WallThreshold       int      // Клетка становится стеной, если стен среди 8 соседей больше порога
	BorderWalls         int      // Толщина гарантированной стены по краю
	MaxRocks            int      // Предел пород одновременно
	MinInitialRocks     int      // Минимум пород при генерации
	MinFloorCells       int      // Минимальный размер связной области
	MinExitDistance     int      // Минимальное расстояние BFS от игрока до выхода
	MaxAttempts         int      // Число попыток до фатальной ошибки
	RockWeights         []RockWeight
}

// DefaultConfig возвращает параметры по умолчанию: 60x20, 45% стен, 4 шага сглаживания
func DefaultConfig() Config {
	weights := make([]RockWeight, len(DefaultRockWeights))
	copy(weights, DefaultRockWeights)

	return Config{
		Width:               60,
		Height:              20,
		FillMode:            FillRandom,
		WallFillProbability: 0.45,
		NoiseScale:          0.12,
		SmoothingIterations: 4,
		WallThreshold:       4,
		BorderWalls:         1,
		MaxRocks:            8,
		MinInitialRocks:     6,
		MinFloorCells:       120,
		MinExitDistance:     15,
		MaxAttempts:         25,
		RockWeights:         weights,
	}
}

// Validate отклоняет заведомо невыполнимые параметры
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Width < 5 || c.Height < 5 {
		bad("размер %dx%d меньше 5x5", c.Width, c.Height)
	}
	if c.BorderWalls < 1 || 2*c.BorderWalls >= c.Width || 2*c.BorderWalls >= c.Height {
		bad("толщина стены %d недопустима для %dx%d", c.BorderWalls, c.Width, c.Height)
	}
	if c.WallFillProbability < 0 || c.WallFillProbability >= 1 {
		bad("вероятность стены %.2f вне [0,1)", c.WallFillProbability)
	}
	switch c.FillMode {
	case FillRandom, FillEllipse:
	case FillNoise:
		if c.NoiseScale <= 0 {
			bad("масштаб шума должен быть положительным")
		}
	default:
		bad("неизвестный режим заполнения %q", c.FillMode)
	}
	if c.SmoothingIterations < 0 {
		bad("отрицательное число шагов сглаживания")
	}
	if c.WallThreshold < 0 || c.WallThreshold > 8 {
		bad("порог стены %d вне [0,8]", c.WallThreshold)
	}
	if c.MinInitialRocks < 0 || c.MaxRocks < c.MinInitialRocks {
		bad("пределы пород %d..%d некорректны", c.MinInitialRocks, c.MaxRocks)
	}
	if c.MaxAttempts <= 0 {
		bad("число попыток должно быть положительным")
	}
	if c.MinExitDistance < 1 {
		bad("расстояние до выхода должно быть не меньше 1")
	}
	interior := (c.Width - 2*c.BorderWalls) * (c.Height - 2*c.BorderWalls)
	if c.MinFloorCells < c.MaxRocks+2 || c.MinFloorCells > interior {
		bad("минимум пола %d вне [%d,%d]", c.MinFloorCells, c.MaxRocks+2, interior)
	}

	total := 0
	for _, w := range c.RockWeights {
		if w.Weight < 0 {
			bad("отрицательный вес породы %s", w.Kind)
		}
		total += w.Weight
	}
	if total <= 0 {
		bad("сумма весов пород должна быть положительной")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// InteriorCells возвращает число клеток внутри гарантированной стены
func (c Config) InteriorCells() int {
	return (c.Width - 2*c.BorderWalls) * (c.Height - 2*c.BorderWalls)
}
