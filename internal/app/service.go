// Package app связывает шахты, подземелье и инвентарь с хранилищем, шиной событий и метриками.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/annel0/mine-game/internal/eventbus"
	"github.com/annel0/mine-game/internal/game/catalog"
	"github.com/annel0/mine-game/internal/game/inventory"
	"github.com/annel0/mine-game/internal/game/location"
	"github.com/annel0/mine-game/internal/game/rock"
	"github.com/annel0/mine-game/internal/logging"
	"github.com/annel0/mine-game/internal/metrics"
	"github.com/annel0/mine-game/internal/observability"
	"github.com/annel0/mine-game/internal/storage"
	"github.com/annel0/mine-game/internal/util"
	"github.com/annel0/mine-game/internal/world/cave"
	"github.com/annel0/mine-game/internal/world/dungeon"
	"github.com/annel0/mine-game/internal/world/mine"
)

// ErrUnknownLocation - локация не найдена или не того типа
var ErrUnknownLocation = errors.New("неизвестная локация")

const source = "mine-game"

// Options - зависимости сервиса. Нулевые Repo, Bus, Metrics и Logger допустимы.
type Options struct {
	Catalog           *catalog.Catalog
	Cave              cave.Config
	Seed              int64 // 0 - seed от текущего времени
	Repo              storage.SnapshotRepo
	Bus               eventbus.EventBus
	Metrics           *metrics.Game
	Logger            *logging.Logger
	InventoryCapacity int
	MagicFind         int
	PlayerAttack      int
	TickInterval      time.Duration
	SaveEvery         time.Duration
}

// Service - игровое состояние процесса. Все методы безопасны для параллельного вызова.
type Service struct {
	mu sync.Mutex

	cat       *catalog.Catalog
	src       util.Source
	mines     map[location.ID]*mine.Mine
	order     []location.ID
	dungeon   *dungeon.Dungeon
	dungeonID location.ID
	inv       *inventory.Inventory

	repo    storage.SnapshotRepo
	bus     eventbus.EventBus
	metrics *metrics.Game
	logger  *logging.Logger

	magicFind    int
	playerAttack int
	tickInterval time.Duration
	saveEvery    time.Duration
}

// New создаёт шахты всех локаций типа Mine, восстанавливает их из хранилища и заселяет подземелье
func New(ctx context.Context, opts Options) (*Service, error) {
	if opts.Catalog == nil {
		return nil, errors.New("не задан каталог")
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetMineLogger()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.PlayerAttack <= 0 {
		opts.PlayerAttack = 10
	}

	var src util.Source
	if opts.Seed != 0 {
		src = util.NewSource(opts.Seed)
	} else {
		src = util.NewTimeSource()
	}

	gen, err := cave.NewGenerator(opts.Cave)
	if err != nil {
		return nil, err
	}
	cat := opts.Catalog
	gen = gen.WithRockSpawner(func(id rock.ID) rock.Rock { return cat.SpawnRock(id, src) })

	s := &Service{
		cat:          opts.Catalog,
		src:          src,
		mines:        make(map[location.ID]*mine.Mine),
		inv:          inventory.New(opts.InventoryCapacity),
		repo:         opts.Repo,
		bus:          opts.Bus,
		metrics:      opts.Metrics,
		logger:       opts.Logger,
		magicFind:    opts.MagicFind,
		playerAttack: opts.PlayerAttack,
		tickInterval: opts.TickInterval,
		saveEvery:    opts.SaveEvery,
	}

	for _, id := range location.Mines(s.cat.Locations) {
		if err := s.openMine(ctx, id, gen); err != nil {
			return nil, err
		}
	}

	if err := s.openDungeon(); err != nil {
		return nil, err
	}

	s.logger.Info("сервис запущен: шахт %d, подземелье %s", len(s.order), s.dungeonID)
	return s, nil
}

func (s *Service) openMine(ctx context.Context, id location.ID, gen *cave.Generator) error {
	ctx, span := observability.StartSpan(ctx, "mine.open", attribute.String("location", id.String()))

	start := time.Now()
	m, err := mine.New(id, s.cat.Locations.MustGet(id), gen, s.src)
	if err != nil {
		observability.EndSpan(span, err)
		return err
	}
	s.mines[id] = m
	s.order = append(s.order, id)

	reason := eventbus.ReasonInitial
	if restored, err := s.restore(ctx, m); err != nil {
		s.logger.Warn("снимок %s отброшен, используется новая пещера: %v", id, err)
	} else if restored {
		reason = eventbus.ReasonRestored
	}
	observability.EndSpan(span, nil)

	s.caveGenerated(ctx, m, reason, time.Since(start))
	return nil
}

func (s *Service) restore(ctx context.Context, m *mine.Mine) (bool, error) {
	if s.repo == nil {
		return false, nil
	}
	state, found, err := s.repo.Load(ctx, m.ID().String())
	if err != nil || !found {
		return false, err
	}
	if err := m.Restore(state); err != nil {
		return false, err
	}
	s.logger.Info("шахта %s восстановлена: поколение %d", m.ID(), m.Generation())
	return true, nil
}

func (s *Service) openDungeon() error {
	tiles, err := dungeon.DefaultMap()
	if err != nil {
		return err
	}
	for _, id := range location.All {
		spec := s.cat.Locations.MustGet(id)
		if spec.Kind != location.Dungeon {
			continue
		}
		d, err := dungeon.New(id, spec, tiles, s.cat.Mobs, s.src)
		if err != nil {
			return err
		}
		s.dungeon = d
		s.dungeonID = id
		s.recordMobs()
		return nil
	}
	return fmt.Errorf("%w: подземелье не описано", ErrUnknownLocation)
}

// Tick продвигает все таймеры на elapsed
func (s *Service) Tick(ctx context.Context, elapsed time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	var errs []error
	for _, id := range s.order {
		m := s.mines[id]
		report, err := m.Tick(elapsed)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		switch {
		case report.Regenerated:
			s.caveGenerated(ctx, m, eventbus.ReasonTimer, 0)
		case report.RockSpawned:
			s.publish(ctx, eventbus.TypeRockRespawned, eventbus.RockRespawned{
				Location: id.String(),
				Rock:     report.Rock.Kind.String(),
				X:        report.Rock.Pos.X,
				Y:        report.Rock.Pos.Y,
			})
			if s.metrics != nil {
				s.metrics.RockSpawned(id.String(), report.Rock.Kind.String())
			}
		}
		s.recordRocks(m)
	}

	report := s.dungeon.Tick(elapsed)
	if report.MobSpawned {
		s.mobSpawned(ctx, report.Handle)
	}
	if report.Regenerated {
		s.logger.Debug("подземелье %s заселено заново", s.dungeonID)
	}
	s.recordMobs()

	if s.metrics != nil {
		s.metrics.ObserveTick(time.Since(start))
	}
	return errors.Join(errs...)
}

// Run крутит игровой цикл до отмены ctx и периодически сохраняет шахты.
// При остановке выполняется последнее сохранение.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	var saveC <-chan time.Time
	if s.repo != nil && s.saveEvery > 0 {
		saver := time.NewTicker(s.saveEvery)
		defer saver.Stop()
		saveC = saver.C
	}

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return s.Save(saveCtx)
		case now := <-ticker.C:
			if err := s.Tick(ctx, now.Sub(last)); err != nil {
				s.logger.Error("ошибка тика: %v", err)
			}
			last = now
		case <-saveC:
			if err := s.Save(ctx); err != nil {
				s.logger.Error("ошибка автосохранения: %v", err)
			}
		}
	}
}

// Save сохраняет снимки всех шахт
func (s *Service) Save(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	s.mu.Lock()
	states := make([]mine.State, 0, len(s.order))
	for _, id := range s.order {
		states = append(states, s.mines[id].State())
	}
	s.mu.Unlock()

	ctx, span := observability.StartSpan(ctx, "mine.save", attribute.Int("mines", len(states)))
	err := s.repo.BatchSave(ctx, states)
	observability.EndSpan(span, err)

	if err != nil {
		if s.metrics != nil {
			s.metrics.SaveFailed()
		}
		return fmt.Errorf("сохранение шахт: %w", err)
	}
	s.logger.Debug("сохранено снимков: %d", len(states))
	return nil
}

func (s *Service) publish(ctx context.Context, eventType string, payload any) {
	if s.bus == nil {
		return
	}
	ev, err := eventbus.NewEnvelope(source, eventType, payload)
	if err != nil {
		s.logger.Error("событие %s: %v", eventType, err)
		return
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.logger.Warn("не удалось опубликовать %s: %v", eventType, err)
	}
}

func (s *Service) caveGenerated(ctx context.Context, m *mine.Mine, reason string, took time.Duration) {
	layout := m.Layout()
	s.publish(ctx, eventbus.TypeCaveGenerated, eventbus.CaveGenerated{
		Location:   m.ID().String(),
		Generation: m.Generation(),
		Seed:       layout.Seed(),
		FloorCells: layout.FloorCount(),
		Rocks:      layout.RockCount(),
		Reason:     reason,
	})
	if s.metrics != nil {
		s.metrics.CaveGenerated(m.ID().String(), reason, took, 0)
	}
	s.recordRocks(m)
	s.logger.Info("пещера %s: поколение %d, seed %d, пород %d (%s)", m.ID(), m.Generation(), layout.Seed(), layout.RockCount(), reason)
}

func (s *Service) recordRocks(m *mine.Mine) {
	if s.metrics != nil {
		s.metrics.SetRocks(m.ID().String(), m.Layout().RockCount())
	}
}

func (s *Service) recordMobs() {
	if s.metrics != nil {
		s.metrics.SetMobs(s.dungeonID.String(), s.dungeon.MobCount())
	}
}
