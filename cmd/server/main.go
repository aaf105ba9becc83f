package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/annel0/mine-game/internal/api"
	"github.com/annel0/mine-game/internal/app"
	"github.com/annel0/mine-game/internal/auth"
	"github.com/annel0/mine-game/internal/config"
	"github.com/annel0/mine-game/internal/eventbus"
	"github.com/annel0/mine-game/internal/game/catalog"
	"github.com/annel0/mine-game/internal/journal"
	"github.com/annel0/mine-game/internal/logging"
	"github.com/annel0/mine-game/internal/metrics"
	"github.com/annel0/mine-game/internal/observability"
	"github.com/annel0/mine-game/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (иначе GAME_CONFIG)")
	hashPassword := flag.String("hash-password", "", "вывести bcrypt-хеш пароля администратора и выйти")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := auth.HashPassword(*hashPassword)
		if err != nil {
			log.Fatalf("❌ Ошибка хеширования пароля: %v", err)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	if err := setupLogging(cfg.Logging); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	logging.Info("⛏️  Запуск Mine Game Server...")

	if err := run(cfg); err != nil {
		logging.Error("❌ %v", err)
		logging.CloseDefaultLogger()
		os.Exit(1)
	}

	logging.Info("👋 Сервер успешно остановлен")
}

func setupLogging(cfg config.LoggingConfig) error {
	consoleLevel, err := logging.ParseLevel(cfg.ConsoleLevel)
	if err != nil {
		return err
	}
	fileLevel, err := logging.ParseLevel(cfg.FileLevel)
	if err != nil {
		return err
	}
	logging.Configure(logging.Options{Dir: cfg.Dir, ConsoleLevel: consoleLevel, FileLevel: fileLevel})
	return logging.InitDefaultLogger("server")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === ТЕЛЕМЕТРИЯ ===
	shutdownTelemetry, err := observability.InitTelemetry(ctx, "mine-game", cfg.Telemetry, logging.GetServerLogger())
	if err != nil {
		return fmt.Errorf("телеметрия: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logging.Warn("остановка телеметрии: %v", err)
		}
	}()

	// === КАТАЛОГ И ГЕНЕРАТОР ===
	cat, err := catalog.New(catalog.Options{MobDataDir: cfg.Mine.MobDataDir})
	if err != nil {
		return fmt.Errorf("каталог: %w", err)
	}
	caveCfg, err := cfg.CaveParams()
	if err != nil {
		return fmt.Errorf("параметры пещеры: %w", err)
	}

	// === ХРАНИЛИЩЕ ===
	repo, err := storage.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("хранилище: %w", err)
	}
	defer repo.Close()
	logging.Info("💾 Хранилище снимков: %s", cfg.Storage.Backend)

	// === ШИНА СОБЫТИЙ ===
	bus, backend, err := openBus(cfg.EventBus)
	if err != nil {
		return fmt.Errorf("шина событий: %w", err)
	}
	defer bus.Close()

	if _, err := eventbus.StartLoggingListener(bus, logging.GetEventsLogger()); err != nil {
		return fmt.Errorf("слушатель событий: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := eventbus.RegisterMetrics(bus, reg, backend); err != nil {
		return fmt.Errorf("метрики шины: %w", err)
	}

	// === ЖУРНАЛ ===
	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("журнал: %w", err)
	}
	defer func() {
		// шина закрывается первой, чтобы оставшиеся события успели попасть в журнал
		_ = bus.Close()
		_ = j.Close(context.Background())
	}()
	if _, err := journal.Attach(bus, j, logging.GetEventsLogger()); err != nil {
		return fmt.Errorf("подписка журнала: %w", err)
	}

	// === ИГРА ===
	gameMetrics, err := metrics.NewGame(reg)
	if err != nil {
		return fmt.Errorf("игровые метрики: %w", err)
	}

	svc, err := app.New(ctx, app.Options{
		Catalog:           cat,
		Cave:              caveCfg,
		Seed:              cfg.Mine.Seed,
		Repo:              repo,
		Bus:               bus,
		Metrics:           gameMetrics,
		Logger:            logging.GetMineLogger(),
		InventoryCapacity: 30,
		TickInterval:      cfg.Mine.TickInterval,
		SaveEvery:         cfg.Mine.SaveEvery,
	})
	if err != nil {
		return fmt.Errorf("игровой сервис: %w", err)
	}

	// === REST API ===
	issuer, err := auth.NewIssuer(cfg.Auth.GetJWTSecret(), cfg.Auth.GetAdminPasswordHash(), cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("JWT: %w", err)
	}
	if cfg.Auth.GetJWTSecret() == "" {
		logging.Warn("🔐 GAME_JWT_SECRET не задан, токены не переживут перезапуск")
	}

	restAddr := fmt.Sprintf(":%d", cfg.Server.GetRESTPort())
	rest, err := api.NewRestServer(api.Config{
		Addr:     restAddr,
		Service:  svc,
		Catalog:  cat,
		Journal:  j,
		Issuer:   issuer,
		Registry: reg,
		Gatherer: reg,
		Logger:   logging.GetAPILogger(),
	})
	if err != nil {
		return fmt.Errorf("REST API: %w", err)
	}

	metricsAddr := fmt.Sprintf(":%d", cfg.Server.GetMetricsPort())
	metricsSrv := &http.Server{
		Addr:              metricsAddr,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 3)
	go func() { errCh <- rest.Start() }()
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	loopDone := make(chan error, 1)
	go func() { loopDone <- svc.Run(ctx) }()

	logging.Info("✅ Все сервисы запущены")
	logging.Info("   🌐 REST API: http://localhost%s", restAddr)
	logging.Info("   📈 Prometheus: http://localhost%s/metrics", metricsAddr)
	logging.Info("   ❤️  Health check: http://localhost%s/health", restAddr)

	var runErr error
	select {
	case <-ctx.Done():
		logging.Info("📡 Получен сигнал, завершение работы...")
	case runErr = <-errCh:
		logging.Error("❌ HTTP сервер остановился: %v", runErr)
		stop()
	}

	// === GRACEFUL SHUTDOWN ===
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := rest.Shutdown(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки сервера метрик: %v", err)
	}
	if err := <-loopDone; err != nil {
		logging.Error("❌ Финальное сохранение: %v", err)
		runErr = errors.Join(runErr, err)
	}
	return runErr
}

func openBus(cfg config.EventBusConfig) (eventbus.EventBus, string, error) {
	if cfg.URL == "" {
		logging.Info("📨 Шина событий в памяти")
		return eventbus.NewMemoryBus(1024), "memory", nil
	}
	retention := time.Duration(cfg.Retention) * time.Hour
	bus, err := eventbus.NewJetStreamBus(cfg.URL, cfg.Stream, retention)
	if err != nil {
		return nil, "", err
	}
	logging.Info("📨 Шина событий JetStream: %s (%s)", cfg.URL, cfg.Stream)
	return bus, "jetstream", nil
}

func openJournal(cfg config.JournalConfig) (journal.Journal, error) {
	if cfg.URI == "" {
		logging.Info("📒 Журнал событий в памяти")
		return journal.NewMemoryJournal(1000), nil
	}
	j, err := journal.NewMongoJournal(journal.MongoConfig{
		URI:        cfg.URI,
		Database:   cfg.Database,
		Collection: cfg.Collection,
	})
	if err != nil {
		return nil, err
	}
	logging.Info("📒 Журнал событий MongoDB: %s/%s", cfg.Database, cfg.Collection)
	return j, nil
}
