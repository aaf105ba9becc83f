package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/annel0/mine-game/internal/world/cave"
)

// Config корневая структура конфигурации приложения.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Mine      MineConfig      `yaml:"mine"`
	Cave      CaveConfig      `yaml:"cave"`
	Storage   StorageConfig   `yaml:"storage"`
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Journal   JournalConfig   `yaml:"journal"`
	Auth      AuthConfig      `yaml:"auth"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	RESTPort    int `yaml:"rest_port"`
	MetricsPort int `yaml:"metrics_port"`
}

// MineConfig - параметры игрового цикла
type MineConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	Seed         int64         `yaml:"seed"`     // 0 - seed от текущего времени
	MobDataDir   string        `yaml:"mob_data"` // Каталог YAML-описаний мобов
	SaveEvery    time.Duration `yaml:"save_every"`
}

// CaveConfig - переопределения генератора пещер. Нулевые поля берутся из cave.DefaultConfig.
type CaveConfig struct {
	Width               int     `yaml:"width"`
	Height              int     `yaml:"height"`
	FillMode            string  `yaml:"fill_mode"`
	WallFillProbability float64 `yaml:"wall_fill"`
	NoiseScale          float64 `yaml:"noise_scale"`
	SmoothingIterations int     `yaml:"smoothing_iterations"`
	WallThreshold       int     `yaml:"wall_threshold"`
	MaxRocks            int     `yaml:"max_rocks"`
	MinInitialRocks     int     `yaml:"min_initial_rocks"`
	MinFloorCells       int     `yaml:"min_floor_cells"`
	MinExitDistance     int     `yaml:"min_exit_distance"`
	MaxAttempts         int     `yaml:"max_attempts"`
}

// StorageConfig - выбор хранилища снимков шахт
type StorageConfig struct {
	Backend  string `yaml:"backend"` // memory | badger | redis | maria
	Path     string `yaml:"path"`    // Каталог badger
	RedisURL string `yaml:"redis_addr"`
	RedisDB  int    `yaml:"redis_db"`
	MariaDSN string `yaml:"maria_dsn"`
}

type EventBusConfig struct {
	URL       string `yaml:"url"` // пусто - шина в памяти
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
}

// JournalConfig - журнал событий в MongoDB
type JournalConfig struct {
	URI        string `yaml:"uri"` // пусто - журнал выключен
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type AuthConfig struct {
	JWTSecret         string        `yaml:"jwt_secret"`
	AdminPasswordHash string        `yaml:"admin_password_hash"` // bcrypt
	TokenTTL          time.Duration `yaml:"token_ttl"`
}

type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	SampleRatio  float64 `yaml:"sample_ratio"`
}

type LoggingConfig struct {
	Dir          string `yaml:"dir"`
	ConsoleLevel string `yaml:"console_level"`
	FileLevel    string `yaml:"file_level"`
}

// Default возвращает конфигурацию по умолчанию: всё в памяти, без внешних сервисов
func Default() *Config {
	return &Config{
		Mine: MineConfig{
			TickInterval: time.Second,
			SaveEvery:    30 * time.Second,
		},
		Storage: StorageConfig{Backend: "memory", Path: "data/mines"},
		EventBus: EventBusConfig{
			Stream:    "MINE_EVENTS",
			Retention: 24,
		},
		Journal: JournalConfig{Database: "minegame", Collection: "events"},
		Auth:    AuthConfig{TokenTTL: time.Hour},
		Telemetry: TelemetryConfig{
			SampleRatio: 1,
		},
		Logging: LoggingConfig{Dir: "logs", ConsoleLevel: "INFO", FileLevel: "DEBUG"},
	}
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "GAME_REST_PORT", 8088)
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "GAME_METRICS_PORT", 2112)
}

// GetJWTSecret возвращает секрет подписи токенов: config -> env GAME_JWT_SECRET
func (a *AuthConfig) GetJWTSecret() string {
	if a.JWTSecret != "" {
		return a.JWTSecret
	}
	return os.Getenv("GAME_JWT_SECRET")
}

// GetAdminPasswordHash возвращает bcrypt-хеш пароля администратора: config -> env GAME_ADMIN_HASH
func (a *AuthConfig) GetAdminPasswordHash() string {
	if a.AdminPasswordHash != "" {
		return a.AdminPasswordHash
	}
	return os.Getenv("GAME_ADMIN_HASH")
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// CaveParams накладывает переопределения на cave.DefaultConfig и проверяет результат
func (c *Config) CaveParams() (cave.Config, error) {
	cfg := cave.DefaultConfig()
	o := c.Cave

	setInt := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}
	setInt(&cfg.Width, o.Width)
	setInt(&cfg.Height, o.Height)
	setInt(&cfg.SmoothingIterations, o.SmoothingIterations)
	setInt(&cfg.WallThreshold, o.WallThreshold)
	setInt(&cfg.MaxRocks, o.MaxRocks)
	setInt(&cfg.MinInitialRocks, o.MinInitialRocks)
	setInt(&cfg.MinFloorCells, o.MinFloorCells)
	setInt(&cfg.MinExitDistance, o.MinExitDistance)
	setInt(&cfg.MaxAttempts, o.MaxAttempts)
	if o.FillMode != "" {
		cfg.FillMode = cave.FillMode(o.FillMode)
	}
	if o.WallFillProbability > 0 {
		cfg.WallFillProbability = o.WallFillProbability
	}
	if o.NoiseScale > 0 {
		cfg.NoiseScale = o.NoiseScale
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Load читает YAML файл конфигурации поверх Default().
// Если path == "", пытается прочитать из ENV GAME_CONFIG, иначе возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("GAME_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации %s: %w", path, err)
	}

	if _, err := cfg.CaveParams(); err != nil {
		return nil, fmt.Errorf("секция cave: %w", err)
	}

	return cfg, nil
}
