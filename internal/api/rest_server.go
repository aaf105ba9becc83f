package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annel0/mine-game/internal/app"
	"github.com/annel0/mine-game/internal/auth"
	"github.com/annel0/mine-game/internal/game/catalog"
	"github.com/annel0/mine-game/internal/journal"
	"github.com/annel0/mine-game/internal/logging"
	"github.com/annel0/mine-game/internal/middleware"
)

const version = "v0.3.0"

// RestServer представляет REST API сервер
type RestServer struct {
	router  *gin.Engine
	srv     *http.Server
	service *app.Service
	catalog *catalog.Catalog
	journal journal.Journal
	issuer  *auth.Issuer
	metrics *ServerMetrics
	logger  *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Addr     string                // адрес для запуска сервера
	Service  *app.Service          // игровое состояние
	Catalog  *catalog.Catalog      // реестры спецификаций
	Journal  journal.Journal       // журнал событий (необязательно)
	Issuer   *auth.Issuer          // выдача и проверка JWT
	Registry prometheus.Registerer // куда регистрировать HTTP метрики
	Gatherer prometheus.Gatherer   // что отдавать на /metrics
	Logger   *logging.Logger
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) (*RestServer, error) {
	if config.Service == nil || config.Catalog == nil || config.Issuer == nil {
		return nil, errors.New("REST сервер: не заданы сервис, каталог или issuer")
	}
	if config.Addr == "" {
		config.Addr = ":8088"
	}
	if config.Logger == nil {
		config.Logger = logging.GetAPILogger()
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}
	if config.Gatherer == nil {
		if g, ok := config.Registry.(prometheus.Gatherer); ok {
			config.Gatherer = g
		} else {
			config.Gatherer = prometheus.DefaultGatherer
		}
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	// === Observability middleware ===
	// otelgin первым: логгер берёт trace-ID из открытого им span
	router.Use(otelgin.Middleware("rest_api"))
	router.Use(middleware.NewRequestLogger(config.Logger).Handler())

	promMw, err := middleware.NewPrometheusMiddleware("rest_api", config.Registry)
	if err != nil {
		return nil, fmt.Errorf("метрики REST: %w", err)
	}
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router, config.Gatherer)

	rs := &RestServer{
		router:  router,
		service: config.Service,
		catalog: config.Catalog,
		journal: config.Journal,
		issuer:  config.Issuer,
		metrics: NewServerMetrics(),
		logger:  config.Logger,
	}
	rs.srv = &http.Server{
		Addr:              config.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	rs.setupRoutes()
	return rs, nil
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	api := rs.router.Group("/api")

	api.GET("/server", rs.handleServerInfo)

	catalogGroup := api.Group("/catalog")
	{
		catalogGroup.GET("/items", rs.handleItems)
		catalogGroup.GET("/mobs", rs.handleMobs)
		catalogGroup.GET("/rocks", rs.handleRocks)
		catalogGroup.GET("/locations", rs.handleLocations)
	}

	mines := api.Group("/mines")
	{
		mines.GET("", rs.handleMines)
		mines.GET("/:id", rs.handleMine)
		mines.POST("/:id/move", rs.handleMove)
		mines.POST("/:id/mine", rs.handleMineRock)
	}

	dungeon := api.Group("/dungeon")
	{
		dungeon.GET("", rs.handleDungeon)
		dungeon.POST("/move", rs.handleDungeonMove)
		dungeon.POST("/attack/:handle", rs.handleAttack)
	}

	api.GET("/inventory", rs.handleInventory)
	api.GET("/events", rs.handleEvents)

	// Эндпоинт для аутентификации (без JWT защиты)
	api.POST("/auth/token", rs.handleToken)

	// Административные эндпоинты (только для админов)
	admin := api.Group("/admin")
	admin.Use(rs.jwtMiddleware(), rs.adminMiddleware())
	{
		admin.POST("/mines/:id/regenerate", rs.handleRegenerate)
	}

	rs.router.GET("/health", rs.handleHealth)
}

// Handler возвращает http.Handler сервера
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// Start запускает REST сервер и блокируется до Shutdown
func (rs *RestServer) Start() error {
	rs.logger.Info("REST API слушает %s", rs.srv.Addr)
	if err := rs.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown дожидается завершения текущих запросов
func (rs *RestServer) Shutdown(ctx context.Context) error {
	return rs.srv.Shutdown(ctx)
}

// handleHealth проверка состояния сервера
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// handleServerInfo возвращает информацию о сервере
func (rs *RestServer) handleServerInfo(c *gin.Context) {
	info := rs.metrics.Snapshot()
	info.Version = version
	info.Mines = len(rs.service.Mines())

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Информация о сервере",
		Data:    info,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, GenericResponse{Success: false, Message: message})
}

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: message, Data: data})
}
