// Package app 提供应用程序的初始化和配置功能.
package app

import (
	contextPkg "context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/cloudspace/pkg/cache"
	"github.com/yeisme/cloudspace/pkg/configs"
	"github.com/yeisme/cloudspace/pkg/context"
	"github.com/yeisme/cloudspace/pkg/internal/jobs"
	"github.com/yeisme/cloudspace/pkg/internal/router"
	"github.com/yeisme/cloudspace/pkg/internal/storage"
	"github.com/yeisme/cloudspace/pkg/log"
	"github.com/yeisme/cloudspace/pkg/metrics"
	"github.com/yeisme/cloudspace/pkg/middleware"
	"github.com/yeisme/cloudspace/pkg/scheduler"
	"github.com/yeisme/cloudspace/pkg/tracing"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	Engine    *gin.Engine
	config    *configs.AppConfig
	manager   *storage.Manager
	scheduler *scheduler.Scheduler
}

func NewApp(configPath string) *App {
	ctx := contextPkg.Background()

	// 初始化配置
	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	config := configs.GetConfig()
	if !config.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// 初始化追踪
	if err := tracing.InitTracer(config.Tracing); err != nil {
		fmt.Printf("Error initializing tracing: %v\n", err)
		os.Exit(1)
	}

	// 初始化监控
	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	manager, err := storage.Init(ctx)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	context.WithStorageManager(ctx, manager)

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	sched, err := scheduler.NewScheduler()
	if err != nil {
		fmt.Printf("Error initializing scheduler: %v\n", err)
		os.Exit(1)
	}

	if err := jobs.RegisterCronJobs(sched, manager); err != nil {
		fmt.Printf("Error registering cron jobs: %v\n", err)
		os.Exit(1)
	}

	sched.Start()

	engine.Use(
		gin.Recovery(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(config.Server),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.TracingMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.StorageMiddleware(manager),
		middleware.SchedulerMiddleware(sched),
	)

	if config.RateLimit.Enabled {
		engine.Use(middleware.RateLimitMiddleware(config.RateLimit))
	}

	if config.CircuitBreaker.Enabled {
		engine.Use(middleware.CircuitBreakerMiddleware(config.CircuitBreaker))
	}

	apiGroup := engine.Group("/api/v1",
		middleware.AuthMiddleware(config.Auth),
		middleware.RoleMiddleware(),
	)

	// 下载链接短暂缓存，避免高频重复签名；列表类端点必须实时，全部跳过
	if manager.KV != nil {
		cacheCfg := middleware.DefaultCacheConfig(cache.NewCache(manager.KV))
		cacheCfg.TTL = 10 * time.Second
		cacheCfg.VaryHeaders = []string{"X-Auth-Request-Email", "X-Forwarded-Email"}
		cacheCfg.Skipper = func(c *gin.Context) bool {
			return c.FullPath() != "/api/v1/download-url"
		}
		apiGroup.Use(middleware.CacheMiddleware(cacheCfg))
	}

	router.RegisterAPIRoutes(apiGroup)
	router.RegisterSwaggerRoute(engine)

	if config.Metrics.Enabled {
		_ = metrics.StartMetricsServer(config.Metrics, engine)
	}

	return &App{
		Engine:    engine,
		config:    config,
		manager:   manager,
		scheduler: sched,
	}
}

// Run 启动 HTTP 服务，阻塞直到 ctx 取消后优雅退出.
func (a *App) Run(ctx contextPkg.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port),
		Handler:           a.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Logger().Info().Str("addr", srv.Addr).Msg("http server started")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return a.shutdown(srv)
}

// shutdown 依次停掉 HTTP 服务、调度器与后台资源.
func (a *App) shutdown(srv *http.Server) error {
	l := log.Logger()
	l.Info().Msg("shutting down")

	ctx, cancel := contextPkg.WithTimeout(contextPkg.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		l.Error().Err(err).Msg("http server shutdown failed")
	}

	if err := a.scheduler.Shutdown(); err != nil {
		l.Error().Err(err).Msg("scheduler shutdown failed")
	}

	if a.manager.MQ != nil {
		if err := a.manager.MQ.Close(); err != nil {
			l.Error().Err(err).Msg("mq close failed")
		}
	}

	if err := tracing.ShutdownTracer(ctx); err != nil {
		l.Error().Err(err).Msg("tracer shutdown failed")
	}

	return nil
}
