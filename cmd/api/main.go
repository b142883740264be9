package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"homehunt-server/internal/core/auth"
	"homehunt-server/internal/core/config"
	"homehunt-server/internal/core/database"
	"homehunt-server/internal/core/kv"
	"homehunt-server/internal/core/logger"
	"homehunt-server/internal/core/mq"
	"homehunt-server/internal/core/obs"
	"homehunt-server/internal/core/payment"
	"homehunt-server/internal/core/server"
	"homehunt-server/internal/repo"
	"homehunt-server/internal/service"
	mdw "homehunt-server/internal/transport/http/middleware"
	"homehunt-server/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	log, cleanup := logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON,
		cfg.Log.File, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays, cfg.Log.Compress)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	defer func() { _ = database.Close(db) }()
	log.Info("database connected", zap.String("driver", cfg.DB.Driver), zap.String("dsn", database.MaskDSN(cfg.DB.DSN)))

	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// 链路追踪（未配置 endpoint 时为空操作）
	shutdownTracer, err := obs.InitTracer(context.Background(), cfg.App.Name, cfg.App.Env, cfg.Tracing.Endpoint)
	if err != nil {
		log.Fatal("tracer init failed", zap.Error(err))
	}

	// Redis 可选：配置了才启用分布式限流
	var (
		rdb     *kv.Store
		limiter mdw.Limiter
	)
	if cfg.Redis.Addr != "" {
		rdb = kv.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() { _ = rdb.Close() }()
		limiter = kv.NewWindowLimiter(rdb.RDB, int64(cfg.Redis.RateLimit), time.Minute)
		log.Info("redis rate limiter enabled", zap.String("addr", cfg.Redis.Addr))
	}

	// 事件：RabbitMQ 不可用时丢弃事件，业务照常
	var events service.Publisher = mq.Discard{}
	if cfg.MQ.URL != "" {
		pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
		if err != nil {
			log.Warn("rabbitmq unavailable, events disabled", zap.Error(err))
		} else {
			defer func() { _ = pub.Close() }()
			events = pub
		}
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
	if len(jwter.Secret) == 0 {
		log.Warn("jwt secret is empty; /jwt will fail until JWT_SECRET is set")
	}

	svc := service.New(service.Deps{
		Store:   repo.NewStore(db),
		Log:     log,
		Events:  events,
		Gateway: payment.NewStripe(cfg.Payment.StripeSecretKey, cfg.Payment.Currency),
		Signer:  jwter,
	})

	r := router.NewAPIEngine(router.Deps{
		Log:            log,
		JWT:            jwter,
		Services:       svc,
		DB:             db,
		Redis:          rdb,
		Limiter:        limiter,
		CORSOrigins:    cfg.App.HTTP.CORSOrigins,
		RequestTimeout: time.Duration(cfg.App.HTTP.RequestTimeout) * time.Second,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, obs.Wrap(r, "http"),
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)
	if stdLog, err := logger.ToStdLogger(log, zapcore.ErrorLevel); err == nil {
		srv.ErrorLog = stdLog
	}

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("homehunt api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("metrics", baseURL+"/metrics"),
	)

	// 异步启动
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("homehunt api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	if err := shutdownTracer(ctx); err != nil {
		log.Warn("tracer shutdown", zap.Error(err))
	}
	log.Info("homehunt api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
