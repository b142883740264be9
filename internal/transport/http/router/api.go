package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"homehunt-server/internal/core/auth"
	"homehunt-server/internal/core/database"
	"homehunt-server/internal/core/kv"
	"homehunt-server/internal/core/server"
	"homehunt-server/internal/service"
	"homehunt-server/internal/transport/http/ez"
	"homehunt-server/internal/transport/http/handler"
	mdw "homehunt-server/internal/transport/http/middleware"
	resp "homehunt-server/internal/transport/http/response"
)

type Deps struct {
	Log      *zap.Logger
	JWT      *auth.JWTer
	Services *service.Services
	DB       *gorm.DB
	Redis    *kv.Store // 可选
	// Limiter 每 IP 限流后端；nil 时用进程内令牌桶
	Limiter        mdw.Limiter
	CORSOrigins    []string
	RequestTimeout time.Duration
}

func NewAPIEngine(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Limiter == nil {
		d.Limiter = mdw.NewLocalLimiter(20, 40)
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 10 * time.Second
	}

	r := server.NewRouter(d.Log, server.Options{
		CORSOrigins: d.CORSOrigins,
		Recovery: func(c *gin.Context, _ any) {
			resp.Abort(c, resp.CodeServerError, "internal error")
		},
	})
	r.NoRoute(func(c *gin.Context) { resp.Abort(c, resp.CodeNotFound, "route not found") })
	r.NoMethod(func(c *gin.Context) { resp.Abort(c, resp.CodeMethodNotAllow, "") })

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.RateLimitPerIP(d.Limiter, d.Log),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(d.RequestTimeout),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		mdw.Authorize(d.JWT, d.Services.Users, Policies()),
	)

	// 健康检查
	r.GET("/health", health(d))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	reg := &Registry{}
	s := d.Services
	reg.Register(
		handler.Auth{Svc: s.Auth},
		handler.Users{Svc: s.Users},
		handler.Properties{Svc: s.Properties},
		handler.Wishlist{Svc: s.Wishlist},
		handler.Reviews{Svc: s.Reviews},
		handler.Offers{Svc: s.Offers},
		handler.Payments{Svc: s.Payments},
	)
	reg.MountAll(ez.New(r))

	return r
}

func health(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		checks := gin.H{"db": "ok"}
		status := http.StatusOK
		if err := database.Ping(ctx, d.DB); err != nil {
			checks["db"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if d.Redis != nil {
			checks["redis"] = "ok"
			if err := d.Redis.Ping(ctx); err != nil {
				checks["redis"] = err.Error()
				status = http.StatusServiceUnavailable
			}
		}
		if status != http.StatusOK {
			c.JSON(status, resp.New(status, resp.CodeMsgMap[status], checks))
			return
		}
		resp.Write(c, status, checks)
	}
}
