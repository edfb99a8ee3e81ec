package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/qybrrlabs/portal/docs"
	"github.com/qybrrlabs/portal/internal/app/api/handlers"
	mw "github.com/qybrrlabs/portal/internal/app/api/middleware"
	"github.com/qybrrlabs/portal/internal/app/service/account"
	"github.com/qybrrlabs/portal/internal/app/service/content"
	"github.com/qybrrlabs/portal/internal/app/service/newsletter"
	"github.com/qybrrlabs/portal/internal/app/service/session"
	"github.com/qybrrlabs/portal/internal/app/service/trial"
	cfgpkg "github.com/qybrrlabs/portal/pkg/config"
	"github.com/qybrrlabs/portal/pkg/metrics"
)

func newEngine(cfg *cfgpkg.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Trace middleware is global; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())

	corsCfg := cors.DefaultConfig()
	if len(cfg.Server.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Server.CORSOrigins
	} else {
		corsCfg.AllowOrigins = []string{cfg.Site.URL}
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))
	return r
}

type routeDeps struct {
	fx.In

	Engine     *gin.Engine
	Log        *zap.SugaredLogger
	Config     *cfgpkg.Config
	Sessions   *session.Service
	Notifier   *session.Notifier
	Auth       session.Authenticator
	Accounts   *account.Service
	Trials     *trial.Service
	Newsletter *newsletter.Service
	Content    *content.Service
}

func registerRoutes(d routeDeps) {
	r, log, cfg := d.Engine, d.Log, d.Config

	// Prometheus metrics
	if cfg != nil && cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(log))
	handlers.RegisterHealthRoutes(pub)
	pub.GET("/rss", handlers.ApiRSSFeed(d.Content))
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public site API
	api := r.Group("/api")
	api.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(log))
	handlers.RegisterNewsletterRoutes(api, d.Newsletter)
	handlers.RegisterBlogRoutes(api, d.Content)
	handlers.RegisterAuthRoutes(api.Group("/auth"), d.Auth, d.Trials)

	// Catalog personalizes when a valid token is present
	products := api.Group("/")
	products.Use(mw.OptionalSessionMiddleware(d.Sessions))
	handlers.RegisterProductRoutes(products, d.Trials)

	// Account group behind the session gatekeeper
	acct := r.Group("/api/v1/account")
	acct.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(log), mw.SessionMiddleware(d.Sessions, cfg.Site.LoginPath))
	handlers.RegisterAccountRoutes(acct, d.Accounts, d.Trials, d.Notifier, d.Auth)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
