package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/roamagg/internal/cdr"
	cdrdomain "github.com/smallbiznis/roamagg/internal/cdr/domain"
	"github.com/smallbiznis/roamagg/internal/config"
	"github.com/smallbiznis/roamagg/internal/observability"
	obslogger "github.com/smallbiznis/roamagg/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/roamagg/internal/observability/metrics"
	"github.com/smallbiznis/roamagg/internal/subscriber"
	"github.com/smallbiznis/roamagg/internal/udr"
	udrdomain "github.com/smallbiznis/roamagg/internal/udr/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	subscriber.Module,
	cdr.Module,
	udr.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterAPIRoutes() }),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Params struct {
	fx.In

	Cfg    config.Config
	Log    *zap.Logger
	Engine *gin.Engine
	CdrSvc cdrdomain.Service
	UdrSvc udrdomain.Service
}

type Server struct {
	cfg    config.Config
	log    *zap.Logger
	engine *gin.Engine
	cdrsvc cdrdomain.Service
	udrsvc udrdomain.Service
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:    p.Cfg,
		log:    p.Log.Named("http.server"),
		engine: p.Engine,
		cdrsvc: p.CdrSvc,
		udrsvc: p.UdrSvc,
	}
}

func (s *Server) RegisterAPIRoutes() {
	v1 := s.engine.Group("/v1")

	cdrs := v1.Group("/cdr")
	cdrs.POST("", s.GenerateCdr)
	cdrs.POST("/report", s.GenerateCdrReport)

	udrs := v1.Group("/udr")
	udrs.GET("", s.GetUdrForSubscriber)
	udrs.GET("/all", s.GetUdrForAllSubscribers)
}

func run(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			s.log.Info("http server starting", zap.String("addr", s.cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
