package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/smallbiznis/clearbill/internal/config"
	"github.com/smallbiznis/clearbill/internal/observability"
	obsmiddleware "github.com/smallbiznis/clearbill/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/clearbill/internal/observability/metrics"
	obstracing "github.com/smallbiznis/clearbill/internal/observability/tracing"
	"github.com/smallbiznis/clearbill/internal/reference"
	referencedomain "github.com/smallbiznis/clearbill/internal/reference/domain"
	"github.com/smallbiznis/clearbill/internal/vat"
	vatdomain "github.com/smallbiznis/clearbill/internal/vat/domain"
	vatrates "github.com/smallbiznis/clearbill/internal/vat/rates"
)

var Module = fx.Module("http.server",
	reference.Module,
	vat.Module,
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(loadSnapshots),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

// loadSnapshots fills the in-memory reference and rate snapshots once
// the migrations and seed have run. The process does not serve traffic
// with empty reference data.
func loadSnapshots(refStore *reference.Store, rateStore *vatrates.Store) error {
	ctx := context.Background()
	if err := refStore.Load(ctx); err != nil {
		return err
	}
	return rateStore.Load(ctx)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine  *gin.Engine
	cfg     config.Config
	db      *gorm.DB
	genID   *snowflake.Node
	vatSvc  vatdomain.Service
	refrepo referencedomain.Repository
}

type ServerParams struct {
	fx.In

	Gin     *gin.Engine
	Cfg     config.Config
	DB      *gorm.DB
	GenID   *snowflake.Node
	VATSvc  vatdomain.Service
	Refrepo referencedomain.Repository
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:  p.Gin,
		cfg:     p.Cfg,
		db:      p.DB,
		genID:   p.GenID,
		vatSvc:  p.VATSvc,
		refrepo: p.Refrepo,
	}
}

func registerRoutes(s *Server) {
	s.registerVATRoutes()
	s.registerAdminRoutes()
	s.registerReferenceRoutes()
}

func (s *Server) registerVATRoutes() {
	g := s.engine.Group("/vat")
	g.POST("/calculate", s.CalculateInvoice)
	g.POST("/preview-rule", s.PreviewRule)
}

func (s *Server) registerAdminRoutes() {
	g := s.engine.Group("/admin")
	g.GET("/vat-rates", s.ListVATRates)
	g.GET("/vat-rates/:id", s.GetVATRate)
	g.POST("/vat-rates", s.CreateVATRate)
}

func (s *Server) registerReferenceRoutes() {
	g := s.engine.Group("/api")
	g.GET("/countries", s.ListCountries)
	g.GET("/currencies", s.ListCurrencies)
	g.GET("/vat-categories", s.ListVATCategories)
}
