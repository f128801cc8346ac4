// Package server 提供再平衡的 HTTP 接口
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/opsxjacky/bond-rebalancer/internal/engine"
	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

// Config 服务配置
type Config struct {
	Log             zerolog.Logger
	Engine          *engine.RebalanceEngine
	Port            int
	CORSOrigins     []string
	RequestTimeout  time.Duration
	DefaultStrategy types.StrategyType
	Now             func() time.Time // 估值日期时钟, 为空时使用 time.Now
}

// Server HTTP服务
type Server struct {
	router          *chi.Mux
	server          *http.Server
	log             zerolog.Logger
	engine          *engine.RebalanceEngine
	metrics         *Metrics
	port            int
	defaultStrategy types.StrategyType
	now             func() time.Time
}

// New 创建HTTP服务
func New(cfg Config) *Server {
	s := &Server{
		router:          chi.NewRouter(),
		log:             cfg.Log.With().Str("component", "server").Logger(),
		engine:          cfg.Engine,
		metrics:         NewMetrics(),
		port:            cfg.Port,
		defaultStrategy: cfg.DefaultStrategy,
		now:             cfg.Now,
	}
	if s.engine == nil {
		s.engine = engine.New(engine.Options{Logger: cfg.Log})
	}
	if s.defaultStrategy == "" {
		s.defaultStrategy = types.DefaultStrategy
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.setupMiddleware(cfg.CORSOrigins, cfg.RequestTimeout)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware(origins []string, timeout time.Duration) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	if timeout > 0 {
		s.router.Use(middleware.Timeout(timeout))
	}

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/strategies", s.handleStrategies)
		r.Post("/bond-rebalance", s.handleRebalance)
		r.Post("/bond-rebalance/batch", s.handleRebalanceBatch)
	})
}

// Handler 返回路由, 供测试和嵌入使用
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start 启动HTTP服务, 阻塞直到服务关闭
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
