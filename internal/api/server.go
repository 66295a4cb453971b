package api

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/frontline-pass/frontline/internal/config"
	"github.com/frontline-pass/frontline/internal/util"
)

const shutdownTimeout = 10 * time.Second

// Server is the admin REST API.
type Server struct {
	cfg     config.APIConfig
	vip     VipService
	players PlayerSearcher
	health  HealthReporter
	version string

	router *gin.Engine
	logger zerolog.Logger

	mu         sync.Mutex
	httpServer *http.Server
	addr       net.Addr
}

// NewServer builds the router. Call gin.SetMode before this to pick the
// engine mode.
func NewServer(cfg config.APIConfig, deps Dependencies) *Server {
	s := &Server{
		cfg:     cfg,
		vip:     deps.Vip,
		players: deps.Players,
		health:  deps.Health,
		version: deps.Version,
		logger:  util.ComponentLogger("api"),
	}
	if s.version == "" {
		s.version = "dev"
	}
	s.router = s.buildRouter()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the bound address once Start is listening, or nil.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if s.cfg.TLSEnabled() {
		tlsCfg, err := s.tlsConfig()
		if err != nil {
			return err
		}
		srv.TLSConfig = tlsCfg
	}

	lc := listenConfig()
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("API server error: %w", err)
	}
	if srv.TLSConfig != nil {
		ln = tls.NewListener(ln, srv.TLSConfig)
	}

	s.mu.Lock()
	s.httpServer = srv
	s.addr = ln.Addr()
	s.mu.Unlock()

	s.logger.Info().
		Str("addr", ln.Addr().String()).
		Bool("tls", srv.TLSConfig != nil).
		Bool("auth", s.cfg.AdminToken != "").
		Msg("admin API listening")

	go func() {
		<-ctx.Done()
		if err := s.Stop(); err != nil {
			s.logger.Warn().Err(err).Msg("admin API shutdown failed")
		}
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("API server error: %w", err)
	}
	return nil
}

func (s *Server) tlsConfig() (*tls.Config, error) {
	if s.cfg.TLSSelfSigned {
		host, _, err := net.SplitHostPort(s.cfg.Addr)
		if err != nil {
			return nil, fmt.Errorf("invalid API_ADDR %q: %w", s.cfg.Addr, err)
		}
		hosts := []string{"localhost", "127.0.0.1"}
		if host != "" && host != "0.0.0.0" && host != "::" {
			hosts = append(hosts, host)
		}
		if err := util.EnsureSelfSignedCert(s.cfg.TLSCertFile, s.cfg.TLSKeyFile, hosts); err != nil {
			return nil, err
		}
	}

	pair, err := tls.LoadX509KeyPair(s.cfg.TLSCertFile, s.cfg.TLSKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS key pair: %w", err)
	}
	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{pair},
		CipherSuites: []uint16{
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
		},
	}, nil
}

// buildRouter creates the gin engine with all routes and middleware.
func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestLogger(s.logger))
	router.Use(SecurityHeaders())

	allowedOrigins := s.cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(NewRateLimiter(s.cfg.RateLimitRPS).Middleware())

	public := router.Group("/api/public")
	{
		public.GET("/ping", s.handlePing)
		public.GET("/version", s.handleVersion)
	}

	protected := router.Group("/api")
	protected.Use(RequireToken(s.cfg.AdminToken))
	{
		protected.GET("/health", s.handleHealth)

		protected.POST("/vip/grant", s.handleGrant)
		protected.POST("/vip/request", s.handleRequestVip)
		protected.GET("/vip/duration", s.handleGetDuration)
		protected.PUT("/vip/duration", s.handleSetDuration)
		protected.DELETE("/vip/duration", s.handleResetDuration)

		protected.GET("/players/search", s.handleSearchPlayers)
		protected.POST("/players", s.handleRegister)
		protected.GET("/players/:user_id", s.handleGetPlayer)
		protected.GET("/owners/:player_id", s.handlePlayerOwner)
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Frontline admin API is running."})
	})

	return router
}

// Stop gracefully stops the API server.
func (s *Server) Stop() error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
