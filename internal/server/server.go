// Package server exposes the finance storage as the REST API the client talks to.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/GRBadas/Planilha-Django/internal/service"
	"github.com/gin-gonic/gin"
)

// Config holds the HTTP server settings.
type Config struct {
	Addr            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8000",
		AllowedOrigins:  []string{"*"},
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server serves the REST API over a Storage.
type Server struct {
	router *gin.Engine
	cfg    Config
}

// New builds the router. Routes keep their trailing slashes; gin redirects requests
// that omit them.
func New(storage service.Storage, cfg Config) *Server {
	gin.SetMode(gin.ReleaseMode)
	RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogging())
	router.Use(cors(cfg.AllowedOrigins))

	h := &handlers{storage: storage}

	api := router.Group("/api")
	api.GET("/health/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	cards := api.Group("/cartoes")
	cards.GET("/", h.listCards)
	cards.POST("/", h.createCard)
	cards.GET("/:id/", h.getCard)
	cards.PUT("/:id/", h.updateCard)
	cards.PATCH("/:id/", h.updateCard)
	cards.DELETE("/:id/", h.deleteCard)

	categories := api.Group("/categorias")
	categories.GET("/", h.listCategories)
	categories.POST("/", h.createCategory)
	categories.GET("/:id/", h.getCategory)
	categories.PUT("/:id/", h.updateCategory)
	categories.PATCH("/:id/", h.updateCategory)
	categories.DELETE("/:id/", h.deleteCategory)

	transactions := api.Group("/transacoes")
	transactions.GET("/", h.listTransactions)
	transactions.POST("/", h.createTransaction)
	transactions.GET("/gastos_por_categoria/", h.spendingByCategory)
	transactions.GET("/:id/", h.getTransaction)
	transactions.PUT("/:id/", h.updateTransaction)
	transactions.PATCH("/:id/", h.updateTransaction)
	transactions.DELETE("/:id/", h.deleteTransaction)

	return &Server{router: router, cfg: cfg}
}

// Handler returns the server's http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("api server listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().ShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	slog.Info("shutting down api server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down api server: %w", err)
	}
	return nil
}

func cors(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowed["*"]:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && allowed[origin]:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
