package main

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/patrickward/codepane"
	"github.com/patrickward/codepane/internal/config"
	"github.com/patrickward/codepane/internal/flash"
	"github.com/patrickward/codepane/internal/livereload"
	"github.com/patrickward/codepane/internal/rendering"
	"github.com/patrickward/codepane/internal/watcher"
	"github.com/patrickward/codepane/internal/workers"
)

const watchDebounce = 250 * time.Millisecond

// Server holds the application state.
type Server struct {
	cfg               *config.Config
	rootManager       *codepane.RootManager
	repo              *codepane.SnippetRepository
	encryptionManager *codepane.EncryptionManager
	renderer          *rendering.MarkdownRenderer
	flash             *flash.Manager
	worker            *workers.BackgroundWorker
	hub               *livereload.Hub
	baseTempl         *template.Template
	httpServer        *http.Server
}

// ServerOption configures a Server.
type ServerOption func(*Server) error

// WithEncryptionManager enables reading and writing .age snippets.
func WithEncryptionManager(manager *codepane.EncryptionManager) ServerOption {
	return func(s *Server) error {
		s.encryptionManager = manager
		return nil
	}
}

// WithLiveReload serves the live reload websocket and broadcasts cache changes.
func WithLiveReload(hub *livereload.Hub) ServerOption {
	return func(s *Server) error {
		s.hub = hub
		return nil
	}
}

// NewServer prepares the snippet store, templates and background tasks.
func NewServer(ctx context.Context, cfg *config.Config, opts ...ServerOption) (*Server, error) {
	rootManager, err := codepane.NewRootManager(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("could not parse templates: %w", err)
	}

	s := &Server{
		cfg:         cfg,
		rootManager: rootManager,
		renderer:    rendering.NewMarkdownRenderer(nil),
		flash:       flash.NewManager(),
		worker:      workers.NewBackgroundWorker(ctx),
		baseTempl:   tmpl,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.repo = codepane.NewSnippetRepository(rootManager, s.encryptionManager, codepane.DefaultRepositoryConfig)
	s.setupBackgroundTasks()

	return s, nil
}

func (s *Server) setupBackgroundTasks() {
	interval := s.cfg.RefreshInterval

	s.worker.AddPeriodicTask("cache-refresh", interval, func(ctx context.Context) error {
		if s.repo.ReloadIfStale(interval) && s.hub != nil {
			s.hub.Reload()
		}
		return nil
	})

	if s.cfg.Watch {
		s.worker.AddOneTimeTask("watch-data-dir", s.watchDataDir)
	}
}

// watchDataDir reloads the cache and pages whenever snippet files change.
func (s *Server) watchDataDir(ctx context.Context) error {
	w, err := watcher.New(watchDebounce, codepane.DefaultRepositoryConfig.IgnoreDirs...)
	if err != nil {
		return err
	}
	defer func() {
		_ = w.Close()
	}()

	w.AddFilter(func(path string) bool {
		return !strings.HasPrefix(filepath.Base(path), ".")
	})
	w.AddHandler(func(events []watcher.ChangeEvent) error {
		log.Printf("Detected %d snippet change(s), reloading", len(events))
		s.repo.Reload()
		if s.hub != nil {
			s.hub.Reload()
		}
		return nil
	})

	if err := w.AddRecursive(s.rootManager.Path()); err != nil {
		return err
	}

	w.Start(ctx)
	log.Printf("Watching %s for changes", s.rootManager.Path())

	<-ctx.Done()
	return nil
}

// Start serves HTTP until a termination signal or a server error.
func (s *Server) Start() error {
	addr := s.cfg.ListenAddr()

	s.httpServer = &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       time.Minute,
		Handler:           s.setupRoutes(),
	}

	s.worker.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("Starting server on http://%s", addr)
		log.Printf("Data directory: %s", s.cfg.DataDir)
		serverErrors <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.worker.Shutdown()
			return fmt.Errorf("could not start server: %w", err)
		}
	case sig := <-sigChan:
		log.Printf("Received signal %v, initiating shutdown", sig)
	}

	return s.Shutdown()
}

// Shutdown stops live reload clients, the HTTP server and background tasks.
func (s *Server) Shutdown() error {
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if s.hub != nil {
		s.hub.Shutdown()
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Printf("Error during HTTP server shutdown: %v", err)
		}
	}

	s.worker.Shutdown()

	log.Println("Server shutdown complete")
	return nil
}
