package app

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"rfpmarket/internal/ai"
	"rfpmarket/internal/concierge"
	"rfpmarket/internal/config"
	"rfpmarket/internal/controller"
	"rfpmarket/internal/repository"
	"rfpmarket/internal/router"
	"rfpmarket/internal/service"
)

type App struct {
	repo       *repository.Repository
	service    *service.Service
	concierge  *concierge.Service
	controller *controller.Controller
	stopSig    chan os.Signal
	cfg        *config.Config

	Done chan struct{}
}

type option func(*App)

func WithConfig(cfg *config.Config) option {
	return func(app *App) {
		app.cfg = cfg
	}
}

func NewApp(opts ...option) (*App, error) {
	var err error

	app := &App{
		stopSig: make(chan os.Signal, 2),
		Done:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.cfg == nil {
		cfg, err := config.NewConfig()
		if err != nil {
			return nil, err
		}
		app.cfg = cfg
	}

	logger := newLogger(app.cfg.LogLevel)

	app.repo, err = repository.NewRepository(nil, &app.cfg.PostgresConfig)
	if err != nil {
		return nil, err
	}

	client := ai.NewClient(
		app.cfg.OpenAIConfig.BaseURL,
		app.cfg.OpenAIConfig.APIKey,
		app.cfg.OpenAIConfig.Model,
		ai.WithHTTPClient(&http.Client{Timeout: time.Duration(app.cfg.OpenAIConfig.TimeoutSeconds) * time.Second}),
		ai.WithLogger(logger),
	)

	normalizer := ai.NewNormalizer(client, logger)
	advisor := ai.NewAdvisor(client, logger)
	matcher := ai.NewMatcher(client, logger)

	app.service = service.NewService(app.repo, normalizer, advisor, matcher)
	app.concierge = concierge.NewService(client, concierge.NewMemoryHistoryStore(), logger)
	app.controller = controller.NewController(app.service, app.concierge)

	return app, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func (app *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		signal.Notify(app.stopSig, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		sig := <-app.stopSig
		log.Printf("Received signal: %s\n", sig)
		cancel()
	}()

	server := http.Server{
		Addr:         app.cfg.ServerAddress,
		Handler:      router.NewRouter(app.controller),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Println("Http server error:", err)
		}
	}()

	log.Printf("Server started at %s, listening for connections...\n", app.cfg.ServerAddress)
	<-ctx.Done()

	timeout, tcancel := context.WithTimeout(context.Background(), time.Second*10)
	defer tcancel()
	log.Println("Shutting down http server...")
	server.Shutdown(timeout)

	log.Println("Closing repository...")
	err := app.repo.Close()
	if err != nil {
		log.Println("Repository closing error:", err)
	}

	close(app.Done)
	log.Println("Exiting app.")
}
