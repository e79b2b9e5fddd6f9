package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/spark_cart/internal/config"
	"github.com/Skotchmaster/spark_cart/internal/httpserver"
	"github.com/Skotchmaster/spark_cart/internal/realtime"
	"github.com/Skotchmaster/spark_cart/internal/repo"
	"github.com/Skotchmaster/spark_cart/internal/search"
	"github.com/Skotchmaster/spark_cart/internal/service"
	"github.com/Skotchmaster/spark_cart/internal/textgen"
	"github.com/Skotchmaster/spark_cart/pkg/authclient"
	pkgdb "github.com/Skotchmaster/spark_cart/pkg/db"
	"github.com/Skotchmaster/spark_cart/pkg/logging"
	"github.com/Skotchmaster/spark_cart/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/spark_cart/pkg/middleware/logging"
	"github.com/Skotchmaster/spark_cart/pkg/mykafka"
	"github.com/Skotchmaster/spark_cart/pkg/tokens"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, config.Load())
		},
	}
}

func serve(ctx context.Context, cfg config.ServiceConfig) error {
	l := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(l)
	ctx = logging.IntoContext(ctx, l)

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := pkgdb.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		return fmt.Errorf("db init: %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				l.Warn("db_close_error", "error", err)
			}
		}
	}()

	store := &repo.GormRepo{DB: db}
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			return fmt.Errorf("kafka producer: %w", err)
		}
		defer func() {
			if err := producer.Close(); err != nil {
				l.Warn("kafka_close_error", "error", err)
			}
		}()
	}

	// background workers stop with ctx; a failing one is logged, not fatal
	workers, wctx := errgroup.WithContext(ctx)
	hub := realtime.NewHub()
	var notifier realtime.Notifier = hub
	switch cfg.RealtimeSource {
	case config.RealtimePostgres:
		notifier = realtime.NopNotifier{}
		pg := &realtime.PGListener{DSN: cfg.DatabaseURL, Channel: repo.VoteChannel, Hub: hub}
		workers.Go(func() error { return logWorker(wctx, "pg_listener", pg.Run) })
	case config.RealtimeKafka:
		notifier = &realtime.KafkaNotifier{Producer: producer, Topic: cfg.VoteTopic}
		relay := realtime.NewKafkaRelay(cfg.KafkaBrokers, cfg.VoteTopic, realtime.RelayGroupID(cfg.ServiceName, cfg.InstanceID), hub)
		workers.Go(func() error { return logWorker(wctx, "kafka_relay", relay.Run) })
	}
	l.Info("realtime_source", "source", cfg.RealtimeSource)

	votes := &service.VoteService{Repo: store, Notifier: notifier}
	carts := &service.CartService{
		Repo:  store,
		Votes: votes,
		Text:  &textgen.Guard{Next: generator(cfg), Timeout: cfg.TextgenTimeout},
	}
	if producer != nil {
		carts.Events = producer
		carts.Topic = cfg.CartTopic
	}

	var searchHTTP *httpserver.SearchHTTP
	if cfg.ESURL != "" {
		es, err := search.NewClient(ctx, search.ClientConfig{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			// search is optional; the API keeps running without it
			l.Warn("search_disabled", "error", err)
		} else {
			index := &search.ItemIndex{ES: es, Index: cfg.ESIndex}
			carts.Index = index
			searchHTTP = &httpserver.SearchHTTP{Index: index}
		}
	}

	deps := &httpserver.Deps{
		Carts:     &httpserver.CartHTTP{Svc: carts},
		Votes:     &httpserver.VoteHTTP{Svc: votes},
		Comments:  &httpserver.CommentHTTP{Svc: &service.CommentService{Repo: store}},
		Stream:    &httpserver.StreamHTTP{Votes: votes, Carts: carts, Source: hub},
		Search:    searchHTTP,
		Profiles:  &service.ProfileService{Repo: store},
		JWTSecret: cfg.JWTAccessSecret,
		Ready: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if cfg.AuthHTTPURL != "" {
		deps.AuthClient = authclient.NewClient(cfg.AuthHTTPURL)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(l), middleware.Secure(), middleware.CORS())
	if cfg.CSRFEnabled {
		e.Use(csrf.Middleware(csrf.Config{SessionCookie: tokens.AccessCookie, Secure: cfg.CookieSecure}))
	}
	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		// open event streams end as soon as a stop signal arrives
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)
	go func() {
		l.Info("http_listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	l.Info("shutting_down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Warn("http_shutdown_error", "error", err)
	}
	_ = workers.Wait()
	l.Info("shutdown_complete")
	return nil
}

func generator(cfg config.ServiceConfig) textgen.Generator {
	switch cfg.TextgenProvider {
	case config.TextgenHTTP:
		return textgen.NewHTTPGenerator(cfg.TextgenURL, cfg.TextgenTimeout)
	case config.TextgenOpenAI:
		return textgen.NewOpenAIGenerator(textgen.DefaultOpenAIURL, cfg.OpenAIKey, cfg.OpenAIModel, cfg.TextgenTimeout)
	default:
		return nil
	}
}

func logWorker(ctx context.Context, name string, run func(context.Context) error) error {
	l := logging.FromContext(ctx).With("worker", name)
	if err := run(ctx); err != nil {
		l.Error("worker_stopped", "error", err)
		return nil
	}
	l.Info("worker_stopped")
	return nil
}
