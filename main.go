package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"pet-harness-store/config"
	"pet-harness-store/handlers"
	"pet-harness-store/rabbitmq"
	"pet-harness-store/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.App{
		Name:   "pet-harness-store",
		Usage:  "Pet harness catalog and order API",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:   "check-db",
				Usage:  "connect to the document store and list its collections",
				Action: checkDB,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	log.WithField("port", cfg.Port).Info("Starting Pet Harness Store API")

	routerCfg := handlers.RouterConfig{
		DatabaseURLSet:  cfg.DatabaseURL != "",
		DatabaseNameSet: cfg.DatabaseName != "",
	}

	if cfg.DatabaseConfigured() {
		ctx, cancel := context.WithTimeout(c.Context, cfg.StoreTimeout)
		docs, err := store.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseName)
		cancel()
		if err != nil {
			log.WithError(err).Error("Document store unavailable, serving without it")
		} else {
			defer closeStore(docs)
			routerCfg.Store = docs
		}
	} else {
		log.Warn("DATABASE_URL or DATABASE_NAME not set, serving without a document store")
	}

	if cfg.NotificationsEnabled() {
		pool, err := rabbitmq.NewChannelPool(cfg.RabbitMQURL, cfg.RabbitMQQueue, cfg.ChannelPoolSize)
		if err != nil {
			log.WithError(err).Error("Order notifications disabled")
		} else {
			defer pool.Close()
			routerCfg.Notifier = rabbitmq.NewPublisher(pool, cfg.RabbitMQQueue)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handlers.NewRouter(routerCfg),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server failed")
	case <-sigChan:
		log.Info("Received shutdown signal, stopping server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "graceful shutdown failed")
	}

	log.Info("Pet Harness Store API shut down gracefully")
	return nil
}

func checkDB(c *cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	if !cfg.DatabaseConfigured() {
		return errors.New("DATABASE_URL and DATABASE_NAME must be set")
	}

	ctx, cancel := context.WithTimeout(c.Context, cfg.StoreTimeout)
	defer cancel()

	docs, err := store.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseName)
	if err != nil {
		return err
	}
	defer closeStore(docs)

	if err := docs.Ping(ctx); err != nil {
		return err
	}

	names, err := docs.CollectionNames(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Connected to %s (%d collections)\n", cfg.DatabaseName, len(names))
	for _, name := range names {
		fmt.Fprintf(c.App.Writer, "  %s\n", name)
	}
	return nil
}

func setupLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if level == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
		log.SetFormatter(&log.JSONFormatter{})
	}
}

func closeStore(docs *store.MongoStore) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := docs.Close(ctx); err != nil {
		log.WithError(err).Warn("Failed to disconnect document store")
	}
}
