package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/go-registration-api/internal/config"
	"github.com/go-registration-api/internal/infrastructure/dynamo"
	"github.com/go-registration-api/internal/infrastructure/mailgun"
	mongoinfra "github.com/go-registration-api/internal/infrastructure/mongo"
	"github.com/go-registration-api/internal/infrastructure/smtp"
	"github.com/go-registration-api/internal/pkg/logger"
	transporthttp "github.com/go-registration-api/internal/transport/http"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.AppName, cfg.AppEnv)
	if envErr != nil {
		log.Debug("no .env file found, reading from environment")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx := context.Background()

	repo, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).WithField("driver", cfg.StoreDriver).Fatal("open profile store")
	}
	defer closeStore()

	deps := &transporthttp.Deps{
		ProfileRepo: repo,
		Mailer:      newMailer(cfg),
		Logger:      log,
	}
	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info(log, "server starting", logrus.Fields{
			"port":  cfg.AppPort,
			"env":   cfg.AppEnv,
			"store": cfg.StoreDriver,
			"mail":  cfg.MailDriver,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(log, "forced shutdown", err, nil)
		return
	}
	log.Info("server stopped")
}

// openStore connects the configured profile store. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (transporthttp.ProfileRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, err := mongoinfra.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error(log, "disconnect mongo", err, nil)
			}
		}
		repo, err := mongoinfra.NewProfileRepo(ctx, client.Database(cfg.MongoDatabase), log)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		return repo, closeFn, nil
	default:
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		dynamo.Bootstrap(ctx, client, cfg.DynamoProfilesTable, log)
		return dynamo.NewProfileRepo(client, cfg.DynamoProfilesTable), func() {}, nil
	}
}

func newMailer(cfg *config.Config) transporthttp.Mailer {
	if cfg.MailDriver == config.MailMailgun {
		return mailgun.NewMailer(cfg)
	}
	return smtp.NewMailer(cfg)
}
