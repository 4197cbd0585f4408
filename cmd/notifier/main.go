package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/config"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/docstore"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/docstore/memstore"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/docstore/mongostore"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/docstore/pgstore"
	kafkax "github.com/VigneshSivaKspm/coga-order-management-sub000/internal/kafka"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/notify"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/orders"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := newLogger(cfg.Env)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("docstore connect", zap.String("driver", cfg.DocstoreDriver), zap.Error(err))
	}
	defer closeStore()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notify.Service{
		Store:       store,
		Repo:        &orders.Repo{Store: store},
		Redis:       rdb,
		Log:         log,
		ServiceName: "notifier",
	}

	consumer := kafkax.NewConsumer(cfg.KafkaBrokers, "notifier", orders.TopicStatusChanged, 4, log)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info("shutting down")
		cancel()
	}()

	log.Info("notifier consuming", zap.String("topic", orders.TopicStatusChanged))
	if err := consumer.Start(ctx, svc.HandleStatusChanged); err != nil {
		log.Fatal("consumer stopped", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	if env == "production" || env == "prod" {
		log, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return log
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return log
}

func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (docstore.Store, func(), error) {
	switch cfg.DocstoreDriver {
	case "postgres":
		return pgstore.Connect(ctx, cfg.PostgresDSN, log)
	case "mem":
		return memstore.New(), func() {}, nil
	default:
		return mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
	}
}
