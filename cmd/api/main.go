package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/config"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/docstore"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/docstore/memstore"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/docstore/mongostore"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/docstore/pgstore"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/enrich"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/httpx"
	kafkax "github.com/VigneshSivaKspm/coga-order-management-sub000/internal/kafka"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/orders"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := newLogger(cfg.Env)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("docstore connect", zap.String("driver", cfg.DocstoreDriver), zap.Error(err))
	}
	defer closeStore()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	prodCreate := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024, log)
	prodStatus := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicStatusChanged, 1024, log)
	prodPay := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicPaymentChanged, 1024, log)
	prodCreate.Start(ctx)
	prodStatus.Start(ctx)
	prodPay.Start(ctx)

	repo := &orders.Repo{Store: store}
	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{
		Repo:           repo,
		Pipeline:       &enrich.Pipeline{Store: store},
		ProducerCreate: prodCreate,
		ProducerStatus: prodStatus,
		ProducerPay:    prodPay,
		Redis:          rdb,
		Service:        cfg.ServiceName,
	}
	oh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prodCreate.Close()
	prodStatus.Close()
	prodPay.Close()
	prodCreate.WaitClosed()
	prodStatus.WaitClosed()
	prodPay.WaitClosed()
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
