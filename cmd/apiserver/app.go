package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"pickup/internal/app/config"
	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/domains/modules/mdorder"
	"pickup/internal/app/domains/modules/mdpayment"
	"pickup/internal/app/domains/modules/mdreceipt"
	"pickup/internal/app/domains/modules/mdsequence"
	"pickup/internal/app/domains/services/svorder"
	"pickup/internal/app/domains/services/svstats"
	"pickup/internal/app/infra/payment"
	"pickup/internal/app/infra/persistence"
	"pickup/internal/app/infra/persistence/document"
	"pickup/internal/app/infra/persistence/mongostore"
	"pickup/internal/app/infra/persistence/redis"
	"pickup/internal/app/infra/persistence/sqlstore"
	"pickup/internal/app/liveview"
	"pickup/internal/app/pkg/idgen"
	"pickup/internal/app/server/handlers/admin"
	"pickup/internal/app/server/handlers/order"
	paymenthandler "pickup/internal/app/server/handlers/payment"
	"pickup/internal/app/server/routers"
	"pickup/internal/app/syncbridge"
	"pickup/pkg/clock"
	"pickup/pkg/lmstfy"
	"pickup/pkg/logger"
)

// App is everything main needs to run.
type App struct {
	Engine *gin.Engine
	Bridge *syncbridge.Bridge
	Logger logger.Logger
}

// InitializeApp wires the application.
// 1. clock and logger
// 2. storage backend (+ redis when configured)
// 3. sync bridge: bus, write hooks, change sources, poller
// 4. domain modules and services
// 5. live views, handlers and routes
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	fail := func(err error) (*App, func(), error) {
		cleanup()
		return nil, nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	clk := clock.New(loc)

	log, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	cleanups = append(cleanups, func() { _ = log.Sync() })

	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fail(err)
		}
		cleanups = append(cleanups, func() { _ = rdb.Close() })
	}

	backend, err := persistence.Open(ctx, backendOptions(cfg, rdb), clk)
	if err != nil {
		return fail(fmt.Errorf("open %s backend: %w", cfg.Storage.Backend, err))
	}
	cleanups = append(cleanups, func() { _ = backend.Close() })
	log.Infof(ctx, "[App] storage backend: %s", backend.Kind)

	bus := syncbridge.NewBus(clk, log)
	bus.Register(document.CollectionOrders, func(ctx context.Context) (interface{}, error) {
		return backend.Orders.List(ctx)
	})
	bus.Register(document.CollectionPayments, func(ctx context.Context) (interface{}, error) {
		return backend.Payments.List(ctx)
	})
	backend.OnWrite(syncbridge.LocalHook(bus))

	var sources []syncbridge.Source
	if rdb != nil && cfg.Sync.Channel != "" {
		relay := syncbridge.NewRedisRelay(redis.NewPubSubClient(rdb, cfg.Sync.Channel), bus, processOrigin(), clk, log)
		backend.OnWrite(relay.Hook())
		sources = append(sources, relay)
	}
	if backend.Watch != nil {
		sources = append(sources, syncbridge.NewWatchSource(backend.Watch, bus))
	}
	sources = append(sources, syncbridge.NewPoller(bus, cfg.Sync.PollInterval, cfg.Sync.MaxPollFailures, log))
	bridge := syncbridge.NewBridge(bus, log, sources...)

	ids := idgen.New(cfg.App.MachineID)
	processor := mdpayment.NewProcessor(backend.Orders, backend.Payments, newVerifier(cfg.Payment), ids, clk, log)

	var receipts *mdreceipt.ReceiptModule
	if cfg.Lmstfy.Enabled() {
		queue := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token, cfg.Lmstfy.Tries)
		receipts = mdreceipt.NewReceiptModule(queue, cfg.Lmstfy.ReceiptQueue, cfg.Lmstfy.ReceiptTTL, clk, log)
	} else {
		log.Warnf(ctx, "[App] lmstfy not configured, receipt printing disabled")
	}

	orderService := svorder.NewOrderService(
		mdorder.NewOrderModule(backend.Orders, mdsequence.NewAllocator(backend.Counter, clk)),
		processor,
		receipts,
		ids,
		clk,
		etorder.RenotifyPolicy(cfg.Lifecycle.RenotifyPolicy),
		log,
	)
	statsService := svstats.NewStatsService(backend.Orders, backend.Payments, clk)

	views := liveview.NewViews(orderService, bus,
		liveview.Timeouts{
			Order:   cfg.Live.OrderTimeout,
			Payment: cfg.Live.PaymentTimeout,
			Queue:   cfg.Live.QueueTimeout,
		},
		liveview.RetryPolicy{
			Attempts: cfg.Live.RetryAttempts,
			Backoff:  cfg.Live.RetryBackoff,
		},
		log)

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := routers.SetupRoutes(log,
		order.NewOrderHandler(orderService, views),
		paymenthandler.NewPaymentHandler(orderService),
		admin.NewAdminHandler(orderService, statsService, views),
	)

	return &App{Engine: engine, Bridge: bridge, Logger: log}, cleanup, nil
}

func backendOptions(cfg *config.Config, rdb *goredis.Client) persistence.Options {
	return persistence.Options{
		Kind:     cfg.Storage.Backend,
		FileDir:  cfg.Storage.FileDir,
		KVDriver: cfg.Storage.KVDriver,
		KVPrefix: cfg.Storage.KVPrefix,
		Redis:    rdb,
		SQL: sqlstore.Config{
			Dialect:         cfg.SQL.Dialect,
			DSN:             cfg.SQL.DSN,
			MaxOpenConns:    cfg.SQL.MaxOpenConns,
			MaxIdleConns:    cfg.SQL.MaxIdleConns,
			ConnMaxLifetime: cfg.SQL.ConnMaxLifetime,
		},
		Mongo: mongostore.Config{
			URI:            cfg.Mongo.URI,
			Database:       cfg.Mongo.Database,
			ConnectTimeout: cfg.Mongo.ConnectTimeout,
			MaxPoolSize:    cfg.Mongo.MaxPoolSize,
		},
		MongoInit: cfg.Mongo.EnsureIndexes,
	}
}

func newVerifier(cfg config.PaymentConfig) mdpayment.Verifier {
	if cfg.Verifier == config.VerifierTrusting {
		return mdpayment.TrustingVerifier{}
	}
	return payment.NewHTTPVerifier(cfg.BaseURL, cfg.APIKey, cfg.Timeout)
}

// processOrigin tags this process's change notifications so it ignores its own echoes.
func processOrigin() string {
	host, _ := os.Hostname()
	return fmt.Sprintf("%s-%d-%s", host, os.Getpid(), uuid.NewString()[:8])
}
