package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/boba-shop/internal/adapter/handler"
	"github.com/rl1809/boba-shop/internal/adapter/storage"
	"github.com/rl1809/boba-shop/internal/config"
	"github.com/rl1809/boba-shop/internal/core/domain"
	"github.com/rl1809/boba-shop/internal/core/service"
	"github.com/rl1809/boba-shop/internal/logx"
	"github.com/rl1809/boba-shop/internal/port"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load config")
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Environment(), Output: os.Stderr})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Session cache
	var cache port.CacheRepository
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logx.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		opts.PoolSize = 100
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logx.Fatal().Err(err).Msg("failed to connect redis")
		}
		cache = storage.NewRedisAdapter(rdb)
		logx.Info().Str("addr", opts.Addr).Msg("connected to redis")
	} else {
		cache = storage.NewMemoryAdapter()
		logx.Warn().Msg("REDIS_URL not set, sessions are kept in memory")
	}

	// Order archive
	var archive port.DatabaseRepository
	var db *sql.DB
	if cfg.MySQLDSN != "" {
		dsn, err := archiveDSN(cfg.MySQLDSN)
		if err != nil {
			logx.Fatal().Err(err).Msg("invalid MYSQL_DSN")
		}
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			logx.Fatal().Err(err).Msg("failed to open mysql")
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			logx.Fatal().Err(err).Msg("failed to ping mysql")
		}
		mysqlAdapter := storage.NewMySQLAdapter(db)
		if err := mysqlAdapter.EnsureSchema(ctx); err != nil {
			logx.Fatal().Err(err).Msg("failed to create archive schema")
		}
		archive = mysqlAdapter
		logx.Info().Msg("connected to mysql")
	} else {
		archive = storage.NewMemoryArchive()
		logx.Warn().Msg("MYSQL_DSN not set, orders are archived in memory")
	}

	storefront, err := service.LoadStorefront(cfg.StorefrontPath)
	if err != nil {
		logx.Fatal().Err(err).Str("path", cfg.StorefrontPath).Msg("failed to load storefront")
	}

	shop := service.NewShopService(
		service.NewAuthGate(cfg.Credentials()),
		storefront,
		cache,
		cfg.SessionTTL,
		cfg.ArchiveQueueSize,
	)

	// Session sweeper
	sweepCtx, stopSweep := context.WithCancel(ctx)
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		shop.RunSweeper(sweepCtx, cfg.SessionSweepInterval, func(dropped int) {
			if dropped > 0 {
				logx.Debug().Int("dropped", dropped).Msg("swept expired sessions")
			}
		})
	}()

	// Archive workers
	var wg sync.WaitGroup
	if queue := shop.GetOrderQueue(); queue != nil {
		for i := 0; i < cfg.ArchiveWorkers; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				workerLoop(id, queue, archive)
			}(i)
		}
		logx.Info().Int("workers", cfg.ArchiveWorkers).Msg("started archive workers")
	}

	// gRPC server
	grpcServer := grpc.NewServer()
	handler.RegisterShopServer(grpcServer, handler.NewGRPCHandler(shop))
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logx.Fatal().Err(err).Str("addr", cfg.GRPCAddr).Msg("failed to listen")
	}

	go func() {
		logx.Info().Str("addr", cfg.GRPCAddr).Msg("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			logx.Error().Err(err).Msg("gRPC server error")
		}
	}()

	// HTTP server
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewHTTPHandler(shop).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logx.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logx.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logx.Info().Msg("shutting down...")
	healthServer.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("HTTP shutdown")
	}
	logx.Info().Msg("HTTP server stopped")

	grpcServer.GracefulStop()
	logx.Info().Msg("gRPC server stopped")

	stopSweep()
	<-sweepDone

	// Close archive queue and wait for workers to drain it
	shop.Close()
	wg.Wait()
	logx.Info().Msg("workers stopped")

	if rdb != nil {
		rdb.Close()
	}
	if db != nil {
		db.Close()
	}
	logx.Info().Msg("connections closed")
}

func workerLoop(id int, queue <-chan domain.ArchivedOrder, archive port.DatabaseRepository) {
	for order := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		err := archive.ArchiveOrder(ctx, order)
		switch {
		case errors.Is(err, storage.ErrAlreadyArchived):
			logx.Debug().Int("worker", id).Str("order_id", order.ID).Msg("order already archived")
		case err != nil:
			// the session keeps the order; only the audit copy is lost
			logx.Error().Err(err).Int("worker", id).Str("order_id", order.ID).Msg("failed to archive order")
		default:
			logx.Debug().Int("worker", id).Str("order_id", order.ID).Str("username", order.Username).Msg("archived order")
		}

		cancel()
	}
}

// archiveDSN forces parseTime so placed_at scans into time.Time.
func archiveDSN(dsn string) (string, error) {
	c, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	c.ParseTime = true
	return c.FormatDSN(), nil
}
