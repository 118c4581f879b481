package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/ogurasousui/hr-records/internal/adapters/grpc/interceptor"
	"github.com/ogurasousui/hr-records/internal/adapters/http/handler"
	"github.com/ogurasousui/hr-records/internal/adapters/http/middleware"
	"github.com/ogurasousui/hr-records/internal/adapters/http/router"
	"github.com/ogurasousui/hr-records/internal/adapters/repository/postgres"
	"github.com/ogurasousui/hr-records/internal/core/employee"
	"github.com/ogurasousui/hr-records/internal/core/timesheet"
	"github.com/ogurasousui/hr-records/internal/platform/config"
	pg "github.com/ogurasousui/hr-records/internal/platform/db/postgres"
	"github.com/ogurasousui/hr-records/internal/platform/logger"
	"github.com/ogurasousui/hr-records/internal/platform/server"
	"github.com/ogurasousui/hr-records/internal/platform/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(ctx, cfg, zl); err != nil {
		zl.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zl *zap.Logger) error {
	dbPool, err := pg.NewPool(ctx, cfg.Database, pg.WithLogger(zl))
	if err != nil {
		return err
	}
	defer dbPool.Close()

	files, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	txManager := pg.NewTransactionManager(dbPool)

	employeeSvc := employee.NewService(postgres.NewEmployeeRepository(dbPool), files, nil, txManager)
	timesheetSvc := timesheet.NewService(postgres.NewTimesheetRepository(dbPool), nil, txManager)

	routerOpts := router.Options{
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		RateLimiter:    middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	}
	if local, ok := files.(*storage.LocalStore); ok {
		routerOpts.UploadsDir = local.Dir()
		routerOpts.UploadsPrefix = cfg.Storage.PublicPrefix
	}

	h := handler.New(employeeSvc, timesheetSvc, cfg.List.PageSize, cfg.Server.MaxUploadBytes)
	engine := router.Setup(routerOpts, h, zl)

	srv := server.New(server.Options{
		ListenAddr:      cfg.Server.ListenAddr,
		GRPCListenAddr:  cfg.Server.GRPCListenAddr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, engine, zl, grpc.ChainUnaryInterceptor(interceptor.Recovery(zl), interceptor.Logging(zl)))

	zl.Info("starting hr-records",
		zap.String("http_addr", cfg.Server.ListenAddr),
		zap.String("grpc_addr", cfg.Server.GRPCListenAddr),
		zap.String("storage", string(cfg.Storage.Driver)),
	)

	return srv.Run(ctx)
}
