package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const serviceName = "hr-records"

// Options はサーバーの待ち受け設定です。GRPCListenAddr が空の場合 gRPC ヘルスチェックは起動しません。
type Options struct {
	ListenAddr      string
	GRPCListenAddr  string
	ShutdownTimeout time.Duration
}

// Server は HTTP サーバーと gRPC ヘルスチェックサーバーのライフサイクルを管理します。
type Server struct {
	opts       Options
	httpServer *http.Server
	grpcServer *grpc.Server
	health     *health.Server
	logger     *zap.Logger
}

// New は handler を配信する HTTP サーバーを構築します。
func New(opts Options, handler http.Handler, logger *zap.Logger, grpcOpts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		opts: opts,
		httpServer: &http.Server{
			Addr:              opts.ListenAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}

	if opts.GRPCListenAddr != "" {
		s.grpcServer = grpc.NewServer(grpcOpts...)
		s.health = health.NewServer()
		healthpb.RegisterHealthServer(s.grpcServer, s.health)
		s.health.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	}

	return s
}

// Health は gRPC ヘルスチェックサーバーを返します。無効な場合は nil です。
func (s *Server) Health() *health.Server {
	return s.health
}

// Run はサーバーを起動し、コンテキストがキャンセルされると Shutdown / GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.opts.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.opts.ListenAddr, err)
	}

	var grpcLis net.Listener
	if s.grpcServer != nil {
		grpcLis, err = net.Listen("tcp", s.opts.GRPCListenAddr)
		if err != nil {
			_ = lis.Close()
			return fmt.Errorf("listen on %s: %w", s.opts.GRPCListenAddr, err)
		}
	}

	return s.serve(ctx, lis, grpcLis)
}

func (s *Server) serve(ctx context.Context, lis, grpcLis net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("http server listening", zap.String("addr", lis.Addr().String()))
		if err := s.httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	if grpcLis != nil {
		g.Go(func() error {
			s.logger.Info("grpc health server listening", zap.String("addr", grpcLis.Addr().String()))
			if err := s.grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("serve gRPC: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

func (s *Server) shutdown() error {
	timeout := s.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down servers", zap.Duration("timeout", timeout))

	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.GracefulStop()
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	return nil
}
