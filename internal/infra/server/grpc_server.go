package server

import (
	"context"
	"errors"
	"net"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/Miraines/MoonyAndStarry/account-service/internal/adapters/transport/grpc/middleware"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/infra/config"
)

const shutdownTimeout = 5 * time.Second

// NewGRPCServer собирает сервер с interceptor'ами и health-сервисом.
func NewGRPCServer(cfg *config.Config, healthSrv *health.Server, logger *zap.Logger) (*grpc.Server, error) {
	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(middleware.ChainUnaryServer(logger)),
		grpc.ChainStreamInterceptor(middleware.ChainStreamServer(logger)),
	}
	if cfg.TLSEnabled() {
		creds, err := credentials.NewServerTLSFromFile(cfg.HTTPSCertFile, cfg.HTTPSKeyFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, grpc.Creds(creds))
	}

	grpcServer := grpc.NewServer(opts...)
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	grpc_prometheus.Register(grpcServer)
	grpc_prometheus.EnableHandlingTimeHistogram()
	reflection.Register(grpcServer)
	return grpcServer, nil
}

// Serve блокируется до отмены ctx, затем делает graceful stop.
func Serve(ctx context.Context, lis net.Listener, grpcServer *grpc.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("ctx cancelled, stopping gRPC server")

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-stopCtx.Done():
		grpcServer.Stop()
	case <-done:
	}
	logger.Info("gRPC server stopped")
	return nil
}

func StartGRPCServer(ctx context.Context, cfg *config.Config, healthSrv *health.Server, logger *zap.Logger) error {
	lis, err := net.Listen("tcp", cfg.GRPCAddress)
	if err != nil {
		return err
	}

	grpcServer, err := NewGRPCServer(cfg, healthSrv, logger)
	if err != nil {
		_ = lis.Close()
		return err
	}
	return Serve(ctx, lis, grpcServer, logger)
}
