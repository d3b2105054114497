package middleware

import (
	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_zap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// паника превращается в codes.Internal без деталей
func recoveryHandler(logger *zap.Logger) grpc_recovery.RecoveryHandlerFunc {
	return func(p any) error {
		logger.Error("grpc panic recovered", zap.Any("panic", p))
		return status.Error(codes.Internal, "internal error")
	}
}

func RecoveryInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return grpc_recovery.UnaryServerInterceptor(grpc_recovery.WithRecoveryHandler(recoveryHandler(logger)))
}

func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return grpc_zap.UnaryServerInterceptor(logger)
}

func MetricsInterceptor() grpc.UnaryServerInterceptor {
	return grpc_prometheus.UnaryServerInterceptor
}

func ChainUnaryServer(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return grpc_middleware.ChainUnaryServer(
		RecoveryInterceptor(logger),
		LoggingInterceptor(logger),
		MetricsInterceptor(),
	)
}

// ChainStreamServer нужен для health Watch.
func ChainStreamServer(logger *zap.Logger) grpc.StreamServerInterceptor {
	return grpc_middleware.ChainStreamServer(
		grpc_recovery.StreamServerInterceptor(grpc_recovery.WithRecoveryHandler(recoveryHandler(logger))),
		grpc_zap.StreamServerInterceptor(logger),
		grpc_prometheus.StreamServerInterceptor,
	)
}
