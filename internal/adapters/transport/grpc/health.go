package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/gorm"
)

// ServiceName is reported by the gRPC health service next to the overall "" entry.
const ServiceName = "account"

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	db    *gorm.DB
	cache Pinger
	log   *zap.Logger
}

// NewHealthChecker: cache может быть nil, если Redis не настроен.
func NewHealthChecker(db *gorm.DB, cache Pinger, log *zap.Logger) *HealthChecker {
	if log == nil {
		log = zap.NewNop()
	}
	return &HealthChecker{db: db, cache: cache, log: log}
}

func (h *HealthChecker) Check(ctx context.Context) error {
	if err := h.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		h.log.Warn("health: database unavailable", zap.Error(err))
		return err
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			h.log.Warn("health: redis unavailable", zap.Error(err))
			return err
		}
	}
	return nil
}

// Update проверяет зависимости и выставляет статус в health-сервере.
func (h *HealthChecker) Update(ctx context.Context, srv *health.Server) healthpb.HealthCheckResponse_ServingStatus {
	st := healthpb.HealthCheckResponse_SERVING
	if err := h.Check(ctx); err != nil {
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	srv.SetServingStatus("", st)
	srv.SetServingStatus(ServiceName, st)
	return st
}

// Watch periodically refreshes the status until ctx is done, then marks
// everything as not serving.
func (h *HealthChecker) Watch(ctx context.Context, srv *health.Server, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.update(ctx, srv, interval)
	for {
		select {
		case <-ctx.Done():
			srv.Shutdown()
			return
		case <-ticker.C:
			h.update(ctx, srv, interval)
		}
	}
}

func (h *HealthChecker) update(ctx context.Context, srv *health.Server, timeout time.Duration) {
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	h.Update(checkCtx, srv)
}
