package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type pingStub struct{ err error }

func (p pingStub) Ping(context.Context) error { return p.err }

func openDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	return db
}

func status(t *testing.T, srv *health.Server, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := srv.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.Status
}

func TestHealthChecker_Serving(t *testing.T) {
	h := NewHealthChecker(openDB(t), pingStub{}, nil)
	srv := health.NewServer()

	require.NoError(t, h.Check(context.Background()))
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, h.Update(context.Background(), srv))
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, srv, ServiceName))
}

func TestHealthChecker_CacheDown(t *testing.T) {
	h := NewHealthChecker(openDB(t), pingStub{err: errors.New("refused")}, nil)
	srv := health.NewServer()

	require.Error(t, h.Check(context.Background()))
	h.Update(context.Background(), srv)
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, srv, ""))
}

func TestHealthChecker_DatabaseDown(t *testing.T) {
	db := openDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	h := NewHealthChecker(db, nil, nil)
	require.Error(t, h.Check(context.Background()))
}

func TestHealthChecker_WatchStopsOnCancel(t *testing.T) {
	h := NewHealthChecker(openDB(t), nil, nil)
	srv := health.NewServer()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Watch(ctx, srv, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		resp, err := srv.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
		return err == nil && resp.Status == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, srv, ServiceName))
}
