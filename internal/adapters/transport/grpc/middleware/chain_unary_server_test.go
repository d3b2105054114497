package middleware

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// маленький helper
func ctxIP(ip string) context.Context {
	return peer.NewContext(context.Background(), &peer.Peer{
		Addr: &net.TCPAddr{IP: net.ParseIP(ip), Port: 80},
	})
}

func TestChainUnaryServer_PanicRecovered(t *testing.T) {
	logger := zap.NewExample()
	chain := ChainUnaryServer(logger)

	_, err := chain(ctxIP("8.8.8.8"), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"},
		func(ctx context.Context, req any) (any, error) {
			panic("boom") // должно перехватиться recovery-interceptor’ом
		})
	if err == nil {
		t.Fatal("panic should be converted to error by recovery interceptor")
	}
	require.Equal(t, codes.Internal, status.Code(err))
	require.NotContains(t, err.Error(), "boom")
}

func TestChainUnaryServer_PassesThrough(t *testing.T) {
	chain := ChainUnaryServer(zap.NewNop())

	resp, err := chain(ctxIP("9.9.9.9"), "req", &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"},
		func(ctx context.Context, req any) (any, error) { return req.(string) + "-ok", nil })
	require.NoError(t, err)
	require.Equal(t, "req-ok", resp)
}

func TestChainUnaryServer_KeepsHandlerError(t *testing.T) {
	chain := ChainUnaryServer(zap.NewNop())

	_, err := chain(ctxIP("9.9.9.9"), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"},
		func(ctx context.Context, req any) (any, error) {
			return nil, status.Error(codes.NotFound, "unknown service")
		})
	require.Equal(t, codes.NotFound, status.Code(err))
}
