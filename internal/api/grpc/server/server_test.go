package server

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/catalog-bot/internal/mocks"
)

func servingStatus(t *testing.T, hs *health.Server) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := hs.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestGRPCServer_Address(t *testing.T) {
	s := NewGRPCServer(grpc.NewServer(), health.NewServer(), ":0")
	assert.Equal(t, ":0", s.Address())
}

func TestGRPCServer_StartServesAndStopReportsNotServing(t *testing.T) {
	hs := health.NewServer()
	srv := NewGRPCServer(grpc.NewServer(), hs, ":0")
	sec := mocks.NewSecurityLayer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	listened := make(chan struct{})
	sec.On("Listen", "tcp", ":0").Return(ln, nil).Run(func(mock.Arguments) { close(listened) })

	served := make(chan error, 1)
	go func() { served <- srv.Start(sec) }()
	<-listened

	assert.Eventually(t, func() bool {
		return servingStatus(t, hs) == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, servingStatus(t, hs))
	assert.NoError(t, <-served)
}

func TestGRPCServer_StartListenFailure(t *testing.T) {
	hs := health.NewServer()
	srv := NewGRPCServer(grpc.NewServer(), hs, ":0")
	sec := mocks.NewSecurityLayer(t)
	sec.On("Listen", "tcp", ":0").Return(nil, errors.New("address in use"))

	err := srv.Start(sec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

func TestNewSecurityLayer(t *testing.T) {
	assert.IsType(t, &PlainListener{}, NewSecurityLayer(false, "c", "k"))
	assert.IsType(t, &TLSListener{}, NewSecurityLayer(true, "c", "k"))
}
