package server

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/catalog-bot/internal/model"
)

var _ model.Server = (*GRPCServer)(nil)

// GRPCServer serves the ops endpoint and reports SERVING while it runs.
type GRPCServer struct {
	server *grpc.Server
	health *health.Server
	addr   string
}

func NewGRPCServer(server *grpc.Server, health *health.Server, addr string) *GRPCServer {
	return &GRPCServer{server: server, health: health, addr: addr}
}

// Start listens through the security layer and blocks serving requests.
func (s *GRPCServer) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	return s.server.Serve(listener)
}

// Stop reports NOT_SERVING and drains in-flight requests until ctx expires.
func (s *GRPCServer) Stop(ctx context.Context) error {
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		s.server.Stop()
		return ctx.Err()
	}
}

func (s *GRPCServer) Address() string {
	return s.addr
}
