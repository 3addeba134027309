// Package router builds the ops gRPC server.
package router

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/dtroode/catalog-bot/internal/api/grpc/middleware"
	"github.com/dtroode/catalog-bot/internal/logger"
)

// Router wires the ops services and interceptors.
type Router struct {
	health *health.Server
	logger *logger.Logger
}

func New(health *health.Server, logger *logger.Logger) *Router {
	return &Router{health: health, logger: logger}
}

func (r *Router) recover(ctx context.Context, p any) error {
	r.logger.Error("Ops: handler panic", "panic", p)
	return status.Error(codes.Internal, "internal error")
}

// Register returns a server exposing the health service and reflection.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	recoveryOpt := recovery.WithRecoveryHandlerContext(r.recover)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryServerInterceptor(recoveryOpt),
		),
		grpc.ChainStreamInterceptor(
			logging.HandleStream,
			recovery.StreamServerInterceptor(recoveryOpt),
		),
	)
	healthpb.RegisterHealthServer(s, r.health)
	reflection.Register(s)

	return s
}
