package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"rentacar-backend/internal/logger"
)

// ServiceName is the health service name probed by orchestrators.
const ServiceName = "rentacar.v1.RentalAPI"

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthServer exposes the standard gRPC health protocol next to the REST API.
type HealthServer struct {
	server *grpc.Server
	health *health.Server
	pinger Pinger
}

// NewHealthServer registers the health service and reflection. pinger may be nil.
func NewHealthServer(pinger Pinger) *HealthServer {
	s := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)

	// Register reflection service for grpcurl
	reflection.Register(s)

	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return &HealthServer{server: s, health: hs, pinger: pinger}
}

func (h *HealthServer) Server() *grpc.Server {
	return h.server
}

// Check pings the store once and publishes the result.
func (h *HealthServer) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if h.pinger != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := h.pinger.PingContext(pingCtx); err != nil {
			logger.Warn("Health check failed", "service", ServiceName, "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	h.health.SetServingStatus(ServiceName, status)
	return status
}

// Monitor re-checks the store every interval until ctx is done.
func (h *HealthServer) Monitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

// Shutdown marks every service NOT_SERVING and drains in-flight calls.
func (h *HealthServer) Shutdown() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
