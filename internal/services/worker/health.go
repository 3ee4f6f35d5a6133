package worker

import (
	"context"
	"fmt"
	"log"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name the worker reports under in the gRPC health service.
const ServiceName = "ecohydro.Worker"

// ServeHealth exposes the standard gRPC health service on addr until ctx is
// done. The worker flips hs between SERVING and NOT_SERVING.
func ServeHealth(ctx context.Context, addr string, hs *health.Server) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("health listen %s: %w", addr, err)
	}
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	go func() {
		<-ctx.Done()
		hs.Shutdown()
		srv.GracefulStop()
	}()

	log.Printf("worker: gRPC health listening on %s", lis.Addr())
	if err := srv.Serve(lis); err != nil {
		return fmt.Errorf("health serve: %w", err)
	}
	return nil
}
