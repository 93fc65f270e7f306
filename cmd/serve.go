package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/lioia/sparse-pagerank/pkg/node"
	"github.com/lioia/sparse-pagerank/pkg/utils"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve rank requests over gRPC (PORT) and HTTP (API_PORT)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", env.Host, env.Port))
	utils.FailOnError("Failed to listen for ranker server", err)
	n := &node.Node{
		Role:          node.Server,
		Connection:    lis.Addr().String(),
		MaxIterations: env.MaxIterations,
		Metrics:       node.NewMetrics(),
	}

	// Running gRPC server in a goroutine
	server := grpc.NewServer(grpc.UnaryInterceptor(node.RecoverInterceptor))
	node.RegisterRankerServer(server, &node.RankerServerImpl{Node: n})
	errs := make(chan error, 2)
	go func() {
		fmt.Printf("Starting %s node at %s\n", node.RoleToString(n.Role), n.Connection)
		errs <- server.Serve(lis)
	}()

	api := node.NewApiServer(n)
	go func() {
		addr := fmt.Sprintf("%s:%d", env.Host, env.ApiPort)
		fmt.Printf("Starting API server at %s\n", addr)
		if err := api.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err = <-errs:
	}
	utils.ServerLog("Shutting down")
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.GracefulStop()
	if shutdownErr := api.Shutdown(shutdown); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	return err
}
