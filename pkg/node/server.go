package node

import (
	"context"
	"runtime/debug"

	"github.com/lioia/sparse-pagerank/pkg/graph"
	"github.com/lioia/sparse-pagerank/pkg/utils"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type RankerServerImpl struct {
	Node *Node
}

// From client to server: graph in the pages format
func (s *RankerServerImpl) Rank(_ context.Context, in *wrapperspb.BytesValue) (*structpb.Struct, error) {
	utils.ServerLog("gRPC rank request (%d bytes)", len(in.GetValue()))
	outcome, err := s.Node.Rank("grpc", in.GetValue(), graph.FormatPages, DefaultDampener)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "could not rank graph: %v", err)
	}
	return OutcomeToStruct(outcome), nil
}

func (s *RankerServerImpl) HealthCheck(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return &emptypb.Empty{}, nil
}

// RecoverInterceptor turns a panicking handler into an Internal error, so a
// single request cannot take the server down
func RecoverInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			utils.WarnLog("Server", "Recovered from panic in %s: %v\n%s", info.FullMethod, r, debug.Stack())
			err = status.Errorf(codes.Internal, "internal error")
		}
	}()
	return handler(ctx, req)
}
