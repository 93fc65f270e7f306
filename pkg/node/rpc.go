package node

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	rankerServiceName = "pagerank.Ranker"
	rankMethod        = "/pagerank.Ranker/Rank"
	healthCheckMethod = "/pagerank.Ranker/HealthCheck"
)

// RankerServer is the server API for the pagerank.Ranker service.
// Messages are protobuf well-known types:
// Rank takes the input file contents and returns the outcome struct
type RankerServer interface {
	Rank(context.Context, *wrapperspb.BytesValue) (*structpb.Struct, error)
	HealthCheck(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
}

func RegisterRankerServer(s grpc.ServiceRegistrar, srv RankerServer) {
	s.RegisterService(&rankerServiceDesc, srv)
}

var rankerServiceDesc = grpc.ServiceDesc{
	ServiceName: rankerServiceName,
	HandlerType: (*RankerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Rank", Handler: rankHandler},
		{MethodName: "HealthCheck", Handler: healthCheckHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pagerank.proto",
}

func rankHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RankerServer).Rank(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: rankMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RankerServer).Rank(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func healthCheckHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RankerServer).HealthCheck(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: healthCheckMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RankerServer).HealthCheck(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// RankerClient is the client API for the pagerank.Ranker service
type RankerClient struct {
	cc grpc.ClientConnInterface
}

func NewRankerClient(cc grpc.ClientConnInterface) *RankerClient {
	return &RankerClient{cc: cc}
}

func (c *RankerClient) Rank(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, rankMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RankerClient) HealthCheck(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, healthCheckMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
