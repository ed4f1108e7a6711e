package mechanism

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "motion.v1.MechanismService"

const (
	// GetStatusFullMethodName is the full method name of GetStatus.
	GetStatusFullMethodName = "/" + ServiceName + "/GetStatus"
	// PressButtonFullMethodName is the full method name of PressButton.
	PressButtonFullMethodName = "/" + ServiceName + "/PressButton"
)

// MechanismServiceServer is the server API of the mechanism service.
type MechanismServiceServer interface {
	GetStatus(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	PressButton(ctx context.Context, req *wrapperspb.UInt32Value) (*emptypb.Empty, error)
}

// MechanismServiceClient is the client API of the mechanism service.
type MechanismServiceClient interface {
	GetStatus(ctx context.Context, req *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	PressButton(ctx context.Context, req *wrapperspb.UInt32Value, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type mechanismServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewMechanismServiceClient returns a client bound to cc.
func NewMechanismServiceClient(cc grpc.ClientConnInterface) MechanismServiceClient {
	return &mechanismServiceClient{cc: cc}
}

func (c *mechanismServiceClient) GetStatus(
	ctx context.Context,
	req *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetStatusFullMethodName, req, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *mechanismServiceClient) PressButton(
	ctx context.Context,
	req *wrapperspb.UInt32Value,
	opts ...grpc.CallOption,
) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, PressButtonFullMethodName, req, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// RegisterMechanismServiceServer registers srv on s.
func RegisterMechanismServiceServer(s grpc.ServiceRegistrar, srv MechanismServiceServer) {
	s.RegisterService(&MechanismServiceDesc, srv)
}

//nolint:revive // Handler signature is fixed by grpc.MethodDesc.
func getStatusHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(MechanismServiceServer).GetStatus(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetStatusFullMethodName,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MechanismServiceServer).GetStatus(ctx, req.(*emptypb.Empty))
	}

	return interceptor(ctx, in, info, handler)
}

//nolint:revive // Handler signature is fixed by grpc.MethodDesc.
func pressButtonHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(wrapperspb.UInt32Value)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(MechanismServiceServer).PressButton(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: PressButtonFullMethodName,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MechanismServiceServer).PressButton(ctx, req.(*wrapperspb.UInt32Value))
	}

	return interceptor(ctx, in, info, handler)
}

// MechanismServiceDesc describes the mechanism service for grpc.Server.
//
//nolint:gochecknoglobals // grpc.ServiceRegistrar takes the descriptor by pointer.
var MechanismServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MechanismServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetStatus",
			Handler:    getStatusHandler,
		},
		{
			MethodName: "PressButton",
			Handler:    pressButtonHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "motion/v1/mechanism.proto",
}
