package mechanism

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	domain "github.com/oshokin/motion-controller/internal/domain/mechanism"
	"github.com/oshokin/motion-controller/internal/logger"
	repository "github.com/oshokin/motion-controller/internal/repository/status"
)

// ActorMetadataKey carries the "user@host" of a PressButton caller.
const ActorMetadataKey = "x-motion-actor"

// StatusSource provides the latest published snapshot.
type StatusSource interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
}

// ButtonSink accepts raw remote codes.
type ButtonSink interface {
	Push(code uint32) bool
}

// Server implements MechanismServiceServer.
type Server struct {
	// status answers GetStatus.
	status StatusSource
	// buttons receives PressButton codes; nil disables the method.
	buttons ButtonSink
}

var _ MechanismServiceServer = (*Server)(nil)

// NewServer wires a status source and an optional button sink into a gRPC handler.
func NewServer(source StatusSource, buttons ButtonSink) *Server {
	return &Server{
		status:  source,
		buttons: buttons,
	}
}

// GetStatus returns the latest controller snapshot.
func (s *Server) GetStatus(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	snapshot, err := s.status.Load(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, status.Error(codes.Unavailable, "controller has not published a status yet")
		}

		logger.Errorf(ctx, "Failed to load status: %v", err)

		return nil, status.Error(codes.Internal, "unable to load status")
	}

	result, err := SnapshotToStruct(snapshot)
	if err != nil {
		logger.Errorf(ctx, "Failed to encode status: %v", err)

		return nil, status.Error(codes.Internal, "unable to encode status")
	}

	return result, nil
}

// PressButton queues a raw remote code as if it had been received over infrared.
func (s *Server) PressButton(ctx context.Context, req *wrapperspb.UInt32Value) (*emptypb.Empty, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "code is required")
	}

	if s.buttons == nil {
		return nil, status.Error(codes.FailedPrecondition, "remote bridge input is disabled")
	}

	if !s.buttons.Push(req.GetValue()) {
		logger.WarnKV(ctx, "Remote queue full, dropping bridged code", "code", hexCode(req.GetValue()))

		return nil, status.Error(codes.ResourceExhausted, "remote queue is full")
	}

	logger.InfoKV(ctx, "Bridged remote code", "code", hexCode(req.GetValue()), "actor", actorFrom(ctx))

	return new(emptypb.Empty), nil
}

// actorFrom returns the caller named in the request metadata, if any.
func actorFrom(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}

	if values := md.Get(ActorMetadataKey); len(values) > 0 {
		return values[0]
	}

	return ""
}
