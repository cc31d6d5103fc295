package bridge

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/BrandonDHaskell/doorlog/internal/doorlog/service"
	"github.com/BrandonDHaskell/doorlog/internal/logger"
)

type Dependencies struct {
	Logger           *zap.Logger
	AccessLogService *service.AccessLogService
	DoorService      *service.DoorService
}

// Server implements DoorBridgeServer on top of the same services the HTTP
// API uses, so both transports observe one log and one door.
type Server struct {
	accessLog *service.AccessLogService
	door      *service.DoorService
}

var _ DoorBridgeServer = (*Server)(nil)

func NewServer(d Dependencies) *Server {
	return &Server{accessLog: d.AccessLogService, door: d.DoorService}
}

// NewGRPCServer returns a grpc.Server with the bridge and the standard
// health service registered.
func NewGRPCServer(d Dependencies) *grpc.Server {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	gs := grpc.NewServer(grpc.ChainUnaryInterceptor(
		loggingInterceptor(d.Logger),
		recoveryInterceptor,
	))
	RegisterDoorBridgeServer(gs, NewServer(d))

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)

	return gs
}

func (s *Server) GetState(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	st, err := s.door.State(ctx)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return encoded(doorStatusToStruct(st))
}

func (s *Server) Open(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	res, err := s.door.Open(ctx)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return encoded(doorResultToStruct(res))
}

func (s *Server) Close(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	res, err := s.door.Close(ctx)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return encoded(doorResultToStruct(res))
}

func (s *Server) ListEvents(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	evs, err := s.accessLog.List(ctx)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return encoded(eventsToList(evs))
}

func (s *Server) RecordEvent(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ev, err := s.accessLog.Append(ctx, inputFromStruct(in))
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return encoded(eventToStruct(ev))
}

func (s *Server) RecordEvents(ctx context.Context, in *structpb.ListValue) (*structpb.ListValue, error) {
	ins, err := inputsFromList(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	res, err := s.accessLog.AppendBatch(ctx, ins)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return encoded(eventsToList(res.Events))
}

func encoded[T any](msg T, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, status.Error(codes.Internal, "encode response")
	}
	return msg, nil
}

func toStatus(ctx context.Context, err error) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return status.Error(codes.InvalidArgument, verr.Error())
	}
	logger.From(ctx).Error("bridge call failed", zap.Error(err))
	return status.Error(codes.Internal, "unexpected server error")
}
