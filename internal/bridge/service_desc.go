package bridge

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name of the door bridge.
const ServiceName = "doorlog.bridge.v1.DoorBridge"

// DoorBridgeServer is the server API for the door bridge.  Messages are
// protobuf well-known types, so no generated code is needed on either side.
type DoorBridgeServer interface {
	GetState(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Open(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Close(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListEvents(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	RecordEvent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordEvents(context.Context, *structpb.ListValue) (*structpb.ListValue, error)
}

func RegisterDoorBridgeServer(s grpc.ServiceRegistrar, srv DoorBridgeServer) {
	s.RegisterService(&serviceDesc, srv)
}

func method(name string) string { return "/" + ServiceName + "/" + name }

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DoorBridgeServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetState", Handler: emptyToStruct("GetState", DoorBridgeServer.GetState)},
		{MethodName: "Open", Handler: emptyToStruct("Open", DoorBridgeServer.Open)},
		{MethodName: "Close", Handler: emptyToStruct("Close", DoorBridgeServer.Close)},
		{MethodName: "ListEvents", Handler: listEventsHandler},
		{MethodName: "RecordEvent", Handler: recordEventHandler},
		{MethodName: "RecordEvents", Handler: recordEventsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "doorlog/bridge/v1/bridge.proto",
}

type methodHandler = func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error)

func emptyToStruct(name string, call func(DoorBridgeServer, context.Context, *emptypb.Empty) (*structpb.Struct, error)) methodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DoorBridgeServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method(name)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DoorBridgeServer), ctx, req.(*emptypb.Empty))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func listEventsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DoorBridgeServer).ListEvents(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method("ListEvents")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DoorBridgeServer).ListEvents(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func recordEventHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DoorBridgeServer).RecordEvent(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method("RecordEvent")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DoorBridgeServer).RecordEvent(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func recordEventsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.ListValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DoorBridgeServer).RecordEvents(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method("RecordEvents")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DoorBridgeServer).RecordEvents(ctx, req.(*structpb.ListValue))
	}
	return interceptor(ctx, in, info, handler)
}
