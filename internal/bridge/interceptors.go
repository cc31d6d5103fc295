package bridge

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/BrandonDHaskell/doorlog/internal/logger"
)

const metadataRequestID = "x-request-id"

func loggingInterceptor(base *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		rid := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get(metadataRequestID); len(v) > 0 {
				rid = v[0]
			}
		}
		if rid == "" {
			rid = uuid.NewString()
		}

		l := base.With(zap.String("request_id", rid))
		resp, err := handler(logger.ToContext(ctx, l), req)

		l.Info("rpc",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("dur", time.Since(start)),
		)
		return resp, err
	}
}

func recoveryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.From(ctx).Error("panic in rpc",
				zap.String("method", info.FullMethod),
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()),
			)
			err = status.Error(codes.Internal, "unexpected server error")
		}
	}()
	return handler(ctx, req)
}
