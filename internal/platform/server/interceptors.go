package server

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/domainerr"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/platform/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const requestIDHeader = "x-request-id"

// UnaryLogging はリクエスト ID 付きのロガーをコンテキストに格納し、呼び出し結果を記録します。
// リクエスト ID はメタデータの x-request-id を優先し、無ければ生成します。
func UnaryLogging(base *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		requestID := requestIDFrom(ctx)
		log := base.With(logger.RequestID(requestID), logger.Method(info.FullMethod))
		ctx = logger.ToContext(ctx, log)

		started := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []zap.Field{logger.Duration(time.Since(started)), zap.String("code", code.String())}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		if code == codes.Internal || code == codes.Unknown {
			log.Error("rpc finished", fields...)
		} else {
			log.Info("rpc finished", fields...)
		}

		_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDHeader, requestID))
		return resp, err
	}
}

func requestIDFrom(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(requestIDHeader); len(v) > 0 && v[0] != "" {
			return v[0]
		}
	}
	return uuid.NewString()
}

// UnaryStatus はハンドラーが返したドメインエラーを gRPC ステータスに変換します。
func UnaryStatus() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		return resp, toStatusError(err)
	}
}

func toStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	kind, ok := domainerr.KindOf(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) {
			return status.Error(codes.DeadlineExceeded, err.Error())
		}
		if errors.Is(err, context.Canceled) {
			return status.Error(codes.Canceled, err.Error())
		}
		return status.Error(codes.Internal, err.Error())
	}

	switch kind {
	case domainerr.KindInvalid, domainerr.KindEmpty, domainerr.KindNonPositive:
		return status.Error(codes.InvalidArgument, err.Error())
	case domainerr.KindAlreadyExists:
		return status.Error(codes.AlreadyExists, err.Error())
	case domainerr.KindNotFound:
		return status.Error(codes.NotFound, err.Error())
	case domainerr.KindUnauthorized:
		return status.Error(codes.Unauthenticated, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
