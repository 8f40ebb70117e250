// Package server は gRPC サーバー (ヘルスチェックサービス) と管理用 HTTP のライフサイクルを管理します。
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const shutdownTimeout = 10 * time.Second

// Check はバックエンドの準備状況を確認します。nil を返せば利用可能です。
type Check func(ctx context.Context) error

// Options は Server の構成です。
type Options struct {
	ListenAddr string
	AdminAddr  string
	Logger     *zap.Logger
	// Gatherer は /metrics で公開するレジストリです。nil の場合は既定のレジストリを使います。
	Gatherer prometheus.Gatherer
	// Checks はヘルスチェックのサービス名ごとの確認処理です。
	Checks      map[string]Check
	GRPCOptions []grpc.ServerOption
}

// Server は gRPC サーバーと管理用 HTTP サーバーをまとめて扱います。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
	admin      *http.Server
	checks     map[string]Check
	log        *zap.Logger
}

// New はサーバーを構築します。gRPC にはヘルスチェックサービスのみを登録します。
func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	grpcOpts := append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(UnaryLogging(log), UnaryStatus()),
	}, opts.GRPCOptions...)
	srv := grpc.NewServer(grpcOpts...)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	s := &Server{
		listenAddr: opts.ListenAddr,
		grpcServer: srv,
		health:     hs,
		checks:     opts.Checks,
		log:        log,
	}
	if opts.AdminAddr != "" {
		s.admin = &http.Server{
			Addr:              opts.AdminAddr,
			Handler:           NewAdminRouter(gatherer, opts.Checks),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return s
}

// Refresh は全ての Check を実行し、ヘルスチェックサービスの状態を更新します。
// 全体 ("") の状態は全 Check が成功した場合のみ SERVING になります。
func (s *Server) Refresh(ctx context.Context) {
	overall := healthpb.HealthCheckResponse_SERVING
	for name, check := range s.checks {
		status := healthpb.HealthCheckResponse_SERVING
		if err := check(ctx); err != nil {
			s.log.Warn("health check failed", zap.String("service", name), zap.Error(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = healthpb.HealthCheckResponse_NOT_SERVING
		}
		s.health.SetServingStatus(name, status)
	}
	s.health.SetServingStatus("", overall)
}

// Serve は lis で gRPC を提供し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.Refresh(ctx)

	go func() {
		<-ctx.Done()
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
	}()

	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}
	return nil
}

// Run は gRPC と管理用 HTTP を起動し、どちらかが失敗するかコンテキストがキャンセルされるまで待ちます。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
		return s.Serve(ctx, lis)
	})

	if s.admin != nil {
		g.Go(func() error {
			s.log.Info("admin server listening", zap.String("addr", s.admin.Addr))
			if err := s.admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve admin: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return s.admin.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// GracefulStop はサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.grpcServer.GracefulStop()
}
