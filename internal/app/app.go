// Package app は設定に従ってエンティティごとのバックエンドを選択し、ユースケースを組み立てます。
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	jwtauth "github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/adapters/auth/jwt"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/adapters/repository/cognito"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/adapters/repository/guarded"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/adapters/repository/memory"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/adapters/repository/postgres"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/auth"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cliente"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/usuario"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/platform/config"
	pgdb "github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/platform/db/postgres"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/platform/logger"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/platform/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// devSecret は dev で SECRET が未設定のときに使う署名鍵です。prod では設定が必須です。
const devSecret = "secret"

// Pool は PostgreSQL バックエンドが必要とする接続プールの操作です。
type Pool interface {
	pgdb.Queryer
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

// App は組み立て済みの依存関係を保持します。
type App struct {
	Usuarios *usuario.Service
	Clientes *cliente.Service

	UsuarioGateway *guarded.UsuarioGateway
	ClienteGateway *guarded.ClienteGateway

	Registry *prometheus.Registry
	Checks   map[string]server.Check

	closers []func()
}

type options struct {
	registry  *prometheus.Registry
	pool      Pool
	directory cognito.DirectoryClient
	clock     Clock
}

// Option は New の任意設定です。
type Option func(*options)

// WithRegistry はメトリクスの登録先を指定します。
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithPool は設定から接続する代わりに既存のプールを使います。
func WithPool(p Pool) Option {
	return func(o *options) { o.pool = p }
}

// WithDirectoryClient は設定から生成する代わりに既存の Cognito クライアントを使います。
func WithDirectoryClient(c cognito.DirectoryClient) Option {
	return func(o *options) { o.directory = c }
}

// WithClock は時刻の取得元を指定します。
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// New は cfg に従って App を組み立てます。失敗した場合は確保済みの資源を解放します。
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, opts ...Option) (_ *App, err error) {
	if log == nil {
		log = zap.NewNop()
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
		o.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	a := &App{Registry: o.registry, Checks: make(map[string]server.Check)}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	metrics, err := guarded.NewMetrics(o.registry)
	if err != nil {
		return nil, fmt.Errorf("app: register metrics: %w", err)
	}

	var (
		pool Pool
		tx   usuario.TransactionManager
	)
	if cfg.UsesPostgres() {
		if pool, err = a.openPool(ctx, cfg, log, o.pool); err != nil {
			return nil, err
		}
		tx = pgdb.NewTransactionManager(pool, pgdb.WithLogger(log))
		a.Checks[config.BackendPostgres] = pool.Ping
	}

	var directory cognito.DirectoryClient
	if cfg.UsesCognito() {
		directory = o.directory
		if directory == nil {
			if directory, err = cognito.NewClient(ctx, cfg.Cognito.Region, cfg.Cognito.Endpoint); err != nil {
				return nil, err
			}
		}
	}

	usuarioGw, err := newUsuarioGateway(ctx, cfg, log, pool, directory, o.clock)
	if err != nil {
		return nil, err
	}
	clienteGw, err := newClienteGateway(cfg, log, pool, directory)
	if err != nil {
		return nil, err
	}

	a.UsuarioGateway = guarded.NewUsuarioGateway(usuarioGw, cfg.Backends.Usuario, metrics)
	a.ClienteGateway = guarded.NewClienteGateway(clienteGw, cfg.Backends.Cliente, metrics)
	a.Checks["usuario"] = gatewayCheck(a.UsuarioGateway.List, cfg.Backends.Usuario)
	a.Checks["cliente"] = gatewayCheck(a.ClienteGateway.List, cfg.Backends.Cliente)

	signer, err := newAuthAdapter(cfg, log, o.clock)
	if err != nil {
		return nil, err
	}

	var usuarioClock usuario.Clock
	var clienteClock cliente.Clock
	if o.clock != nil {
		usuarioClock, clienteClock = o.clock, o.clock
	}
	a.Usuarios = usuario.NewService(a.UsuarioGateway, signer, usuarioClock, tx)
	a.Clientes = cliente.NewService(a.ClienteGateway, clienteClock)

	log.Info("backends ready",
		zap.String("usuario_backend", cfg.Backends.Usuario),
		zap.String("cliente_backend", cfg.Backends.Cliente),
	)
	return a, nil
}

func (a *App) openPool(ctx context.Context, cfg *config.Config, log *zap.Logger, injected Pool) (Pool, error) {
	if injected != nil {
		return injected, nil
	}
	pool, err := pgdb.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	a.closers = append(a.closers, pool.Close)
	return pool, nil
}

func newUsuarioGateway(ctx context.Context, cfg *config.Config, log *zap.Logger, pool Pool, directory cognito.DirectoryClient, clock Clock) (usuario.Gateway, error) {
	log = log.With(logger.Entity("usuario"), logger.Backend(cfg.Backends.Usuario))

	switch cfg.Backends.Usuario {
	case config.BackendMemory:
		return memory.NewUsuarioRepository(), nil
	case config.BackendPostgres:
		repo, err := postgres.NewUsuarioRepository(pool, postgres.UsuarioTable(), log)
		if err != nil {
			return nil, fmt.Errorf("app: usuario table: %w", err)
		}
		return repo, nil
	case config.BackendCognito:
		var c usuario.Clock
		if clock != nil {
			c = clock
		}
		repo, err := cognito.NewUsuarioRepository(ctx, directory, cfg.Cognito.UserPoolIDUsuario, log, c)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("app: unknown usuario backend %q", cfg.Backends.Usuario)
	}
}

func newClienteGateway(cfg *config.Config, log *zap.Logger, pool Pool, directory cognito.DirectoryClient) (cliente.Gateway, error) {
	log = log.With(logger.Entity("cliente"), logger.Backend(cfg.Backends.Cliente))

	switch cfg.Backends.Cliente {
	case config.BackendMemory:
		return memory.NewClienteRepository(), nil
	case config.BackendPostgres:
		repo, err := postgres.NewClienteRepository(pool, postgres.ClienteTable(), log)
		if err != nil {
			return nil, fmt.Errorf("app: cliente table: %w", err)
		}
		return repo, nil
	case config.BackendCognito:
		return cognito.NewClienteRepository(directory, cfg.Cognito.UserPoolIDCliente, log), nil
	default:
		return nil, fmt.Errorf("app: unknown cliente backend %q", cfg.Backends.Cliente)
	}
}

func newAuthAdapter(cfg *config.Config, log *zap.Logger, clock Clock) (auth.Adapter, error) {
	secret := cfg.Auth.Secret
	if secret == "" {
		log.Warn("SECRET not set, using development signing key")
		secret = devSecret
	}

	jc := jwtauth.Config{Secret: secret, TTL: cfg.Auth.TTL, Issuer: cfg.App.Name}
	if clock != nil {
		jc.Now = clock.Now
	}
	adapter, err := jwtauth.New(jc)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return adapter, nil
}

// gatewayCheck はメモリ以外のバックエンドに対して一覧取得で疎通を確認します。
func gatewayCheck[E any](list func(context.Context) ([]E, error), backend string) server.Check {
	return func(ctx context.Context) error {
		if backend == config.BackendMemory {
			return nil
		}
		_, err := list(ctx)
		return err
	}
}

// Close は確保した資源を解放します。
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
