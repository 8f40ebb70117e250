package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 実行モードです。test はバックエンド設定に関わらずメモリ実装を使います。
const (
	EnvDev  = "dev"
	EnvProd = "prod"
	EnvTest = "test"
)

// バックエンド種別です。
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendCognito  = "cognito"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Cognito  CognitoConfig  `yaml:"cognito"`
	Backends BackendsConfig `yaml:"backends"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

// AppConfig は実行モードなどプロセス全体の設定です。
type AppConfig struct {
	Name string `yaml:"name" env:"APP_NAME"`
	Env  string `yaml:"env" env:"ENV" validate:"oneof=dev prod test"`
}

// ServerConfig は gRPC サーバーと管理用 HTTP に関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" env:"LISTEN_ADDR" validate:"required"`
	AdminAddr  string `yaml:"admin_addr" env:"ADMIN_ADDR"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
// URL が指定された場合は個別項目より優先されます。
type DatabaseConfig struct {
	URL                string        `yaml:"url" env:"DATABASE_URL"`
	Host               string        `yaml:"host" env:"DATABASE_HOST"`
	Port               int           `yaml:"port" env:"DATABASE_PORT"`
	User               string        `yaml:"user" env:"DATABASE_USER"`
	Password           string        `yaml:"password" env:"DATABASE_PASSWORD"`
	Name               string        `yaml:"name" env:"DATABASE_NAME"`
	SSLMode            string        `yaml:"ssl_mode" env:"DATABASE_SSL_MODE"`
	MaxOpenConns       int           `yaml:"max_open_conns" validate:"gte=0"`
	MaxIdleConns       int           `yaml:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// CognitoConfig は Cognito ユーザープールに関する設定です。
type CognitoConfig struct {
	Region            string `yaml:"region" env:"AWS_REGION"`
	Endpoint          string `yaml:"endpoint" env:"AWS_COGNITO_ENDPOINT"`
	UserPoolIDUsuario string `yaml:"user_pool_id_usuario" env:"AWS_COGNITO_USER_POOL_ID_USUARIO"`
	UserPoolIDCliente string `yaml:"user_pool_id_cliente" env:"AWS_COGNITO_USER_POOL_ID_CLIENTE"`
}

// BackendsConfig はエンティティごとのバックエンド選択です。
type BackendsConfig struct {
	Usuario string `yaml:"usuario" env:"USUARIO_BACKEND" validate:"omitempty,oneof=memory postgres cognito"`
	Cliente string `yaml:"cliente" env:"CLIENTE_BACKEND" validate:"omitempty,oneof=memory postgres cognito"`
}

// AuthConfig は JWT 署名の設定です。
type AuthConfig struct {
	Secret string        `yaml:"secret" env:"SECRET"`
	TTL    time.Duration `yaml:"-"`
	TTLRaw string        `yaml:"ttl" env:"AUTH_TTL"`
}

// LogConfig はロガーの設定です。
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`
}

// Load は YAML、.env、環境変数の順に設定を重ねて読み込みます。
// path が空の場合は YAML を読みません。
func Load(path string, envFiles ...string) (*Config, error) {
	var cfg Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load env file %s: %w", f, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) validateAndNormalize() error {
	if c.App.Name == "" {
		c.App.Name = "usuario-cliente"
	}
	if c.App.Env == "" {
		c.App.Env = EnvDev
	}
	if c.Server.AdminAddr == "" {
		c.Server.AdminAddr = ":9090"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if c.App.Env == EnvTest {
		c.Backends.Usuario = BackendMemory
		c.Backends.Cliente = BackendMemory
	}
	if c.Backends.Usuario == "" {
		c.Backends.Usuario = BackendMemory
	}
	if c.Backends.Cliente == "" {
		c.Backends.Cliente = BackendMemory
	}

	if c.Backends.uses(BackendPostgres) {
		if err := c.Database.validateAndNormalize(); err != nil {
			return err
		}
	}

	if c.Backends.Usuario == BackendCognito && c.Cognito.UserPoolIDUsuario == "" {
		return fmt.Errorf("config: cognito.user_pool_id_usuario must be set")
	}
	if c.Backends.Cliente == BackendCognito && c.Cognito.UserPoolIDCliente == "" {
		return fmt.Errorf("config: cognito.user_pool_id_cliente must be set")
	}

	if c.Auth.Secret == "" && c.App.Env == EnvProd {
		return fmt.Errorf("config: auth.secret must be set in prod")
	}
	ttl, err := parseDurationAllowEmpty(c.Auth.TTLRaw)
	if err != nil {
		return fmt.Errorf("config: auth.ttl: %w", err)
	}
	if ttl == 0 {
		ttl = time.Hour
	}
	c.Auth.TTL = ttl

	return nil
}

func (b BackendsConfig) uses(kind string) bool {
	return b.Usuario == kind || b.Cliente == kind
}

// UsesPostgres は PostgreSQL 接続が必要かどうかを返します。
func (c *Config) UsesPostgres() bool {
	return c.Backends.uses(BackendPostgres)
}

// UsesCognito は Cognito クライアントが必要かどうかを返します。
func (c *Config) UsesCognito() bool {
	return c.Backends.uses(BackendCognito)
}

func (d *DatabaseConfig) validateAndNormalize() error {
	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	if d.URL != "" {
		if _, err := url.Parse(d.URL); err != nil {
			return fmt.Errorf("config: database.url: %w", err)
		}
		return nil
	}

	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}

// DSN は pgx 用の接続文字列を返します。資格情報は URL エスケープされます。
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}
