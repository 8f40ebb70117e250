package app

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	jwtauth "github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/adapters/auth/jwt"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cliente"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/domainerr"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/usuario"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/platform/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2024, 2, 18, 16, 45, 7, 123e6, time.UTC) }

func memoryConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "usuario-cliente", Env: config.EnvTest},
		Backends: config.BackendsConfig{Usuario: config.BackendMemory, Cliente: config.BackendMemory},
		Auth:     config.AuthConfig{Secret: "s3cr3t", TTL: time.Hour},
	}
}

func TestNew_MemoryBackends(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg := prometheus.NewRegistry()

	a, err := New(ctx, memoryConfig(), zaptest.NewLogger(t), WithRegistry(reg), WithClock(fixedClock{}))
	require.NoError(t, err)
	t.Cleanup(a.Close)

	assert.Equal(t, config.BackendMemory, a.UsuarioGateway.Backend())
	assert.Equal(t, config.BackendMemory, a.ClienteGateway.Backend())

	created, err := a.Usuarios.CreateUsuario(ctx, usuario.CreateUsuarioInput{
		Nome:  "Fulano",
		Email: "fulano@ex.com",
		Cpf:   "123.456.789-09",
		Senha: "segredo",
		Tipo:  "Cozinha",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-02-18 16:45:07.123+0000", created.DataCriacao())

	token, err := a.Usuarios.Authenticate(ctx, usuario.AuthenticateInput{Cpf: "123.456.789-09", Senha: "segredo"})
	require.NoError(t, err)

	verifier, err := jwtauth.New(jwtauth.Config{Secret: "s3cr3t", Issuer: "usuario-cliente", Now: fixedClock{}.Now})
	require.NoError(t, err)
	subject, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "123.456.789-09", subject)

	_, err = a.Clientes.CreateCliente(ctx, cliente.CreateClienteInput{Nome: "Joana", Email: "joana@ex.com", Cpf: "123.456.789-09"})
	require.NoError(t, err, "usuario and cliente stores are separate")

	for name, check := range a.Checks {
		assert.NoError(t, check(ctx), name)
	}

	count, err := testutil.GatherAndCount(reg, "gateway_calls_total")
	require.NoError(t, err)
	assert.Positive(t, count)
}

func TestNew_TestEnvUsesDevSigningKeyWhenSecretMissing(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.Auth.Secret = ""

	a, err := New(context.Background(), cfg, nil, WithRegistry(prometheus.NewRegistry()))
	require.NoError(t, err)
	t.Cleanup(a.Close)

	_, err = a.Usuarios.Authenticate(context.Background(), usuario.AuthenticateInput{Cpf: "000.000.000-00", Senha: "melhor_projeto"})
	assert.True(t, errors.Is(err, domainerr.ErrUnauthorized), "memory backends are not bootstrapped, got %v", err)
}

func TestNew_PostgresBackends(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	cfg := memoryConfig()
	cfg.App.Env = config.EnvDev
	cfg.Backends.Cliente = config.BackendPostgres

	a, err := New(context.Background(), cfg, zaptest.NewLogger(t), WithRegistry(prometheus.NewRegistry()), WithPool(mock))
	require.NoError(t, err)
	t.Cleanup(a.Close)

	assert.Equal(t, config.BackendPostgres, a.ClienteGateway.Backend())
	require.Contains(t, a.Checks, config.BackendPostgres)

	mock.ExpectPing()
	assert.NoError(t, a.Checks[config.BackendPostgres](context.Background()))

	mock.ExpectQuery(`SELECT .* FROM "cliente"`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "nome", "email", "cpf", "data_criacao", "data_atualizacao"}))

	clientes, err := a.Clientes.ListClientes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, clientes)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNew_RejectsUnknownBackend(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.Backends.Usuario = "dynamo"

	_, err := New(context.Background(), cfg, nil, WithRegistry(prometheus.NewRegistry()))
	assert.Error(t, err)
}
