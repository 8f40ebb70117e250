package cognito

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cpf"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/domainerr"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/usuario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testTimestamp = "2024-02-18 13:45:07.123-0300"

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2024, 2, 18, 16, 45, 7, 0, time.UTC) }

func usuarioRecord(rawCpf, nome string) map[string]string {
	c := cpf.MustParse(rawCpf)
	return map[string]string{
		AttrID:              c.Digits(),
		AttrNome:            nome,
		AttrEmail:           strings.ToLower(nome) + "@ex.com",
		AttrCpf:             rawCpf,
		AttrSenha:           "segredo",
		AttrTipo:            "Cozinha",
		AttrStatus:          "Ativo",
		AttrDataCriacao:     testTimestamp,
		AttrDataAtualizacao: testTimestamp,
	}
}

func newTestUsuarioRepo(t *testing.T, dir *fakeDirectory) *UsuarioRepository {
	t.Helper()

	repo, err := NewUsuarioRepository(context.Background(), dir, "pool-usuario", zap.NewNop(), fixedClock{})
	require.NoError(t, err)
	return repo
}

func TestNewUsuarioRepository_BootstrapsAdminOnce(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()

	newTestUsuarioRepo(t, dir)
	repo := newTestUsuarioRepo(t, dir)

	assert.Equal(t, 1, dir.createCalls)

	admin, err := repo.GetByCpf(context.Background(), cpf.MustParse(cpf.AdminSentinel))
	require.NoError(t, err)
	assert.Equal(t, "Administrador", admin.Nome())
	assert.Equal(t, "admin@fastfood.com.br", admin.Email())
	assert.Equal(t, usuario.TipoAdmin, admin.Tipo())
	assert.Equal(t, usuario.StatusAtivo, admin.Status())
	assert.True(t, admin.ValidateSenha("melhor_projeto"))
	assert.Equal(t, "2024-02-18 16:45:07.000+0000", admin.DataCriacao())

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestNewUsuarioRepository_LookupFailureSkipsCreate(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	dir.listErr = errors.New("connection refused")

	_, err := NewUsuarioRepository(context.Background(), dir, "pool-usuario", nil, fixedClock{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerr.ErrInvalid))
	assert.Equal(t, 0, dir.createCalls)
}

func TestUsuarioRepository_ListSkipsMalformedRecords(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	repo := newTestUsuarioRepo(t, dir)

	dir.put("11111111111", usuarioRecord("111.111.111-11", "Ana"))
	dir.put("22222222222", usuarioRecord("222.222.222-22", "Bruno"))

	badCpf := usuarioRecord("333.333.333-33", "Carla")
	badCpf[AttrCpf] = "33333333333"
	dir.put("33333333333", badCpf)

	badTipo := usuarioRecord("444.444.444-44", "Davi")
	badTipo[AttrTipo] = "Gerente"
	dir.put("44444444444", badTipo)

	badID := usuarioRecord("555.555.555-55", "Eva")
	badID[AttrID] = "cinco"
	dir.put("55555555555", badID)

	core, logs := observer.New(zapcore.WarnLevel)
	repo.dir.log = zap.New(core)

	all, err := repo.List(context.Background())
	require.NoError(t, err)

	// admin + Ana + Bruno
	assert.Len(t, all, 3)
	assert.Equal(t, 3, logs.FilterMessage("skipping malformed user").Len())
}

func TestUsuarioRepository_ListFollowsPagination(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	dir.pageSize = 2
	repo := newTestUsuarioRepo(t, dir)

	for i := 1; i <= 6; i++ {
		raw := fmt.Sprintf("%d%d%d.000.000-00", i, i, i)
		dir.put(cpf.MustParse(raw).Digits(), usuarioRecord(raw, fmt.Sprintf("Pessoa%d", i)))
	}
	dir.listCalls = 0

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 7)
	assert.Equal(t, 4, dir.listCalls)

	found, err := repo.GetByID(context.Background(), 66600000000)
	require.NoError(t, err)
	assert.Equal(t, "Pessoa6", found.Nome())
}

func TestUsuarioRepository_Create(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	repo := newTestUsuarioRepo(t, dir)

	u, err := usuario.New(usuario.Attributes{
		Nome:            "Fulano",
		Email:           "fulano@ex.com",
		Cpf:             cpf.MustParse("123.456.789-09"),
		Senha:           "segredo",
		Tipo:            usuario.TipoCozinha,
		Status:          usuario.StatusAtivo,
		DataCriacao:     testTimestamp,
		DataAtualizacao: testTimestamp,
	})
	require.NoError(t, err)

	created, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, int64(12345678909), created.ID())

	require.NotNil(t, dir.lastCreate)
	assert.Equal(t, "12345678909", aws.ToString(dir.lastCreate.Username))
	assert.Equal(t, "12345678909", aws.ToString(dir.lastCreate.TemporaryPassword))
	assert.Len(t, dir.lastCreate.UserAttributes, 9)

	found, err := repo.GetByCpf(context.Background(), u.Cpf())
	require.NoError(t, err)
	assert.Equal(t, created.ID(), found.ID())
	assert.Equal(t, "Fulano", found.Nome())

	_, err = repo.Create(context.Background(), u)
	assert.True(t, errors.Is(err, domainerr.ErrAlreadyExists), "got %v", err)
}

func TestUsuarioRepository_CreateSkipsOversizedAttribute(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	repo := newTestUsuarioRepo(t, dir)

	core, logs := observer.New(zapcore.WarnLevel)
	repo.dir.log = zap.New(core)

	u, err := usuario.New(usuario.Attributes{
		Nome:            strings.Repeat("n", maxAttributeValueLength+1),
		Email:           "fulano@ex.com",
		Cpf:             cpf.MustParse("123.456.789-09"),
		Senha:           "segredo",
		Tipo:            usuario.TipoCozinha,
		Status:          usuario.StatusAtivo,
		DataCriacao:     testTimestamp,
		DataAtualizacao: testTimestamp,
	})
	require.NoError(t, err)

	_, err = repo.Create(context.Background(), u)
	require.NoError(t, err)

	assert.Len(t, dir.lastCreate.UserAttributes, 8)
	assert.Equal(t, 1, logs.FilterMessage("skipping attribute").Len())
}

func TestUsuarioRepository_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	repo := newTestUsuarioRepo(t, dir)
	ctx := context.Background()

	dir.put("11111111111", usuarioRecord("111.111.111-11", "Ana"))

	existing, err := repo.GetByCpf(ctx, cpf.MustParse("111.111.111-11"))
	require.NoError(t, err)
	require.NoError(t, existing.SetStatus(usuario.StatusInativo))

	updated, err := repo.Update(ctx, existing)
	require.NoError(t, err)
	assert.Equal(t, usuario.StatusInativo, updated.Status())

	reloaded, err := repo.GetByCpf(ctx, existing.Cpf())
	require.NoError(t, err)
	assert.Equal(t, usuario.StatusInativo, reloaded.Status())

	require.NoError(t, repo.Delete(ctx, existing.Cpf()))
	assert.True(t, errors.Is(repo.Delete(ctx, existing.Cpf()), domainerr.ErrNotFound))

	_, err = repo.Update(ctx, existing)
	assert.True(t, errors.Is(err, domainerr.ErrNotFound))

	_, err = repo.GetByCpf(ctx, existing.Cpf())
	assert.True(t, errors.Is(err, domainerr.ErrNotFound))
	_, err = repo.GetByID(ctx, 42)
	assert.True(t, errors.Is(err, domainerr.ErrNotFound))
}
