package cognito

import (
	"context"
	"fmt"

	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cpf"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/domainerr"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/usuario"
	"go.uber.org/zap"
)

// UsuarioRepository は Cognito ユーザープールを使った usuario.Gateway です。
// 検索は全件取得後の線形走査です。
type UsuarioRepository struct {
	dir directory
}

// NewUsuarioRepository は UsuarioRepository を生成し、既定の管理者アカウントを用意します。
func NewUsuarioRepository(ctx context.Context, client DirectoryClient, poolID string, log *zap.Logger, clock usuario.Clock) (*UsuarioRepository, error) {
	r := &UsuarioRepository{dir: newDirectory(client, poolID, "Usuario", log)}

	if _, _, err := usuario.EnsureDefaultAdmin(ctx, r, clock, r.dir.log); err != nil {
		return nil, fmt.Errorf("cognito: %w", err)
	}
	return r, nil
}

func usuarioAttributes(u *usuario.Usuario) []attributeSpec {
	return []attributeSpec{
		{AttrID, u.Cpf().Digits()},
		{AttrNome, u.Nome()},
		{AttrEmail, u.Email()},
		{AttrCpf, u.Cpf().String()},
		{AttrSenha, u.Senha()},
		{AttrTipo, string(u.Tipo())},
		{AttrStatus, string(u.Status())},
		{AttrDataCriacao, u.DataCriacao()},
		{AttrDataAtualizacao, u.DataAtualizacao()},
	}
}

func decodeUsuario(attrs attributeSet) (*usuario.Usuario, error) {
	c, err := attrs.cpf()
	if err != nil {
		return nil, err
	}
	id, err := attrs.id()
	if err != nil {
		return nil, err
	}
	tipo, err := usuario.ParseTipo(attrs[AttrTipo])
	if err != nil {
		return nil, err
	}
	status, err := usuario.ParseStatus(attrs[AttrStatus])
	if err != nil {
		return nil, err
	}
	return usuario.New(usuario.Attributes{
		ID:              id,
		Nome:            attrs[AttrNome],
		Email:           attrs[AttrEmail],
		Cpf:             c,
		Senha:           attrs[AttrSenha],
		Tipo:            tipo,
		Status:          status,
		DataCriacao:     attrs[AttrDataCriacao],
		DataAtualizacao: attrs[AttrDataAtualizacao],
	})
}

// List はユーザープールの全 Usuario を返します。不正なユーザーは除外されます。
func (r *UsuarioRepository) List(ctx context.Context) ([]*usuario.Usuario, error) {
	users, err := r.dir.listUsers(ctx)
	if err != nil {
		return nil, err
	}
	return decodeUsers(r.dir, users, decodeUsuario), nil
}

func (r *UsuarioRepository) GetByID(ctx context.Context, id int64) (*usuario.Usuario, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range all {
		if u.ID() == id {
			return u, nil
		}
	}
	return nil, domainerr.ErrNotFound
}

func (r *UsuarioRepository) GetByCpf(ctx context.Context, c cpf.Cpf) (*usuario.Usuario, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range all {
		if u.Cpf() == c {
			return u, nil
		}
	}
	return nil, domainerr.ErrNotFound
}

// Create はユーザーを作成し、CPF から導いた ID を設定して返します。
func (r *UsuarioRepository) Create(ctx context.Context, u *usuario.Usuario) (*usuario.Usuario, error) {
	attrs := buildAttributes(r.dir.log, usuarioAttributes(u))
	if err := r.dir.createUser(ctx, usernameFor(u.Cpf()), attrs); err != nil {
		return nil, err
	}
	return u.WithID(idFromCpf(u.Cpf())), nil
}

// Update は CPF で特定したユーザーの属性を全て書き換えます。
func (r *UsuarioRepository) Update(ctx context.Context, u *usuario.Usuario) (*usuario.Usuario, error) {
	attrs := buildAttributes(r.dir.log, usuarioAttributes(u))
	if err := r.dir.updateUser(ctx, usernameFor(u.Cpf()), attrs); err != nil {
		return nil, err
	}
	return u.WithID(idFromCpf(u.Cpf())), nil
}

func (r *UsuarioRepository) Delete(ctx context.Context, c cpf.Cpf) error {
	return r.dir.deleteUser(ctx, usernameFor(c))
}
