package guarded

import (
	"context"

	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cpf"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/usuario"
)

// UsuarioGateway は usuario.Gateway を直列化して公開します。
type UsuarioGateway struct {
	g     guard
	inner usuario.Gateway
}

var _ usuario.Gateway = (*UsuarioGateway)(nil)

// NewUsuarioGateway は inner をラップします。metrics は nil でも構いません。
func NewUsuarioGateway(inner usuario.Gateway, backend string, metrics *Metrics) *UsuarioGateway {
	return &UsuarioGateway{
		g:     guard{backend: backend, entity: "usuario", metrics: metrics},
		inner: inner,
	}
}

// Backend はラップしているバックエンドの種別を返します。
func (u *UsuarioGateway) Backend() string { return u.g.backend }

func (u *UsuarioGateway) List(ctx context.Context) ([]*usuario.Usuario, error) {
	var out []*usuario.Usuario
	err := u.g.run("list", func() (err error) {
		out, err = u.inner.List(ctx)
		return err
	})
	return out, err
}

func (u *UsuarioGateway) GetByID(ctx context.Context, id int64) (*usuario.Usuario, error) {
	var out *usuario.Usuario
	err := u.g.run("get_by_id", func() (err error) {
		out, err = u.inner.GetByID(ctx, id)
		return err
	})
	return out, err
}

func (u *UsuarioGateway) GetByCpf(ctx context.Context, c cpf.Cpf) (*usuario.Usuario, error) {
	var out *usuario.Usuario
	err := u.g.run("get_by_cpf", func() (err error) {
		out, err = u.inner.GetByCpf(ctx, c)
		return err
	})
	return out, err
}

func (u *UsuarioGateway) Create(ctx context.Context, in *usuario.Usuario) (*usuario.Usuario, error) {
	var out *usuario.Usuario
	err := u.g.run("create", func() (err error) {
		out, err = u.inner.Create(ctx, in)
		return err
	})
	return out, err
}

func (u *UsuarioGateway) Update(ctx context.Context, in *usuario.Usuario) (*usuario.Usuario, error) {
	var out *usuario.Usuario
	err := u.g.run("update", func() (err error) {
		out, err = u.inner.Update(ctx, in)
		return err
	})
	return out, err
}

func (u *UsuarioGateway) Delete(ctx context.Context, c cpf.Cpf) error {
	return u.g.run("delete", func() error {
		return u.inner.Delete(ctx, c)
	})
}
