package cognito

import (
	"context"

	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cliente"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cpf"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/domainerr"
	"go.uber.org/zap"
)

// ClienteRepository は Cognito ユーザープールを使った cliente.Gateway です。
type ClienteRepository struct {
	dir directory
}

// NewClienteRepository は ClienteRepository を生成します。
func NewClienteRepository(client DirectoryClient, poolID string, log *zap.Logger) *ClienteRepository {
	return &ClienteRepository{dir: newDirectory(client, poolID, "Cliente", log)}
}

func clienteAttributes(c *cliente.Cliente) []attributeSpec {
	return []attributeSpec{
		{AttrID, c.Cpf().Digits()},
		{AttrNome, c.Nome()},
		{AttrEmail, c.Email()},
		{AttrCpf, c.Cpf().String()},
		{AttrDataCriacao, c.DataCriacao()},
		{AttrDataAtualizacao, c.DataAtualizacao()},
	}
}

func decodeCliente(attrs attributeSet) (*cliente.Cliente, error) {
	c, err := attrs.cpf()
	if err != nil {
		return nil, err
	}
	id, err := attrs.id()
	if err != nil {
		return nil, err
	}
	return cliente.New(cliente.Attributes{
		ID:              id,
		Nome:            attrs[AttrNome],
		Email:           attrs[AttrEmail],
		Cpf:             c,
		DataCriacao:     attrs[AttrDataCriacao],
		DataAtualizacao: attrs[AttrDataAtualizacao],
	})
}

func (r *ClienteRepository) List(ctx context.Context) ([]*cliente.Cliente, error) {
	users, err := r.dir.listUsers(ctx)
	if err != nil {
		return nil, err
	}
	return decodeUsers(r.dir, users, decodeCliente), nil
}

func (r *ClienteRepository) GetByID(ctx context.Context, id int64) (*cliente.Cliente, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if c.ID() == id {
			return c, nil
		}
	}
	return nil, domainerr.ErrNotFound
}

func (r *ClienteRepository) GetByCpf(ctx context.Context, c cpf.Cpf) (*cliente.Cliente, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, found := range all {
		if found.Cpf() == c {
			return found, nil
		}
	}
	return nil, domainerr.ErrNotFound
}

func (r *ClienteRepository) Create(ctx context.Context, c *cliente.Cliente) (*cliente.Cliente, error) {
	attrs := buildAttributes(r.dir.log, clienteAttributes(c))
	if err := r.dir.createUser(ctx, usernameFor(c.Cpf()), attrs); err != nil {
		return nil, err
	}
	return c.WithID(idFromCpf(c.Cpf())), nil
}

func (r *ClienteRepository) Delete(ctx context.Context, c cpf.Cpf) error {
	return r.dir.deleteUser(ctx, usernameFor(c))
}
