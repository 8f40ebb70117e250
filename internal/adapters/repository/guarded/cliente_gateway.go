package guarded

import (
	"context"

	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cliente"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cpf"
)

// ClienteGateway は cliente.Gateway を直列化して公開します。
type ClienteGateway struct {
	g     guard
	inner cliente.Gateway
}

var _ cliente.Gateway = (*ClienteGateway)(nil)

// NewClienteGateway は inner をラップします。
func NewClienteGateway(inner cliente.Gateway, backend string, metrics *Metrics) *ClienteGateway {
	return &ClienteGateway{
		g:     guard{backend: backend, entity: "cliente", metrics: metrics},
		inner: inner,
	}
}

func (c *ClienteGateway) Backend() string { return c.g.backend }

func (c *ClienteGateway) List(ctx context.Context) ([]*cliente.Cliente, error) {
	var out []*cliente.Cliente
	err := c.g.run("list", func() (err error) {
		out, err = c.inner.List(ctx)
		return err
	})
	return out, err
}

func (c *ClienteGateway) GetByID(ctx context.Context, id int64) (*cliente.Cliente, error) {
	var out *cliente.Cliente
	err := c.g.run("get_by_id", func() (err error) {
		out, err = c.inner.GetByID(ctx, id)
		return err
	})
	return out, err
}

func (c *ClienteGateway) GetByCpf(ctx context.Context, doc cpf.Cpf) (*cliente.Cliente, error) {
	var out *cliente.Cliente
	err := c.g.run("get_by_cpf", func() (err error) {
		out, err = c.inner.GetByCpf(ctx, doc)
		return err
	})
	return out, err
}

func (c *ClienteGateway) Create(ctx context.Context, in *cliente.Cliente) (*cliente.Cliente, error) {
	var out *cliente.Cliente
	err := c.g.run("create", func() (err error) {
		out, err = c.inner.Create(ctx, in)
		return err
	})
	return out, err
}

func (c *ClienteGateway) Delete(ctx context.Context, doc cpf.Cpf) error {
	return c.g.run("delete", func() error {
		return c.inner.Delete(ctx, doc)
	})
}
