package memory

import (
	"context"
	"sync"

	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cliente"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cpf"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/domainerr"
)

// ClienteRepository はテスト用のメモリ実装です。
type ClienteRepository struct {
	mu       sync.Mutex
	clientes []*cliente.Cliente
	lastID   int64
}

// NewClienteRepository は空の ClienteRepository を生成します。
func NewClienteRepository() *ClienteRepository {
	return &ClienteRepository{}
}

// List は作成順に全件を返します。
func (r *ClienteRepository) List(_ context.Context) ([]*cliente.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*cliente.Cliente, 0, len(r.clientes))
	for _, c := range r.clientes {
		out = append(out, c.Clone())
	}
	return out, nil
}

// GetByID は ID で取得します。
func (r *ClienteRepository) GetByID(_ context.Context, id int64) (*cliente.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.clientes {
		if c.ID() == id {
			return c.Clone(), nil
		}
	}
	return nil, domainerr.ErrNotFound
}

// GetByCpf は CPF で取得します。
func (r *ClienteRepository) GetByCpf(_ context.Context, c cpf.Cpf) (*cliente.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexByCpf(c); i >= 0 {
		return r.clientes[i].Clone(), nil
	}
	return nil, domainerr.ErrNotFound
}

// Create は CPF が未登録であれば新しい ID を採番して保存します。
func (r *ClienteRepository) Create(_ context.Context, c *cliente.Cliente) (*cliente.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexByCpf(c.Cpf()) >= 0 {
		return nil, domainerr.ErrAlreadyExists
	}

	r.lastID++
	stored := c.WithID(r.lastID)
	r.clientes = append(r.clientes, stored)
	return stored.Clone(), nil
}

// Delete は CPF で削除します。
func (r *ClienteRepository) Delete(_ context.Context, c cpf.Cpf) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByCpf(c)
	if i < 0 {
		return domainerr.ErrNotFound
	}
	r.clientes = append(r.clientes[:i], r.clientes[i+1:]...)
	return nil
}

func (r *ClienteRepository) indexByCpf(c cpf.Cpf) int {
	for i, cl := range r.clientes {
		if cl.Cpf() == c {
			return i
		}
	}
	return -1
}
