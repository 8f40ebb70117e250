package memory

import (
	"context"
	"sync"

	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cpf"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/domainerr"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/usuario"
)

// UsuarioRepository はテスト用のメモリ実装です。
// 全操作を 1 つのロックで直列化し、ID は 1 から単調増加で採番して再利用しません。
type UsuarioRepository struct {
	mu       sync.Mutex
	usuarios []*usuario.Usuario
	lastID   int64
}

// NewUsuarioRepository は空の UsuarioRepository を生成します。
func NewUsuarioRepository() *UsuarioRepository {
	return &UsuarioRepository{}
}

// List は作成順に全件を返します。
func (r *UsuarioRepository) List(_ context.Context) ([]*usuario.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*usuario.Usuario, 0, len(r.usuarios))
	for _, u := range r.usuarios {
		out = append(out, u.Clone())
	}
	return out, nil
}

// GetByID は ID で取得します。
func (r *UsuarioRepository) GetByID(_ context.Context, id int64) (*usuario.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.usuarios {
		if u.ID() == id {
			return u.Clone(), nil
		}
	}
	return nil, domainerr.ErrNotFound
}

// GetByCpf は CPF で取得します。
func (r *UsuarioRepository) GetByCpf(_ context.Context, c cpf.Cpf) (*usuario.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexByCpf(c); i >= 0 {
		return r.usuarios[i].Clone(), nil
	}
	return nil, domainerr.ErrNotFound
}

// Create は CPF が未登録であれば新しい ID を採番して保存します。
func (r *UsuarioRepository) Create(_ context.Context, u *usuario.Usuario) (*usuario.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexByCpf(u.Cpf()) >= 0 {
		return nil, domainerr.ErrAlreadyExists
	}

	r.lastID++
	stored := u.WithID(r.lastID)
	r.usuarios = append(r.usuarios, stored)
	return stored.Clone(), nil
}

// Update は ID が一致するレコードを置き換えます。
func (r *UsuarioRepository) Update(_ context.Context, u *usuario.Usuario) (*usuario.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.usuarios {
		if existing.ID() != u.ID() {
			continue
		}
		if j := r.indexByCpf(u.Cpf()); j >= 0 && j != i {
			return nil, domainerr.ErrAlreadyExists
		}
		r.usuarios[i] = u.Clone()
		return u.Clone(), nil
	}
	return nil, domainerr.ErrNotFound
}

// Delete は CPF で削除します。
func (r *UsuarioRepository) Delete(_ context.Context, c cpf.Cpf) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByCpf(c)
	if i < 0 {
		return domainerr.ErrNotFound
	}
	r.usuarios = append(r.usuarios[:i], r.usuarios[i+1:]...)
	return nil
}

func (r *UsuarioRepository) indexByCpf(c cpf.Cpf) int {
	for i, u := range r.usuarios {
		if u.Cpf() == c {
			return i
		}
	}
	return -1
}
