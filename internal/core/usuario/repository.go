package usuario

import (
	"context"

	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cpf"
)

// Gateway は Usuario の永続化を行うインターフェースです。
// 実装はメモリ・PostgreSQL・Cognito の 3 種類があり、返却するエラーは domainerr のみです。
type Gateway interface {
	List(ctx context.Context) ([]*Usuario, error)
	GetByID(ctx context.Context, id int64) (*Usuario, error)
	GetByCpf(ctx context.Context, c cpf.Cpf) (*Usuario, error)
	Create(ctx context.Context, u *Usuario) (*Usuario, error)
	Update(ctx context.Context, u *Usuario) (*Usuario, error)
	Delete(ctx context.Context, c cpf.Cpf) error
}
