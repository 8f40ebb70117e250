package cliente

import (
	"context"

	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cpf"
)

// Gateway は Cliente の永続化を行うインターフェースです。
// Cliente には更新操作がありません。
type Gateway interface {
	List(ctx context.Context) ([]*Cliente, error)
	GetByID(ctx context.Context, id int64) (*Cliente, error)
	GetByCpf(ctx context.Context, c cpf.Cpf) (*Cliente, error)
	Create(ctx context.Context, c *Cliente) (*Cliente, error)
	Delete(ctx context.Context, c cpf.Cpf) error
}
