package cliente

import (
	"context"
	"time"

	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cpf"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/domainerr"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/timestamp"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Service は Cliente に関するユースケースをまとめます。
type Service struct {
	gateway Gateway
	clock   Clock
}

// UseCase は Cliente ユースケースの公開インターフェースです。
type UseCase interface {
	ListClientes(ctx context.Context) ([]*Cliente, error)
	GetCliente(ctx context.Context, id int64) (*Cliente, error)
	GetClienteByCpf(ctx context.Context, rawCpf string) (*Cliente, error)
	CreateCliente(ctx context.Context, in CreateClienteInput) (*Cliente, error)
	DeleteCliente(ctx context.Context, rawCpf string) error
}

// NewService は Service を生成します。
func NewService(gateway Gateway, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{gateway: gateway, clock: clock}
}

// CreateClienteInput は Cliente 作成時の入力です。
type CreateClienteInput struct {
	Nome  string
	Email string
	Cpf   string
}

// ListClientes は全ての Cliente を返します。
func (s *Service) ListClientes(ctx context.Context) ([]*Cliente, error) {
	return s.gateway.List(ctx)
}

// GetCliente は ID で Cliente を取得します。
func (s *Service) GetCliente(ctx context.Context, id int64) (*Cliente, error) {
	if id < 0 {
		return nil, domainerr.ErrNonPositive
	}
	return s.gateway.GetByID(ctx, id)
}

// GetClienteByCpf は CPF で Cliente を取得します。
func (s *Service) GetClienteByCpf(ctx context.Context, rawCpf string) (*Cliente, error) {
	c, err := cpf.Parse(rawCpf)
	if err != nil {
		return nil, err
	}
	return s.gateway.GetByCpf(ctx, c)
}

// CreateCliente は新しい Cliente を作成します。作成日時と更新日時は同じ値になります。
func (s *Service) CreateCliente(ctx context.Context, in CreateClienteInput) (*Cliente, error) {
	c, err := cpf.Parse(in.Cpf)
	if err != nil {
		return nil, err
	}

	now := timestamp.Format(s.clock.Now())
	cl, err := New(Attributes{
		Nome:            in.Nome,
		Email:           in.Email,
		Cpf:             c,
		DataCriacao:     now,
		DataAtualizacao: now,
	})
	if err != nil {
		return nil, err
	}

	return s.gateway.Create(ctx, cl)
}

// DeleteCliente は CPF で Cliente を削除します。
func (s *Service) DeleteCliente(ctx context.Context, rawCpf string) error {
	c, err := cpf.Parse(rawCpf)
	if err != nil {
		return err
	}
	return s.gateway.Delete(ctx, c)
}
