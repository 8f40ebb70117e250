package usuario

import (
	"context"
	"errors"
	"time"

	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/auth"
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

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service は Usuario に関するユースケースをまとめます。
type Service struct {
	gateway Gateway
	auth    auth.Adapter
	clock   Clock
	tx      TransactionManager
}

// UseCase は Usuario ユースケースの公開インターフェースです。
type UseCase interface {
	ListUsuarios(ctx context.Context) ([]*Usuario, error)
	GetUsuario(ctx context.Context, id int64) (*Usuario, error)
	GetUsuarioByCpf(ctx context.Context, rawCpf string) (*Usuario, error)
	CreateUsuario(ctx context.Context, in CreateUsuarioInput) (*Usuario, error)
	UpdateUsuario(ctx context.Context, in UpdateUsuarioInput) (*Usuario, error)
	DeleteUsuario(ctx context.Context, rawCpf string) error
	Authenticate(ctx context.Context, in AuthenticateInput) (string, error)
}

// NewService は Service を生成します。authAdapter が nil の場合 Authenticate は Unauthorized を返します。
func NewService(gateway Gateway, authAdapter auth.Adapter, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{gateway: gateway, auth: authAdapter, clock: clock, tx: tx}
}

// CreateUsuarioInput は Usuario 作成時の入力です。
type CreateUsuarioInput struct {
	Nome   string
	Email  string
	Cpf    string
	Senha  string
	Tipo   string
	Status string
}

// UpdateUsuarioInput は Usuario 更新時の入力です。nil のフィールドは変更しません。
type UpdateUsuarioInput struct {
	Cpf    string
	Nome   *string
	Email  *string
	Senha  *string
	Tipo   *string
	Status *string
}

// AuthenticateInput はログイン時の入力です。
type AuthenticateInput struct {
	Cpf   string
	Senha string
}

// ListUsuarios は全ての Usuario を返します。
func (s *Service) ListUsuarios(ctx context.Context) ([]*Usuario, error) {
	var out []*Usuario
	err := s.tx.WithinReadOnly(ctx, func(ctx context.Context) error {
		found, err := s.gateway.List(ctx)
		out = found
		return err
	})
	return out, err
}

// GetUsuario は ID で Usuario を取得します。
func (s *Service) GetUsuario(ctx context.Context, id int64) (*Usuario, error) {
	if id < 0 {
		return nil, domainerr.ErrNonPositive
	}
	return s.gateway.GetByID(ctx, id)
}

// GetUsuarioByCpf は CPF で Usuario を取得します。
func (s *Service) GetUsuarioByCpf(ctx context.Context, rawCpf string) (*Usuario, error) {
	c, err := cpf.Parse(rawCpf)
	if err != nil {
		return nil, err
	}
	return s.gateway.GetByCpf(ctx, c)
}

// CreateUsuario は新しい Usuario を作成します。Status 省略時は Ativo です。
func (s *Service) CreateUsuario(ctx context.Context, in CreateUsuarioInput) (*Usuario, error) {
	c, err := cpf.Parse(in.Cpf)
	if err != nil {
		return nil, err
	}

	tipo, err := ParseTipo(in.Tipo)
	if err != nil {
		return nil, err
	}

	status := StatusAtivo
	if in.Status != "" {
		if status, err = ParseStatus(in.Status); err != nil {
			return nil, err
		}
	}

	now := timestamp.Format(s.clock.Now())
	u, err := New(Attributes{
		Nome:            in.Nome,
		Email:           in.Email,
		Cpf:             c,
		Senha:           in.Senha,
		Tipo:            tipo,
		Status:          status,
		DataCriacao:     now,
		DataAtualizacao: now,
	})
	if err != nil {
		return nil, err
	}

	return s.gateway.Create(ctx, u)
}

// UpdateUsuario は Usuario を読み出し、セッターで変更を適用してから書き戻します。
func (s *Service) UpdateUsuario(ctx context.Context, in UpdateUsuarioInput) (*Usuario, error) {
	c, err := cpf.Parse(in.Cpf)
	if err != nil {
		return nil, err
	}

	var updated *Usuario
	err = s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		existing, err := s.gateway.GetByCpf(ctx, c)
		if err != nil {
			return err
		}

		if err := applyUpdate(existing, in); err != nil {
			return err
		}
		if err := existing.SetDataAtualizacao(timestamp.Format(s.clock.Now())); err != nil {
			return err
		}

		updated, err = s.gateway.Update(ctx, existing)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func applyUpdate(u *Usuario, in UpdateUsuarioInput) error {
	if in.Nome != nil {
		if err := u.SetNome(*in.Nome); err != nil {
			return err
		}
	}
	if in.Email != nil {
		if err := u.SetEmail(*in.Email); err != nil {
			return err
		}
	}
	if in.Senha != nil {
		if err := u.SetSenha(*in.Senha); err != nil {
			return err
		}
	}
	if in.Tipo != nil {
		if err := u.SetTipo(Tipo(*in.Tipo)); err != nil {
			return err
		}
	}
	if in.Status != nil {
		if err := u.SetStatus(Status(*in.Status)); err != nil {
			return err
		}
	}
	return nil
}

// DeleteUsuario は CPF で Usuario を削除します。
func (s *Service) DeleteUsuario(ctx context.Context, rawCpf string) error {
	c, err := cpf.Parse(rawCpf)
	if err != nil {
		return err
	}
	return s.gateway.Delete(ctx, c)
}

// Authenticate は CPF と senha を照合し、署名済みトークンを返します。
func (s *Service) Authenticate(ctx context.Context, in AuthenticateInput) (string, error) {
	if s.auth == nil {
		return "", domainerr.ErrUnauthorized
	}

	c, err := cpf.Parse(in.Cpf)
	if err != nil {
		return "", domainerr.ErrUnauthorized
	}

	u, err := s.gateway.GetByCpf(ctx, c)
	if err != nil {
		if errors.Is(err, domainerr.ErrNotFound) {
			return "", domainerr.ErrUnauthorized
		}
		return "", err
	}

	if u.Status() != StatusAtivo || !u.ValidateSenha(in.Senha) {
		return "", domainerr.ErrUnauthorized
	}

	return s.auth.Sign(u.Cpf().String())
}
