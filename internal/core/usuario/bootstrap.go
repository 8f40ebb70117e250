package usuario

import (
	"context"
	"fmt"

	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cpf"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/domainerr"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/timestamp"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/platform/logger"
	"go.uber.org/zap"
)

const (
	defaultAdminNome  = "Administrador"
	defaultAdminEmail = "admin@fastfood.com.br"
	defaultAdminSenha = "melhor_projeto"
)

// EnsureDefaultAdmin は CPF が AdminSentinel のアカウントが存在しなければ作成します。
// 起動のたびに呼び出しても重複は作りません。分岐条件は GetByCpf の NotFound のみで、
// それ以外のエラーでは作成を行わずにエラーを返します。
//
// 参照と作成の間は保護されないため、複数プロセスが同時に起動した場合の重複防止は
// ストア側の一意制約 (ユーザー名の重複拒否) に依存します。
func EnsureDefaultAdmin(ctx context.Context, gw Gateway, clock Clock, log *zap.Logger) (*Usuario, bool, error) {
	if clock == nil {
		clock = realClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	sentinel := cpf.MustParse(cpf.AdminSentinel)

	existing, err := gw.GetByCpf(ctx, sentinel)
	if err == nil {
		log.Info("default admin found", zap.Int64("id", existing.ID()), logger.Cpf(sentinel.String()))
		return existing, false, nil
	}
	if !domainerr.IsNotFound(err) {
		return nil, false, fmt.Errorf("bootstrap: lookup admin: %w", err)
	}

	log.Info("default admin not found, creating", logger.Cpf(sentinel.String()))

	now := timestamp.Format(clock.Now())
	admin, err := New(Attributes{
		Nome:            defaultAdminNome,
		Email:           defaultAdminEmail,
		Cpf:             sentinel,
		Senha:           defaultAdminSenha,
		Tipo:            TipoAdmin,
		Status:          StatusAtivo,
		DataCriacao:     now,
		DataAtualizacao: now,
	})
	if err != nil {
		return nil, false, fmt.Errorf("bootstrap: build admin: %w", err)
	}

	created, err := gw.Create(ctx, admin)
	if err != nil {
		if domainerr.IsAlreadyExists(err) {
			// 参照で見つからないのに作成で重複となるのは、読み取れない管理者レコードが残っている場合です。
			log.Error("default admin exists but could not be read", logger.Cpf(sentinel.String()), zap.Error(err))
		}
		return nil, false, fmt.Errorf("bootstrap: create admin: %w", err)
	}

	log.Info("default admin created", zap.Int64("id", created.ID()), logger.Cpf(sentinel.String()))
	return created, true, nil
}
