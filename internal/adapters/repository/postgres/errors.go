package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/domainerr"
	"go.uber.org/zap"
)

const uniqueViolationCode = "23505"

// translatePgError はドライバのエラーを domainerr に変換します。
// 既にドメインエラーであればそのまま返します。
func translatePgError(log *zap.Logger, table TableName, op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := domainerr.KindOf(err); ok {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domainerr.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return domainerr.ErrAlreadyExists
	}

	log.Error("postgres operation failed",
		zap.String("table", string(table)),
		zap.String("operation", op),
		zap.Error(err),
	)
	return domainerr.Invalidf("%s %s: %v", table, op, err)
}
