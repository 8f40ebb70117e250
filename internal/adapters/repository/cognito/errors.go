package cognito

import (
	"context"
	"errors"
	"net"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/domainerr"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/platform/logger"
	"go.uber.org/zap"
)

// failureCategory は SDK 呼び出し失敗の分類です。ログにのみ使います。
type failureCategory string

const (
	categoryService  failureCategory = "service"
	categoryTimeout  failureCategory = "timeout"
	categoryDispatch failureCategory = "dispatch"
	categoryResponse failureCategory = "response"
	categoryOther    failureCategory = "other"
)

func classify(err error) failureCategory {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return categoryTimeout
	}

	var sendErr *smithyhttp.RequestSendError
	if errors.As(err, &sendErr) {
		return categoryDispatch
	}

	var deserErr *smithy.DeserializationError
	if errors.As(err, &deserErr) {
		return categoryResponse
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return categoryService
	}

	return categoryOther
}

// translateDirectoryError は SDK のエラーを domainerr に変換します。
// 存在しないユーザーとユーザー名の重複以外は分類をログに残して Invalid(entity) を返します。
func translateDirectoryError(log *zap.Logger, entity, op string, err error) error {
	var notFound *types.UserNotFoundException
	if errors.As(err, &notFound) {
		return domainerr.ErrNotFound
	}

	var exists *types.UsernameExistsException
	if errors.As(err, &exists) {
		return domainerr.ErrAlreadyExists
	}

	fields := []zap.Field{
		logger.Entity(entity),
		logger.Operation(op),
		zap.String("category", string(classify(err))),
		zap.Error(err),
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		fields = append(fields, zap.String("error_code", apiErr.ErrorCode()))
	}
	log.Error("cognito request failed", fields...)

	return domainerr.Invalid(entity)
}
