package cognito

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/platform/logger"
	"go.uber.org/zap"
)

// directory は 1 つのユーザープールに対する操作をまとめます。
type directory struct {
	client DirectoryClient
	poolID string
	entity string
	log    *zap.Logger
}

func newDirectory(client DirectoryClient, poolID, entity string, log *zap.Logger) directory {
	if log == nil {
		log = zap.NewNop()
	}
	return directory{client: client, poolID: poolID, entity: entity, log: log.With(zap.String("user_pool", poolID))}
}

// listUsers は PaginationToken をたどって全ユーザーを取得します。
func (d directory) listUsers(ctx context.Context) ([]types.UserType, error) {
	p := cip.NewListUsersPaginator(d.client, &cip.ListUsersInput{UserPoolId: aws.String(d.poolID)})

	var users []types.UserType
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, d.translate("list", err)
		}
		users = append(users, page.Users...)
	}
	return users, nil
}

func (d directory) createUser(ctx context.Context, username string, attrs []types.AttributeType) error {
	_, err := d.client.AdminCreateUser(ctx, &cip.AdminCreateUserInput{
		UserPoolId:        aws.String(d.poolID),
		Username:          aws.String(username),
		TemporaryPassword: aws.String(username),
		UserAttributes:    attrs,
	})
	if err != nil {
		return d.translate("create", err)
	}
	return nil
}

func (d directory) updateUser(ctx context.Context, username string, attrs []types.AttributeType) error {
	_, err := d.client.AdminUpdateUserAttributes(ctx, &cip.AdminUpdateUserAttributesInput{
		UserPoolId:     aws.String(d.poolID),
		Username:       aws.String(username),
		UserAttributes: attrs,
	})
	if err != nil {
		return d.translate("update", err)
	}
	return nil
}

func (d directory) deleteUser(ctx context.Context, username string) error {
	_, err := d.client.AdminDeleteUser(ctx, &cip.AdminDeleteUserInput{
		UserPoolId: aws.String(d.poolID),
		Username:   aws.String(username),
	})
	if err != nil {
		return d.translate("delete", err)
	}
	return nil
}

func (d directory) translate(op string, err error) error {
	return translateDirectoryError(d.log, d.entity, op, err)
}

// decodeUsers は 1 件ずつ変換し、変換できないユーザーは警告を出して除外します。
func decodeUsers[E any](d directory, users []types.UserType, decode func(attributeSet) (E, error)) []E {
	out := make([]E, 0, len(users))
	for _, u := range users {
		e, err := decode(readAttributes(u.Attributes))
		if err != nil {
			// ユーザー名は CPF の数字列なので伏せ字で出力します。
			d.log.Warn("skipping malformed user",
				logger.Cpf(aws.ToString(u.Username)),
				zap.Error(err),
			)
			continue
		}
		out = append(out, e)
	}
	return out
}
