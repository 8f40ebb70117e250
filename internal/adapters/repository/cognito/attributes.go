package cognito

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cpf"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/platform/logger"
	"go.uber.org/zap"
)

// 属性名はユーザープールのスキーマと一致している必要があります。
const (
	AttrID              = "custom:id"
	AttrNome            = "custom:nome"
	AttrEmail           = "custom:email"
	AttrCpf             = "custom:cpf"
	AttrSenha           = "custom:senha"
	AttrTipo            = "custom:tipo"
	AttrStatus          = "custom:status"
	AttrDataCriacao     = "custom:data_criacao"
	AttrDataAtualizacao = "custom:data_atualizacao"
)

// maxAttributeValueLength は Cognito のカスタム属性値の上限です。
const maxAttributeValueLength = 2048

var knownAttributes = map[string]bool{
	AttrID:              true,
	AttrNome:            true,
	AttrEmail:           true,
	AttrCpf:             true,
	AttrSenha:           true,
	AttrTipo:            true,
	AttrStatus:          true,
	AttrDataCriacao:     true,
	AttrDataAtualizacao: true,
}

type attributeSpec struct {
	name  string
	value string
}

func buildAttribute(spec attributeSpec) (types.AttributeType, error) {
	if !knownAttributes[spec.name] {
		return types.AttributeType{}, fmt.Errorf("unknown attribute %q", spec.name)
	}
	if len(spec.value) > maxAttributeValueLength {
		return types.AttributeType{}, fmt.Errorf("attribute %q exceeds %d bytes", spec.name, maxAttributeValueLength)
	}
	if !utf8.ValidString(spec.value) {
		return types.AttributeType{}, fmt.Errorf("attribute %q is not valid utf-8", spec.name)
	}
	return types.AttributeType{Name: aws.String(spec.name), Value: aws.String(spec.value)}, nil
}

// buildAttributes は組み立てに失敗した属性を警告付きで読み飛ばします。
func buildAttributes(log *zap.Logger, specs []attributeSpec) []types.AttributeType {
	attrs := make([]types.AttributeType, 0, len(specs))
	for _, spec := range specs {
		attr, err := buildAttribute(spec)
		if err != nil {
			log.Warn("skipping attribute", logger.Attribute(spec.name), zap.Error(err))
			continue
		}
		attrs = append(attrs, attr)
	}
	return attrs
}

// attributeSet は名前から値への対応です。未知の属性は保持しません。
type attributeSet map[string]string

func readAttributes(attrs []types.AttributeType) attributeSet {
	set := make(attributeSet, len(attrs))
	for _, a := range attrs {
		name := aws.ToString(a.Name)
		if knownAttributes[name] {
			set[name] = aws.ToString(a.Value)
		}
	}
	return set
}

func (s attributeSet) cpf() (cpf.Cpf, error) {
	return cpf.Parse(s[AttrCpf])
}

func (s attributeSet) id() (int64, error) {
	raw := s[AttrID]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id %q: %w", raw, err)
	}
	return id, nil
}

// idFromCpf は CPF の数字部分を整数として ID に用います。
func idFromCpf(c cpf.Cpf) int64 {
	id, _ := strconv.ParseInt(c.Digits(), 10, 64)
	return id
}

func usernameFor(c cpf.Cpf) string {
	return c.Digits()
}
