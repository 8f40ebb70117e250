package cliente

import (
	"strings"

	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cpf"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/domainerr"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/timestamp"
)

// Cliente は顧客エンティティです。CPF が外部から意味を持つ自然キーで、ID は内部の代理キーです。
type Cliente struct {
	id              int64
	nome            string
	email           string
	cpf             cpf.Cpf
	dataCriacao     string
	dataAtualizacao string
}

// Attributes は Cliente を構築するための入力です。
type Attributes struct {
	ID              int64
	Nome            string
	Email           string
	Cpf             cpf.Cpf
	DataCriacao     string
	DataAtualizacao string
}

// New は不変条件を検証したうえで Cliente を生成します。
func New(a Attributes) (*Cliente, error) {
	c := &Cliente{
		id:              a.ID,
		nome:            a.Nome,
		email:           a.Email,
		cpf:             a.Cpf,
		dataCriacao:     a.DataCriacao,
		dataAtualizacao: a.DataAtualizacao,
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cliente) validate() error {
	if c.cpf.IsZero() {
		return domainerr.Invalid("CPF do Cliente é obrigatório")
	}
	if err := notEmpty(c.nome); err != nil {
		return err
	}
	if err := notEmpty(c.email); err != nil {
		return err
	}
	if err := timestamp.Validate(c.dataCriacao); err != nil {
		return err
	}
	return timestamp.Validate(c.dataAtualizacao)
}

func notEmpty(v string) error {
	if strings.TrimSpace(v) == "" {
		return domainerr.ErrEmpty
	}
	return nil
}

// ID は永続化後の識別子を返します。未保存なら 0 です。
func (c *Cliente) ID() int64 { return c.id }

// Nome は名前を返します。
func (c *Cliente) Nome() string { return c.nome }

// Email はメールアドレスを返します。
func (c *Cliente) Email() string { return c.email }

// Cpf は正規形式の CPF を返します。
func (c *Cliente) Cpf() cpf.Cpf { return c.cpf }

// DataCriacao は作成日時の文字列を返します。
func (c *Cliente) DataCriacao() string { return c.dataCriacao }

// DataAtualizacao は更新日時の文字列を返します。
func (c *Cliente) DataAtualizacao() string { return c.dataAtualizacao }

// WithID は ID のみを差し替えたコピーを返します。
func (c *Cliente) WithID(id int64) *Cliente {
	cp := *c
	cp.id = id
	return &cp
}

// Clone は独立したコピーを返します。
func (c *Cliente) Clone() *Cliente {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// SetNome は空白のみでない名前を設定します。空なら ErrEmpty を返します。
func (c *Cliente) SetNome(nome string) error {
	if err := notEmpty(nome); err != nil {
		return err
	}
	c.nome = nome
	return nil
}

// SetEmail はメールアドレスを設定します。空なら ErrEmpty を返します。
func (c *Cliente) SetEmail(email string) error {
	if err := notEmpty(email); err != nil {
		return err
	}
	c.email = email
	return nil
}

// SetDataAtualizacao は更新日時を設定します。タイムスタンプ形式でなければ Invalid です。
func (c *Cliente) SetDataAtualizacao(value string) error {
	if err := timestamp.Validate(value); err != nil {
		return err
	}
	c.dataAtualizacao = value
	return nil
}
