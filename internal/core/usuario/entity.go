package usuario

import (
	"encoding/json"
	"strings"

	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cpf"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/domainerr"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/timestamp"
)

// Tipo は利用者の役割を表します。
type Tipo string

const (
	TipoAdmin   Tipo = "Admin"
	TipoCozinha Tipo = "Cozinha"
)

// ParseTipo は文字列を Tipo に変換します。
func ParseTipo(raw string) (Tipo, error) {
	t := Tipo(raw)
	if !t.valid() {
		return "", domainerr.Invalid("Tipo do Usuário é inválido")
	}
	return t, nil
}

func (t Tipo) valid() bool {
	switch t {
	case TipoAdmin, TipoCozinha:
		return true
	default:
		return false
	}
}

// Status は利用者の状態を表します。
type Status string

const (
	StatusAtivo   Status = "Ativo"
	StatusInativo Status = "Inativo"
)

// ParseStatus は文字列を Status に変換します。
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.valid() {
		return "", domainerr.Invalid("Status do Usuário é inválido")
	}
	return s, nil
}

func (s Status) valid() bool {
	switch s {
	case StatusAtivo, StatusInativo:
		return true
	default:
		return false
	}
}

// Usuario はスタッフ・オペレーターのアカウントです。
// フィールドは検証付きのセッター経由でのみ変更されます。
type Usuario struct {
	id              int64
	nome            string
	email           string
	cpf             cpf.Cpf
	senha           string
	tipo            Tipo
	status          Status
	dataCriacao     string
	dataAtualizacao string
}

// Attributes は Usuario を構築するための入力です。
type Attributes struct {
	ID              int64
	Nome            string
	Email           string
	Cpf             cpf.Cpf
	Senha           string
	Tipo            Tipo
	Status          Status
	DataCriacao     string
	DataAtualizacao string
}

// New は全ての不変条件を検証したうえで Usuario を生成します。
func New(a Attributes) (*Usuario, error) {
	u := &Usuario{
		id:              a.ID,
		nome:            a.Nome,
		email:           a.Email,
		cpf:             a.Cpf,
		senha:           a.Senha,
		tipo:            a.Tipo,
		status:          a.Status,
		dataCriacao:     a.DataCriacao,
		dataAtualizacao: a.DataAtualizacao,
	}
	if err := u.validate(); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *Usuario) validate() error {
	if !u.status.valid() {
		return domainerr.Invalid("Status do Usuário é inválido")
	}
	if !u.tipo.valid() {
		return domainerr.Invalid("Tipo do Usuário é inválido")
	}
	if u.cpf.IsZero() {
		return domainerr.Invalid("CPF do Usuário é obrigatório")
	}
	for _, v := range []string{u.nome, u.email, u.senha} {
		if err := notEmpty(v); err != nil {
			return err
		}
	}
	if err := timestamp.Validate(u.dataCriacao); err != nil {
		return err
	}
	return timestamp.Validate(u.dataAtualizacao)
}

func notEmpty(v string) error {
	if strings.TrimSpace(v) == "" {
		return domainerr.ErrEmpty
	}
	return nil
}

// ID は永続化後の識別子を返します。未保存なら 0 です。
func (u *Usuario) ID() int64 { return u.id }

// Nome は名前を返します。
func (u *Usuario) Nome() string { return u.nome }

// Email はメールアドレスを返します。
func (u *Usuario) Email() string { return u.email }

// Cpf は正規形式の CPF を返します。
func (u *Usuario) Cpf() cpf.Cpf { return u.cpf }

// Senha は保存済みのパスワードを返します。
func (u *Usuario) Senha() string { return u.senha }

// Tipo は種別を返します。
func (u *Usuario) Tipo() Tipo { return u.tipo }

// Status は状態を返します。
func (u *Usuario) Status() Status { return u.status }

// DataCriacao は作成日時の文字列を返します。
func (u *Usuario) DataCriacao() string { return u.dataCriacao }

// DataAtualizacao は更新日時の文字列を返します。
func (u *Usuario) DataAtualizacao() string { return u.dataAtualizacao }

// ValidateSenha は senha が保存済みの値と一致するかを返します。
func (u *Usuario) ValidateSenha(senha string) bool {
	return u.senha == senha
}

// WithID は ID のみを差し替えたコピーを返します。ID の採番はバックエンドの責務です。
func (u *Usuario) WithID(id int64) *Usuario {
	c := *u
	c.id = id
	return &c
}

// Clone は独立したコピーを返します。
func (u *Usuario) Clone() *Usuario {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// SetNome は空白のみでない名前を設定します。空なら ErrEmpty を返します。
func (u *Usuario) SetNome(nome string) error {
	if err := notEmpty(nome); err != nil {
		return err
	}
	u.nome = nome
	return nil
}

// SetEmail はメールアドレスを設定します。空なら ErrEmpty を返します。
func (u *Usuario) SetEmail(email string) error {
	if err := notEmpty(email); err != nil {
		return err
	}
	u.email = email
	return nil
}

// SetSenha はパスワードを平文のまま設定します。空なら ErrEmpty を返します。
func (u *Usuario) SetSenha(senha string) error {
	if err := notEmpty(senha); err != nil {
		return err
	}
	u.senha = senha
	return nil
}

// SetCpf は CPF を設定します。ゼロ値は Invalid です。
func (u *Usuario) SetCpf(c cpf.Cpf) error {
	if c.IsZero() {
		return domainerr.Invalid("CPF do Usuário é obrigatório")
	}
	u.cpf = c
	return nil
}

// SetTipo は種別を設定します。Admin と Cozinha 以外は Invalid です。
func (u *Usuario) SetTipo(t Tipo) error {
	if !t.valid() {
		return domainerr.Invalid("Tipo do Usuário é inválido")
	}
	u.tipo = t
	return nil
}

// SetStatus は状態を設定します。Ativo と Inativo 以外は Invalid です。
func (u *Usuario) SetStatus(s Status) error {
	if !s.valid() {
		return domainerr.Invalid("Status do Usuário é inválido")
	}
	u.status = s
	return nil
}

// SetDataAtualizacao は更新日時を設定します。タイムスタンプ形式でなければ Invalid です。
func (u *Usuario) SetDataAtualizacao(value string) error {
	if err := timestamp.Validate(value); err != nil {
		return err
	}
	u.dataAtualizacao = value
	return nil
}

// MarshalJSON は senha を出力に含めません。
func (u *Usuario) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID              int64   `json:"id"`
		Nome            string  `json:"nome"`
		Email           string  `json:"email"`
		Cpf             cpf.Cpf `json:"cpf"`
		Tipo            Tipo    `json:"tipo"`
		Status          Status  `json:"status"`
		DataCriacao     string  `json:"data_criacao"`
		DataAtualizacao string  `json:"data_atualizacao"`
	}{
		ID:              u.id,
		Nome:            u.nome,
		Email:           u.email,
		Cpf:             u.cpf,
		Tipo:            u.tipo,
		Status:          u.status,
		DataCriacao:     u.dataCriacao,
		DataAtualizacao: u.dataAtualizacao,
	})
}
