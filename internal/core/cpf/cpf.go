// Package cpf は CPF (ブラジルの個人納税者番号) の値オブジェクトを提供します。
package cpf

import (
	"regexp"
	"strings"

	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/domainerr"
)

// AdminSentinel は初期管理者アカウントに割り当てる固定 CPF です。
const AdminSentinel = "000.000.000-00"

var cpfPattern = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)

// Cpf は区切り記号付きの正規形式で保持される CPF です。
type Cpf struct {
	value string
}

// Parse は正規形式 (000.000.000-00) の文字列のみを受け付けます。
// 区切り記号のない入力の正規化は行いません。
func Parse(raw string) (Cpf, error) {
	if !cpfPattern.MatchString(raw) {
		return Cpf{}, domainerr.Invalidf("cpf %q", raw)
	}
	return Cpf{value: raw}, nil
}

// MustParse は Parse に失敗すると panic します。
func MustParse(raw string) Cpf {
	c, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// String は正規形式の文字列を返します。
func (c Cpf) String() string {
	return c.value
}

// Digits は区切り記号を除いた 11 桁の数字列を返します。
func (c Cpf) Digits() string {
	return strings.NewReplacer(".", "", "-", "").Replace(c.value)
}

// IsZero は未初期化の値かどうかを返します。
func (c Cpf) IsZero() bool {
	return c.value == ""
}

// MarshalText はログ出力や JSON 変換用です。
func (c Cpf) MarshalText() ([]byte, error) {
	return []byte(c.value), nil
}

// UnmarshalText は Parse と同じ検証を行います。
func (c *Cpf) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
