package domainerr

import (
	"errors"
	"fmt"
)

// Kind はドメインエラーの種別を表します。
type Kind int

const (
	KindAlreadyExists Kind = iota + 1
	KindEmpty
	KindUnauthorized
	KindNotFound
	KindInvalid
	KindNonPositive
)

// String は種別名を返します。
func (k Kind) String() string {
	switch k {
	case KindAlreadyExists:
		return "already exists"
	case KindEmpty:
		return "empty"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindNonPositive:
		return "non positive"
	default:
		return "unknown"
	}
}

// Error はリポジトリ契約の境界を越える唯一のエラー型です。
// Reason は Invalid の場合のみ意味を持ちます。
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// Is は種別が一致すれば true を返します。
// 比較対象の Reason が空の場合は理由を問わず一致とみなします。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

var (
	// ErrAlreadyExists は自然キー (CPF) が重複した場合に返却されます。
	ErrAlreadyExists = &Error{Kind: KindAlreadyExists}
	// ErrEmpty は必須の文字列が空の場合に返却されます。
	ErrEmpty = &Error{Kind: KindEmpty}
	// ErrUnauthorized は認証・認可に失敗した場合に返却されます。
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	// ErrNotFound は該当するレコードが存在しない場合に返却されます。
	ErrNotFound = &Error{Kind: KindNotFound}
	// ErrInvalid は理由を問わず Invalid 全般に一致します。
	ErrInvalid = &Error{Kind: KindInvalid}
	// ErrNonPositive は数値が正でない場合に返却されます。
	ErrNonPositive = &Error{Kind: KindNonPositive}
)

// Invalid は理由付きの Invalid エラーを生成します。
func Invalid(reason string) error {
	return &Error{Kind: KindInvalid, Reason: reason}
}

// Invalidf は書式付きの Invalid エラーを生成します。
func Invalidf(format string, args ...any) error {
	return Invalid(fmt.Sprintf(format, args...))
}

// KindOf は err に含まれるドメインエラーの種別を返します。
// ドメインエラーでなければ false を返します。
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

// IsNotFound は err が NotFound かどうかを判定します。
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists は err が AlreadyExists かどうかを判定します。
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
