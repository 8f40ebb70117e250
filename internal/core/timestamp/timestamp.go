// Package timestamp はエンティティの作成・更新日時に使う固定書式を扱います。
package timestamp

import (
	"time"

	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/domainerr"
)

// Layout は "2024-02-18 13:45:07.123-0300" 形式です。
const Layout = "2006-01-02 15:04:05.000-0700"

// Format は t を Layout で文字列化します。
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Validate は value が Layout に従っているかを検証します。
func Validate(value string) error {
	if _, err := time.Parse(Layout, value); err != nil {
		return domainerr.Invalidf("timestamp %q", value)
	}
	return nil
}
