package logger

import (
	"time"

	"go.uber.org/zap"
)

func RequestID(v string) zap.Field { return zap.String("request_id", v) }

func Method(v string) zap.Field { return zap.String("method", v) }

func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

func Backend(v string) zap.Field { return zap.String("backend", v) }

func Entity(v string) zap.Field { return zap.String("entity", v) }

func Operation(v string) zap.Field { return zap.String("operation", v) }

func Attribute(v string) zap.Field { return zap.String("attribute", v) }

// Cpf は末尾 2 桁以外を伏せた CPF を出力します。
func Cpf(v string) zap.Field {
	return zap.String("cpf", MaskCpf(v))
}

// MaskCpf は "***.***.***-09" の形に伏せ字化します。
func MaskCpf(v string) string {
	if len(v) < 2 {
		return "***"
	}
	masked := []byte(v)
	for i := 0; i < len(masked)-2; i++ {
		if masked[i] >= '0' && masked[i] <= '9' {
			masked[i] = '*'
		}
	}
	return string(masked)
}
