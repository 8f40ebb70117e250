package guarded

import (
	"errors"
	"strings"
	"time"

	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/domainerr"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はゲートウェイ呼び出しの件数と所要時間を記録します。
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics は reg にコレクタを登録します。reg が nil の場合は既定のレジストリを使います。
// 同名のコレクタが登録済みであればそれを再利用します。
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_calls_total",
		Help: "Number of repository contract calls by backend, entity, operation and result",
	}, []string{"backend", "entity", "operation", "result"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_call_duration_seconds",
		Help:    "Latency of repository contract calls, lock wait included",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "entity", "operation"})

	var err error
	if calls, err = register(reg, calls); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}

	return &Metrics{calls: calls, duration: duration}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) observe(backend, entity, op string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(backend, entity, op, resultLabel(err)).Inc()
	m.duration.WithLabelValues(backend, entity, op).Observe(time.Since(started).Seconds())
}

// resultLabel は "ok"、ドメインエラーの種別名、または "error" を返します。
func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if kind, ok := domainerr.KindOf(err); ok {
		return strings.ReplaceAll(kind.String(), " ", "_")
	}
	return "error"
}
