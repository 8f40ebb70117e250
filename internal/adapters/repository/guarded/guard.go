// Package guarded はバックエンドごとに 1 つの排他制御を持つゲートウェイのラッパーを提供します。
// Usuario と Cliente のバックエンドは互いに独立して動作し、同じバックエンドへの呼び出しは
// 1 件ずつ直列化されます。
package guarded

import (
	"sync"
	"time"
)

type guard struct {
	mu      sync.Mutex
	backend string
	entity  string
	metrics *Metrics
}

// run はロックを保持したまま fn を実行し、結果を記録します。
func (g *guard) run(op string, fn func() error) error {
	started := time.Now()

	err := func() error {
		g.mu.Lock()
		defer g.mu.Unlock()
		return fn()
	}()

	g.metrics.observe(g.backend, g.entity, op, started, err)
	return err
}
