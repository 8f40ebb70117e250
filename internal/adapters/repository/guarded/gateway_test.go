package guarded

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/adapters/repository/memory"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cliente"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cpf"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/domainerr"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/usuario"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTimestamp = "2024-02-18 13:45:07.123-0300"

// blockingUsuarios は同時実行数を数え、release が閉じられるまで List をブロックします。
type blockingUsuarios struct {
	*memory.UsuarioRepository
	inflight atomic.Int32
	peak     atomic.Int32
	entered  chan struct{}
	release  chan struct{}
}

func newBlockingUsuarios() *blockingUsuarios {
	return &blockingUsuarios{
		UsuarioRepository: memory.NewUsuarioRepository(),
		entered:           make(chan struct{}, 64),
		release:           make(chan struct{}),
	}
}

func (b *blockingUsuarios) List(ctx context.Context) ([]*usuario.Usuario, error) {
	n := b.inflight.Add(1)
	defer b.inflight.Add(-1)
	for {
		peak := b.peak.Load()
		if n <= peak || b.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	b.entered <- struct{}{}
	<-b.release
	return b.UsuarioRepository.List(ctx)
}

// panickingUsuarios は最初の List 呼び出しで panic します。
type panickingUsuarios struct {
	*memory.UsuarioRepository
	calls atomic.Int32
}

func (p *panickingUsuarios) List(ctx context.Context) ([]*usuario.Usuario, error) {
	if p.calls.Add(1) == 1 {
		panic("backend exploded")
	}
	return p.UsuarioRepository.List(ctx)
}

func newCliente(t *testing.T) *cliente.Cliente {
	t.Helper()

	c, err := cliente.New(cliente.Attributes{
		Nome:            "Joana",
		Email:           "joana@ex.com",
		Cpf:             cpf.MustParse("123.456.789-09"),
		DataCriacao:     testTimestamp,
		DataAtualizacao: testTimestamp,
	})
	require.NoError(t, err)
	return c
}

func TestUsuarioGateway_SerializesCalls(t *testing.T) {
	t.Parallel()

	blocking := newBlockingUsuarios()
	gw := NewUsuarioGateway(blocking, "memory", nil)

	const callers = 8
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = gw.List(context.Background())
		}()
	}

	for i := 0; i < callers; i++ {
		<-blocking.entered
		blocking.release <- struct{}{}
	}
	wg.Wait()

	assert.Equal(t, int32(1), blocking.peak.Load())
}

func TestGateways_BackendsAreIndependent(t *testing.T) {
	t.Parallel()

	blocking := newBlockingUsuarios()
	usuarios := NewUsuarioGateway(blocking, "memory", nil)
	clientes := NewClienteGateway(memory.NewClienteRepository(), "memory", nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = usuarios.List(context.Background())
	}()
	<-blocking.entered

	// usuarios は List の途中でロックを保持しています。
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	created, err := clientes.Create(ctx, newCliente(t))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID())

	close(blocking.release)
	<-done
}

func TestUsuarioGateway_ReleasesLockAfterPanic(t *testing.T) {
	t.Parallel()

	gw := NewUsuarioGateway(&panickingUsuarios{UsuarioRepository: memory.NewUsuarioRepository()}, "memory", nil)

	assert.PanicsWithValue(t, "backend exploded", func() {
		_, _ = gw.List(context.Background())
	})

	done := make(chan error, 1)
	go func() {
		_, err := gw.List(context.Background())
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("lock still held after panic")
	}
}

func TestGateways_RecordMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	gw := NewClienteGateway(memory.NewClienteRepository(), "memory", metrics)
	ctx := context.Background()

	_, err = gw.Create(ctx, newCliente(t))
	require.NoError(t, err)
	_, err = gw.Create(ctx, newCliente(t))
	require.True(t, errors.Is(err, domainerr.ErrAlreadyExists))
	_, err = gw.GetByID(ctx, 99)
	require.True(t, errors.Is(err, domainerr.ErrNotFound))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.calls.WithLabelValues("memory", "cliente", "create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.calls.WithLabelValues("memory", "cliente", "create", "already_exists")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.calls.WithLabelValues("memory", "cliente", "get_by_id", "not_found")))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.duration))
}

func TestNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	first, err := NewMetrics(reg)
	require.NoError(t, err)
	second, err := NewMetrics(reg)
	require.NoError(t, err)

	first.observe("postgres", "usuario", "list", time.Now(), nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(second.calls.WithLabelValues("postgres", "usuario", "list", "ok")))
}

func TestResultLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ok", resultLabel(nil))
	assert.Equal(t, "invalid", resultLabel(domainerr.Invalid("Usuario")))
	assert.Equal(t, "non_positive", resultLabel(domainerr.ErrNonPositive))
	assert.Equal(t, "error", resultLabel(errors.New("boom")))
}
