package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type aviso struct {
	Destino string
}

func TestQueueEntregaPayloadTipado(t *testing.T) {
	recibido := make(chan aviso, 1)
	q := NewQueue("avisos", func(_ context.Context, job Job[aviso]) error {
		recibido <- job.Payload
		return nil
	}, Config{Workers: 1})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job[aviso]{ID: "1", Payload: aviso{Destino: "ana@example.com"}}))

	select {
	case p := <-recibido:
		assert.Equal(t, "ana@example.com", p.Destino)
	case <-time.After(2 * time.Second):
		t.Fatal("el job nunca llegó al handler")
	}
}

func TestQueueReintentaTrasFallo(t *testing.T) {
	var intentos int32
	done := make(chan struct{})
	q := NewQueue("reintentos", func(_ context.Context, job Job[aviso]) error {
		if atomic.AddInt32(&intentos, 1) == 1 {
			return assert.AnError
		}
		close(done)
		return nil
	}, Config{Workers: 1, MaxRetries: 2, RetryDelay: 10 * time.Millisecond})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job[aviso]{ID: "1"}))

	select {
	case <-done:
		assert.EqualValues(t, 2, atomic.LoadInt32(&intentos))
	case <-time.After(2 * time.Second):
		t.Fatal("el job no se reintentó")
	}
}

func TestQueueEnqueueSinStart(t *testing.T) {
	q := NewQueue("parada", func(context.Context, Job[aviso]) error { return nil }, Config{})
	assert.Error(t, q.Enqueue(Job[aviso]{ID: "1"}))
}
