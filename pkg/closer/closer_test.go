package closer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseRunsInReverseOrder(t *testing.T) {
	c := NewCloser(0)

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(name string) Func {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}

	c.Add("db", record("db"))
	c.Add("cache", record("cache"))
	c.AddSimple("http", func() { _ = record("http")(context.Background()) })

	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, []string{"http", "cache", "db"}, order)
}

func TestCloseCollectsErrors(t *testing.T) {
	c := NewCloser(0)
	c.Add("kafka", func(context.Context) error { return errors.New("broker gone") })
	c.Add("redis", func(context.Context) error { return nil })

	err := c.Close(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka: broker gone")
}

func TestCloseIsIdempotent(t *testing.T) {
	c := NewCloser(0)
	calls := 0
	c.Add("db", func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, c.Close(context.Background()))
	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestCloseForcesRemainingOnTimeout(t *testing.T) {
	c := NewCloser(100 * time.Millisecond)

	forced := make(chan struct{}, 1)
	c.Add("first", func(ctx context.Context) error {
		if ctx.Err() == nil {
			forced <- struct{}{}
		}
		return nil
	})
	block := make(chan struct{})
	defer close(block)
	var slowCalls atomic.Int32
	c.Add("slow", func(context.Context) error {
		if slowCalls.Add(1) == 1 {
			<-block
		}
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Close(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutdown interrupted after 0/2 resources")

	select {
	case <-forced:
	case <-time.After(time.Second):
		t.Fatal("first resource was not closed in forced mode")
	}
}
