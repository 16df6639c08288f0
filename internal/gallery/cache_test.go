package gallery

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCache_FillsOnce(t *testing.T) {
	clk := &fakeClock{t: listT0}
	c := newTTLCache[string](time.Minute, clk.Now)

	calls := 0
	fill := func() (string, error) {
		calls++
		return "value", nil
	}

	v, err := c.do("k", fill)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	v, err = c.do("k", fill)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 1, calls)
}

func TestTTLCache_ExpiryRegenerates(t *testing.T) {
	clk := &fakeClock{t: listT0}
	c := newTTLCache[int](time.Minute, clk.Now)

	calls := 0
	fill := func() (int, error) {
		calls++
		return calls, nil
	}

	v, _ := c.do("k", fill)
	assert.Equal(t, 1, v)

	clk.Advance(59 * time.Second)
	v, _ = c.do("k", fill)
	assert.Equal(t, 1, v, "entry still fresh")

	clk.Advance(2 * time.Second)
	v, _ = c.do("k", fill)
	assert.Equal(t, 2, v, "expired entry regenerated")
}

func TestTTLCache_ErrorNotCached(t *testing.T) {
	c := newTTLCache[string](time.Minute, nil)

	boom := errors.New("boom")
	_, err := c.do("k", func() (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)

	v, err := c.do("k", func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestTTLCache_KeysIndependent(t *testing.T) {
	c := newTTLCache[string](time.Minute, nil)

	a, _ := c.do("a", func() (string, error) { return "A", nil })
	b, _ := c.do("b", func() (string, error) { return "B", nil })
	assert.Equal(t, "A", a)
	assert.Equal(t, "B", b)
}

func TestTTLCache_SingleFlight(t *testing.T) {
	c := newTTLCache[int](time.Minute, nil)

	var fills int32
	gate := make(chan struct{})
	fill := func() (int, error) {
		atomic.AddInt32(&fills, 1)
		<-gate
		return 7, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.do("k", fill)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Give the goroutines time to pile onto the flight group, then
	// release the single fill.
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&fills),
		"concurrent readers must share one regeneration")
	for _, v := range results {
		assert.Equal(t, 7, v)
	}
}
