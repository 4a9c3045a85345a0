package watcher_test

import (
	"path/filepath"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/reqs/internal/adapters/watcher"
)

func TestDebouncer_CoalescesSorted(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls [][]string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			calls = append(calls, paths)
		})

		d.Add("requirements.txt")
		d.Add("ml/requirements.txt")
		d.Add("requirements.txt")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Len(t, calls, 1)
		assert.Equal(t, []string{"ml/requirements.txt", "requirements.txt"}, calls[0])
	})
}

func TestDebouncer_TimerReset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var mu sync.Mutex
		callCount := 0

		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
			mu.Lock()
			callCount++
			mu.Unlock()
		})

		d.Add("requirements.txt")
		time.Sleep(50 * time.Millisecond)
		d.Add("requirements-dev.txt")
		time.Sleep(50 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		assert.Equal(t, 0, callCount)
		mu.Unlock()

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		assert.Equal(t, 1, callCount)
		mu.Unlock()
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls [][]string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			calls = append(calls, paths)
		})

		d.Add("b.txt")
		d.Add("a.txt")
		d.Flush()

		require.Len(t, calls, 1)
		assert.Equal(t, []string{"a.txt", "b.txt"}, calls[0])

		// the stopped timer must not fire again
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		assert.Len(t, calls, 1)
	})
}

func TestDebouncer_FlushEmpty(t *testing.T) {
	callCount := 0
	d := watcher.NewDebouncer(100*time.Millisecond, func([]string) { callCount++ })

	d.Flush()

	assert.Equal(t, 0, callCount)
}

func TestDebouncer_FlushAfterFire(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		callCount := 0
		d := watcher.NewDebouncer(50*time.Millisecond, func([]string) { callCount++ })

		d.Add("requirements.txt")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		require.Equal(t, 1, callCount)

		d.Flush()
		assert.Equal(t, 1, callCount)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)

		d.Add("requirements.txt")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		d.Flush()
	})
}

func TestDebouncer_Match(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls [][]string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			calls = append(calls, paths)
		}).Match(func(path string) bool {
			return filepath.Ext(path) == ".txt"
		})

		d.Add("notes.md")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, calls)

		d.Add("./ml/requirements.txt")
		d.Add("README.md")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Len(t, calls, 1)
		assert.Equal(t, []string{"ml/requirements.txt"}, calls[0])
	})
}
