package sigslot_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigslot-dev/sigslot"
)

// withLoop installs a fresh Loop as the resume policy for one test.
func withLoop(t *testing.T) *sigslot.Loop {
	t.Helper()
	l := new(sigslot.Loop)
	prev := sigslot.SetResumer(l)
	t.Cleanup(func() { sigslot.SetResumer(prev) })
	return l
}

func TestRunUntilCompleteTrivial(t *testing.T) {
	l := withLoop(t)

	coro := trivialTask(42)
	defer coro.Close()

	v, err := sigslot.RunUntilComplete(l, coro)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestRunUntilCompleteSignalFromGoroutine(t *testing.T) {
	l := withLoop(t)

	var sig sigslot.Signal[int]

	coro := basicTask(&sig)
	defer coro.Close()

	go func() {
		time.Sleep(10 * time.Millisecond)
		sig.Emit(42)
	}()

	v, err := sigslot.RunUntilComplete(l, coro)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestCoThreadTwoWorkers(t *testing.T) {
	l := withLoop(t)

	thread1 := sigslot.NewCoThread(func(s string) (bool, error) {
		return s != "", nil
	})
	slow := sigslot.GoThread(func() (bool, error) {
		time.Sleep(20 * time.Millisecond)
		return true, nil
	})

	inner := sigslot.NewTasklet(func(co *sigslot.Coro) (bool, error) {
		r1, err := thread1.Call("Hello world!").Await(co)
		if err != nil {
			return false, err
		}
		r2, err := slow.Await(co)
		if err != nil {
			return false, err
		}
		return r1 && r2, nil
	})
	defer inner.Close()

	outer := sigslot.NewTasklet(func(co *sigslot.Coro) (sigslot.Void, error) {
		ok, err := sigslot.Await(co, inner)
		if err == nil && !ok {
			t.Error("worker results lost")
		}
		return sigslot.Void{}, err
	})
	defer outer.Close()

	_, err := sigslot.RunUntilComplete(l, outer)
	require.NoError(t, err)
}

func TestCoThreadException(t *testing.T) {
	l := withLoop(t)

	th := sigslot.NewCoThread(func(sigslot.Void) (sigslot.Void, error) {
		panic("Potato!")
	})

	coro := sigslot.NewTasklet(func(co *sigslot.Coro) (sigslot.Void, error) {
		return th.Call(sigslot.Void{}).Await(co)
	})
	defer coro.Close()

	_, err := sigslot.RunUntilComplete(l, coro)
	require.Error(t, err)

	var pe *sigslot.PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Potato!", pe.Value())
}

func TestCoThreadWorkerEmitsSignal(t *testing.T) {
	l := withLoop(t)

	coro := sigslot.NewTasklet(func(co *sigslot.Coro) (int, error) {
		var sig sigslot.Signal[int]
		aw := sigslot.GoThread(func() (int, error) {
			time.Sleep(10 * time.Millisecond)
			sig.Emit(42)
			return 7, nil
		})
		v := sig.Await(co)
		if _, err := aw.Await(co); err != nil {
			return 0, err
		}
		return v, nil
	})
	defer coro.Close()

	v, err := sigslot.RunUntilComplete(l, coro)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestThreadAwaitCompletionBeforeAwait(t *testing.T) {
	aw := sigslot.GoThread(func() (int, error) { return 42, nil })

	// Wait out the worker so the completion strictly precedes the await.
	for !aw.Ready() {
		time.Sleep(time.Millisecond)
	}

	coro := sigslot.NewTasklet(func(co *sigslot.Coro) (int, error) {
		return aw.Await(co)
	})
	defer coro.Close()

	v, err := coro.Get()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestThreadAwaitCompletionAfterAwait(t *testing.T) {
	l := withLoop(t)

	aw := sigslot.GoThread(func() (int, error) {
		time.Sleep(20 * time.Millisecond)
		return 42, nil
	})

	coro := sigslot.NewTasklet(func(co *sigslot.Coro) (int, error) {
		return aw.Await(co)
	})
	defer coro.Close()

	v, err := sigslot.RunUntilComplete(l, coro)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestThreadAwaitConsumeTwicePanics(t *testing.T) {
	l := withLoop(t)

	aw := sigslot.GoThread(func() (int, error) { return 1, nil })

	coro := sigslot.NewTasklet(func(co *sigslot.Coro) (int, error) {
		return aw.Await(co)
	})
	defer coro.Close()

	_, err := sigslot.RunUntilComplete(l, coro)
	require.NoError(t, err)

	assert.PanicsWithValue(t, "sigslot: no thread started", func() {
		aw.Await(nil)
	})
}

func TestCoThreadStress(t *testing.T) {
	l := withLoop(t)

	coro := sigslot.NewTasklet(func(co *sigslot.Coro) (int, error) {
		total := 0
		for range 50 {
			aws := make([]*sigslot.ThreadAwait[int], 4)
			for j := range aws {
				aws[j] = sigslot.GoThread(func() (int, error) { return 1, nil })
			}
			for _, aw := range aws {
				v, err := aw.Await(co)
				if err != nil {
					return 0, err
				}
				total += v
			}
		}
		return total, nil
	})
	defer coro.Close()

	v, err := sigslot.RunUntilComplete(l, coro)
	require.NoError(t, err)
	assert.Equal(t, 200, v)
}
