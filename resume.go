package sigslot

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// A Resumer decides where a parked coroutine continues.
//
// The kernel calls Resume whenever a completion wants a suspended coroutine
// to run again. Resume must eventually cause [Coro.Resume] to be called; it
// may do so synchronously, or it may enqueue the handle and let another
// goroutine perform the resumption, which is how a host event loop takes
// control of scheduling. See [Loop] for such a host.
type Resumer interface {
	Resume(h *Coro)
}

// A Registrar is an optional extension of [Resumer]. If the installed
// Resumer also implements Registrar, the kernel reports every coroutine's
// creation and destruction to it, so hosts can track liveness. The probe is
// a plain type assertion; a Resumer that does not implement Registrar costs
// nothing.
type Registrar interface {
	RegisterCoro(h *Coro)
	DeregisterCoro(h *Coro)
}

// ResumerFunc adapts a function to the [Resumer] interface.
type ResumerFunc func(h *Coro)

// Resume implements the [Resumer] interface.
func (f ResumerFunc) Resume(h *Coro) { f(h) }

// synchronous is the default policy: resume in place, on the goroutine that
// delivered the completion.
type synchronous struct{}

func (synchronous) Resume(h *Coro) { h.Resume() }

type resumerBox struct{ r Resumer }

var currentResumer atomic.Value // resumerBox

// SetResumer installs r as the process-wide resume policy and returns the
// previously installed one (nil if the default was in effect). Passing nil
// restores the default synchronous policy.
//
// Install the policy once, at program start, before any tasklet exists;
// swapping policies while coroutines are parked splits their wakeups
// between the two.
func SetResumer(r Resumer) (previous Resumer) {
	if b, ok := currentResumer.Load().(resumerBox); ok {
		previous = b.r
	}
	currentResumer.Store(resumerBox{r})
	return previous
}

func resumerInstance() Resumer {
	if b, ok := currentResumer.Load().(resumerBox); ok && b.r != nil {
		return b.r
	}
	return synchronous{}
}

func dispatchResume(h *Coro) {
	resumerInstance().Resume(h)
}

func registerCoro(h *Coro) {
	if reg, ok := resumerInstance().(Registrar); ok {
		reg.RegisterCoro(h)
	}
}

func deregisterCoro(h *Coro) {
	if reg, ok := resumerInstance().(Registrar); ok {
		reg.DeregisterCoro(h)
	}
}

var (
	currentLogger atomic.Pointer[zap.Logger]
	nopLogger     = zap.NewNop()
)

// SetLogger installs a logger for lifecycle tracing. Tasklet creation,
// start, completion, failure and destruction are logged at Debug level;
// every trace but the creation one carries the tasklet's debug name.
// Passing nil restores the default, which discards everything.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = nopLogger
	}
	currentLogger.Store(l)
}

func logger() *zap.Logger {
	if l := currentLogger.Load(); l != nil {
		return l
	}
	return nopLogger
}
