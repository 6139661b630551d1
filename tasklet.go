package sigslot

import (
	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"
)

// The promise holds the state of a tasklet's frame. Its fields are not
// locked: the cooperative handshake serializes every access, even when the
// bytes move between goroutines.
type promise[V any] struct {
	co        *Coro
	name      string
	value     V
	err       error
	complete  VoidSignal
	exception Signal[error]
	started   bool
	finished  bool
	abandoned bool
	awaiters  mapset.Set[*taskAwait]
	tracker   Tracker
}

// A taskAwait is one coroutine parked on a tasklet's completion. The record
// stays in the target's awaiter set until resolved or withdrawn.
type taskAwait struct {
	co       *Coro
	resolved bool
}

// A Tasklet is a handle to a lazily-started coroutine producing a value of
// type V. The handle exclusively owns the coroutine frame; [Tasklet.Close]
// destroys it.
//
// The body does not run until [Tasklet.Start], [Tasklet.Get] or [Await]
// first resumes it. Completion fires the tasklet's complete signal; failure
// additionally fires its exception signal. The frame outlives the body so
// late subscribers and [Tasklet.Get] can still read the outcome.
type Tasklet[V any] struct {
	p *promise[V]
}

// NewTasklet creates a tasklet around body. The body receives its [Coro]
// suspension capability; it reports failure by returning an error, and a
// panic inside it is captured as a [*PanicError].
func NewTasklet[V any](body func(co *Coro) (V, error)) *Tasklet[V] {
	if body == nil {
		panic("sigslot: nil tasklet body")
	}
	p := &promise[V]{
		co:       newCoro(),
		awaiters: mapset.NewThreadUnsafeSet[*taskAwait](),
	}
	t := &Tasklet[V]{p: p}
	registerCoro(p.co)
	logger().Debug("sigslot: tasklet created")
	go p.run(body)
	return t
}

func (p *promise[V]) run(body func(co *Coro) (V, error)) {
	defer close(p.co.dead)

	// Initial suspend: lazily created, nothing runs until the first resume.
	select {
	case <-p.co.resume:
	case <-p.co.exit:
		p.abandon()
		return
	}

	var (
		v       V
		err     error
		aborted bool
	)
	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if _, ok := r.(coroExit); ok {
				aborted = true
				return
			}
			err = newPanicError(r)
		}()
		v, err = body(p.co)
	}()

	if aborted {
		p.abandon()
		return
	}

	p.finish(v, err)

	// Final suspend: hand control back to whichever goroutine performed
	// the last resume.
	p.co.yield <- struct{}{}
}

func (p *promise[V]) abandon() {
	p.abandoned = true
	if tr := p.tracker; tr != nil {
		p.tracker = nil
		tr.Terminate()
	}
	logger().Debug("sigslot: tasklet abandoned", zap.String("name", p.name))
}

func (p *promise[V]) finish(v V, err error) {
	p.value = v
	p.err = err

	if err != nil {
		if tr := p.tracker; tr != nil {
			p.tracker = nil
			tr.Exception(err)
		}
		logger().Debug("sigslot: tasklet failed", zap.String("name", p.name), zap.Error(err))
		p.exception.Emit(err)
	} else {
		if tr := p.tracker; tr != nil {
			p.tracker = nil
			tr.Terminate()
		}
		logger().Debug("sigslot: tasklet finished", zap.String("name", p.name))
	}

	p.finished = true
	p.complete.Emit()

	// Snapshot before resuming: an awaiter is free to withdraw or be
	// destroyed while this loop runs.
	awaiters := p.awaiters.ToSlice()
	p.awaiters.Clear()
	for _, a := range awaiters {
		a.resolved = true
		dispatchResume(a.co)
	}
}

func (t *Tasklet[V]) mustPromise() *promise[V] {
	if t.p == nil {
		panic("sigslot: no coroutine")
	}
	return t.p
}

// Started reports whether the tasklet has been started.
func (t *Tasklet[V]) Started() bool {
	return t.mustPromise().started
}

// Running reports whether the frame exists and has not reached a terminal
// state. A freshly created tasklet is running even before it starts.
func (t *Tasklet[V]) Running() bool {
	p := t.p
	return p != nil && !p.finished && !p.abandoned
}

// Start resumes the body for the first time. Starting a tasklet that has
// already started or finished panics.
func (t *Tasklet[V]) Start() {
	p := t.mustPromise()
	if p.finished || p.abandoned {
		panic("sigslot: tasklet already finished")
	}
	if p.started {
		panic("sigslot: tasklet already started")
	}
	p.started = true
	logger().Debug("sigslot: tasklet started", zap.String("name", p.name))
	p.co.Resume()
}

// Get returns the tasklet's result. If the tasklet has not been started,
// Get starts it; if it still has not finished, Get panics — drive the
// completion through an emission or a [Loop] first. A failure of the body
// comes back as the error.
func (t *Tasklet[V]) Get() (V, error) {
	p := t.mustPromise()
	if !p.started {
		t.Start()
	}
	if !p.finished {
		panic("sigslot: tasklet not finished yet")
	}
	return p.value, p.err
}

// Complete returns the signal fired exactly once when the body finishes,
// whether it succeeded or failed. It fires after the terminal state is
// recorded and before any awaiter resumes. It does not fire for a frame
// that [Tasklet.Close] destroys before the body finishes.
func (t *Tasklet[V]) Complete() *VoidSignal {
	return &t.mustPromise().complete
}

// Exception returns the signal fired exactly once, carrying the error
// payload, when the body fails. Subscribers observe failures without
// consuming the result.
func (t *Tasklet[V]) Exception() *Signal[error] {
	return &t.mustPromise().exception
}

// SetName attaches a debug label, visible in lifecycle traces.
func (t *Tasklet[V]) SetName(name string) {
	t.mustPromise().name = name
}

// Name returns the debug label.
func (t *Tasklet[V]) Name() string {
	return t.mustPromise().name
}

// SetWeight sets the scheduling weight a [Loop] host uses when ordering
// wakeups of this tasklet's coroutine.
func (t *Tasklet[V]) SetWeight(w Weight) {
	t.mustPromise().co.weight = w
}

// Track attaches tr to the frame. The frame delivers exactly one terminal
// callback; see [Tracker]. Attaching after the terminal transition panics.
func (t *Tasklet[V]) Track(tr Tracker) {
	p := t.mustPromise()
	if p.finished || p.abandoned {
		panic("sigslot: tasklet already finished")
	}
	p.tracker = tr
}

// Close destroys the coroutine frame. A body that has not completed is
// unwound at its current suspension point, releasing its await-site
// registrations on the way out, and a registered [Tracker] observes
// Terminate. Awaiters of this tasklet are not resumed — the caller must
// keep a tasklet alive across any await of it.
//
// Close is idempotent. A closed handle must not be used otherwise.
func (t *Tasklet[V]) Close() {
	p := t.p
	if p == nil {
		return
	}
	t.p = nil
	deregisterCoro(p.co)
	if !p.finished && !p.abandoned {
		close(p.co.exit)
		<-p.co.dead
	}
	logger().Debug("sigslot: tasklet closed", zap.String("name", p.name))
}

// Await suspends the coroutine body running on co until t completes, and
// returns t's result. If t has not been started, Await starts it, so
// awaiting kicks lazy work. A failure of t's body comes back as the error.
//
// The target must stay alive across the await; closing t while co is
// parked on it leaves co parked until its own tasklet is closed.
func Await[V any](co *Coro, t *Tasklet[V]) (V, error) {
	p := t.mustPromise()
	if !p.started {
		t.Start()
	}
	if p.finished {
		return p.value, p.err
	}

	a := &taskAwait{co: co}
	p.awaiters.Add(a)
	defer func() {
		if !a.resolved {
			p.awaiters.Remove(a)
		}
	}()
	co.park()
	return p.value, p.err
}
