package sigslot

import (
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

// Weight is the type of scheduling weight for [Loop] wakeups. Heavier
// coroutines resume first when several wakeups are queued.
type Weight int

type wakeup struct {
	co     *Coro
	weight Weight
	seq    uint64
}

func (w *wakeup) less(other *wakeup) bool {
	if w.weight != other.weight {
		return w.weight > other.weight
	}
	return w.seq < other.seq
}

// runqueue keeps wakeups sorted by weight, then arrival. Stable: equal
// weights resume in FIFO order.
type runqueue struct {
	items []*wakeup
}

func (q *runqueue) Empty() bool {
	return len(q.items) == 0
}

func (q *runqueue) Push(w *wakeup) {
	i := sort.Search(len(q.items), func(i int) bool {
		return w.less(q.items[i])
	})
	q.items = append(q.items, nil)
	copy(q.items[i+1:], q.items[i:])
	q.items[i] = w
}

func (q *runqueue) Pop() *wakeup {
	w := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return w
}

// A Loop is a queued [Resumer]: completions arriving on any goroutine
// enqueue the parked coroutine, and the Run method resumes each of them on
// the goroutine that calls it, one at a time. Install it with [SetResumer]
// and worker-thread completions become safe to consume from single-threaded
// coroutine code.
//
// The internal queue orders wakeups by weight (see [Tasklet.SetWeight]),
// heaviest first; wakeups of the same weight resume in arrival order.
//
// Manually calling the Run method is usually not desired. One would instead
// use the Autorun method to set up an autorun function that calls Run
// whenever a wakeup arrives while the loop is idle, or drive a single
// tasklet to its end with [RunUntilComplete].
//
// A Loop also implements [Registrar], keeping a registry of live
// coroutines; see [Loop.Live].
type Loop struct {
	mu      sync.Mutex
	q       runqueue
	seq     uint64
	running bool
	autorun func()
	wake    chan struct{}
	live    mapset.Set[*Coro]
}

// Resume enqueues h. Safe for concurrent use.
func (l *Loop) Resume(h *Coro) {
	var autorun func()

	l.mu.Lock()
	l.seq++
	l.q.Push(&wakeup{co: h, weight: h.Weight(), seq: l.seq})
	wake := l.wakeLocked()
	if !l.running && l.autorun != nil {
		l.running = true
		autorun = l.autorun
	}
	l.mu.Unlock()

	select {
	case wake <- struct{}{}:
	default:
	}

	if autorun != nil {
		autorun()
	}
}

func (l *Loop) wakeLocked() chan struct{} {
	if l.wake == nil {
		l.wake = make(chan struct{}, 1)
	}
	return l.wake
}

// Run pops and resumes every queued wakeup until the queue is emptied.
//
// Run must not be called twice at the same time.
func (l *Loop) Run() {
	l.mu.Lock()
	l.running = true

	for !l.q.Empty() {
		w := l.q.Pop()
		l.mu.Unlock()
		w.co.Resume()
		l.mu.Lock()
	}

	l.running = false
	l.mu.Unlock()
}

// Autorun sets up f to be called whenever a wakeup arrives while the loop
// is idle.
//
// One must pass a function that calls the Run method. If f blocks, the
// completion that triggered it blocks too; the best practice is not to
// block.
func (l *Loop) Autorun(f func()) {
	l.autorun = f
}

// RegisterCoro records h as live. Loop implements [Registrar], so the
// kernel calls this for every coroutine created while the loop is the
// installed policy.
func (l *Loop) RegisterCoro(h *Coro) {
	l.mu.Lock()
	if l.live == nil {
		l.live = mapset.NewThreadUnsafeSet[*Coro]()
	}
	l.live.Add(h)
	l.mu.Unlock()
}

// DeregisterCoro removes h from the registry.
func (l *Loop) DeregisterCoro(h *Coro) {
	l.mu.Lock()
	if l.live != nil {
		l.live.Remove(h)
	}
	l.mu.Unlock()
}

// Live returns the number of registered, not yet destroyed coroutines.
func (l *Loop) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.live == nil {
		return 0
	}
	return l.live.Cardinality()
}

// waitWake blocks until a wakeup is enqueued, unless one already is.
func (l *Loop) waitWake() {
	l.mu.Lock()
	wake := l.wakeLocked()
	empty := l.q.Empty()
	l.mu.Unlock()

	if empty {
		<-wake
	}
}

// RunUntilComplete starts t if needed and pumps l until t completes, then
// returns t's result. Between bursts it blocks until a completion enqueues
// a wakeup, so worker-thread completions drive the loop forward. If the
// tasklet is waiting for an emission nobody will deliver, RunUntilComplete
// never returns.
func RunUntilComplete[V any](l *Loop, t *Tasklet[V]) (V, error) {
	if !t.Started() {
		t.Start()
	}
	for t.Running() {
		l.Run()
		if t.Running() {
			l.waitWake()
		}
	}
	return t.Get()
}
