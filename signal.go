package sigslot

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

// A connection is one subscription edge between a signal and a receiver
// group. Connections are owned by their signal; receiver groups only hold
// back-pointers to signals, never to connections.
type connection[T any] struct {
	slots   *Slots
	fn      func(T)
	oneShot bool
	expired bool
}

// Signal is a multicast emitter carrying a payload of type T.
//
// Connections are visited in insertion order. A connection made during an
// emission is not visited by it; a connection disconnected mid-emission
// before its turn is skipped. Slot callables run with the signal unlocked,
// so a slot may connect and disconnect on the signal that is calling it.
// A slot must not tear down the signal itself.
//
// A Signal serializes concurrent access, but the intended deployment runs
// all signal traffic on one goroutine.
//
// The zero value is ready to use. For the payload-free case see
// [VoidSignal]; multi-argument signals carry a struct payload.
type Signal[T any] struct {
	mu       sync.Mutex
	conns    []*connection[T]
	awaits   mapset.Set[*signalAwait[T]]
	emitting int
}

// Connect appends a connection from r to fn. Multiple connections from the
// same receiver are allowed and are visited once each.
func (s *Signal[T]) Connect(r *Slots, fn func(T)) {
	s.connect(r, fn, false)
}

// ConnectOnce is [Signal.Connect] for a connection that self-removes after
// its first delivery.
func (s *Signal[T]) ConnectOnce(r *Slots, fn func(T)) {
	s.connect(r, fn, true)
}

func (s *Signal[T]) connect(r *Slots, fn func(T), oneShot bool) {
	if r == nil {
		panic("sigslot: nil receiver")
	}
	if fn == nil {
		panic("sigslot: nil slot")
	}
	s.mu.Lock()
	s.conns = append(s.conns, &connection[T]{slots: r, fn: fn, oneShot: oneShot})
	s.mu.Unlock()
	r.signalConnect(s)
}

// ConnectFunc connects fn through a fresh anonymous receiver group and
// returns it. The connection lives as long as the returned group; calling
// its DisconnectAll severs it.
func (s *Signal[T]) ConnectFunc(fn func(T)) *Slots {
	r := new(Slots)
	s.connect(r, fn, false)
	return r
}

// ConnectFuncOnce is [Signal.ConnectFunc] for a one-shot connection.
func (s *Signal[T]) ConnectFuncOnce(fn func(T)) *Slots {
	r := new(Slots)
	s.connect(r, fn, true)
	return r
}

// Disconnect removes every connection whose receiver is r, and the
// reverse edge if at least one connection was removed.
func (s *Signal[T]) Disconnect(r *Slots) {
	s.mu.Lock()
	if s.emitting > 0 {
		// Mid-emission, removal would upset the traversal; tombstone and
		// let the post-emission sweep remove the edge.
		for _, c := range s.conns {
			if c.slots == r {
				c.expired = true
			}
		}
		s.mu.Unlock()
		return
	}
	found := false
	live := s.conns[:0]
	for _, c := range s.conns {
		if c.slots == r {
			found = true
			continue
		}
		live = append(live, c)
	}
	clearTail(s.conns, len(live))
	s.conns = live
	s.mu.Unlock()

	if found {
		r.signalDisconnect(s)
	}
}

// DisconnectAll severs every connection of s.
func (s *Signal[T]) DisconnectAll() {
	s.mu.Lock()
	if s.emitting > 0 {
		for _, c := range s.conns {
			c.expired = true
		}
		s.mu.Unlock()
		return
	}
	conns := s.conns
	s.conns = nil
	s.mu.Unlock()

	for _, c := range conns {
		c.slots.signalDisconnect(s)
	}
}

// slotDisconnect removes every connection whose receiver is r, without
// touching r's own bookkeeping; the receiver is already forgetting us.
func (s *Signal[T]) slotDisconnect(r *Slots) {
	s.mu.Lock()
	if s.emitting > 0 {
		for _, c := range s.conns {
			if c.slots == r {
				c.expired = true
			}
		}
		s.mu.Unlock()
		return
	}
	live := s.conns[:0]
	for _, c := range s.conns {
		if c.slots == r {
			continue
		}
		live = append(live, c)
	}
	clearTail(s.conns, len(live))
	s.conns = live
	s.mu.Unlock()
}

// Emit delivers v, first to any coroutines awaiting the next emission, then
// to every connection in insertion order. A one-shot connection is marked
// expired before its callable runs, so a reentrant emission cannot deliver
// to it twice. Expired connections are removed once the outermost emission
// finishes, and the reverse edges of the survivors are refreshed, which
// keeps the bookkeeping intact for receivers that reconnected mid-emission.
func (s *Signal[T]) Emit(v T) {
	s.mu.Lock()
	var aws []*signalAwait[T]
	if s.awaits != nil && s.awaits.Cardinality() != 0 {
		aws = s.awaits.ToSlice()
		s.awaits.Clear()
	}
	n := len(s.conns)
	s.emitting++
	s.mu.Unlock()

	for _, a := range aws {
		a.resolve(v)
	}

	for i := 0; i < n; i++ {
		s.mu.Lock()
		c := s.conns[i]
		if c.expired {
			s.mu.Unlock()
			continue
		}
		if c.oneShot {
			c.expired = true
		}
		fn := c.fn
		s.mu.Unlock()
		fn(v)
	}

	s.mu.Lock()
	s.emitting--
	var removed, survivors []*Slots
	if s.emitting == 0 {
		live := s.conns[:0]
		for _, c := range s.conns {
			if c.expired {
				removed = append(removed, c.slots)
				continue
			}
			live = append(live, c)
			survivors = append(survivors, c.slots)
		}
		clearTail(s.conns, len(live))
		s.conns = live
	}
	s.mu.Unlock()

	for _, r := range removed {
		r.signalDisconnect(s)
	}
	for _, r := range survivors {
		r.signalConnect(s)
	}
}

func clearTail[T any](s []*connection[T], from int) {
	for i := from; i < len(s); i++ {
		s[i] = nil
	}
}

// A signalAwait is a one-time recipient of a signal's next emission,
// holding the payload and the parked coroutine handle.
type signalAwait[T any] struct {
	mu       sync.Mutex
	resolved bool
	payload  T
	awaiting *Coro
}

func (a *signalAwait[T]) resolve(v T) {
	a.mu.Lock()
	a.payload = v
	a.resolved = true
	h := a.awaiting
	a.awaiting = nil
	a.mu.Unlock()

	if h != nil {
		dispatchResume(h)
	}
}

// Await parks co until the next emission of s and returns its payload.
//
// The awaitable registers as a one-time recipient before any suspension, so
// an emission that lands between registration and parking (possible only
// with a concurrent producer) is still delivered without parking. If the
// coroutine is destroyed while parked here, the registration is released on
// the way out.
func (s *Signal[T]) Await(co *Coro) T {
	a := &signalAwait[T]{}
	s.mu.Lock()
	if s.awaits == nil {
		s.awaits = mapset.NewThreadUnsafeSet[*signalAwait[T]]()
	}
	s.awaits.Add(a)
	s.mu.Unlock()

	a.mu.Lock()
	if a.resolved {
		v := a.payload
		a.mu.Unlock()
		return v
	}
	a.awaiting = co
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		resolved := a.resolved
		a.awaiting = nil
		a.mu.Unlock()
		if !resolved {
			s.mu.Lock()
			s.awaits.Remove(a)
			s.mu.Unlock()
		}
	}()

	co.park()

	a.mu.Lock()
	v := a.payload
	a.mu.Unlock()
	return v
}
