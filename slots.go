package sigslot

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

// sender is a signal as seen from its receivers: the half of the
// bidirectional edge that a receiver group can tear down.
type sender interface {
	slotDisconnect(r *Slots)
}

// Slots is a receiver group: the owner of every connection made through it.
//
// A Slots records which signals it is connected to, and each of those
// signals records the reverse edge, so that tearing down either side cleans
// up the other. Embed a Slots in any type that receives signals; call
// [Slots.DisconnectAll] when the receiver goes away.
//
// The zero value is ready to use.
type Slots struct {
	mu      sync.Mutex
	senders mapset.Set[sender]
}

func (r *Slots) signalConnect(s sender) {
	r.mu.Lock()
	if r.senders == nil {
		r.senders = mapset.NewThreadUnsafeSet[sender]()
	}
	r.senders.Add(s)
	r.mu.Unlock()
}

func (r *Slots) signalDisconnect(s sender) {
	r.mu.Lock()
	if r.senders != nil {
		r.senders.Remove(s)
	}
	r.mu.Unlock()
}

// DisconnectAll severs every connection made through r, removing r from
// each signal it is attached to. This is the teardown half of the receiver
// lifecycle; a receiver that is done must call it before being dropped.
func (r *Slots) DisconnectAll() {
	r.mu.Lock()
	var senders []sender
	if r.senders != nil {
		senders = r.senders.ToSlice()
		r.senders.Clear()
	}
	r.mu.Unlock()

	for _, s := range senders {
		s.slotDisconnect(r)
	}
}
