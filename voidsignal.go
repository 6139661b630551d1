package sigslot

// Void is the empty payload. It is the payload type of [VoidSignal] and a
// convenient result type for workers that produce nothing.
type Void struct{}

// VoidSignal is the payload-free signal: slots take no arguments and
// awaiting it returns nothing. It behaves like [Signal] in every other
// respect, and its zero value is ready to use.
type VoidSignal struct {
	sig Signal[Void]
}

// Connect appends a connection from r to fn.
func (s *VoidSignal) Connect(r *Slots, fn func()) {
	s.sig.Connect(r, func(Void) { fn() })
}

// ConnectOnce is [VoidSignal.Connect] for a connection that self-removes
// after its first delivery.
func (s *VoidSignal) ConnectOnce(r *Slots, fn func()) {
	s.sig.ConnectOnce(r, func(Void) { fn() })
}

// ConnectFunc connects fn through a fresh anonymous receiver group and
// returns it.
func (s *VoidSignal) ConnectFunc(fn func()) *Slots {
	return s.sig.ConnectFunc(func(Void) { fn() })
}

// ConnectFuncOnce is [VoidSignal.ConnectFunc] for a one-shot connection.
func (s *VoidSignal) ConnectFuncOnce(fn func()) *Slots {
	return s.sig.ConnectFuncOnce(func(Void) { fn() })
}

// Disconnect removes every connection whose receiver is r.
func (s *VoidSignal) Disconnect(r *Slots) {
	s.sig.Disconnect(r)
}

// DisconnectAll severs every connection of s.
func (s *VoidSignal) DisconnectAll() {
	s.sig.DisconnectAll()
}

// Emit notifies every awaiter and connection of s.
func (s *VoidSignal) Emit() {
	s.sig.Emit(Void{})
}

// Await parks co until the next emission of s.
func (s *VoidSignal) Await(co *Coro) {
	s.sig.Await(co)
}
