package sigslot

// coroExit unwinds a coroutine body when its frame is destroyed before
// completion. park turns the exit notification into a panic so that the
// deferred cleanups at every await site run on the way out.
type coroExit struct{}

// A Coro is a suspended-coroutine handle.
//
// Inside a coroutine body, the Coro is the suspension capability: the await
// operations ([Signal.Await], [Await] and [ThreadAwait.Await]) take it and
// park the body until a completion arrives. Outside, the same value is what
// the kernel hands to the installed [Resumer] whenever a completion wants
// the coroutine to continue.
//
// A Coro belongs to exactly one coroutine body and must not be fabricated;
// the only way to obtain one is to be given it by [NewTasklet].
type Coro struct {
	resume chan struct{}
	yield  chan struct{}
	exit   chan struct{}
	dead   chan struct{}
	weight Weight
}

func newCoro() *Coro {
	return &Coro{
		resume: make(chan struct{}),
		yield:  make(chan struct{}),
		exit:   make(chan struct{}),
		dead:   make(chan struct{}),
	}
}

// Resume transfers control into the coroutine and does not return until the
// coroutine parks again or finishes. Resuming a coroutine whose frame has
// been destroyed is a no-op.
//
// Resume is what a [Resumer] calls once it has decided on which goroutine
// the coroutine continues. Everyone else goes through the kernel.
func (c *Coro) Resume() {
	select {
	case c.resume <- struct{}{}:
		<-c.yield
	case <-c.dead:
	}
}

// Weight returns the scheduling weight of c, as set by [Tasklet.SetWeight].
func (c *Coro) Weight() Weight {
	return c.weight
}

// park yields control to whichever goroutine resumed the coroutine and
// blocks the body until the next resume. Must only be called from the
// body's own goroutine.
func (c *Coro) park() {
	c.yield <- struct{}{}
	select {
	case <-c.resume:
	case <-c.exit:
		panic(coroExit{})
	}
}
