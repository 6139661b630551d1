// Package sigslot is a small concurrency kernel for event-driven programs.
//
// It unifies three primitives:
//
//   - [Signal]: a multicast notification channel carrying a typed payload to
//     a dynamic set of receivers, with lifetime-safe disconnection on both
//     sides of every connection.
//   - [Tasklet]: a lazy, single-shot coroutine whose completion is itself
//     a pair of signals, composable by awaiting other tasklets or signals.
//   - [CoThread]: an adapter that runs a blocking function on a worker
//     goroutine and exposes its completion as a suspension point consumable
//     by the coroutine layer.
//
// # Coroutines Without a Compiler
//
// Go has no suspendable functions, so a tasklet body runs on a dedicated
// goroutine that starts parked. The [Coro] passed to the body is the
// suspension capability: awaiting a signal, another tasklet, or a worker
// completion parks the body until the completion arrives. Control transfer
// is a strict handshake. Resuming a coroutine does not return until the
// coroutine parks again or finishes, so the whole arrangement behaves like
// a single cooperative thread even though several goroutines carry it.
//
// A coroutine suspends at exactly three points: awaiting a signal, awaiting
// a tasklet, and awaiting a [ThreadAwait]. Nothing else parks.
//
// # Who Resumes a Parked Coroutine, and Where
//
// Whenever a completion wants a parked coroutine to continue, the kernel
// hands the coroutine to the installed [Resumer]. The default policy
// resumes in place, which is what single-threaded programs want. A host
// event loop installs its own policy with [SetResumer] to enqueue wakeups
// instead; [Loop] is such a host. This is what makes worker completions
// safe: the worker's goroutine only enqueues, and the coroutine continues
// on whichever goroutine pumps the loop.
//
// # Signals and Slots
//
// A [Signal] owns an ordered list of connections; a [Slots] receiver group
// owns the reverse edges. Tearing down either side cleans up the other, so
// a receiver that goes away mid-flight never leaves a dangling callable
// behind. Emission visits connections in insertion order; connections made
// during an emission are not visited by it, and a connection disconnected
// mid-emission before its turn is skipped.
//
// Signals carry one payload type. For the payload-free case use
// [VoidSignal]; for several arguments use a small struct:
//
//	type moved struct{ x, y int }
//	var sig sigslot.Signal[moved]
//
// # Errors
//
// A tasklet body reports failure by returning an error; a panic in a body
// or in a worker function is captured as a [*PanicError] carrying the stack
// trace. Either way the payload surfaces only where the result is read,
// through [Tasklet.Get] or an await, and is broadcast once on the tasklet's
// exception signal for observers that do not consume the value. Misuse,
// such as starting a tasklet twice or reading an unfinished result, panics.
//
// # Lifetime
//
// A tasklet handle exclusively owns its frame. [Tasklet.Close] destroys the
// frame, unwinding a still-parked body through its await-site cleanups; a
// registered [Tracker] observes exactly one terminal callback either way.
// Awaiters must not outlive their target: keep a tasklet alive across any
// await of it.
package sigslot
