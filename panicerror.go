package sigslot

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// A PanicError carries a panic recovered from a coroutine body or from a
// worker function, along with the stack trace captured at the panic site.
type PanicError struct {
	value any
	stack []byte
}

func newPanicError(v any) *PanicError {
	return &PanicError{value: v, stack: debug.Stack()}
}

// Value returns the recovered panic value.
func (e *PanicError) Value() any {
	return e.value
}

func (e *PanicError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "panic: %v", e.value)
	if e.stack != nil {
		b.WriteString("\n\n")
		b.Write(e.stack)
	}
	return b.String()
}

// Unwrap exposes the panic value when it is an error, so that errors.Is and
// errors.As reach through.
func (e *PanicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
