package sigslot_test

import (
	"fmt"

	"github.com/sigslot-dev/sigslot"
)

func ExampleSignal() {
	var sig sigslot.Signal[string]

	h := sig.ConnectFunc(func(s string) { fmt.Println("got", s) })
	defer h.DisconnectAll()

	sig.Emit("hello")
	// Output:
	// got hello
}

func ExampleSignal_oneShot() {
	var sig sigslot.Signal[int]

	sig.ConnectFuncOnce(func(v int) { fmt.Println("once:", v) })

	sig.Emit(1)
	sig.Emit(2)
	// Output:
	// once: 1
}

func ExampleTasklet() {
	var sig sigslot.Signal[int]

	coro := sigslot.NewTasklet(func(co *sigslot.Coro) (int, error) {
		return sig.Await(co) * 2, nil
	})
	defer coro.Close()

	coro.Start()
	sig.Emit(21)

	v, _ := coro.Get()
	fmt.Println(v)
	// Output:
	// 42
}

func ExampleAwait() {
	inner := sigslot.NewTasklet(func(co *sigslot.Coro) (int, error) {
		return 21, nil
	})
	defer inner.Close()

	outer := sigslot.NewTasklet(func(co *sigslot.Coro) (int, error) {
		v, err := sigslot.Await(co, inner)
		return v * 2, err
	})
	defer outer.Close()

	v, _ := outer.Get()
	fmt.Println(v)
	// Output:
	// 42
}

func ExampleCoThread() {
	l := new(sigslot.Loop)
	prev := sigslot.SetResumer(l)
	defer sigslot.SetResumer(prev)

	double := sigslot.NewCoThread(func(v int) (int, error) {
		return v * 2, nil
	})

	coro := sigslot.NewTasklet(func(co *sigslot.Coro) (int, error) {
		return double.Call(21).Await(co)
	})
	defer coro.Close()

	v, _ := sigslot.RunUntilComplete(l, coro)
	fmt.Println(v)
	// Output:
	// 42
}
