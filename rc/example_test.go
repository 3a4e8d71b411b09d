package rc_test

import (
	"fmt"

	"github.com/dacapoday/grip/rc"
)

func Example() {
	// One value, shared by two handles.
	a := rc.NewWithFinalizer("resource", func(s *string) {
		fmt.Println("finalized:", *s)
	})
	b := a.Clone()
	fmt.Println("refs:", b.Refs())

	// A weak reference watches without owning.
	w := b.Downgrade()

	a.Reset()
	if s := w.Upgrade(); !s.Empty() {
		fmt.Println("still alive:", *s.Get())
		s.Reset()
	}

	// The last strong drop finalizes, with the weak still watching.
	b.Reset()
	if s := w.Upgrade(); s.Empty() {
		fmt.Println("gone")
	}
	w.Reset()

	// Output:
	// refs: 2
	// still alive: resource
	// finalized: resource
	// gone
}
