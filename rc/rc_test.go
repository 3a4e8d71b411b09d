package rc

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrongLifecycle(t *testing.T) {
	var finalized int
	a := NewWithFinalizer(42, func(*int) { finalized++ })

	require.False(t, a.Empty())
	require.Equal(t, int64(1), a.Refs())
	require.Equal(t, 42, *a.Get())

	b := a.Clone()
	require.Equal(t, int64(2), a.Refs())
	require.Same(t, a.Get(), b.Get())

	a.Reset()
	require.True(t, a.Empty())
	require.Nil(t, a.Get())
	require.Equal(t, int64(1), b.Refs())
	require.Zero(t, finalized)

	b.Reset()
	require.Equal(t, 1, finalized)
}

func TestZeroValueIsEmpty(t *testing.T) {
	var s Strong[int]
	require.True(t, s.Empty())
	require.Nil(t, s.Get())
	require.Equal(t, int64(0), s.Refs())

	s.Reset() // no-op
	c := s.Clone()
	require.True(t, c.Empty())
	w := s.Downgrade()
	require.True(t, w.Empty())
}

func TestMove(t *testing.T) {
	a := New("v")
	b := a.Move()

	require.True(t, a.Empty())
	require.False(t, b.Empty())
	require.Equal(t, int64(1), b.Refs())
	require.Equal(t, "v", *b.Get())

	b.Reset()
}

func TestAssignReplaces(t *testing.T) {
	var droppedA, droppedB int
	a := NewWithFinalizer("a", func(*string) { droppedA++ })
	b := NewWithFinalizer("b", func(*string) { droppedB++ })

	a.Assign(&b)
	require.Equal(t, 1, droppedA)
	require.Zero(t, droppedB)
	require.Equal(t, "b", *a.Get())
	require.Equal(t, int64(2), b.Refs())

	a.Reset()
	b.Reset()
	require.Equal(t, 1, droppedB)
}

func TestAssignSelf(t *testing.T) {
	var finalized int
	s := NewWithFinalizer("v", func(*string) { finalized++ })

	s.Assign(&s)
	require.Zero(t, finalized)
	require.Equal(t, int64(1), s.Refs())
	require.Equal(t, "v", *s.Get())

	s.Reset()
	require.Equal(t, 1, finalized)
}

func TestAssignAlias(t *testing.T) {
	// a and b own the same value; assigning one to the other must not
	// finalize it mid-swap.
	var finalized int
	a := NewWithFinalizer("v", func(*string) { finalized++ })
	b := a.Clone()

	a.Assign(&b)
	require.Zero(t, finalized)
	require.Equal(t, int64(2), a.Refs())

	a.Reset()
	b.Reset()
	require.Equal(t, 1, finalized)
}

func TestAssignEmpty(t *testing.T) {
	var finalized int
	s := NewWithFinalizer("v", func(*string) { finalized++ })
	var empty Strong[string]

	s.Assign(&empty)
	require.True(t, s.Empty())
	require.Equal(t, 1, finalized)
}

// The full lifetime walkthrough: two strong handles, one weak, with the
// value dying while the weak reference still watches.
func TestWeakObservesDeath(t *testing.T) {
	var finalized int
	a := NewWithFinalizer(7, func(*int) { finalized++ })
	require.Equal(t, int64(1), a.Refs())

	b := a.Clone()
	require.Equal(t, int64(2), b.Refs())

	a.Reset()
	require.Equal(t, int64(1), b.Refs())
	require.Zero(t, finalized)

	w := b.Downgrade()
	require.False(t, w.Gone())

	up := w.Upgrade()
	require.False(t, up.Empty())
	require.Equal(t, int64(2), b.Refs())
	require.Equal(t, 7, *up.Get())
	up.Reset()

	b.Reset()
	require.Equal(t, 1, finalized)
	require.True(t, w.Gone())

	up = w.Upgrade()
	require.True(t, up.Empty())
	require.Equal(t, 1, finalized)

	w.Reset()
	require.True(t, w.Empty())
}

func TestWeakClone(t *testing.T) {
	s := New(1)
	w1 := s.Downgrade()
	w2 := w1.Clone()

	s.Reset()
	require.True(t, w1.Gone())
	require.True(t, w2.Gone())
	up := w2.Upgrade()
	require.True(t, up.Empty())

	w1.Reset()
	w2.Reset()
}

// A parent/child cycle with the back edge expressed as a Weak: dropping
// the external handles must finalize both nodes.
func TestCycleBrokenByWeak(t *testing.T) {
	type node struct {
		name     string
		parent   Weak[node]
		children []Strong[node]
	}

	var finalized []string
	fin := func(n *node) {
		finalized = append(finalized, n.name)
		for i := range n.children {
			n.children[i].Reset()
		}
		n.parent.Reset()
	}

	parent := NewWithFinalizer(node{name: "parent"}, fin)
	child := NewWithFinalizer(node{name: "child"}, fin)

	child.Get().parent = parent.Downgrade()
	parent.Get().children = append(parent.Get().children, child.Clone())

	child.Reset()
	require.Empty(t, finalized) // parent still owns the child

	parent.Reset()
	require.Equal(t, []string{"parent", "child"}, finalized)
}

func TestConcurrentClone(t *testing.T) {
	const (
		goroutines = 8
		cycles     = 10000
	)

	var finalized atomic.Int64
	src := NewWithFinalizer(1, func(*int) { finalized.Add(1) })

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < cycles; i++ {
				c := src.Clone()
				c.Reset()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int64(1), src.Refs())
	require.Zero(t, finalized.Load())

	src.Reset()
	require.Equal(t, int64(1), finalized.Load())
}

func TestConcurrentUpgrade(t *testing.T) {
	const goroutines = 8

	var finalized atomic.Int64
	src := NewWithFinalizer(1, func(*int) { finalized.Add(1) })
	weak := src.Downgrade()

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := weak.Clone()
			defer w.Reset()
			for i := 0; i < 1000; i++ {
				if s := w.Upgrade(); !s.Empty() {
					s.Reset()
				}
			}
		}()
	}
	src.Reset()
	wg.Wait()

	require.Equal(t, int64(1), finalized.Load())
	require.True(t, weak.Gone())
	weak.Reset()
}
