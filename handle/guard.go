// Package handle guards a trained booster against being released while
// scoring calls still use it.
package handle

import (
	"sync"

	"github.com/xh3b4sd/tracer"

	"github.com/xh3b4sd/xgbridge"
)

// Guard is a reference count around a trained handle. Every scoring call
// acquires the handle and returns it when done. Close blocks new
// acquisitions, waits for all outstanding references and then runs the
// release func exactly once.
type Guard struct {
	han xgbridge.Handle
	rel func() error

	mut sync.Mutex
	clo bool
	ref sync.WaitGroup

	don chan struct{}
	err error
}

func New(han xgbridge.Handle, rel func() error) *Guard {
	return &Guard{
		han: han,
		rel: rel,
		don: make(chan struct{}),
	}
}

// Acquire returns the guarded handle together with the func returning the
// reference. Calling the func more than once has no effect.
func (g *Guard) Acquire() (xgbridge.Handle, func(), error) {
	g.mut.Lock()
	defer g.mut.Unlock()

	if g.clo {
		return nil, func() {}, tracer.Mask(releasedHandleError)
	}

	g.ref.Add(1)

	var onc sync.Once
	don := func() {
		onc.Do(g.ref.Done)
	}

	return g.han, don, nil
}

// Close releases the handle once all references are returned. Concurrent and
// repeated calls wait for the first one and report its result.
func (g *Guard) Close() error {
	g.mut.Lock()
	if g.clo {
		g.mut.Unlock()
		<-g.don
		return g.err
	}
	g.clo = true
	g.mut.Unlock()

	{
		g.ref.Wait()
	}

	if g.rel != nil {
		err := g.rel()
		if err != nil {
			g.err = tracer.Mask(err)
		}
	}

	close(g.don)

	return g.err
}

// closed reports whether Close has been called.
func (g *Guard) closed() bool {
	g.mut.Lock()
	defer g.mut.Unlock()

	return g.clo
}
