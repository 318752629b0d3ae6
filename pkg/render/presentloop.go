package render

import (
	"context"
	"sync"
)

// PresentLoop implements the double-buffered producer/presenter handoff
// described in the concurrency model. It replaces the original's pair of
// spinning atomic booleans with a mutex and two condition variables — one
// per handoff direction — while preserving the same happens-before chain:
// writes to pFrame made before PresentFrame's signal happen-before the
// presenter's read, and the presenter's completion happens-before the
// producer reuses that buffer.
type PresentLoop struct {
	rast *Rasterizer

	mu                sync.Mutex
	frameReadyCond    *sync.Cond
	frameConsumedCond *sync.Cond
	hasFrame          bool
	consumed          bool
	cancelled         bool
}

// NewPresentLoop wraps the Rasterizer whose buffer pair will be swapped and
// presented.
func NewPresentLoop(r *Rasterizer) *PresentLoop {
	pl := &PresentLoop{rast: r, consumed: true}
	pl.frameReadyCond = sync.NewCond(&pl.mu)
	pl.frameConsumedCond = sync.NewCond(&pl.mu)
	return pl
}

// PresentFrame is called by the producer once it has finished composing
// rFrame. It blocks only until the previous presentation has completed,
// then swaps buffers (the just-finished buffer becomes pFrame) and signals
// the presenter.
func (pl *PresentLoop) PresentFrame() {
	pl.mu.Lock()
	for !pl.consumed {
		pl.frameConsumedCond.Wait()
	}
	pl.consumed = false
	pl.rast.SwapBuffers()
	pl.hasFrame = true
	pl.mu.Unlock()
	pl.frameReadyCond.Signal()
}

// Stop requests the presenter goroutine to exit at its next wakeup, after
// finishing any frame already in flight.
func (pl *PresentLoop) Stop() {
	pl.mu.Lock()
	pl.cancelled = true
	pl.mu.Unlock()
	pl.frameReadyCond.Broadcast()
}

// Run is the presenter goroutine's body: block until a frame is ready,
// invoke render against pFrame, signal completion, repeat until ctx is
// cancelled or Stop is called. A graceful shutdown lets any in-flight
// present finish — cancellation is only observed at the next wait, never
// mid-callback.
func (pl *PresentLoop) Run(ctx context.Context, render func(*FrameBuffer)) {
	stopOnCancel := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			pl.Stop()
		case <-stopOnCancel:
		}
	}()
	defer close(stopOnCancel)

	for {
		pl.mu.Lock()
		for !pl.hasFrame && !pl.cancelled {
			pl.frameReadyCond.Wait()
		}
		if !pl.hasFrame && pl.cancelled {
			pl.mu.Unlock()
			return
		}
		pl.hasFrame = false
		pFrame := pl.rast.PFrame()
		pl.mu.Unlock()

		render(pFrame)

		pl.mu.Lock()
		pl.consumed = true
		pl.mu.Unlock()
		pl.frameConsumedCond.Signal()
	}
}
