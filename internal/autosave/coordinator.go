// Package autosave persists the open document after edits settle.
package autosave

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"slidedeck/internal/editor"
	"slidedeck/internal/models"
)

// DefaultDelay is the quiet period after the last edit before saving.
const DefaultDelay = 1500 * time.Millisecond

// Saver writes a whole presentation to the remote store.
type Saver interface {
	Put(ctx context.Context, id string, p models.Presentation) (models.Presentation, error)
}

// Source is the document being watched.
type Source interface {
	Subscribe(fn editor.Listener) func()
	Snapshot() editor.PresentState
	SetSaveStatus(status editor.SaveStatus)
}

// Timer is the part of *time.Timer the coordinator needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ErrClosed is returned by Flush after Close.
var ErrClosed = errors.New("autosave: coordinator closed")

// Coordinator debounces watched edits and saves the latest document.
// Each dispatch gets a sequence number and only the most recent dispatch
// may set the final save status; a slower, older response is ignored.
type Coordinator struct {
	src       Source
	saver     Saver
	delay     time.Duration
	timeout   time.Duration
	afterFunc AfterFunc

	mu          sync.Mutex
	timer       Timer
	armed       uint64
	seq         uint64
	closed      bool
	unsubscribe func()
	inflight    sync.WaitGroup
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDelay sets the debounce window.
func WithDelay(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.delay = d
		}
	}
}

// WithTimeout bounds each save request.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.timeout = d }
}

// WithAfterFunc swaps the timer implementation, mainly for tests.
func WithAfterFunc(fn AfterFunc) Option {
	return func(c *Coordinator) { c.afterFunc = fn }
}

// New starts watching src and saving through saver.
func New(src Source, saver Saver, opts ...Option) *Coordinator {
	c := &Coordinator{
		src:       src,
		saver:     saver,
		delay:     DefaultDelay,
		timeout:   30 * time.Second,
		afterFunc: realAfterFunc,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.unsubscribe = src.Subscribe(c.onChange)
	return c
}

func (c *Coordinator) onChange(ch editor.Change) {
	if !ch.Op.Watched() {
		return
	}
	c.schedule()
}

// Retry arms the debounce timer again, typically after a failed save.
func (c *Coordinator) Retry() {
	c.schedule()
}

func (c *Coordinator) schedule() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.armed++
	armed := c.armed
	c.timer = c.afterFunc(c.delay, func() { c.fire(armed) })
}

func (c *Coordinator) fire(armed uint64) {
	c.mu.Lock()
	if c.closed || armed != c.armed || c.timer == nil {
		// reset or flushed after this timer started firing
		c.mu.Unlock()
		return
	}
	seq := c.claim()
	c.mu.Unlock()
	defer c.inflight.Done()

	ctx, cancel := c.requestContext(context.Background())
	defer cancel()
	if err := c.dispatch(ctx, seq); err != nil {
		log.Printf("Autosave failed: %v", err)
	}
}

// Flush saves immediately, cancelling any pending timer.
func (c *Coordinator) Flush(ctx context.Context) error {
	seq, ok := c.next()
	if !ok {
		return ErrClosed
	}
	defer c.inflight.Done()

	ctx, cancel := c.requestContext(ctx)
	defer cancel()
	return c.dispatch(ctx, seq)
}

// Close stops watching and waits for any save already in flight.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	c.unsubscribe()
	c.inflight.Wait()
}

// next claims a dispatch sequence number.
func (c *Coordinator) next() (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, false
	}
	return c.claim(), true
}

// claim must be called with the lock held.
func (c *Coordinator) claim() uint64 {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.seq++
	c.inflight.Add(1)
	return c.seq
}

func (c *Coordinator) latest(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return seq == c.seq
}

func (c *Coordinator) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

func (c *Coordinator) dispatch(ctx context.Context, seq uint64) error {
	doc := c.src.Snapshot().Presentation
	if doc == nil {
		return nil
	}

	c.src.SetSaveStatus(editor.StatusSaving)
	_, err := c.saver.Put(ctx, doc.ID, *doc)

	if !c.latest(seq) {
		return err
	}
	if err != nil {
		c.src.SetSaveStatus(editor.StatusFailed)
		return err
	}
	c.src.SetSaveStatus(editor.StatusSucceeded)
	return nil
}
