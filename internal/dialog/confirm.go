package dialog

import (
	"context"
	"sync"
	"time"
)

// Confirm gates a destructive action. It moves closed -> open -> deleting -> closed.
type Confirm struct {
	mu        sync.Mutex
	state     State
	target    string
	delay     time.Duration
	onConfirm func()
}

// NewConfirm returns a closed confirmation dialog that calls onConfirm once per confirmation.
func NewConfirm(delay time.Duration, onConfirm func()) *Confirm {
	return &Confirm{delay: delay, onConfirm: onConfirm}
}

// Open shows the dialog for the record named target.
func (c *Confirm) Open(target string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Deleting {
		return ErrBusy
	}
	c.target = target
	c.state = Open
	return nil
}

// Target is the display name of the record awaiting confirmation.
func (c *Confirm) Target() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// State returns the current dialog state.
func (c *Confirm) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Confirm starts the deletion. The returned Op calls onConfirm after the latency.
func (c *Confirm) Confirm(ctx context.Context) (*Op, error) {
	c.mu.Lock()
	switch c.state {
	case Open:
	case Deleting:
		c.mu.Unlock()
		return nil, ErrBusy
	default:
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.state = Deleting
	c.mu.Unlock()

	return start(ctx, c.delay, func() {
		c.onConfirm()
		c.mu.Lock()
		c.state = Closed
		c.target = ""
		c.mu.Unlock()
	}, func() {
		c.mu.Lock()
		c.state = Open
		c.mu.Unlock()
	}), nil
}

// Cancel closes the dialog without calling onConfirm.
func (c *Confirm) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Deleting {
		return ErrBusy
	}
	c.state = Closed
	c.target = ""
	return nil
}
