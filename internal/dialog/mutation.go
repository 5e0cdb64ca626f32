package dialog

import (
	"context"
	"sync"
	"time"
)

// Form is a draft that can be validated into a payload P.
type Form[P any] interface {
	Validate() (P, FieldErrors)
}

// Mutation is the create/edit dialog. It moves closed -> open -> submitting -> closed.
type Mutation[F Form[P], P any] struct {
	mu       sync.Mutex
	state    State
	draft    F
	blank    func() F
	delay    time.Duration
	onSubmit func(P)
}

// NewMutation returns a closed dialog. blank produces the default draft, and
// onSubmit receives each validated payload.
func NewMutation[F Form[P], P any](blank func() F, delay time.Duration, onSubmit func(P)) *Mutation[F, P] {
	return &Mutation[F, P]{blank: blank, draft: blank(), delay: delay, onSubmit: onSubmit}
}

// Open shows the dialog with form as its draft. Reopening an open dialog replaces the draft.
func (m *Mutation[F, P]) Open(form F) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Submitting {
		return ErrBusy
	}
	m.draft = form
	m.state = Open
	return nil
}

// OpenBlank opens the dialog with the default draft.
func (m *Mutation[F, P]) OpenBlank() error {
	return m.Open(m.blank())
}

// State returns the current dialog state.
func (m *Mutation[F, P]) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Draft returns a copy of the current draft.
func (m *Mutation[F, P]) Draft() F {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// Edit applies fn to the draft of an open dialog.
func (m *Mutation[F, P]) Edit(fn func(*F)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editable(); err != nil {
		return err
	}
	fn(&m.draft)
	return nil
}

// Submit validates the draft. Field errors are returned as FieldErrors and
// leave the dialog open. Otherwise the dialog starts submitting and the
// returned Op hands the payload to onSubmit once the latency has passed.
func (m *Mutation[F, P]) Submit(ctx context.Context) (*Op, error) {
	m.mu.Lock()
	if err := m.editable(); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	payload, errs := m.draft.Validate()
	if errs := errs.orNil(); errs != nil {
		m.mu.Unlock()
		return nil, errs
	}
	m.state = Submitting
	m.mu.Unlock()

	return start(ctx, m.delay, func() {
		m.onSubmit(payload)
		m.mu.Lock()
		m.draft = m.blank()
		m.state = Closed
		m.mu.Unlock()
	}, func() {
		m.mu.Lock()
		m.state = Open
		m.mu.Unlock()
	}), nil
}

// Cancel closes the dialog and discards the draft. onSubmit is not called.
func (m *Mutation[F, P]) Cancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Submitting {
		return ErrBusy
	}
	m.draft = m.blank()
	m.state = Closed
	return nil
}

func (m *Mutation[F, P]) editable() error {
	switch m.state {
	case Open:
		return nil
	case Submitting:
		return ErrBusy
	default:
		return ErrClosed
	}
}
