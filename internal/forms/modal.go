package forms

import (
	"context"
	"errors"

	"cpaas-portal/internal/gateway"
	"cpaas-portal/internal/notify"
	"cpaas-portal/internal/observ"

	"go.uber.org/zap"
)

// Mode says whether a form creates a new entity or edits an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

func modeOf(id string) Mode {
	if id != "" {
		return ModeEdit
	}
	return ModeCreate
}

// Messages are the notices shown after a submit.
type Messages struct {
	Success string
	Failure string
}

// Form is the input of one modal.
type Form interface {
	Validate() error
	Request() (method, path string, payload any)
	Messages() Messages
}

// Modal submits forms through the gateway and reports back to its owner.
type Modal struct {
	Caller   gateway.Caller
	Token    string
	Notifier notify.Notifier
	Logger   *zap.Logger

	// OnClose dismisses the modal. OnSaved lets the owning list refetch.
	OnClose func()
	OnSaved func(ctx context.Context) error
}

// Submit validates f and sends it. Nothing reaches the server when
// validation fails. Callbacks only run after the server accepted the write.
func (m *Modal) Submit(ctx context.Context, f Form) (*gateway.Response, error) {
	notifier := notify.OrDiscard(m.Notifier)
	logger := observ.OrNop(m.Logger)

	if err := f.Validate(); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			notifier.Error(ve.Message)
		} else {
			notifier.Error(err.Error())
		}
		return nil, err
	}

	method, path, payload := f.Request()
	msgs := f.Messages()

	resp, err := m.Caller.Call(ctx, method, path, m.Token, payload)
	if err != nil {
		logger.Warn("form submit failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		notifier.Error(gateway.Message(err, msgs.Failure))
		return nil, err
	}

	if msgs.Success != "" {
		notifier.Success(msgs.Success)
	}
	if m.OnClose != nil {
		m.OnClose()
	}
	if m.OnSaved != nil {
		if err := m.OnSaved(ctx); err != nil {
			logger.Warn("refresh after save failed", zap.String("path", path), zap.Error(err))
		}
	}
	return resp, nil
}
