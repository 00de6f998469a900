package tagging

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"cpaas-portal/internal/gateway"
	"cpaas-portal/internal/notify"
	"cpaas-portal/internal/observ"
	"cpaas-portal/pkg/models"

	"go.uber.org/zap"
)

var ErrNotOpen = errors.New("tag editor is not open")

// Editor holds a working copy of one contact's tag names. Nothing is sent
// until Save; Close throws the working copy away.
type Editor struct {
	caller   gateway.Caller
	token    string
	notifier notify.Notifier
	logger   *zap.Logger
	onSaved  func(ctx context.Context) error

	mu        sync.Mutex
	open      bool
	contactID string
	original  []string
	selected  []string
}

type Option func(*Editor)

func WithNotifier(n notify.Notifier) Option {
	return func(e *Editor) { e.notifier = notify.OrDiscard(n) }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Editor) { e.logger = observ.OrNop(l) }
}

// OnSaved is called after the server accepted a new tag list.
func OnSaved(fn func(ctx context.Context) error) Option {
	return func(e *Editor) { e.onSaved = fn }
}

func NewEditor(caller gateway.Caller, token string, opts ...Option) *Editor {
	e := &Editor{
		caller:   caller,
		token:    token,
		notifier: notify.Discard{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open seeds the working copy from the contact's current tags.
func (e *Editor) Open(c models.Contact) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.open = true
	e.contactID = c.ID
	e.original = append([]string(nil), c.Tags...)
	e.selected = append([]string(nil), c.Tags...)
}

func (e *Editor) IsOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

func (e *Editor) ContactID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.contactID
}

// Toggle appends name when absent and removes it when present.
func (e *Editor) Toggle(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return
	}
	for i, t := range e.selected {
		if t == name {
			e.selected = append(e.selected[:i:i], e.selected[i+1:]...)
			return
		}
	}
	e.selected = append(e.selected, name)
}

func (e *Editor) IsSelected(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range e.selected {
		if t == name {
			return true
		}
	}
	return false
}

func (e *Editor) Selected() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.selected...)
}

// Dirty reports whether the working copy differs from the opened contact.
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !sameSet(e.original, e.selected)
}

// Save replaces the contact's whole tag list with the working copy.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return ErrNotOpen
	}
	id := e.contactID
	tags := append([]string{}, e.selected...)
	e.mu.Unlock()

	if err := e.patch(ctx, id, tags); err != nil {
		e.notifier.Error(gateway.Message(err, "Failed to update tags"))
		return err
	}
	e.notifier.Success("Tags updated successfully")
	e.Close()
	return e.saved(ctx)
}

// Remove detaches one tag from a contact right away, outside the working copy.
func (e *Editor) Remove(ctx context.Context, c models.Contact, name string) error {
	tags := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		if t != name {
			tags = append(tags, t)
		}
	}
	if err := e.patch(ctx, c.ID, tags); err != nil {
		e.notifier.Error(gateway.Message(err, "Failed to remove tag"))
		return err
	}
	e.notifier.Success("Tag removed successfully")
	return e.saved(ctx)
}

// Close discards the working copy.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.open = false
	e.contactID = ""
	e.original = nil
	e.selected = nil
}

func (e *Editor) patch(ctx context.Context, contactID string, tags []string) error {
	_, err := e.caller.Call(ctx, http.MethodPatch, "contacts/"+contactID, e.token, map[string]any{"tags": tags})
	if err != nil {
		e.logger.Warn("update contact tags failed", zap.String("contact", contactID), zap.Error(err))
	}
	return err
}

func (e *Editor) saved(ctx context.Context) error {
	if e.onSaved == nil {
		return nil
	}
	if err := e.onSaved(ctx); err != nil {
		e.logger.Warn("refresh after tag update failed", zap.Error(err))
	}
	return nil
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, s := range a {
		seen[s]++
	}
	for _, s := range b {
		if seen[s] == 0 {
			return false
		}
		seen[s]--
	}
	return true
}
