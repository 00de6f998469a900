package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpaas-portal/internal/listing"
	"cpaas-portal/internal/notify"
	"cpaas-portal/pkg/models"
)

type fakeAPI struct {
	contacts []models.Contact
	queries  []listing.Query
	deleted  []string
	fetchErr error
	delErr   error
}

func (f *fakeAPI) fetch(_ context.Context, q listing.Query) ([]models.Contact, error) {
	f.queries = append(f.queries, q)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.contacts, nil
}

func (f *fakeAPI) delete(_ context.Context, id string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, id)
	var kept []models.Contact
	for _, c := range f.contacts {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	f.contacts = kept
	return nil
}

func contactsN(n int) []models.Contact {
	out := make([]models.Contact, n)
	for i := range out {
		out[i] = models.Contact{ID: string(rune('a' + i)), FirstName: "C", LastName: string(rune('A' + i))}
	}
	return out
}

func newModel(api *fakeAPI) (Model, *notify.Center) {
	center := notify.NewCenter()
	m := New(context.Background(), Config{Fetch: api.fetch, Delete: api.delete, Notices: center})
	m.noticeDelay = time.Millisecond
	return m, center
}

// run executes cmd and feeds its message back, ignoring batches and ticks.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	switch msg := msg.(type) {
	case contactsMsg, deletedMsg:
		next, follow := m.Update(msg)
		return run(t, next.(Model), follow)
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			m = run(t, m, c)
		}
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, s string) (Model, tea.Cmd) {
	next, cmd := m.Update(key(s))
	return next.(Model), cmd
}

func TestInitLoadsFirstPage(t *testing.T) {
	api := &fakeAPI{contacts: contactsN(7)}
	m, _ := newModel(api)

	m = run(t, m, m.Init())
	assert.Len(t, m.Contacts(), 7)
	page, total := m.Page()
	assert.Equal(t, 1, page)
	assert.Equal(t, 2, total)
	assert.Len(t, m.visible(), 5)
}

func TestPaging(t *testing.T) {
	api := &fakeAPI{contacts: contactsN(7)}
	m, _ := newModel(api)
	m = run(t, m, m.Init())

	m, _ = press(m, "right")
	page, _ := m.Page()
	assert.Equal(t, 2, page)
	assert.Len(t, m.visible(), 2)

	m, _ = press(m, "right")
	page, _ = m.Page()
	assert.Equal(t, 2, page, "cannot go past the last page")

	m, _ = press(m, "left")
	m, _ = press(m, "left")
	page, _ = m.Page()
	assert.Equal(t, 1, page)
}

func TestStaleSearchTickIgnored(t *testing.T) {
	api := &fakeAPI{contacts: contactsN(2)}
	m, _ := newModel(api)
	m = run(t, m, m.Init())

	m, _ = press(m, "/")
	m, _ = press(m, "a")
	m, _ = press(m, "b")
	require.Equal(t, 2, m.seq)

	next, cmd := m.Update(searchTickMsg{seq: 1})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Len(t, api.queries, 1)

	next, cmd = m.Update(searchTickMsg{seq: 2})
	m = run(t, next.(Model), cmd)
	require.Len(t, api.queries, 2)
	assert.Equal(t, "ab", api.queries[1].Search)
	assert.Equal(t, "ab", m.Query().Search)
}

func TestStaleResultsDiscarded(t *testing.T) {
	api := &fakeAPI{contacts: contactsN(3)}
	m, _ := newModel(api)
	m = run(t, m, m.Init())

	m.gen = 5
	next, _ := m.Update(contactsMsg{gen: 4, contacts: contactsN(1)})
	m = next.(Model)
	assert.Len(t, m.Contacts(), 3)

	next, _ = m.Update(contactsMsg{gen: 5, contacts: contactsN(1)})
	m = next.(Model)
	assert.Len(t, m.Contacts(), 1)
}

func TestChannelFilterCycles(t *testing.T) {
	api := &fakeAPI{contacts: contactsN(1)}
	m, _ := newModel(api)
	m = run(t, m, m.Init())

	m, cmd := press(m, "tab")
	m = run(t, m, cmd)
	assert.Equal(t, models.ChannelSMS, m.Query().Filter)
	assert.Equal(t, models.ChannelSMS, api.queries[len(api.queries)-1].Filter)
}

func TestDeleteConfirmAndRefetch(t *testing.T) {
	api := &fakeAPI{contacts: contactsN(3)}
	m, center := newModel(api)
	m = run(t, m, m.Init())

	m, _ = press(m, "d")
	assert.True(t, m.confirmDelete)
	m, cmd := press(m, "y")
	m = run(t, m, cmd)

	assert.Equal(t, []string{"a"}, api.deleted)
	assert.Len(t, m.Contacts(), 2)
	n, ok := center.Last()
	require.True(t, ok)
	assert.Equal(t, MsgDeleted, n.Message)
}

func TestDeleteCancelled(t *testing.T) {
	api := &fakeAPI{contacts: contactsN(3)}
	m, _ := newModel(api)
	m = run(t, m, m.Init())

	m, _ = press(m, "d")
	m, cmd := press(m, "n")
	assert.Nil(t, cmd)
	assert.False(t, m.confirmDelete)
	assert.Empty(t, api.deleted)
}

func TestDeleteFailure(t *testing.T) {
	api := &fakeAPI{contacts: contactsN(2), delErr: errors.New("boom")}
	m, center := newModel(api)
	m = run(t, m, m.Init())

	m, _ = press(m, "d")
	m, cmd := press(m, "y")
	m = run(t, m, cmd)

	assert.Len(t, m.Contacts(), 2)
	n, ok := center.Last()
	require.True(t, ok)
	assert.Equal(t, MsgDeleteFailed, n.Message)
}

func TestFetchFailureKeepsRows(t *testing.T) {
	api := &fakeAPI{contacts: contactsN(2)}
	m, center := newModel(api)
	m = run(t, m, m.Init())

	api.fetchErr = errors.New("down")
	m, cmd := press(m, "r")
	m = run(t, m, cmd)

	assert.Len(t, m.Contacts(), 2)
	assert.False(t, m.loading)
	n, _ := center.Last()
	assert.Equal(t, MsgFetchFailed, n.Message)
}

func TestQuit(t *testing.T) {
	m, _ := newModel(&fakeAPI{})
	_, cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewRendersRows(t *testing.T) {
	api := &fakeAPI{contacts: []models.Contact{{ID: "1", FirstName: "Ada", LastName: "Lovelace", Channel: "sms"}}}
	m, _ := newModel(api)
	m = run(t, m, m.Init())
	assert.Contains(t, m.View(), "Ada Lovelace")
	assert.Contains(t, m.View(), "page 1/1")
}
