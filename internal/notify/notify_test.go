package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenter_AutoDismiss(t *testing.T) {
	now := time.Unix(100, 0)
	c := NewCenter(WithNow(func() time.Time { return now }))

	c.Error("Please fill in all fields!")
	c.Success("Contact created successfully!")
	require.Len(t, c.Active(), 2)

	last, ok := c.Last()
	require.True(t, ok)
	assert.Equal(t, LevelSuccess, last.Level)

	now = now.Add(AutoClose - time.Millisecond)
	assert.Len(t, c.Active(), 2)

	now = now.Add(time.Millisecond)
	assert.Empty(t, c.Active())
	_, ok = c.Last()
	assert.False(t, ok)
}

func TestCenter_OnNotifyHook(t *testing.T) {
	var got []Notice
	c := NewCenter(OnNotify(func(n Notice) { got = append(got, n) }))

	c.Info("Loading")
	c.Error("boom")
	c.Dismiss()

	require.Len(t, got, 2)
	assert.Equal(t, "boom", got[1].Message)
	assert.Equal(t, "error", got[1].Level.String())
	assert.Empty(t, c.Active())
}

func TestOrDiscard(t *testing.T) {
	assert.IsType(t, Discard{}, OrDiscard(nil))
	c := NewCenter()
	assert.Same(t, c, OrDiscard(c))
}
