package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierPublishDelivers(t *testing.T) {
	n := NewNotifier()
	ch, cancel := n.Subscribe()
	defer cancel()

	n.Publish(StateChange{Minute: 12, IsLive: true})

	change := <-ch
	assert.Equal(t, 12, change.Minute)
	assert.True(t, change.IsLive)
}

func TestNotifierDropsWhenSubscriberFull(t *testing.T) {
	n := NewNotifier()
	ch, cancel := n.Subscribe()
	defer cancel()

	// fill the buffer without draining; extra publishes must not block
	for i := 0; i < 40; i++ {
		n.Publish(StateChange{Minute: i})
	}

	first := <-ch
	assert.Equal(t, 0, first.Minute)
	assert.Len(t, ch, 15)
}

func TestNotifierCancelClosesChannel(t *testing.T) {
	n := NewNotifier()
	ch, cancel := n.Subscribe()

	cancel()
	cancel() // idempotent

	_, open := <-ch
	assert.False(t, open)

	// publishing after cancel must not panic on the closed channel
	n.Publish(StateChange{Minute: 1})
}

func TestNotifierClose(t *testing.T) {
	n := NewNotifier()
	a, cancelA := n.Subscribe()
	b, _ := n.Subscribe()
	defer cancelA()

	n.Close()

	_, openA := <-a
	_, openB := <-b
	require.False(t, openA)
	require.False(t, openB)
}
