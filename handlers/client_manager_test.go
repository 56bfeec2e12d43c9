package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubClient struct {
	id   string
	fail bool
	got  []interface{}
}

func (c *stubClient) ID() string { return c.id }
func (c *stubClient) SendMessage(msg interface{}) error {
	if c.fail {
		return errors.New("gone")
	}
	c.got = append(c.got, msg)
	return nil
}
func (c *stubClient) Close()                {}
func (c *stubClient) Closed() bool          { return c.fail }
func (c *stubClient) Done() <-chan struct{} { return nil }

func TestBroadcastDropsFailedViewers(t *testing.T) {
	cm := NewClientManager()
	ok := &stubClient{id: "a"}
	gone := &stubClient{id: "b", fail: true}

	assert.True(t, cm.AddClient(ok))
	assert.True(t, cm.AddClient(gone))
	assert.False(t, cm.AddClient(ok))
	assert.Equal(t, 2, cm.Count())

	cm.BroadcastToAll("tick")
	assert.Equal(t, []interface{}{"tick"}, ok.got)
	assert.Equal(t, 1, cm.Count())

	cm.RemoveClient("a")
	assert.Zero(t, cm.Count())
}
