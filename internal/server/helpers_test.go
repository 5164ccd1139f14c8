package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/npezzotti/homeease/internal/stats"
	"github.com/npezzotti/homeease/internal/testutil"
	"github.com/npezzotti/homeease/internal/types"
	"github.com/stretchr/testify/mock"
	"github.com/teris-io/shortid"
)

func newMockStats() *stats.MockStatsUpdater {
	su := &stats.MockStatsUpdater{}
	su.On("RegisterMetric", mock.Anything).Return()
	su.On("Incr", mock.Anything).Return()
	su.On("Decr", mock.Anything).Return()
	return su
}

// newRunningChatServer starts a chat server backed by a real stats updater so
// tests can observe room and client counts.
func newRunningChatServer(t *testing.T) (*ChatServer, *stats.StatsUpdater) {
	su := stats.NewStatsUpdater(http.NewServeMux())
	su.Run()

	cs := NewChatServer(testutil.TestLogger(t), su)
	go cs.Run()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		cs.Shutdown(ctx)
		su.Stop()
	})

	return cs, su
}

// newTestClient returns a client without a connection. Outgoing messages
// accumulate on its send channel.
func newTestClient(t *testing.T, cs *ChatServer, actor types.Actor) *Client {
	return &Client{
		id:         shortid.MustGenerate(),
		chatServer: cs,
		log:        testutil.TestLogger(t),
		actor:      actor,
		send:       make(chan *ServerMessage, sendQueueSize),
		stop:       make(chan struct{}),
	}
}

func expectMessage(t *testing.T, c *Client) *ServerMessage {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for message on client %s", c.id)
		return nil
	}
}

func expectNoMessage(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.send:
		t.Fatalf("unexpected message on client %s: %+v", c.id, msg)
	case <-time.After(50 * time.Millisecond):
	}
}

// expectResponse reads the next message and checks it is a response with code.
func expectResponse(t *testing.T, c *Client, id, code int) {
	t.Helper()
	msg := expectMessage(t, c)
	if msg.Response == nil {
		t.Fatalf("expected response %d for request %d, got %+v", code, id, msg)
	}
	if msg.Id != id || msg.Response.ResponseCode != code {
		t.Fatalf("expected response %d for request %d, got %d for %d", code, id, msg.Response.ResponseCode, msg.Id)
	}
}

func expectDelivery(t *testing.T, c *Client) *types.ChatMessage {
	t.Helper()
	msg := expectMessage(t, c)
	if msg.Message == nil {
		t.Fatalf("expected delivery on client %s, got %+v", c.id, msg)
	}
	return msg.Message
}

func joinMsg(id int, bookingId string) *ClientMessage {
	return &ClientMessage{BaseMessage: BaseMessage{Id: id}, Join: &Join{BookingId: bookingId}}
}

func leaveMsg(id int, bookingId string) *ClientMessage {
	return &ClientMessage{BaseMessage: BaseMessage{Id: id}, Leave: &Leave{BookingId: bookingId}}
}

func sendMsg(id int, bookingId, text string) *ClientMessage {
	return &ClientMessage{BaseMessage: BaseMessage{Id: id}, Send: &Send{BookingId: bookingId, Message: text}}
}

func metric(su *stats.StatsUpdater, name string) float64 {
	v, _ := su.Snapshot()[name].(float64)
	return v
}
