package server

import (
	"log"

	"github.com/npezzotti/homeease/internal/types"
)

// Room is the set of connections joined to one booking. Its goroutine is the
// only reader of inbox, so requests for a room are handled in arrival order.
type Room struct {
	bookingId string
	cs        *ChatServer
	inbox     chan *ClientMessage
	clients   map[*Client]struct{}
	log       *log.Logger
	// exit is closed by the server on shutdown
	exit chan struct{}
	done chan struct{}
}

func newRoom(bookingId string, cs *ChatServer) *Room {
	return &Room{
		bookingId: bookingId,
		cs:        cs,
		inbox:     make(chan *ClientMessage, 256),
		clients:   make(map[*Client]struct{}),
		log:       cs.log,
		exit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (r *Room) start() {
	r.log.Printf("starting room %q", r.bookingId)
	defer close(r.done)

	for {
		// offer to unload only while there is nothing left to do
		var unload chan *Room
		if len(r.clients) == 0 && len(r.inbox) == 0 {
			unload = r.cs.unloadRoomChan
		}

		select {
		case msg := <-r.inbox:
			r.handle(msg)
		case unload <- r:
			r.log.Printf("room %q dissolved", r.bookingId)
			return
		case <-r.exit:
			r.log.Printf("room %q is exiting", r.bookingId)
			return
		}
	}
}

func (r *Room) handle(msg *ClientMessage) {
	switch {
	case msg.Join != nil:
		r.handleJoin(msg)
	case msg.Leave != nil:
		r.handleLeave(msg)
	case msg.Send != nil:
		r.handleSend(msg)
	}
}

func (r *Room) handleJoin(join *ClientMessage) {
	c := join.client
	if _, ok := r.clients[c]; !ok {
		r.clients[c] = struct{}{}
		r.log.Printf("connection %s joined room %q", c.id, r.bookingId)
	}

	c.queueMessage(NoErrOK(join.Id, map[string]any{
		"booking_id": r.bookingId,
		"members":    len(r.clients),
	}))
}

func (r *Room) handleLeave(leave *ClientMessage) {
	c := leave.client
	if _, ok := r.clients[c]; ok {
		delete(r.clients, c)
		r.log.Printf("connection %s left room %q", c.id, r.bookingId)
	}

	if !leave.internal {
		c.queueMessage(NoErrOK(leave.Id, nil))
	}
}

// handleSend relays a message to every member, the sender included when it
// is one.
func (r *Room) handleSend(msg *ClientMessage) {
	sender := msg.client
	sender.queueMessage(NoErrAccepted(msg.Id))

	if len(r.clients) == 0 {
		return
	}

	chat := &types.ChatMessage{
		BookingId:  r.bookingId,
		SenderId:   sender.actor.Id,
		SenderRole: sender.actor.Role,
		Message:    msg.Send.Message,
		Timestamp:  msg.Timestamp,
	}

	r.broadcast(Delivery(msg.Id, chat))
	r.cs.stats.Incr(metricMessagesRelayed)
}

func (r *Room) broadcast(msg *ServerMessage) {
	for client := range r.clients {
		client.queueMessage(msg)
	}
}
