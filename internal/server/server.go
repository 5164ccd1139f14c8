package server

import (
	"context"
	"log"
	"sync"

	"github.com/npezzotti/homeease/internal/stats"
)

const (
	metricActiveRooms      = "NumActiveRooms"
	metricConnectedClients = "NumConnectedClients"
	metricMessagesRelayed  = "MessagesRelayed"
)

// ChatServer owns the set of live rooms. Every join, leave and send passes
// through Run, which forwards it to the room for its booking id.
type ChatServer struct {
	log            *log.Logger
	stats          stats.StatsProvider
	clients        map[*Client]struct{}
	clientsLock    sync.Mutex
	clientMsgChan  chan *ClientMessage
	registerChan   chan *Client
	deregisterChan chan *Client
	unloadRoomChan chan *Room
	rooms          map[string]*Room
	// memberships holds, per client, the booking ids it has been routed into
	// and not yet left. Only Run touches it.
	memberships map[*Client]map[string]struct{}
	stop        chan struct{}
	done        chan struct{}
}

func NewChatServer(logger *log.Logger, su stats.StatsProvider) *ChatServer {
	su.RegisterMetric(metricActiveRooms)
	su.RegisterMetric(metricConnectedClients)
	su.RegisterMetric(metricMessagesRelayed)

	return &ChatServer{
		log:            logger,
		stats:          su,
		clients:        make(map[*Client]struct{}),
		clientMsgChan:  make(chan *ClientMessage, 256),
		registerChan:   make(chan *Client),
		deregisterChan: make(chan *Client),
		unloadRoomChan: make(chan *Room),
		rooms:          make(map[string]*Room),
		memberships:    make(map[*Client]map[string]struct{}),
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}
}

func (cs *ChatServer) Run() {
	for {
		select {
		case msg := <-cs.clientMsgChan:
			cs.route(msg)
		case client := <-cs.registerChan:
			cs.log.Printf("adding connection %s from %s %d", client.id, client.actor.Role, client.actor.Id)
			cs.addClient(client)
		case client := <-cs.deregisterChan:
			cs.log.Printf("removing connection %s", client.id)
			// requests the client queued before it went away go first
			cs.routeQueued()
			cs.removeClient(client)
		case r := <-cs.unloadRoomChan:
			cs.unloadRoom(r)
		case <-cs.stop:
			cs.log.Println("shutting down rooms")
			for _, r := range cs.rooms {
				close(r.exit)
				<-r.done
			}

			close(cs.done)
			return
		}
	}
}

// route forwards msg to the room of its booking id. Joins create the room
// when it is missing; leaves and sends addressed to a missing room are no-ops.
func (cs *ChatServer) route(msg *ClientMessage) {
	bookingId := msg.bookingId()
	r, ok := cs.rooms[bookingId]

	switch {
	case msg.Join != nil:
		cs.track(msg.client, bookingId)
		if !ok {
			r = newRoom(bookingId, cs)
			cs.rooms[bookingId] = r
			r.inbox <- msg
			cs.stats.Incr(metricActiveRooms)
			go r.start()
			return
		}
	case msg.Leave != nil:
		cs.untrack(msg.client, bookingId)
		if !ok {
			if !msg.internal {
				msg.client.queueMessage(NoErrOK(msg.Id, nil))
			}
			return
		}
	case msg.Send != nil:
		if !ok {
			msg.client.queueMessage(NoErrAccepted(msg.Id))
			return
		}
	}

	r.inbox <- msg
}

func (cs *ChatServer) routeQueued() {
	for {
		select {
		case msg := <-cs.clientMsgChan:
			cs.route(msg)
		default:
			return
		}
	}
}

func (cs *ChatServer) track(c *Client, bookingId string) {
	rooms, ok := cs.memberships[c]
	if !ok {
		rooms = make(map[string]struct{})
		cs.memberships[c] = rooms
	}
	rooms[bookingId] = struct{}{}
}

func (cs *ChatServer) untrack(c *Client, bookingId string) {
	if rooms, ok := cs.memberships[c]; ok {
		delete(rooms, bookingId)
		if len(rooms) == 0 {
			delete(cs.memberships, c)
		}
	}
}

// RegisterClient hands a new connection to the server. It returns false once
// the server has shut down.
func (cs *ChatServer) RegisterClient(c *Client) bool {
	select {
	case cs.registerChan <- c:
		return true
	case <-cs.done:
		return false
	}
}

func (cs *ChatServer) addClient(c *Client) {
	cs.clientsLock.Lock()
	defer cs.clientsLock.Unlock()
	cs.clients[c] = struct{}{}
	cs.stats.Incr(metricConnectedClients)
}

// removeClient drops a disconnected client and leaves every room it was in.
func (cs *ChatServer) removeClient(c *Client) {
	cs.clientsLock.Lock()
	if _, ok := cs.clients[c]; ok {
		delete(cs.clients, c)
		cs.stats.Decr(metricConnectedClients)
	}
	cs.clientsLock.Unlock()

	for bookingId := range cs.memberships[c] {
		cs.route(&ClientMessage{
			BaseMessage: BaseMessage{Timestamp: Now()},
			Leave:       &Leave{BookingId: bookingId},
			client:      c,
			internal:    true,
		})
	}
}

// unloadRoom removes an empty room. Requests already queued for it are routed
// again, so a join that raced the unload lands in a fresh room.
func (cs *ChatServer) unloadRoom(r *Room) {
	cs.log.Printf("removing room %q", r.bookingId)
	delete(cs.rooms, r.bookingId)
	cs.stats.Decr(metricActiveRooms)

	var pending []*ClientMessage
	for drained := false; !drained; {
		select {
		case msg := <-r.inbox:
			pending = append(pending, msg)
		default:
			drained = true
		}
	}

	for _, msg := range pending {
		cs.route(msg)
	}
}

// Shutdown stops every connection and room and waits for Run to return or
// for ctx to end.
func (cs *ChatServer) Shutdown(ctx context.Context) error {
	cs.log.Println("received shutdown signal")
	cs.clientsLock.Lock()
	for c := range cs.clients {
		c.stopClient()
	}
	cs.clientsLock.Unlock()

	close(cs.stop)

	select {
	case <-cs.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
