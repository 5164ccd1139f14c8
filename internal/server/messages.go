package server

import (
	"net/http"
	"time"

	"github.com/npezzotti/homeease/internal/types"
)

type BaseMessage struct {
	Id        int       `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ClientMessage is a request read from a connection. Exactly one of Join,
// Leave or Send is set.
type ClientMessage struct {
	BaseMessage
	Join   *Join  `json:"join,omitempty"`
	Leave  *Leave `json:"leave,omitempty"`
	Send   *Send  `json:"send,omitempty"`
	client *Client
	// internal marks requests generated by the server, which get no response.
	internal bool
}

type Join struct {
	BookingId string `json:"booking_id"`
}

type Leave struct {
	BookingId string `json:"booking_id"`
}

type Send struct {
	BookingId string `json:"booking_id"`
	Message   string `json:"message"`
}

// bookingId returns the room the request addresses.
func (m *ClientMessage) bookingId() string {
	switch {
	case m.Join != nil:
		return m.Join.BookingId
	case m.Leave != nil:
		return m.Leave.BookingId
	case m.Send != nil:
		return m.Send.BookingId
	}
	return ""
}

// valid reports whether exactly one operation is set and it names a room.
func (m *ClientMessage) valid() bool {
	ops := 0
	for _, set := range []bool{m.Join != nil, m.Leave != nil, m.Send != nil} {
		if set {
			ops++
		}
	}
	if ops != 1 || m.bookingId() == "" {
		return false
	}

	return m.Send == nil || m.Send.Message != ""
}

type ServerMessage struct {
	BaseMessage
	Response *Response          `json:"response,omitempty"`
	Message  *types.ChatMessage `json:"message,omitempty"`
}

type Response struct {
	ResponseCode int            `json:"response_code"`
	Error        string         `json:"error,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
}

func NoErrOK(id int, data map[string]any) *ServerMessage {
	return &ServerMessage{
		BaseMessage: BaseMessage{
			Id:        id,
			Timestamp: Now(),
		},
		Response: &Response{
			ResponseCode: http.StatusOK,
			Data:         data,
		},
	}
}

func NoErrAccepted(id int) *ServerMessage {
	return &ServerMessage{
		BaseMessage: BaseMessage{
			Id:        id,
			Timestamp: Now(),
		},
		Response: &Response{
			ResponseCode: http.StatusAccepted,
		},
	}
}

func ErrServiceUnavailable(id int) *ServerMessage {
	return &ServerMessage{
		BaseMessage: BaseMessage{
			Id:        id,
			Timestamp: Now(),
		},
		Response: &Response{
			ResponseCode: http.StatusServiceUnavailable,
			Error:        "service unavailable",
		},
	}
}

func ErrInvalidMessage(id int) *ServerMessage {
	msg := &ServerMessage{
		BaseMessage: BaseMessage{
			Timestamp: Now(),
		},
		Response: &Response{
			ResponseCode: http.StatusBadRequest,
			Error:        "invalid message format",
		},
	}

	if id > 0 {
		msg.Id = id
	}
	return msg
}

// Delivery wraps a relayed chat message. The id is the one the sender used
// for the originating request so the sender can recognise its own echo.
func Delivery(id int, msg *types.ChatMessage) *ServerMessage {
	return &ServerMessage{
		BaseMessage: BaseMessage{
			Id:        id,
			Timestamp: msg.Timestamp,
		},
		Message: msg,
	}
}

func Now() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}
