package types

import (
	"time"
)

type Role string

const (
	RoleResident Role = "resident"
	RolePlumber  Role = "plumber"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleResident, RolePlumber, RoleAdmin:
		return true
	}
	return false
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Actor is the authenticated identity behind a request.
type Actor struct {
	Id   int64 `json:"id"`
	Role Role  `json:"role"`
}

type Booking struct {
	Id          int64     `json:"id"`
	ResidentId  int64     `json:"resident_id"`
	PlumberId   int64     `json:"plumber_id"`
	Issue       string    `json:"issue"`
	ServiceDate string    `json:"service_date"`
	ServiceTime string    `json:"service_time"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

type Review struct {
	Id         int64     `json:"id"`
	BookingId  int64     `json:"booking_id"`
	ResidentId int64     `json:"resident_id"`
	PlumberId  int64     `json:"plumber_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

type ChatMessage struct {
	BookingId  string    `json:"booking_id"`
	SenderId   int64     `json:"sender_id"`
	SenderRole Role      `json:"sender_role"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}
