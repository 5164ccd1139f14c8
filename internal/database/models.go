package database

import "time"

type Booking struct {
	Id          int64
	ResidentId  int64
	PlumberId   int64
	Issue       string
	ServiceDate string
	ServiceTime string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Review struct {
	Id         int64
	BookingId  int64
	ResidentId int64
	PlumberId  int64
	Rating     int
	Comment    string
	CreatedAt  time.Time
}

type CreateBookingParams struct {
	ResidentId  int64
	PlumberId   int64
	Issue       string
	ServiceDate string
	ServiceTime string
	Status      string
}

type UpdateBookingStatusParams struct {
	BookingId  int64
	FromStatus string
	ToStatus   string
}

type CreateReviewParams struct {
	BookingId  int64
	ResidentId int64
	PlumberId  int64
	Rating     int
	Comment    string
}
