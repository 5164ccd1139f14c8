package database

import "context"

type HomeEaseRepository interface {
	Ping() error
	CreateBooking(ctx context.Context, params CreateBookingParams) (Booking, error)
	GetBookingById(ctx context.Context, id int64) (Booking, error)
	// UpdateBookingStatus applies the change only while the booking is still in
	// params.FromStatus and returns sql.ErrNoRows otherwise.
	UpdateBookingStatus(ctx context.Context, params UpdateBookingStatusParams) (Booking, error)
	ListBookingsByPlumber(ctx context.Context, plumberId int64) ([]Booking, error)
	ListBookingsByResident(ctx context.Context, residentId int64) ([]Booking, error)
	ListAllBookings(ctx context.Context) ([]Booking, error)
	CreateReview(ctx context.Context, params CreateReviewParams) (Review, error)
	GetReviewByBookingId(ctx context.Context, bookingId int64) (Review, error)
	ListReviewsByPlumber(ctx context.Context, plumberId int64) ([]Review, error)
	ListReviewsByResident(ctx context.Context, residentId int64) ([]Review, error)
}
