package booking

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/npezzotti/homeease/internal/database"
)

// memRepo is an in-memory repository whose status update does not compare
// the previous status, so any serialization observed comes from the Manager.
type memRepo struct {
	database.HomeEaseRepository

	mu       sync.Mutex
	bookings map[int64]database.Booking
	reviews  map[int64]database.Review
	writes   int
}

func newMemRepo() *memRepo {
	return &memRepo{
		bookings: make(map[int64]database.Booking),
		reviews:  make(map[int64]database.Review),
	}
}

func (r *memRepo) put(b database.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.Id] = b
}

func (r *memRepo) updates() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

func (r *memRepo) GetBookingById(ctx context.Context, id int64) (database.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return database.Booking{}, sql.ErrNoRows
	}
	return b, nil
}

func (r *memRepo) UpdateBookingStatus(ctx context.Context, params database.UpdateBookingStatusParams) (database.Booking, error) {
	// widen the window between read and write
	time.Sleep(time.Millisecond)

	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[params.BookingId]
	if !ok {
		return database.Booking{}, sql.ErrNoRows
	}
	b.Status = params.ToStatus
	b.UpdatedAt = time.Now().UTC()
	r.bookings[b.Id] = b
	r.writes++
	return b, nil
}

func (r *memRepo) GetReviewByBookingId(ctx context.Context, bookingId int64) (database.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rev, ok := r.reviews[bookingId]
	if !ok {
		return database.Review{}, sql.ErrNoRows
	}
	return rev, nil
}

func (r *memRepo) CreateReview(ctx context.Context, params database.CreateReviewParams) (database.Review, error) {
	time.Sleep(time.Millisecond)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[params.BookingId]; ok {
		return database.Review{}, fmt.Errorf("review for booking %d: %w", params.BookingId, database.ErrDuplicateKey)
	}
	rev := database.Review{
		Id:         int64(len(r.reviews) + 1),
		BookingId:  params.BookingId,
		ResidentId: params.ResidentId,
		PlumberId:  params.PlumberId,
		Rating:     params.Rating,
		Comment:    params.Comment,
		CreatedAt:  time.Now().UTC(),
	}
	r.reviews[params.BookingId] = rev
	r.writes++
	return rev, nil
}
