package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookingRowColumns = []string{
	"id", "resident_id", "plumber_id", "issue", "service_date", "service_time",
	"status", "created_at", "updated_at",
}

var reviewRowColumns = []string{
	"id", "booking_id", "resident_id", "plumber_id", "rating", "comment", "created_at",
}

func newMockRepo(t *testing.T) (*PgHomeEaseRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "sqlmock init error")
	t.Cleanup(func() { db.Close() })

	return &PgHomeEaseRepository{conn: db}, mock
}

func TestCreateBooking(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	params := CreateBookingParams{
		ResidentId:  1,
		PlumberId:   2,
		Issue:       "leaking tap",
		ServiceDate: "2025-03-01",
		ServiceTime: "09:30",
		Status:      "pending",
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(params.ResidentId, params.PlumberId, params.Issue, params.ServiceDate, params.ServiceTime,
			params.Status, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns).
			AddRow(10, 1, 2, "leaking tap", "2025-03-01", "09:30", "pending", now, now))

	b, err := repo.CreateBooking(context.Background(), params)
	assert.NoError(t, err, "expected no error creating booking")
	assert.Equal(t, int64(10), b.Id, "expected id from returning clause")
	assert.Equal(t, "pending", b.Status, "expected pending status")
	assert.Equal(t, "09:30", b.ServiceTime, "expected service time to match")
	assert.NoError(t, mock.ExpectationsWereMet(), "unmet expectations")
}

func TestGetBookingById(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		now := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows(bookingRowColumns).
				AddRow(10, 1, 2, "leaking tap", "2025-03-01", "09:30", "in_progress", now, now))

		b, err := repo.GetBookingById(context.Background(), 10)
		assert.NoError(t, err)
		assert.Equal(t, "in_progress", b.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(bookingRowColumns))

		_, err := repo.GetBookingById(context.Background(), 99)
		assert.True(t, IsNoRows(err), "expected sql.ErrNoRows, got %v", err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateBookingStatus(t *testing.T) {
	t.Run("applies when status matches", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		now := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2")).
			WithArgs(int64(10), "pending", "in_progress", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(bookingRowColumns).
				AddRow(10, 1, 2, "leaking tap", "2025-03-01", "09:30", "in_progress", now, now))

		b, err := repo.UpdateBookingStatus(context.Background(), UpdateBookingStatusParams{
			BookingId:  10,
			FromStatus: "pending",
			ToStatus:   "in_progress",
		})
		assert.NoError(t, err)
		assert.Equal(t, "in_progress", b.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows when status changed underneath", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings")).
			WithArgs(int64(10), "pending", "cancelled", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(bookingRowColumns))

		_, err := repo.UpdateBookingStatus(context.Background(), UpdateBookingStatusParams{
			BookingId:  10,
			FromStatus: "pending",
			ToStatus:   "cancelled",
		})
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListBookings(t *testing.T) {
	now := time.Now().UTC()
	rows := func() *sqlmock.Rows {
		return sqlmock.NewRows(bookingRowColumns).
			AddRow(1, 1, 2, "a", "2025-03-01", "08:00", "pending", now, now).
			AddRow(2, 3, 2, "b", "2025-03-01", "09:00", "completed", now, now)
	}

	tcases := []struct {
		name  string
		query string
		call  func(repo *PgHomeEaseRepository) ([]Booking, error)
	}{
		{
			name:  "by plumber",
			query: "FROM bookings WHERE plumber_id = $1 ORDER BY service_date ASC, service_time ASC, id ASC",
			call: func(repo *PgHomeEaseRepository) ([]Booking, error) {
				return repo.ListBookingsByPlumber(context.Background(), 2)
			},
		},
		{
			name:  "by resident",
			query: "FROM bookings WHERE resident_id = $1 ORDER BY service_date ASC, service_time ASC, id ASC",
			call: func(repo *PgHomeEaseRepository) ([]Booking, error) {
				return repo.ListBookingsByResident(context.Background(), 1)
			},
		},
		{
			name:  "all",
			query: "FROM bookings ORDER BY service_date ASC, service_time ASC, id ASC",
			call: func(repo *PgHomeEaseRepository) ([]Booking, error) {
				return repo.ListAllBookings(context.Background())
			},
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			mock.ExpectQuery(regexp.QuoteMeta(tc.query)).WillReturnRows(rows())

			bookings, err := tc.call(repo)
			assert.NoError(t, err)
			assert.Len(t, bookings, 2, "expected two bookings")
			assert.Equal(t, int64(1), bookings[0].Id, "expected store order to be preserved")
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("query error", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM bookings")).WillReturnError(errors.New("boom"))

		_, err := repo.ListAllBookings(context.Background())
		assert.Error(t, err)
	})
}

func TestCreateReview(t *testing.T) {
	params := CreateReviewParams{
		BookingId:  10,
		ResidentId: 1,
		PlumberId:  2,
		Rating:     5,
		Comment:    "great",
	}

	t.Run("success", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		now := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reviews")).
			WithArgs(params.BookingId, params.ResidentId, params.PlumberId, params.Rating, params.Comment, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(reviewRowColumns).AddRow(3, 10, 1, 2, 5, "great", now))

		r, err := repo.CreateReview(context.Background(), params)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), r.Id)
		assert.Equal(t, 5, r.Rating)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reviews")).
			WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

		_, err := repo.CreateReview(context.Background(), params)
		assert.ErrorIs(t, err, ErrDuplicateKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListReviews(t *testing.T) {
	now := time.Now().UTC()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM reviews WHERE plumber_id = $1 ORDER BY created_at DESC, id DESC")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(reviewRowColumns).
			AddRow(2, 11, 1, 2, 4, "ok", now).
			AddRow(1, 10, 1, 2, 5, "great", now.Add(-time.Hour)))

	reviews, err := repo.ListReviewsByPlumber(context.Background(), 2)
	assert.NoError(t, err)
	assert.Len(t, reviews, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUnavailable(t *testing.T) {
	tcases := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "no rows", err: sql.ErrNoRows, expected: false},
		{name: "bad conn", err: fmt.Errorf("query: %w", driver.ErrBadConn), expected: true},
		{name: "deadline", err: context.DeadlineExceeded, expected: true},
		{name: "connection failure", err: &pq.Error{Code: "08006"}, expected: true},
		{name: "admin shutdown", err: &pq.Error{Code: "57P01"}, expected: true},
		{name: "unique violation", err: &pq.Error{Code: "23505"}, expected: false},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsUnavailable(tc.err))
		})
	}
}
