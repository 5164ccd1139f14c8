package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	bookingColumns = "id, resident_id, plumber_id, issue, " +
		"to_char(service_date, 'YYYY-MM-DD'), to_char(service_time, 'HH24:MI'), " +
		"status, created_at, updated_at"
	bookingOrder = "ORDER BY service_date ASC, service_time ASC, id ASC"

	reviewColumns = "id, booking_id, resident_id, plumber_id, rating, comment, created_at"
	reviewOrder   = "ORDER BY created_at DESC, id DESC"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(row scanner) (Booking, error) {
	var b Booking
	err := row.Scan(
		&b.Id,
		&b.ResidentId,
		&b.PlumberId,
		&b.Issue,
		&b.ServiceDate,
		&b.ServiceTime,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)

	return b, err
}

func scanReview(row scanner) (Review, error) {
	var r Review
	err := row.Scan(
		&r.Id,
		&r.BookingId,
		&r.ResidentId,
		&r.PlumberId,
		&r.Rating,
		&r.Comment,
		&r.CreatedAt,
	)

	return r, err
}

func (db *PgHomeEaseRepository) CreateBooking(ctx context.Context, params CreateBookingParams) (Booking, error) {
	now := time.Now().UTC()
	row := db.conn.QueryRowContext(
		ctx,
		"INSERT INTO bookings (resident_id, plumber_id, issue, service_date, service_time, status, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING "+bookingColumns,
		params.ResidentId,
		params.PlumberId,
		params.Issue,
		params.ServiceDate,
		params.ServiceTime,
		params.Status,
		now,
		now,
	)

	return scanBooking(row)
}

func (db *PgHomeEaseRepository) GetBookingById(ctx context.Context, id int64) (Booking, error) {
	row := db.conn.QueryRowContext(
		ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = $1 LIMIT 1",
		id,
	)

	return scanBooking(row)
}

func (db *PgHomeEaseRepository) UpdateBookingStatus(ctx context.Context, params UpdateBookingStatusParams) (Booking, error) {
	row := db.conn.QueryRowContext(
		ctx,
		"UPDATE bookings SET status = $3, updated_at = $4 "+
			"WHERE id = $1 AND status = $2 RETURNING "+bookingColumns,
		params.BookingId,
		params.FromStatus,
		params.ToStatus,
		time.Now().UTC(),
	)

	return scanBooking(row)
}

func (db *PgHomeEaseRepository) ListBookingsByPlumber(ctx context.Context, plumberId int64) ([]Booking, error) {
	return db.listBookings(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE plumber_id = $1 "+bookingOrder, plumberId)
}

func (db *PgHomeEaseRepository) ListBookingsByResident(ctx context.Context, residentId int64) ([]Booking, error) {
	return db.listBookings(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE resident_id = $1 "+bookingOrder, residentId)
}

func (db *PgHomeEaseRepository) ListAllBookings(ctx context.Context) ([]Booking, error) {
	return db.listBookings(ctx, "SELECT "+bookingColumns+" FROM bookings "+bookingOrder)
}

func (db *PgHomeEaseRepository) listBookings(ctx context.Context, query string, args ...any) ([]Booking, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}

		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return bookings, nil
}

func (db *PgHomeEaseRepository) CreateReview(ctx context.Context, params CreateReviewParams) (Review, error) {
	row := db.conn.QueryRowContext(
		ctx,
		"INSERT INTO reviews (booking_id, resident_id, plumber_id, rating, comment, created_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6) RETURNING "+reviewColumns,
		params.BookingId,
		params.ResidentId,
		params.PlumberId,
		params.Rating,
		params.Comment,
		time.Now().UTC(),
	)

	review, err := scanReview(row)
	if err != nil && isUniqueViolation(err) {
		return Review{}, fmt.Errorf("review for booking %d: %w", params.BookingId, ErrDuplicateKey)
	}

	return review, err
}

func (db *PgHomeEaseRepository) GetReviewByBookingId(ctx context.Context, bookingId int64) (Review, error) {
	row := db.conn.QueryRowContext(
		ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE booking_id = $1 LIMIT 1",
		bookingId,
	)

	return scanReview(row)
}

func (db *PgHomeEaseRepository) ListReviewsByPlumber(ctx context.Context, plumberId int64) ([]Review, error) {
	return db.listReviews(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE plumber_id = $1 "+reviewOrder, plumberId)
}

func (db *PgHomeEaseRepository) ListReviewsByResident(ctx context.Context, residentId int64) ([]Review, error) {
	return db.listReviews(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE resident_id = $1 "+reviewOrder, residentId)
}

func (db *PgHomeEaseRepository) listReviews(ctx context.Context, query string, args ...any) ([]Review, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]Review, 0)
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}

		reviews = append(reviews, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return reviews, nil
}

// IsNoRows reports whether err means the queried record does not exist.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
