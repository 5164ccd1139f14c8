package database

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockHomeEaseRepository struct {
	mock.Mock
}

func (m *MockHomeEaseRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockHomeEaseRepository) CreateBooking(ctx context.Context, params CreateBookingParams) (Booking, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(Booking), args.Error(1)
}
func (m *MockHomeEaseRepository) GetBookingById(ctx context.Context, id int64) (Booking, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Booking), args.Error(1)
}
func (m *MockHomeEaseRepository) UpdateBookingStatus(ctx context.Context, params UpdateBookingStatusParams) (Booking, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(Booking), args.Error(1)
}
func (m *MockHomeEaseRepository) ListBookingsByPlumber(ctx context.Context, plumberId int64) ([]Booking, error) {
	args := m.Called(ctx, plumberId)
	if bookings, ok := args.Get(0).([]Booking); ok {
		return bookings, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockHomeEaseRepository) ListBookingsByResident(ctx context.Context, residentId int64) ([]Booking, error) {
	args := m.Called(ctx, residentId)
	if bookings, ok := args.Get(0).([]Booking); ok {
		return bookings, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockHomeEaseRepository) ListAllBookings(ctx context.Context) ([]Booking, error) {
	args := m.Called(ctx)
	if bookings, ok := args.Get(0).([]Booking); ok {
		return bookings, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockHomeEaseRepository) CreateReview(ctx context.Context, params CreateReviewParams) (Review, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(Review), args.Error(1)
}
func (m *MockHomeEaseRepository) GetReviewByBookingId(ctx context.Context, bookingId int64) (Review, error) {
	args := m.Called(ctx, bookingId)
	return args.Get(0).(Review), args.Error(1)
}
func (m *MockHomeEaseRepository) ListReviewsByPlumber(ctx context.Context, plumberId int64) ([]Review, error) {
	args := m.Called(ctx, plumberId)
	if reviews, ok := args.Get(0).([]Review); ok {
		return reviews, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockHomeEaseRepository) ListReviewsByResident(ctx context.Context, residentId int64) ([]Review, error) {
	args := m.Called(ctx, residentId)
	if reviews, ok := args.Get(0).([]Review); ok {
		return reviews, args.Error(1)
	}
	return nil, args.Error(1)
}
