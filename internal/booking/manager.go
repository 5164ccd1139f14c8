package booking

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/npezzotti/homeease/internal/database"
	"github.com/npezzotti/homeease/internal/stats"
	"github.com/npezzotti/homeease/internal/types"
)

const (
	metricBookingsCreated     = "BookingsCreated"
	metricTransitionsApplied  = "TransitionsApplied"
	metricTransitionsRejected = "TransitionsRejected"
	metricReviewsCreated      = "ReviewsCreated"
)

// Manager is the only writer of booking status. Every status change goes
// through Transition, serialized per booking id.
type Manager struct {
	log   *log.Logger
	db    database.HomeEaseRepository
	stats stats.StatsProvider
	locks *keyLock
}

func NewManager(logger *log.Logger, db database.HomeEaseRepository, su stats.StatsProvider) *Manager {
	su.RegisterMetric(metricBookingsCreated)
	su.RegisterMetric(metricTransitionsApplied)
	su.RegisterMetric(metricTransitionsRejected)
	su.RegisterMetric(metricReviewsCreated)

	return &Manager{
		log:   logger,
		db:    db,
		stats: su,
		locks: newKeyLock(),
	}
}

// CreateBooking stores a new booking in the pending state.
func (m *Manager) CreateBooking(ctx context.Context, params CreateBookingParams) (types.Booking, error) {
	params.normalize()
	if err := validateStruct(params); err != nil {
		return types.Booking{}, err
	}

	dbBooking, err := m.db.CreateBooking(ctx, database.CreateBookingParams{
		ResidentId:  params.ResidentId,
		PlumberId:   params.PlumberId,
		Issue:       params.Issue,
		ServiceDate: params.ServiceDate,
		ServiceTime: params.ServiceTime,
		Status:      string(types.StatusPending),
	})
	if err != nil {
		return types.Booking{}, storeError("create booking", err)
	}

	m.stats.Incr(metricBookingsCreated)
	m.log.Printf("created booking %d for resident %d with plumber %d", dbBooking.Id, dbBooking.ResidentId, dbBooking.PlumberId)

	return toBooking(dbBooking), nil
}

func (m *Manager) Get(ctx context.Context, id int64) (types.Booking, error) {
	dbBooking, err := m.db.GetBookingById(ctx, id)
	if err != nil {
		return types.Booking{}, storeError(fmt.Sprintf("get booking %d", id), err)
	}

	return toBooking(dbBooking), nil
}

// Transition moves a booking to the target status on behalf of actor. Either
// the change is applied completely or the booking is left untouched.
func (m *Manager) Transition(ctx context.Context, id int64, actor types.Actor, to types.Status) (types.Booking, error) {
	if !to.Valid() {
		return types.Booking{}, &ValidationError{Field: "status", Msg: fmt.Sprintf("unknown status %q", to)}
	}

	unlock := m.locks.Lock(id)
	defer unlock()

	current, err := m.Get(ctx, id)
	if err != nil {
		return types.Booking{}, err
	}

	if err := checkTransition(current, actor, to); err != nil {
		m.stats.Incr(metricTransitionsRejected)
		m.log.Printf("rejected transition: %v", err)
		return types.Booking{}, err
	}

	updated, err := m.db.UpdateBookingStatus(ctx, database.UpdateBookingStatusParams{
		BookingId:  id,
		FromStatus: string(current.Status),
		ToStatus:   string(to),
	})
	if err != nil {
		if !database.IsNoRows(err) {
			return types.Booking{}, storeError(fmt.Sprintf("update booking %d", id), err)
		}

		// the row left current.Status outside this process
		fresh, ferr := m.Get(ctx, id)
		if ferr != nil {
			return types.Booking{}, ferr
		}

		m.stats.Incr(metricTransitionsRejected)
		return types.Booking{}, &TransitionError{
			BookingId: id,
			From:      fresh.Status,
			To:        to,
			Role:      actor.Role,
			Reason:    "booking changed concurrently",
		}
	}

	m.stats.Incr(metricTransitionsApplied)
	m.log.Printf("booking %d moved from %q to %q by %s %d", id, current.Status, to, actor.Role, actor.Id)

	return toBooking(updated), nil
}

// Cancel is Transition to the cancelled status.
func (m *Manager) Cancel(ctx context.Context, id int64, actor types.Actor) (types.Booking, error) {
	return m.Transition(ctx, id, actor, types.StatusCancelled)
}

func (m *Manager) ListByPlumber(ctx context.Context, plumberId int64) ([]types.Booking, error) {
	dbBookings, err := m.db.ListBookingsByPlumber(ctx, plumberId)
	if err != nil {
		return nil, storeError("list plumber bookings", err)
	}

	return toBookings(dbBookings), nil
}

func (m *Manager) ListByResident(ctx context.Context, residentId int64) ([]types.Booking, error) {
	dbBookings, err := m.db.ListBookingsByResident(ctx, residentId)
	if err != nil {
		return nil, storeError("list resident bookings", err)
	}

	return toBookings(dbBookings), nil
}

func (m *Manager) ListAll(ctx context.Context) ([]types.Booking, error) {
	dbBookings, err := m.db.ListAllBookings(ctx)
	if err != nil {
		return nil, storeError("list bookings", err)
	}

	return toBookings(dbBookings), nil
}

// storeError classifies a repository failure into the package's error kinds.
func storeError(op string, err error) error {
	switch {
	case database.IsNoRows(err):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, database.ErrDuplicateKey):
		return fmt.Errorf("%s: %w", op, ErrDuplicateReview)
	case database.IsUnavailable(err):
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func toBooking(b database.Booking) types.Booking {
	return types.Booking{
		Id:          b.Id,
		ResidentId:  b.ResidentId,
		PlumberId:   b.PlumberId,
		Issue:       b.Issue,
		ServiceDate: b.ServiceDate,
		ServiceTime: b.ServiceTime,
		Status:      types.Status(b.Status),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toBookings(dbBookings []database.Booking) []types.Booking {
	bookings := make([]types.Booking, 0, len(dbBookings))
	for _, b := range dbBookings {
		bookings = append(bookings, toBooking(b))
	}

	return bookings
}
