package booking

import (
	"context"
	"fmt"

	"github.com/npezzotti/homeease/internal/database"
	"github.com/npezzotti/homeease/internal/types"
)

// SubmitReview records the resident's review of a booking. A booking can be
// reviewed once; later attempts fail with ErrDuplicateReview.
func (m *Manager) SubmitReview(ctx context.Context, actor types.Actor, params ReviewParams) (types.Review, error) {
	if err := validateStruct(params); err != nil {
		return types.Review{}, err
	}

	if actor.Role != types.RoleResident {
		return types.Review{}, fmt.Errorf("only residents may review: %w", ErrForbidden)
	}

	unlock := m.locks.Lock(params.BookingId)
	defer unlock()

	b, err := m.Get(ctx, params.BookingId)
	if err != nil {
		return types.Review{}, err
	}

	if b.ResidentId != actor.Id {
		return types.Review{}, fmt.Errorf("booking %d belongs to another resident: %w", b.Id, ErrForbidden)
	}

	_, err = m.db.GetReviewByBookingId(ctx, b.Id)
	if err == nil {
		return types.Review{}, fmt.Errorf("booking %d: %w", b.Id, ErrDuplicateReview)
	}
	if !database.IsNoRows(err) {
		return types.Review{}, storeError("get review", err)
	}

	dbReview, err := m.db.CreateReview(ctx, database.CreateReviewParams{
		BookingId:  b.Id,
		ResidentId: b.ResidentId,
		PlumberId:  b.PlumberId,
		Rating:     params.Rating,
		Comment:    params.Comment,
	})
	if err != nil {
		return types.Review{}, storeError("create review", err)
	}

	m.stats.Incr(metricReviewsCreated)
	m.log.Printf("review %d created for booking %d", dbReview.Id, b.Id)

	return toReview(dbReview), nil
}

func (m *Manager) ListReviewsByPlumber(ctx context.Context, plumberId int64) ([]types.Review, error) {
	dbReviews, err := m.db.ListReviewsByPlumber(ctx, plumberId)
	if err != nil {
		return nil, storeError("list plumber reviews", err)
	}

	return toReviews(dbReviews), nil
}

func (m *Manager) ListReviewsByResident(ctx context.Context, residentId int64) ([]types.Review, error) {
	dbReviews, err := m.db.ListReviewsByResident(ctx, residentId)
	if err != nil {
		return nil, storeError("list resident reviews", err)
	}

	return toReviews(dbReviews), nil
}

func toReview(r database.Review) types.Review {
	return types.Review{
		Id:         r.Id,
		BookingId:  r.BookingId,
		ResidentId: r.ResidentId,
		PlumberId:  r.PlumberId,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

func toReviews(dbReviews []database.Review) []types.Review {
	reviews := make([]types.Review, 0, len(dbReviews))
	for _, r := range dbReviews {
		reviews = append(reviews, toReview(r))
	}

	return reviews
}
