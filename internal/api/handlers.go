package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/npezzotti/homeease/internal/booking"
	"github.com/npezzotti/homeease/internal/server"
	"github.com/npezzotti/homeease/internal/types"
)

type CreateBookingRequest struct {
	PlumberId   int64  `json:"plumber_id"`
	Issue       string `json:"issue"`
	ServiceDate string `json:"service_date"`
	ServiceTime string `json:"service_time"`
}

type UpdateStatusRequest struct {
	Status types.Status `json:"status"`
}

type CreateReviewRequest struct {
	BookingId int64  `json:"booking_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (s *HomeEaseApp) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("json encode: %v", err)
	}
}

func (s *HomeEaseApp) writeError(w http.ResponseWriter, r *http.Request, errResp *ApiError) {
	switch errResp.StatusCode {
	case http.StatusServiceUnavailable:
		w.Header().Set("Retry-After", retryAfterSeconds)
		s.log.Printf("[%s] %s %s: %v", RequestId(r.Context()), r.Method, r.URL.Path, errResp)
	case http.StatusInternalServerError:
		s.log.Printf("[%s] %s %s: %v", RequestId(r.Context()), r.Method, r.URL.Path, errResp)
	}

	s.writeJson(w, errResp.StatusCode, errResp)
}

// pathId parses a positive integer path parameter.
func pathId(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (s *HomeEaseApp) healthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		s.writeError(w, r, NewServiceUnavailableError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *HomeEaseApp) createBooking(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())

	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, NewBadRequestError())
		return
	}

	b, err := s.bookings.CreateBooking(r.Context(), booking.CreateBookingParams{
		ResidentId:  actor.Id,
		PlumberId:   req.PlumberId,
		Issue:       req.Issue,
		ServiceDate: req.ServiceDate,
		ServiceTime: req.ServiceTime,
	})
	if err != nil {
		s.writeError(w, r, bookingError(err))
		return
	}

	s.writeJson(w, http.StatusCreated, b)
}

func (s *HomeEaseApp) getBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(r, "id")
	if !ok {
		s.writeError(w, r, NewBadRequestError())
		return
	}

	b, err := s.bookings.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, bookingError(err))
		return
	}

	s.writeJson(w, http.StatusOK, b)
}

func (s *HomeEaseApp) listPlumberBookings(w http.ResponseWriter, r *http.Request) {
	plumberId, ok := pathId(r, "plumberId")
	if !ok {
		s.writeError(w, r, NewBadRequestError())
		return
	}

	bookings, err := s.bookings.ListByPlumber(r.Context(), plumberId)
	if err != nil {
		s.writeError(w, r, bookingError(err))
		return
	}

	s.writeJson(w, http.StatusOK, bookings)
}

func (s *HomeEaseApp) listResidentBookings(w http.ResponseWriter, r *http.Request) {
	residentId, ok := pathId(r, "residentId")
	if !ok {
		s.writeError(w, r, NewBadRequestError())
		return
	}

	bookings, err := s.bookings.ListByResident(r.Context(), residentId)
	if err != nil {
		s.writeError(w, r, bookingError(err))
		return
	}

	s.writeJson(w, http.StatusOK, bookings)
}

func (s *HomeEaseApp) listAllBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.bookings.ListAll(r.Context())
	if err != nil {
		s.writeError(w, r, bookingError(err))
		return
	}

	s.writeJson(w, http.StatusOK, bookings)
}

func (s *HomeEaseApp) updateBookingStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())

	id, ok := pathId(r, "bookingId")
	if !ok {
		s.writeError(w, r, NewBadRequestError())
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, NewBadRequestError())
		return
	}

	b, err := s.bookings.Transition(r.Context(), id, actor, req.Status)
	if err != nil {
		s.writeError(w, r, bookingError(err))
		return
	}

	s.writeJson(w, http.StatusOK, b)
}

func (s *HomeEaseApp) cancelBooking(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())

	id, ok := pathId(r, "bookingId")
	if !ok {
		s.writeError(w, r, NewBadRequestError())
		return
	}

	b, err := s.bookings.Cancel(r.Context(), id, actor)
	if err != nil {
		s.writeError(w, r, bookingError(err))
		return
	}

	s.writeJson(w, http.StatusOK, b)
}

func (s *HomeEaseApp) createReview(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())

	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, NewBadRequestError())
		return
	}

	review, err := s.bookings.SubmitReview(r.Context(), actor, booking.ReviewParams{
		BookingId: req.BookingId,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		s.writeError(w, r, bookingError(err))
		return
	}

	s.writeJson(w, http.StatusCreated, review)
}

func (s *HomeEaseApp) listPlumberReviews(w http.ResponseWriter, r *http.Request) {
	plumberId, ok := pathId(r, "plumberId")
	if !ok {
		s.writeError(w, r, NewBadRequestError())
		return
	}

	reviews, err := s.bookings.ListReviewsByPlumber(r.Context(), plumberId)
	if err != nil {
		s.writeError(w, r, bookingError(err))
		return
	}

	s.writeJson(w, http.StatusOK, reviews)
}

func (s *HomeEaseApp) listResidentReviews(w http.ResponseWriter, r *http.Request) {
	residentId, ok := pathId(r, "residentId")
	if !ok {
		s.writeError(w, r, NewBadRequestError())
		return
	}

	reviews, err := s.bookings.ListReviewsByResident(r.Context(), residentId)
	if err != nil {
		s.writeError(w, r, bookingError(err))
		return
	}

	s.writeJson(w, http.StatusOK, reviews)
}

func (s *HomeEaseApp) serveWs(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		s.writeError(w, r, NewUnauthorizedError())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Println("error upgrading connection:", err)
		return
	}

	client := server.NewClient(actor, conn, s.cs, s.log)
	if !s.cs.RegisterClient(client) {
		conn.Close()
		return
	}

	go client.Write()
	go client.Read()
}
