package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/npezzotti/homeease/internal/booking"
	"github.com/npezzotti/homeease/internal/config"
	"github.com/npezzotti/homeease/internal/database"
	"github.com/npezzotti/homeease/internal/server"
	"github.com/npezzotti/homeease/internal/stats"
	"github.com/npezzotti/homeease/internal/testutil"
	"github.com/npezzotti/homeease/internal/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testSigningKey = []byte("test-signing-key")

var (
	residentActor = types.Actor{Id: 1, Role: types.RoleResident}
	plumberActor  = types.Actor{Id: 2, Role: types.RolePlumber}
	adminActor    = types.Actor{Id: 9, Role: types.RoleAdmin}
)

func newMockStats() *stats.MockStatsUpdater {
	su := &stats.MockStatsUpdater{}
	su.On("RegisterMetric", mock.Anything).Return()
	su.On("Incr", mock.Anything).Return()
	su.On("Decr", mock.Anything).Return()
	return su
}

func newTestApp(t *testing.T) (*HomeEaseApp, *database.MockHomeEaseRepository) {
	logger := testutil.TestLogger(t)
	repo := &database.MockHomeEaseRepository{}
	su := newMockStats()
	cs := server.NewChatServer(logger, su)
	cfg := &config.Config{
		ServerAddr:     "localhost:8080",
		DatabaseDSN:    "dsn",
		SigningKey:     testSigningKey,
		AllowedOrigins: []string{"http://localhost:3000"},
	}

	app := NewHomeEaseApp(http.NewServeMux(), logger, cs, repo, booking.NewManager(logger, repo, su), cfg)
	return app, repo
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSigningKey)
	require.NoError(t, err, "failed to sign token")
	return token
}

func tokenFor(t *testing.T, actor types.Actor) string {
	return signToken(t, jwt.MapClaims{
		idClaim:   actor.Id,
		roleClaim: string(actor.Role),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
}

// do sends a request through the full middleware chain. A nil actor sends no
// token.
func do(t *testing.T, app *HomeEaseApp, method, path string, body any, actor *types.Actor) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, *actor))
	}

	rr := httptest.NewRecorder()
	app.mux.Handler.ServeHTTP(rr, req)
	return rr
}

func decodeApiError(t *testing.T, rr *httptest.ResponseRecorder) ApiError {
	var apiErr ApiError
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&apiErr), "expected error body")
	return apiErr
}

func dbBooking(id int64, status types.Status) database.Booking {
	now := time.Now().UTC()
	return database.Booking{
		Id:          id,
		ResidentId:  residentActor.Id,
		PlumberId:   plumberActor.Id,
		Issue:       "leaking tap",
		ServiceDate: "2025-03-01",
		ServiceTime: "09:30",
		Status:      string(status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func contextWithTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}
