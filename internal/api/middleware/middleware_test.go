package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/pkg/logger"
)

type stubResolver struct {
	actor domain.Actor
	err   error
	calls int
}

func (s *stubResolver) GetActor(_ context.Context, userID int64, role string) (domain.Actor, error) {
	s.calls++
	if s.err != nil {
		return domain.Actor{}, s.err
	}
	a := s.actor
	a.ID = userID
	a.IsAdmin = a.IsAdmin || role == "admin"
	return a, nil
}

func captureActor(got *domain.Actor, present *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, *present = GetActor(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		role       string
		resolver   *stubResolver
		wantStatus int
		wantActor  domain.Actor
	}{
		{name: "requester", userID: "10", resolver: &stubResolver{}, wantStatus: http.StatusNoContent, wantActor: domain.Actor{ID: 10}},
		{name: "admin", userID: "1", role: "admin", resolver: &stubResolver{}, wantStatus: http.StatusNoContent, wantActor: domain.Actor{ID: 1, IsAdmin: true}},
		{name: "degraded identity", userID: "1", role: "admin", resolver: &stubResolver{err: errors.New("timeout")}, wantStatus: http.StatusNoContent, wantActor: domain.Actor{ID: 1}},
		{name: "missing header", resolver: &stubResolver{}, wantStatus: http.StatusUnauthorized},
		{name: "not a number", userID: "abc", resolver: &stubResolver{}, wantStatus: http.StatusUnauthorized},
		{name: "not positive", userID: "0", resolver: &stubResolver{}, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				got     domain.Actor
				present bool
			)
			h := Auth(tt.resolver, logger.Discard())(captureActor(&got, &present))

			req := httptest.NewRequest(http.MethodGet, "/bookings/1", nil)
			if tt.userID != "" {
				req.Header.Set(HeaderUserID, tt.userID)
			}
			if tt.role != "" {
				req.Header.Set(HeaderUserRole, tt.role)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusNoContent {
				assert.False(t, present)
				assert.Zero(t, tt.resolver.calls)
				return
			}
			require.True(t, present)
			assert.Equal(t, tt.wantActor, got)
			assert.Equal(t, 1, tt.resolver.calls)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	var (
		got     domain.Actor
		present bool
	)
	resolver := &stubResolver{}
	h := OptionalAuth(resolver, logger.Discard())(captureActor(&got, &present))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/grounds", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, present)

	req := httptest.NewRequest(http.MethodGet, "/grounds", nil)
	req.Header.Set(HeaderUserID, "10")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, present)
	assert.Equal(t, int64(10), got.ID)

	req = httptest.NewRequest(http.MethodGet, "/grounds", nil)
	req.Header.Set(HeaderUserID, "-5")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminOnly(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := AdminOnly(next)

	tests := []struct {
		name       string
		ctx        context.Context
		wantStatus int
	}{
		{name: "admin", ctx: WithActor(context.Background(), domain.Actor{ID: 1, IsAdmin: true}), wantStatus: http.StatusOK},
		{name: "requester", ctx: WithActor(context.Background(), domain.Actor{ID: 10}), wantStatus: http.StatusForbidden},
		{name: "anonymous", ctx: context.Background(), wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/grounds", nil).WithContext(tt.ctx))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestGetUserID(t *testing.T) {
	_, ok := GetUserID(context.Background())
	assert.False(t, ok)

	id, ok := GetUserID(WithActor(context.Background(), domain.Actor{ID: 42}))
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestRecovery(t *testing.T) {
	h := Recovery(logger.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

type observed struct {
	method, route string
	status        int
}

type fakeHTTPMetrics struct {
	calls []observed
}

func (f *fakeHTTPMetrics) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	f.calls = append(f.calls, observed{method: method, route: route, status: status})
}

func TestMetricsMiddleware(t *testing.T) {
	m := &fakeHTTPMetrics{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/bookings/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)
	r.HandleFunc("/grounds", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}).Methods(http.MethodGet)

	for _, path := range []string{"/bookings/17", "/grounds"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Len(t, m.calls, 2)
	assert.Equal(t, observed{method: http.MethodGet, route: "/bookings/{bookingId}", status: http.StatusNotFound}, m.calls[0])
	assert.Equal(t, observed{method: http.MethodGet, route: "/grounds", status: http.StatusOK}, m.calls[1])
}
