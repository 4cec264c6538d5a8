package cancel_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-GroundBooking/internal/api/middleware"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/pkg/logger"
)

type stubUseCase struct {
	err       error
	bookingID int64
	actor     domain.Actor
}

func (s *stubUseCase) Cancel(_ context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error) {
	s.actor, s.bookingID = actor, bookingID
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Booking{ID: bookingID, UserID: actor.ID, Status: domain.StatusCancelled}, nil
}

func serve(uc *stubUseCase, id string, actor *domain.Actor) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+id+"/cancel", nil)
	req = mux.SetURLVars(req, map[string]string{"bookingId": id})
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Discard()).Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	owner := &domain.Actor{ID: 10}

	tests := []struct {
		name       string
		id         string
		actor      *domain.Actor
		err        error
		wantStatus int
	}{
		{name: "cancelled", id: "5", actor: owner, wantStatus: http.StatusOK},
		{name: "bad id", id: "five", actor: owner, wantStatus: http.StatusBadRequest},
		{name: "zero id", id: "0", actor: owner, wantStatus: http.StatusBadRequest},
		{name: "anonymous", id: "5", wantStatus: http.StatusUnauthorized},
		{name: "confirmed by requester", id: "5", actor: owner, err: domain.ErrInvalidTransition, wantStatus: http.StatusConflict},
		{name: "foreign booking", id: "5", actor: owner, err: domain.ErrPermissionDenied, wantStatus: http.StatusForbidden},
		{name: "not found", id: "5", actor: owner, err: domain.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "stale", id: "5", actor: owner, err: domain.ErrStaleState, wantStatus: http.StatusConflict},
		{name: "internal", id: "5", actor: owner, err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{err: tt.err}
			rec := serve(uc, tt.id, tt.actor)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, int64(5), uc.bookingID)
				assert.Equal(t, *owner, uc.actor)
				assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)
			}
		})
	}
}
