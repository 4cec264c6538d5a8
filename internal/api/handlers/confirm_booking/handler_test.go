package confirm_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroundBooking/internal/api/middleware"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-GroundBooking/internal/usecase/claim"
	"github.com/m04kA/SMC-GroundBooking/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Confirm(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, actor, bookingID)
	booking, _ := args.Get(0).(*domain.Booking)
	return booking, args.Error(1)
}

var admin = domain.Actor{ID: 1, IsAdmin: true}

func serve(uc *mockUseCase, id string, actor *domain.Actor) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/bookings/"+id+"/confirm", nil)
	req = mux.SetURLVars(req, map[string]string{"bookingId": id})
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Discard()).Handle(rec, req)
	return rec
}

func TestHandle_Confirmed(t *testing.T) {
	uc := new(mockUseCase)
	uc.On("Confirm", mock.Anything, admin, int64(7)).
		Return(&domain.Booking{ID: 7, GroundID: 3, UserID: 10, Status: domain.StatusConfirmed}, nil)

	rec := serve(uc, "7", &admin)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	uc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "slot taken meanwhile", err: domain.ErrSlotUnavailable, wantStatus: http.StatusConflict},
		{name: "already resolved", err: domain.ErrInvalidTransition, wantStatus: http.StatusConflict},
		{name: "not found", err: domain.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "not admin", err: domain.ErrPermissionDenied, wantStatus: http.StatusForbidden},
		{name: "lock timeout", err: claim.ErrLockTimeout, wantStatus: http.StatusServiceUnavailable},
		{name: "storage failure", err: assert.AnError, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockUseCase)
			uc.On("Confirm", mock.Anything, admin, int64(7)).Return(nil, tt.err)

			rec := serve(uc, "7", &admin)

			assert.Equal(t, tt.wantStatus, rec.Code)
			uc.AssertExpectations(t)
		})
	}
}

func TestHandle_RequestErrors(t *testing.T) {
	uc := new(mockUseCase)

	assert.Equal(t, http.StatusBadRequest, serve(uc, "seven", &admin).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(uc, "7", nil).Code)
	uc.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything, mock.Anything)
}
