package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroundBooking/internal/api/middleware"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-GroundBooking/internal/usecase/claim"
	createBooking "github.com/m04kA/SMC-GroundBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-GroundBooking/pkg/logger"
	"github.com/m04kA/SMC-GroundBooking/pkg/types"
)

type stubUseCase struct {
	got *createBooking.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *createBooking.Request) (*domain.Booking, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Booking{
		ID:            7,
		GroundID:      req.GroundID,
		UserID:        req.UserID,
		BookingDate:   req.Date,
		StartTime:     req.Slots[0].Start,
		EndTime:       req.Slots[len(req.Slots)-1].End,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentUnpaid,
		TotalAmount:   1000,
	}, nil
}

const validBody = `{
	"groundId": 3,
	"bookingDate": "2025-06-10",
	"slots": [{"startTime": "09:00", "endTime": "09:30"}, {"startTime": "09:30", "endTime": "10:00"}]
}`

func serve(h *Handler, body string, actor *domain.Actor) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &stubUseCase{}
	h := NewHandler(uc, logger.Discard())

	rec := serve(h, validBody, &domain.Actor{ID: 10})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "2025-06-10", resp.BookingDate)
	assert.Equal(t, "09:00", resp.StartTime)
	assert.Equal(t, "10:00", resp.EndTime)
	assert.Equal(t, "pending", resp.Status)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(10), uc.got.UserID)
	assert.Equal(t, int64(3), uc.got.GroundID)
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), uc.got.Date)
	assert.Equal(t, []domain.Interval{
		{Start: types.MustTimeString("09:00"), End: types.MustTimeString("09:30")},
		{Start: types.MustTimeString("09:30"), End: types.MustTimeString("10:00")},
	}, uc.got.Slots)
}

func TestHandle_RequestErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		actor      *domain.Actor
		wantStatus int
	}{
		{name: "anonymous", body: validBody, wantStatus: http.StatusUnauthorized},
		{name: "malformed json", body: `{"groundId":`, actor: &domain.Actor{ID: 10}, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"groundId": 3, "price": 0}`, actor: &domain.Actor{ID: 10}, wantStatus: http.StatusBadRequest},
		{name: "bad date", body: `{"groundId": 3, "bookingDate": "10.06.2025", "slots": []}`, actor: &domain.Actor{ID: 10}, wantStatus: http.StatusBadRequest},
		{name: "bad slot", body: `{"groundId": 3, "bookingDate": "2025-06-10", "slots": [{"startTime": "9am", "endTime": "10am"}]}`, actor: &domain.Actor{ID: 10}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{}
			rec := serve(NewHandler(uc, logger.Discard()), tt.body, tt.actor)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{err: domain.ErrSlotUnavailable, wantStatus: http.StatusConflict},
		{err: fmt.Errorf("%w: gap", domain.ErrNonContiguousSelection), wantStatus: http.StatusBadRequest},
		{err: domain.ErrGroundNotFound, wantStatus: http.StatusNotFound},
		{err: domain.ErrGroundInactive, wantStatus: http.StatusConflict},
		{err: createBooking.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{err: createBooking.ErrInvalidDate, wantStatus: http.StatusBadRequest},
		{err: createBooking.ErrDateTooFarInFuture, wantStatus: http.StatusBadRequest},
		{err: createBooking.ErrSlotInPast, wantStatus: http.StatusBadRequest},
		{err: claim.ErrLockTimeout, wantStatus: http.StatusServiceUnavailable},
		{err: errors.New("disk full"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := serve(NewHandler(&stubUseCase{err: tt.err}, logger.Discard()), validBody, &domain.Actor{ID: 10})
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}
