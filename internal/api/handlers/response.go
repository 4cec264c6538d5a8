package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

const (
	msgInternalError = "внутренняя ошибка сервера"

	maxBodyBytes = 1 << 20
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondJSON пишет ответ в формате JSON
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError пишет ошибку с указанным кодом
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// DecodeJSON декодирует тело запроса, неизвестные поля запрещены
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return io.EOF
	}
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// PathInt64 читает положительный int64 из переменной пути
func PathInt64(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, strconv.ErrRange
	}
	return v, nil
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateFormat, s)
}

// Сообщения общих ошибок бронирования
const (
	MsgSlotUnavailable   = "выбранный интервал уже занят"
	MsgNonContiguous     = "выбранные слоты должны идти подряд внутри окна площадки"
	MsgInvalidTransition = "переход статуса недопустим"
	MsgStaleState        = "бронирование было изменено, повторите запрос"
	MsgPermissionDenied  = "доступ запрещен"
	MsgBookingNotFound   = "бронирование не найдено"
	MsgGroundNotFound    = "площадка не найдена"
	MsgGroundInactive    = "площадка не принимает бронирования"
)

// RespondDomainError отвечает на общие ошибки домена.
// Возвращает false, если ошибка не относится к домену.
func RespondDomainError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, domain.ErrSlotUnavailable):
		RespondConflict(w, MsgSlotUnavailable)
	case errors.Is(err, domain.ErrNonContiguousSelection):
		RespondBadRequest(w, MsgNonContiguous)
	case errors.Is(err, domain.ErrInvalidTransition):
		RespondConflict(w, MsgInvalidTransition)
	case errors.Is(err, domain.ErrStaleState):
		RespondConflict(w, MsgStaleState)
	case errors.Is(err, domain.ErrPermissionDenied):
		RespondForbidden(w, MsgPermissionDenied)
	case errors.Is(err, domain.ErrBookingNotFound):
		RespondNotFound(w, MsgBookingNotFound)
	case errors.Is(err, domain.ErrGroundNotFound):
		RespondNotFound(w, MsgGroundNotFound)
	case errors.Is(err, domain.ErrGroundInactive):
		RespondConflict(w, MsgGroundInactive)
	default:
		return false
	}
	return true
}

// MsgBusy ответ при исчерпании времени ожидания блокировки слота
const MsgBusy = "слот сейчас бронируется другим запросом, повторите позже"
