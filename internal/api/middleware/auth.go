package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	msgMissingUserID = "отсутствует или некорректен заголовок X-User-ID"
	msgAdminOnly     = "требуются права администратора"
)

type ctxKey int

const actorKey ctxKey = iota

// ActorResolver определяет роль пользователя
type ActorResolver interface {
	GetActor(ctx context.Context, userID int64, role string) (domain.Actor, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth требует X-User-ID и один раз на запрос определяет актора.
// Если провайдер идентификации недоступен, актор получает права обычного пользователя.
func Auth(resolver ActorResolver, log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := parseUserID(r)
			if !ok {
				handlers.RespondUnauthorized(w, msgMissingUserID)
				return
			}

			actor := resolve(r, resolver, log, userID)
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// OptionalAuth как Auth, но пропускает анонимные запросы
func OptionalAuth(resolver ActorResolver, log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(HeaderUserID) == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := parseUserID(r)
			if !ok {
				handlers.RespondUnauthorized(w, msgMissingUserID)
				return
			}

			actor := resolve(r, resolver, log, userID)
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// AdminOnly пропускает только администраторов, ставится после Auth
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}
		if !actor.IsAdmin {
			handlers.RespondForbidden(w, msgAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithActor кладёт актора в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor возвращает актора, определённого middleware Auth
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

// GetUserID возвращает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	actor, ok := GetActor(ctx)
	if !ok {
		return 0, false
	}
	return actor.ID, true
}

func parseUserID(r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64)
	if err != nil || userID <= 0 {
		return 0, false
	}
	return userID, true
}

func resolve(r *http.Request, resolver ActorResolver, log Logger, userID int64) domain.Actor {
	actor, err := resolver.GetActor(r.Context(), userID, r.Header.Get(HeaderUserRole))
	if err != nil {
		log.Warn("Auth: identity lookup failed for user=%d, acting as requester: %v", userID, err)
		return domain.Actor{ID: userID}
	}
	return actor
}
