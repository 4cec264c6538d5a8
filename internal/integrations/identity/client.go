// Package identity определяет роль пользователя (requester или admin).
// Аутентификация выполняется шлюзом, сервис получает только X-User-ID.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

const roleAdmin = "admin"

// Client клиент провайдера идентификации
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetUser получает пользователя по ID
func (c *Client) GetUser(ctx context.Context, userID int64) (*User, error) {
	url := fmt.Sprintf("%s/internal/users/%d", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrUserNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &user, nil
}

// GetActor определяет актора по ID пользователя.
// При недоступности провайдера роль понижается до requester: актор возвращается
// вместе с ErrServiceDegraded, операции администратора в этом случае отклоняются.
func (c *Client) GetActor(ctx context.Context, userID int64, _ string) (domain.Actor, error) {
	actor := domain.Actor{ID: userID}

	user, err := c.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.log.Warn("GetActor: user=%d not found in identity provider", userID)
			return actor, err
		}
		c.log.Error("Identity provider unavailable, treating user=%d as requester: %v", userID, err)
		return actor, fmt.Errorf("%w: user=%d, error=%v", ErrServiceDegraded, userID, err)
	}

	actor.IsAdmin = strings.EqualFold(user.Role, roleAdmin)
	return actor, nil
}

// HeaderResolver доверяет роли, выставленной шлюзом в заголовке X-User-Role
type HeaderResolver struct{}

// GetActor строит актора из значения заголовка роли
func (HeaderResolver) GetActor(_ context.Context, userID int64, role string) (domain.Actor, error) {
	return domain.Actor{ID: userID, IsAdmin: strings.EqualFold(strings.TrimSpace(role), roleAdmin)}, nil
}
