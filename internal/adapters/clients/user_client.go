package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"car-rental-platform/internal/core/domain"
)

// UserClient resolves users from the user service over HTTP. It implements
// the UserDirectory port for the reservation and transfer cores.
type UserClient struct {
	client  *http.Client
	baseURL string
}

func NewUserClient(baseURL string) *UserClient {
	return &UserClient{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: baseURL,
	}
}

func (c *UserClient) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	url := fmt.Sprintf("%s/api/v1/users/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user lookup request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user service call failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, domain.ErrUserNotFound
	default:
		return nil, fmt.Errorf("user service returned unexpected status: %s", resp.Status)
	}

	var u domain.User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("failed to decode user service response: %w", err)
	}
	return &u, nil
}
