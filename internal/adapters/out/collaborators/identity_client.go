package collaborators

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

type IdentityClient struct {
	client jsonClient
}

func NewIdentityClient(baseURL string, timeout time.Duration) *IdentityClient {
	return &IdentityClient{client: newJSONClient("identity", baseURL, timeout)}
}

func (c *IdentityClient) GetUser(ctx context.Context, id string) (ports.User, error) {
	var resp struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Phone string `json:"phone"`
		Role  string `json:"role"`
	}
	if err := c.client.get(ctx, "/users/"+escape(id), "user", id, &resp); err != nil {
		return ports.User{}, err
	}
	return ports.User{ID: resp.ID, Email: resp.Email, Phone: resp.Phone, Role: resp.Role}, nil
}

func (c *IdentityClient) UpdateUserRole(ctx context.Context, id string, role kernel.Role) error {
	body := map[string]string{"role": role.String()}
	return c.client.put(ctx, "/users/"+escape(id)+"/role", "user", id, body)
}
