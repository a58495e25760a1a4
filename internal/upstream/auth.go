package upstream

import (
	"context"

	"adminconsole/internal/domain/auth"
)

func (c *Client) Login(ctx context.Context, creds auth.LoginCredentials) (Response[auth.LoginData], error) {
	return post[auth.LoginData](ctx, c, "", "/auth/login", creds)
}

func (c *Client) Register(ctx context.Context, creds auth.RegisterCredentials) (Response[auth.RegisterData], error) {
	return post[auth.RegisterData](ctx, c, "", "/auth/register", creds)
}
