package upstream

import (
	"context"
	"net/url"

	"adminconsole/internal/domain/corporate"
	"adminconsole/internal/domain/user"
)

// ListCorporates lists the corporates the token's user belongs to.
func (c *Client) ListCorporates(ctx context.Context, token string, p corporate.ListParams) (Response[[]corporate.Corporate], error) {
	q := pageQuery(url.Values{"q": {p.Q}, "status": {p.Status}}, p.Page, p.Limit)
	return get[[]corporate.Corporate](ctx, c, token, "/corporates", q)
}

func (c *Client) CreateCorporate(ctx context.Context, token string, p corporate.Payload) (Response[corporate.Registered], error) {
	return post[corporate.Registered](ctx, c, token, "/corporates/register", p)
}

// ListUsers lists the members of a corporate.
func (c *Client) ListUsers(ctx context.Context, token, corporateID string, p user.ListParams) (Response[[]user.User], error) {
	q := pageQuery(url.Values{"q": {p.Q}, "status": {p.Status}}, p.Page, p.Limit)
	return get[[]user.User](ctx, c, token, corporatePath(corporateID, "users"), q)
}
