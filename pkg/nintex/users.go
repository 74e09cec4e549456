package nintex

import (
	"context"
)

// ListUsers returns the tenant's user accounts, following nextLink
// until no more pages.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	c.logger.Info("listing users")

	return fetchAll[User](ctx, c, "/tenants/v1/users", "users", nil)
}
