package portalclient

import "slices"

// Role helpers evaluate the signed-in user's role; signed out means public.

func (c *Client) Role() Role {
	return c.session.Role()
}

func (c *Client) HasRole(roles ...Role) bool {
	return slices.Contains(roles, c.Role())
}

func (c *Client) IsAdmin() bool {
	return c.Role().IsAdmin()
}

func (c *Client) HasPermission(p Permission) bool {
	return c.Role().HasPermission(p)
}

func (c *Client) HasAnyPermission(perms ...Permission) bool {
	return c.Role().HasAnyPermission(perms...)
}

func (c *Client) HasAllPermissions(perms ...Permission) bool {
	return c.Role().HasAllPermissions(perms...)
}

func (c *Client) HasMinimumRole(minimum Role) bool {
	return c.Role().HasMinimumRole(minimum)
}
