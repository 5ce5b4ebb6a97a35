package api

import (
	"context"
	"net/http"
)

// Organization fetches the current user's organization.
func (c *Client) Organization(ctx context.Context) Response[Organization] {
	return request[Organization](ctx, c, http.MethodGet, "/organizations/", nil)
}

// UpdateOrganization applies a partial organization update.
func (c *Client) UpdateOrganization(ctx context.Context, update OrganizationUpdate) Response[Organization] {
	return request[Organization](ctx, c, http.MethodPatch, "/organizations/", update)
}

// CreateOrganization creates a new organization owned by the current user.
func (c *Client) CreateOrganization(ctx context.Context, data OrganizationCreate) Response[Organization] {
	if fields := c.validateStruct(data); fields != nil {
		return fieldFailure[Organization]("validation failed", fields)
	}
	return request[Organization](ctx, c, http.MethodPost, "/organizations/create/", data)
}

// Members lists the organization's members.
func (c *Client) Members(ctx context.Context) Response[[]User] {
	return request[[]User](ctx, c, http.MethodGet, "/organizations/members/", nil)
}

// InviteMember sends an invite email for the given role.
func (c *Client) InviteMember(ctx context.Context, email string, role Role) Response[MessageResponse] {
	payload := InviteRequest{Email: email, Role: role}
	if fields := c.validateStruct(payload); fields != nil {
		return fieldFailure[MessageResponse]("validation failed", fields)
	}
	return request[MessageResponse](ctx, c, http.MethodPost, "/organizations/invites/send/", payload)
}

// Stats fetches the organization's member and subscription statistics.
func (c *Client) Stats(ctx context.Context) Response[OrganizationStats] {
	return request[OrganizationStats](ctx, c, http.MethodGet, "/organizations/stats/", nil)
}
