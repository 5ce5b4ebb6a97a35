package api

import "time"

// Role represents a user's role within their organization.
type Role string

const (
	RoleAdmin   Role = "admin"   // Organization owner, full control
	RoleManager Role = "manager" // Can manage staff and invites
	RoleStaff   Role = "staff"   // Regular member
)

// User is the authenticated user's profile as reported by the backend.
type User struct {
	ID               string     `json:"id,omitempty"`
	Email            string     `json:"email,omitempty"`
	Username         string     `json:"username,omitempty"`
	FirstName        string     `json:"first_name,omitempty"`
	LastName         string     `json:"last_name,omitempty"`
	FullName         string     `json:"full_name,omitempty"`
	PhoneNumber      string     `json:"phone_number,omitempty"`
	ProfilePicture   string     `json:"profile_picture,omitempty"`
	Role             Role       `json:"role,omitempty"`
	OrganizationName string     `json:"organization_name,omitempty"`
	IsVerified       bool       `json:"is_verified,omitempty"`
	CreatedAt        time.Time  `json:"created_at,omitzero"`
	LastLogin        *time.Time `json:"last_login,omitempty"`
}

// UserUpdate holds the profile fields a user may change. Zero-valued fields
// are omitted from the PATCH body.
type UserUpdate struct {
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// SubscriptionLimits describes what an organization's plan allows.
type SubscriptionLimits struct {
	Users     int      `json:"users"`
	StorageGB int      `json:"storage_gb"`
	Features  []string `json:"features"`
}

// Organization mirrors the backend's organization resource.
type Organization struct {
	ID                 string              `json:"id,omitempty"`
	Name               string              `json:"name,omitempty"`
	Slug               string              `json:"slug,omitempty"`
	Description        string              `json:"description,omitempty"`
	Email              string              `json:"email,omitempty"`
	PhoneNumber        string              `json:"phone_number,omitempty"`
	Website            string              `json:"website,omitempty"`
	AddressLine1       string              `json:"address_line_1,omitempty"`
	AddressLine2       string              `json:"address_line_2,omitempty"`
	City               string              `json:"city,omitempty"`
	State              string              `json:"state,omitempty"`
	PostalCode         string              `json:"postal_code,omitempty"`
	Country            string              `json:"country,omitempty"`
	OrganizationType   string              `json:"organization_type,omitempty"`
	Industry           string              `json:"industry,omitempty"`
	EmployeeCount      int                 `json:"employee_count,omitempty"`
	SubscriptionPlan   string              `json:"subscription_plan,omitempty"`
	Logo               string              `json:"logo,omitempty"`
	Currency           string              `json:"currency,omitempty"`
	Timezone           string              `json:"timezone,omitempty"`
	IsActive           bool                `json:"is_active,omitempty"`
	IsVerified         bool                `json:"is_verified,omitempty"`
	CreatedAt          time.Time           `json:"created_at,omitzero"`
	UpdatedAt          time.Time           `json:"updated_at,omitzero"`
	UserCount          int                 `json:"user_count,omitempty"`
	FullAddress        string              `json:"full_address,omitempty"`
	SubscriptionLimits *SubscriptionLimits `json:"subscription_limits,omitempty"`
}

// OrganizationUpdate holds the organization fields an admin may change.
type OrganizationUpdate struct {
	Name         string `json:"name,omitempty"`
	Description  string `json:"description,omitempty"`
	Email        string `json:"email,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	Website      string `json:"website,omitempty"`
	AddressLine1 string `json:"address_line_1,omitempty"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Country      string `json:"country,omitempty"`
	Industry     string `json:"industry,omitempty"`
	Timezone     string `json:"timezone,omitempty"`
}

// OrganizationCreate holds the fields required to create an organization.
type OrganizationCreate struct {
	Name             string `json:"name" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	OrganizationType string `json:"organization_type,omitempty"`
	Country          string `json:"country,omitempty"`
	Description      string `json:"description,omitempty"`
}

// OrganizationStats is the aggregate member/plan summary for an organization.
type OrganizationStats struct {
	TotalUsers         int                 `json:"total_users"`
	AdminUsers         int                 `json:"admin_users"`
	ManagerUsers       int                 `json:"manager_users"`
	StaffUsers         int                 `json:"staff_users"`
	SubscriptionPlan   string              `json:"subscription_plan"`
	SubscriptionLimits *SubscriptionLimits `json:"subscription_limits,omitempty"`
	CanAddUsers        bool                `json:"can_add_users"`
}

// AuthTokens is the credential pair issued on login or invite registration.
type AuthTokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginResponse is returned by the login endpoint.
type LoginResponse struct {
	Message string      `json:"message,omitempty"`
	User    *User       `json:"user,omitempty"`
	Tokens  *AuthTokens `json:"tokens,omitempty"`
}

// RegisterData is the registration payload. Validation tags mirror the
// backend serializer so obviously bad input never leaves the client.
type RegisterData struct {
	Email                   string `json:"email" validate:"required,email"`
	Username                string `json:"username" validate:"required,min=3,max=150"`
	FirstName               string `json:"first_name" validate:"required"`
	LastName                string `json:"last_name" validate:"required"`
	PhoneNumber             string `json:"phone_number,omitempty"`
	Password                string `json:"password" validate:"required,min=8"`
	PasswordConfirm         string `json:"password_confirm" validate:"required,eqfield=Password"`
	OrganizationName        string `json:"organization_name,omitempty"`
	OrganizationInviteToken string `json:"organization_invite_token,omitempty"`
}

// RegisterResponse is returned by the registration endpoint. Tokens are only
// present for the invite flow, which auto-logs the new user in; organization
// owners must verify their email address first.
type RegisterResponse struct {
	Message              string      `json:"message,omitempty"`
	User                 *User       `json:"user,omitempty"`
	Tokens               *AuthTokens `json:"tokens,omitempty"`
	FlowType             string      `json:"flow_type,omitempty"`
	AutoLogin            bool        `json:"auto_login,omitempty"`
	VerificationRequired bool        `json:"verification_required,omitempty"`
	VerificationToken    string      `json:"verification_token,omitempty"`
}

// MessageResponse is the generic acknowledgement body used by logout,
// password reset, and email verification endpoints.
type MessageResponse struct {
	Message    string `json:"message,omitempty"`
	ResetToken string `json:"reset_token,omitempty"`
}

// DashboardPermissions are the capability flags computed server-side for the
// current user.
type DashboardPermissions struct {
	CanManageUsers         bool `json:"can_manage_users"`
	CanAccessAdminFeatures bool `json:"can_access_admin_features"`
	IsAdmin                bool `json:"is_admin"`
	IsManager              bool `json:"is_manager"`
	IsStaffMember          bool `json:"is_staff_member"`
}

// DashboardOrganization is the slim organization summary on the dashboard.
type DashboardOrganization struct {
	Name             string `json:"name,omitempty"`
	UserCount        int    `json:"user_count"`
	SubscriptionPlan string `json:"subscription_plan,omitempty"`
}

// Dashboard is the payload of the dashboard endpoint.
type Dashboard struct {
	User         *User                  `json:"user,omitempty"`
	Organization *DashboardOrganization `json:"organization,omitempty"`
	Permissions  *DashboardPermissions  `json:"permissions,omitempty"`
}

// InviteRequest is the payload for inviting a member into the organization.
type InviteRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  Role   `json:"role" validate:"required,oneof=admin manager staff"`
}

// PasswordResetConfirm is the payload for completing a password reset.
type PasswordResetConfirm struct {
	Token              string `json:"token" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required,min=8"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required,eqfield=NewPassword"`
}
