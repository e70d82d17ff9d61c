package model

// Staff roles. Enforcement lives in the remote row-level policies; the
// client only gates which admin actions it offers.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
	RoleViewer  = "viewer"
)

// IsValidRole reports whether r belongs to the closed role set.
func IsValidRole(r string) bool {
	return r == RoleAdmin || r == RoleManager || r == RoleStaff || r == RoleViewer
}

// StaffProfile is a staff account row. Exactly one profile exists per auth
// user; email is immutable after creation and deletion is a soft is_active
// flip, never a hard delete.
type StaffProfile struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
	IsActive   bool   `json:"is_active"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// CreateStaffRequest is the payload for the create-staff function, which
// provisions both the auth credential and the profile row.
type CreateStaffRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	Role       string `json:"role" binding:"required"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
}

// UpdateStaffRequest carries the mutable profile fields. Email is absent on
// purpose.
type UpdateStaffRequest struct {
	FullName   string `json:"full_name,omitempty"`
	Role       string `json:"role,omitempty"`
	IsActive   *bool  `json:"is_active,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
}

// Fields flattens the request into the column map sent to the row API,
// omitting unset values.
func (r UpdateStaffRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if r.FullName != "" {
		fields["full_name"] = r.FullName
	}
	if r.Role != "" {
		fields["role"] = r.Role
	}
	if r.IsActive != nil {
		fields["is_active"] = *r.IsActive
	}
	if r.Phone != "" {
		fields["phone"] = r.Phone
	}
	if r.Department != "" {
		fields["department"] = r.Department
	}
	if r.AvatarURL != "" {
		fields["avatar_url"] = r.AvatarURL
	}
	return fields
}
