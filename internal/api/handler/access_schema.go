package handler

import "time"

// --- Request types ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72"`
}

type updateProfileRequest struct {
	Name      *string `json:"name"       validate:"omitempty,min=1,max=100"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,max=500"`
}

type createRoleRequest struct {
	Name        string   `json:"name"        validate:"required,max=100"`
	Description string   `json:"description" validate:"max=500"`
	Permissions []string `json:"permissions"`
}

type updateRoleRequest struct {
	Name        *string   `json:"name"        validate:"omitempty,min=1,max=100"`
	Slug        *string   `json:"slug"        validate:"omitempty,min=1,max=100"`
	Description *string   `json:"description" validate:"omitempty,max=500"`
	Permissions *[]string `json:"permissions"`
}

type createUserRequest struct {
	Name      string `json:"name"       validate:"required,max=100"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8,max=72"`
	RoleID    string `json:"role_id"    validate:"required"`
	AvatarURL string `json:"avatar_url" validate:"max=500"`
}

type updateUserRequest struct {
	Name      *string `json:"name"       validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email"      validate:"omitempty,email"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,max=500"`
}

type assignRoleRequest struct {
	RoleID string `json:"role_id" validate:"required"`
}

type setStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// --- Response types ---

type roleResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Permissions   []string  `json:"permissions"`
	IsSystemAdmin bool      `json:"is_system_admin"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// userResponse always embeds the full role; role is null when the stored
// reference no longer resolves.
type userResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	AvatarURL string        `json:"avatar_url,omitempty"`
	IsActive  bool          `json:"is_active"`
	Role      *roleResponse `json:"role"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type auditEventResponse struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	ActorID    string    `json:"actor_id,omitempty"`
	SubjectID  string    `json:"subject_id,omitempty"`
	Email      string    `json:"email,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	IP         string    `json:"ip,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
