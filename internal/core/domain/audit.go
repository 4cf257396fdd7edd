package domain

import "time"

// AuthEventType names an entry of the authentication audit trail.
type AuthEventType string

const (
	EventLoginSucceeded    AuthEventType = "login.succeeded"
	EventLoginFailed       AuthEventType = "login.failed"
	EventLoginThrottled    AuthEventType = "login.throttled"
	EventUserRegistered    AuthEventType = "user.registered"
	EventPasswordChanged   AuthEventType = "password.changed"
	EventRoleCreated       AuthEventType = "role.created"
	EventRoleUpdated       AuthEventType = "role.updated"
	EventRoleDeleted       AuthEventType = "role.deleted"
	EventUserCreated       AuthEventType = "user.created"
	EventUserUpdated       AuthEventType = "user.updated"
	EventUserRoleChanged   AuthEventType = "user.role_changed"
	EventUserStatusChanged AuthEventType = "user.status_changed"
	EventUserDeleted       AuthEventType = "user.deleted"
)

// AuthEvent is one audit record. It never carries a password or a token.
type AuthEvent struct {
	ID         string
	Type       AuthEventType
	ActorID    string // who did it; empty for anonymous calls
	SubjectID  string // user or role affected
	Email      string
	Detail     string
	IP         string
	OccurredAt time.Time
}
