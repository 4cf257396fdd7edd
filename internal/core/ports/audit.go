package ports

import (
	"context"

	"github.com/shopdesk/commerce-api/internal/core/domain"
)

// AuditFilter narrows audit queries. Limit is capped by the service.
type AuditFilter struct {
	UserID string
	Type   domain.AuthEventType
	Limit  int
}

// AuditRepository stores the authentication audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
	List(ctx context.Context, filter AuditFilter) ([]*domain.AuthEvent, error)
}

// AuditService validates and persists audit events and serves queries.
type AuditService interface {
	Record(ctx context.Context, event domain.AuthEvent) error
	List(ctx context.Context, filter AuditFilter) ([]*domain.AuthEvent, error)
}

// AuditRecorder accepts events for asynchronous persistence. Enqueue must
// never block the request path.
type AuditRecorder interface {
	Enqueue(event domain.AuthEvent)
}
