package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopdesk/commerce-api/internal/core/domain"
	"github.com/shopdesk/commerce-api/internal/core/ports"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 100
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService backed by repo.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record stamps and persists a single audit event.
func (s *auditService) Record(ctx context.Context, event domain.AuthEvent) error {
	if event.Type == "" {
		return fmt.Errorf("record audit event: %w: missing type", domain.ErrInvalidInput)
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	s.log.Debug().
		Str("type", string(event.Type)).
		Str("actor_id", event.ActorID).
		Str("subject_id", event.SubjectID).
		Msg("audit event recorded")
	return nil
}

// List returns the newest events first.
func (s *auditService) List(ctx context.Context, filter ports.AuditFilter) ([]*domain.AuthEvent, error) {
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultAuditLimit
	case filter.Limit > maxAuditLimit:
		filter.Limit = maxAuditLimit
	}
	return s.repo.List(ctx, filter)
}
