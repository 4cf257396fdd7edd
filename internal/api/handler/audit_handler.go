package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopdesk/commerce-api/internal/api/apierr"
	"github.com/shopdesk/commerce-api/internal/core/domain"
	"github.com/shopdesk/commerce-api/internal/core/ports"
)

type AuditHandler struct {
	service ports.AuditService
}

func NewAuditHandler(service ports.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List returns recent authentication and access-control events, newest first.
//
// @Summary      List audit events
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     string  false  "Actor or subject user ID"
// @Param        type     query     string  false  "Event type"
// @Param        limit    query     int     false  "Max events (default 50, max 100)"
// @Success      200      {array}   auditEventResponse
// @Failure      400      {object}  apierr.Response
// @Failure      403      {object}  apierr.Response
// @Router       /audit-events [get]
func (h *AuditHandler) List(c echo.Context) error {
	var filter ports.AuditFilter
	var eventType string
	err := echo.QueryParamsBinder(c).
		String("user_id", &filter.UserID).
		String("type", &eventType).
		Int("limit", &filter.Limit).
		BindError()
	if err != nil {
		return apierr.Wrap(err, http.StatusBadRequest, apierr.CodeBadRequest, "limit must be an integer")
	}
	filter.Type = domain.AuthEventType(eventType)

	events, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuditEventResponses(events))
}
