package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"goodsflow/internal/models"
	"goodsflow/internal/services"
)

type AuditLogHandlers struct {
	auditService services.AuditLogService
}

func NewAuditLogHandlers(auditService services.AuditLogService) *AuditLogHandlers {
	return &AuditLogHandlers{auditService: auditService}
}

func (h *AuditLogHandlers) List(c echo.Context) error {
	filters := models.AuditLogFilters{}
	if v := c.QueryParam("table_name"); v != "" {
		filters.TableName = &v
	}
	if v := c.QueryParam("record_pk"); v != "" {
		filters.RecordPK = &v
	}
	if v := c.QueryParam("action"); v != "" {
		filters.Action = &v
	}
	if v := c.QueryParam("actor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid actor_id")
		}
		filters.ActorID = &id
	}
	if v := c.QueryParam("start_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid start_date")
		}
		filters.StartDate = &t
	}
	if v := c.QueryParam("end_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid end_date")
		}
		filters.EndDate = &t
	}
	filters.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	filters.Offset, _ = strconv.Atoi(c.QueryParam("offset"))

	logs, err := h.auditService.List(c.Request().Context(), filters)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"logs": logs})
}

func (h *AuditLogHandlers) EntityHistory(c echo.Context) error {
	tableName := c.Param("table")
	recordPK := c.Param("pk")
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	logs, err := h.auditService.EntityHistory(c.Request().Context(), tableName, recordPK, limit, offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"logs": logs})
}
