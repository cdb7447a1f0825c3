package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"goodsflow/internal/services"
)

type MskInboundHandlers struct {
	inboundService services.MskInboundService
}

func NewMskInboundHandlers(inboundService services.MskInboundService) *MskInboundHandlers {
	return &MskInboundHandlers{inboundService: inboundService}
}

func (h *MskInboundHandlers) Get(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	doc, items, err := h.inboundService.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"doc": doc, "items": items})
}

func (h *MskInboundHandlers) List(c echo.Context) error {
	var status *string
	if v := c.QueryParam("status"); v != "" {
		status = &v
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	docs, err := h.inboundService.List(c.Request().Context(), status, limit, offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"docs": docs})
}

type AssignWarehouseRequest struct {
	WarehouseID uuid.UUID `json:"warehouse_id"`
}

func (h *MskInboundHandlers) AssignWarehouse(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req AssignWarehouseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	if err := h.inboundService.AssignWarehouse(c.Request().Context(), id, req.WarehouseID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MskInboundHandlers) Receive(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.inboundService.Receive(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
