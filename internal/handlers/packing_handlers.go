package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"goodsflow/internal/models"
	"goodsflow/internal/services"
)

type PackingHandlers struct {
	packingService services.PackingService
}

func NewPackingHandlers(packingService services.PackingService) *PackingHandlers {
	return &PackingHandlers{packingService: packingService}
}

type PackRequest struct {
	WarehouseID uuid.UUID         `json:"warehouse_id"`
	Lines       []models.PackLine `json:"lines"`
	Notes       *string           `json:"notes"`
}

func (h *PackingHandlers) Pack(c echo.Context) error {
	var req PackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	doc, err := h.packingService.Pack(c.Request().Context(), req.WarehouseID, req.Lines, req.Notes)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, doc)
}

func (h *PackingHandlers) Get(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	doc, items, err := h.packingService.GetDoc(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"doc": doc, "items": items})
}

func (h *PackingHandlers) List(c echo.Context) error {
	var warehouseID *uuid.UUID
	if v := c.QueryParam("warehouse_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid warehouse_id")
		}
		warehouseID = &id
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	docs, err := h.packingService.ListDocs(c.Request().Context(), warehouseID, limit, offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"docs": docs})
}
