package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"goodsflow/internal/services"
)

type WarehouseHandlers struct {
	warehouseService services.WarehouseService
}

func NewWarehouseHandlers(warehouseService services.WarehouseService) *WarehouseHandlers {
	return &WarehouseHandlers{warehouseService: warehouseService}
}

type CreateWarehouseRequest struct {
	Name string `json:"name"`
}

func (h *WarehouseHandlers) Create(c echo.Context) error {
	var req CreateWarehouseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	warehouse, err := h.warehouseService.Create(c.Request().Context(), req.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, warehouse)
}

func (h *WarehouseHandlers) Get(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	warehouse, err := h.warehouseService.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, warehouse)
}

type UpdateWarehouseRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

func (h *WarehouseHandlers) Update(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req UpdateWarehouseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	ctx := c.Request().Context()
	warehouse, err := h.warehouseService.Get(ctx, id)
	if err != nil {
		return httpError(err)
	}
	if req.Name != nil {
		warehouse.Name = *req.Name
	}
	if req.IsActive != nil {
		warehouse.IsActive = *req.IsActive
	}
	if err := h.warehouseService.Update(ctx, warehouse); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, warehouse)
}

func (h *WarehouseHandlers) Deactivate(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.warehouseService.Deactivate(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *WarehouseHandlers) List(c echo.Context) error {
	includeInactive := c.QueryParam("include_inactive") == "true"
	warehouses, err := h.warehouseService.List(c.Request().Context(), includeInactive)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"warehouses": warehouses})
}
