package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"goodsflow/internal/models"
	"goodsflow/internal/repositories"
	"goodsflow/internal/services"
)

type StockHandlers struct {
	ledgerService services.LedgerService
}

func NewStockHandlers(ledgerService services.LedgerService) *StockHandlers {
	return &StockHandlers{ledgerService: ledgerService}
}

type ReceiveRequest struct {
	WarehouseID uuid.UUID         `json:"warehouse_id"`
	Lines       []models.PackLine `json:"lines"`
	Comment     *string           `json:"comment"`
}

func (h *StockHandlers) Receive(c echo.Context) error {
	var req ReceiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	docID, err := h.ledgerService.Receive(c.Request().Context(), req.WarehouseID, req.Lines, req.Comment)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"doc_id": docID})
}

type AdjustRequest struct {
	WarehouseID uuid.UUID `json:"warehouse_id"`
	ProductID   uuid.UUID `json:"product_id"`
	Qty         int       `json:"qty"`
	Stage       string    `json:"stage"`
	Comment     *string   `json:"comment"`
}

func (h *StockHandlers) Adjust(c echo.Context) error {
	var req AdjustRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	err := h.ledgerService.Adjust(c.Request().Context(), req.WarehouseID, req.ProductID, req.Qty, req.Stage, req.Comment)
	if err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *StockHandlers) Report(c echo.Context) error {
	warehouseID, err := uuidParam(c, "warehouse_id")
	if err != nil {
		return err
	}
	report, err := h.ledgerService.StockReport(c.Request().Context(), warehouseID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"stocks": report})
}

func (h *StockHandlers) Availability(c echo.Context) error {
	warehouseID, err := uuidParam(c, "warehouse_id")
	if err != nil {
		return err
	}
	productID, err := uuidParam(c, "product_id")
	if err != nil {
		return err
	}
	available, err := h.ledgerService.AvailablePacked(c.Request().Context(), warehouseID, productID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"available": available})
}

func (h *StockHandlers) Movements(c echo.Context) error {
	filters := repositories.MovementFilters{}
	if v := c.QueryParam("warehouse_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid warehouse_id")
		}
		filters.WarehouseID = &id
	}
	if v := c.QueryParam("product_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid product_id")
		}
		filters.ProductID = &id
	}
	if v := c.QueryParam("stage"); v != "" {
		filters.Stage = &v
	}
	if v := c.QueryParam("kind"); v != "" {
		filters.Kind = &v
	}
	if v := c.QueryParam("doc_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid doc_id")
		}
		filters.DocID = &id
	}
	filters.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	filters.Offset, _ = strconv.Atoi(c.QueryParam("offset"))
	if filters.Limit <= 0 || filters.Limit > 500 {
		filters.Limit = 100
	}

	movements, err := h.ledgerService.Movements(c.Request().Context(), filters)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"movements": movements})
}
