package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"goodsflow/internal/models"
	"goodsflow/internal/services"
)

type CnPurchaseHandlers struct {
	purchaseService services.CnPurchaseService
}

func NewCnPurchaseHandlers(purchaseService services.CnPurchaseService) *CnPurchaseHandlers {
	return &CnPurchaseHandlers{purchaseService: purchaseService}
}

type CnPurchaseLineRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Qty       int       `json:"qty"`
	UnitCost  string    `json:"unit_cost"`
	Comment   *string   `json:"comment"`
}

type CreateCnPurchaseRequest struct {
	Items   []CnPurchaseLineRequest `json:"items"`
	Comment *string                 `json:"comment"`
}

func (h *CnPurchaseHandlers) Create(c echo.Context) error {
	var req CreateCnPurchaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	items := make([]*models.CnPurchaseItem, 0, len(req.Items))
	for _, line := range req.Items {
		cost, err := decimal.NewFromString(line.UnitCost)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid unit_cost")
		}
		items = append(items, &models.CnPurchaseItem{
			ProductID: line.ProductID,
			Qty:       line.Qty,
			UnitCost:  cost,
			Comment:   line.Comment,
		})
	}
	purchase, err := h.purchaseService.Create(c.Request().Context(), items, req.Comment)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, purchase)
}

func (h *CnPurchaseHandlers) Get(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	purchase, items, err := h.purchaseService.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"purchase": purchase, "items": items})
}

func (h *CnPurchaseHandlers) List(c echo.Context) error {
	var status *string
	if v := c.QueryParam("status"); v != "" {
		status = &v
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	purchases, err := h.purchaseService.List(c.Request().Context(), status, limit, offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"purchases": purchases})
}

func (h *CnPurchaseHandlers) AddItem(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req CnPurchaseLineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	cost, err := decimal.NewFromString(req.UnitCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid unit_cost")
	}
	item := &models.CnPurchaseItem{
		ProductID: req.ProductID,
		Qty:       req.Qty,
		UnitCost:  cost,
		Comment:   req.Comment,
	}
	if err := h.purchaseService.AddItem(c.Request().Context(), id, item); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, item)
}

type UpdateCommentRequest struct {
	Comment *string `json:"comment"`
}

func (h *CnPurchaseHandlers) UpdateComment(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	if err := h.purchaseService.UpdateComment(c.Request().Context(), id, req.Comment); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CnPurchaseHandlers) MarkSentToCargo(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.purchaseService.MarkSentToCargo(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CnPurchaseHandlers) MarkSentToMsk(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.purchaseService.MarkSentToMsk(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
