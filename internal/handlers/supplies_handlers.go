package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"goodsflow/internal/repositories"
	"goodsflow/internal/services"
)

type SupplyHandlers struct {
	supplyService services.SupplyService
}

func NewSupplyHandlers(supplyService services.SupplyService) *SupplyHandlers {
	return &SupplyHandlers{supplyService: supplyService}
}

type CreateSupplyRequest struct {
	WarehouseID uuid.UUID `json:"warehouse_id"`
	Marketplace *string   `json:"marketplace"`
	MpWarehouse *string   `json:"mp_warehouse"`
	Comment     *string   `json:"comment"`
}

func (h *SupplyHandlers) Create(c echo.Context) error {
	var req CreateSupplyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	supply, err := h.supplyService.Create(c.Request().Context(), req.WarehouseID, req.Marketplace, req.MpWarehouse, req.Comment)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, supply)
}

func (h *SupplyHandlers) Get(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.supplyService.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *SupplyHandlers) List(c echo.Context) error {
	filters := repositories.SupplyFilters{}
	if v := c.QueryParam("warehouse_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid warehouse_id")
		}
		filters.WarehouseID = &id
	}
	if v := c.QueryParam("status"); v != "" {
		filters.Status = &v
	}
	filters.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	filters.Offset, _ = strconv.Atoi(c.QueryParam("offset"))
	if filters.Limit <= 0 || filters.Limit > 200 {
		filters.Limit = 50
	}
	supplies, err := h.supplyService.List(c.Request().Context(), filters)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"supplies": supplies})
}

type UpdateSupplyRequest struct {
	Marketplace *string `json:"marketplace"`
	MpWarehouse *string `json:"mp_warehouse"`
	Comment     *string `json:"comment"`
}

func (h *SupplyHandlers) Update(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req UpdateSupplyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	ctx := c.Request().Context()
	detail, err := h.supplyService.Get(ctx, id)
	if err != nil {
		return httpError(err)
	}
	supply := detail.Supply
	if req.Marketplace != nil {
		supply.Marketplace = req.Marketplace
	}
	if req.MpWarehouse != nil {
		supply.MpWarehouse = req.MpWarehouse
	}
	if req.Comment != nil {
		supply.Comment = req.Comment
	}
	if err := h.supplyService.UpdateHeader(ctx, supply); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, supply)
}

type AddSupplyItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Qty       int       `json:"qty"`
}

func (h *SupplyHandlers) AddItem(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req AddSupplyItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	item, err := h.supplyService.AddItem(c.Request().Context(), id, req.ProductID, req.Qty)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, item)
}

type UpdateSupplyItemRequest struct {
	Qty int `json:"qty"`
}

func (h *SupplyHandlers) UpdateItem(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	itemID, err := uuidParam(c, "item_id")
	if err != nil {
		return err
	}
	var req UpdateSupplyItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	if err := h.supplyService.UpdateItemQty(c.Request().Context(), id, itemID, req.Qty); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SupplyHandlers) RemoveItem(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	itemID, err := uuidParam(c, "item_id")
	if err != nil {
		return err
	}
	if err := h.supplyService.RemoveItem(c.Request().Context(), id, itemID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SupplyHandlers) AddBox(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	box, err := h.supplyService.AddBox(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, box)
}

type SealBoxRequest struct {
	Sealed bool `json:"sealed"`
}

func (h *SupplyHandlers) SealBox(c echo.Context) error {
	boxID, err := uuidParam(c, "box_id")
	if err != nil {
		return err
	}
	var req SealBoxRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	if err := h.supplyService.SealBox(c.Request().Context(), boxID, req.Sealed); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type AssignItemBoxRequest struct {
	BoxID *uuid.UUID `json:"box_id"`
}

func (h *SupplyHandlers) AssignItemToBox(c echo.Context) error {
	itemID, err := uuidParam(c, "item_id")
	if err != nil {
		return err
	}
	var req AssignItemBoxRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	if err := h.supplyService.AssignItemToBox(c.Request().Context(), itemID, req.BoxID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// transition wires one lifecycle endpoint to one service call.
func (h *SupplyHandlers) transition(fn func(c echo.Context, id uuid.UUID) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		if err := fn(c, id); err != nil {
			return httpError(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func (h *SupplyHandlers) Cancel() echo.HandlerFunc {
	return h.transition(func(c echo.Context, id uuid.UUID) error {
		return h.supplyService.Cancel(c.Request().Context(), id)
	})
}

func (h *SupplyHandlers) Enqueue() echo.HandlerFunc {
	return h.transition(func(c echo.Context, id uuid.UUID) error {
		return h.supplyService.Enqueue(c.Request().Context(), id)
	})
}

func (h *SupplyHandlers) Revert() echo.HandlerFunc {
	return h.transition(func(c echo.Context, id uuid.UUID) error {
		return h.supplyService.Revert(c.Request().Context(), id)
	})
}

func (h *SupplyHandlers) Claim() echo.HandlerFunc {
	return h.transition(func(c echo.Context, id uuid.UUID) error {
		return h.supplyService.Claim(c.Request().Context(), id)
	})
}

func (h *SupplyHandlers) Release() echo.HandlerFunc {
	return h.transition(func(c echo.Context, id uuid.UUID) error {
		return h.supplyService.Release(c.Request().Context(), id)
	})
}

func (h *SupplyHandlers) MarkAssembled() echo.HandlerFunc {
	return h.transition(func(c echo.Context, id uuid.UUID) error {
		return h.supplyService.MarkAssembled(c.Request().Context(), id)
	})
}

func (h *SupplyHandlers) Post() echo.HandlerFunc {
	return h.transition(func(c echo.Context, id uuid.UUID) error {
		return h.supplyService.Post(c.Request().Context(), id)
	})
}

func (h *SupplyHandlers) Deliver() echo.HandlerFunc {
	return h.transition(func(c echo.Context, id uuid.UUID) error {
		return h.supplyService.Deliver(c.Request().Context(), id)
	})
}

func (h *SupplyHandlers) Return() echo.HandlerFunc {
	return h.transition(func(c echo.Context, id uuid.UUID) error {
		return h.supplyService.Return(c.Request().Context(), id)
	})
}

func (h *SupplyHandlers) Unpost() echo.HandlerFunc {
	return h.transition(func(c echo.Context, id uuid.UUID) error {
		return h.supplyService.Unpost(c.Request().Context(), id)
	})
}
