package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"goodsflow/internal/services"
)

type ProductHandlers struct {
	productService services.ProductService
}

func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

type CreateProductRequest struct {
	Article string `json:"article"`
	Name    string `json:"name"`
}

func (h *ProductHandlers) Create(c echo.Context) error {
	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	if req.Article == "" || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "article and name are required")
	}
	product, err := h.productService.Create(c.Request().Context(), req.Article, req.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandlers) Get(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	product, err := h.productService.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, product)
}

type UpdateProductRequest struct {
	Article  *string `json:"article"`
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

func (h *ProductHandlers) Update(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	ctx := c.Request().Context()
	product, err := h.productService.Get(ctx, id)
	if err != nil {
		return httpError(err)
	}
	if req.Article != nil {
		product.Article = *req.Article
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if err := h.productService.Update(ctx, product); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandlers) Deactivate(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.productService.Deactivate(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandlers) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	includeInactive := c.QueryParam("include_inactive") == "true"
	products, err := h.productService.List(c.Request().Context(), includeInactive, limit, offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"limit":    limit,
		"offset":   offset,
	})
}
