package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"goodsflow/internal/repositories"
	"goodsflow/internal/services"
)

// httpError maps service errors onto HTTP responses. Shortages carry their
// itemized lines so the client can show the full picture.
func httpError(err error) error {
	var shortage *services.ShortageError
	if errors.As(err, &shortage) {
		return echo.NewHTTPError(http.StatusConflict, map[string]interface{}{
			"error": "insufficient stock",
			"items": shortage.Items,
		})
	}
	switch {
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrInsufficientRaw),
		errors.Is(err, services.ErrInsufficientPacked),
		errors.Is(err, services.ErrAlreadyClaimed),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrDuplicate):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNoWarehouseSelected),
		errors.Is(err, services.ErrInvalidMovement),
		errors.Is(err, repositories.ErrInvalidMovement),
		errors.Is(err, services.ErrEmptyItems):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
