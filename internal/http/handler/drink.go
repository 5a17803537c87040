package handler

import (
	"net/http"
	"strconv"

	"drinks-service/internal/audit"
	"drinks-service/internal/types"
	apperrors "drinks-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

type DrinkHandler struct {
	drinks      DrinkRepository
	auditLogger types.AuditLogger
}

func NewDrinkHandler(drinks DrinkRepository, auditLogger types.AuditLogger) *DrinkHandler {
	return &DrinkHandler{
		drinks:      drinks,
		auditLogger: auditLogger,
	}
}

// ListDrinks is public and only reveals what each drink looks like.
func (h *DrinkHandler) ListDrinks(c echo.Context) error {
	drinks, err := h.drinks.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newShortDrinksResponse(drinks))
}

func (h *DrinkHandler) ListDrinkDetails(c echo.Context) error {
	drinks, err := h.drinks.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newLongDrinksResponse(drinks...))
}

func (h *DrinkHandler) CreateDrink(c echo.Context) error {
	var req drinkRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	input, err := req.toCreateInput()
	if err != nil {
		h.auditLogger.LogError(c, audit.ResourceTypeDrink, "", audit.ActionCreate, err)
		return err
	}

	created, err := h.drinks.Create(c.Request().Context(), input)
	if err != nil {
		h.auditLogger.LogError(c, audit.ResourceTypeDrink, "", audit.ActionCreate, err)
		return err
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeDrink, formatID(created.ID), audit.ActionCreate, audit.StatusSuccess,
		map[string]any{metadataKeyTitle: created.Title})

	return c.JSON(http.StatusOK, newLongDrinksResponse(created))
}

// UpdateDrink answers 404 for an unknown id before looking at the body.
func (h *DrinkHandler) UpdateDrink(c echo.Context) error {
	id, err := parseDrinkID(c)
	if err != nil {
		return err
	}

	if _, err := h.drinks.GetByID(c.Request().Context(), id); err != nil {
		h.auditLogger.LogError(c, audit.ResourceTypeDrink, formatID(id), audit.ActionUpdate, err)
		return err
	}

	var req drinkRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	input, err := req.toUpdateInput()
	if err != nil {
		h.auditLogger.LogError(c, audit.ResourceTypeDrink, formatID(id), audit.ActionUpdate, err)
		return err
	}

	updated, err := h.drinks.Update(c.Request().Context(), id, input)
	if err != nil {
		h.auditLogger.LogError(c, audit.ResourceTypeDrink, formatID(id), audit.ActionUpdate, err)
		return err
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeDrink, formatID(id), audit.ActionUpdate, audit.StatusSuccess,
		map[string]any{metadataKeyTitle: updated.Title})

	return c.JSON(http.StatusOK, newLongDrinksResponse(updated))
}

func (h *DrinkHandler) DeleteDrink(c echo.Context) error {
	id, err := parseDrinkID(c)
	if err != nil {
		return err
	}

	if err := h.drinks.Delete(c.Request().Context(), id); err != nil {
		h.auditLogger.LogError(c, audit.ResourceTypeDrink, formatID(id), audit.ActionDelete, err)
		return err
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeDrink, formatID(id), audit.ActionDelete, audit.StatusSuccess, nil)

	return c.JSON(http.StatusOK, deleteDrinkResponse{Success: true, Delete: id})
}

// parseDrinkID treats anything but a positive integer id as an unknown route.
func parseDrinkID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param(paramID), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NotFound(msgDrinkNotFound)
	}
	return id, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
