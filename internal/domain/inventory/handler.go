package inventory

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lifelink/lifelink/internal/platform/auth"
	"github.com/lifelink/lifelink/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	writeGroup := api.Group("", auth.RequireRole(auth.RoleHospital, auth.RoleHospitalAdmin))
	writeGroup.POST("/inventory", h.CreateLot)
	writeGroup.PUT("/inventory/:id", h.UpdateLot)
	writeGroup.DELETE("/inventory/:id", h.DeleteLot)
	writeGroup.POST("/inventory/refresh", h.RefreshFreshness)

	readGroup := api.Group("", auth.RequireRole(auth.RoleHospital, auth.RoleHospitalAdmin))
	readGroup.GET("/inventory", h.ListLots)
	readGroup.GET("/inventory/:id", h.GetLot)
	readGroup.GET("/hospitals/:id/inventory", h.ListByHospital)
}

func (h *Handler) CreateLot(c echo.Context) error {
	var inv BloodInventory
	if err := c.Bind(&inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateLot(c.Request().Context(), &inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *Handler) GetLot(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	inv, err := h.svc.GetLot(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "inventory lot not found")
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) ListLots(c echo.Context) error {
	pg := pagination.FromContext(c)
	lots, total, err := h.svc.ListLots(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(lots, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListByHospital(c echo.Context) error {
	hospitalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	lots, total, err := h.svc.ListByHospital(c.Request().Context(), hospitalID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(lots, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateLot(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var inv BloodInventory
	if err := c.Bind(&inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	inv.ID = id
	if err := h.svc.UpdateLot(c.Request().Context(), &inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) DeleteLot(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteLot(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RefreshFreshness(c echo.Context) error {
	changed, err := h.svc.RefreshFreshness(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"updated": changed})
}
