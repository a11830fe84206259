package donor

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

// RegisterRoutes mounts donor routes. public carries no auth middleware and
// serves self-registration; api is behind JWT auth.
func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	public.POST("/donors", h.RegisterDonor)

	readGroup := api.Group("", auth.RequireRole(auth.RoleHospital, auth.RoleHospitalAdmin))
	readGroup.GET("/donors", h.ListDonors)

	selfGroup := api.Group("", auth.RequireRole(auth.RoleDonor, auth.RoleHospitalAdmin))
	selfGroup.GET("/donors/:id", h.GetDonor)
	selfGroup.PUT("/donors/:id", h.UpdateDonor)

	adminGroup := api.Group("", auth.RequireRole(auth.RoleManager))
	adminGroup.DELETE("/donors/:id", h.DeleteDonor)
	adminGroup.PATCH("/donors/:id/active", h.SetActive)
}

type registerRequest struct {
	Donor
	Password string `json:"password"`
}

func (h *Handler) RegisterDonor(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.RegisterDonor(c.Request().Context(), &req.Donor, req.Password); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, req.Donor)
}

func (h *Handler) GetDonor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.GetDonor(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "donor not found")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListDonors(c echo.Context) error {
	pg := pagination.FromContext(c)

	params := map[string]string{}
	for _, p := range []string{"blood_type", "name", "active"} {
		if v := c.QueryParam(p); v != "" {
			params[p] = v
		}
	}

	if len(params) > 0 {
		donors, total, err := h.svc.SearchDonors(c.Request().Context(), params, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(donors, total, pg.Limit, pg.Offset))
	}

	donors, total, err := h.svc.ListDonors(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(donors, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateDonor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var d Donor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d.ID = id
	if err := h.svc.UpdateDonor(c.Request().Context(), &d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteDonor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteDonor(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SetActive(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Active bool `json:"active"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SetActive(c.Request().Context(), id, body.Active); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
