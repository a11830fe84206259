package feedback

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

// RegisterRoutes mounts feedback and inquiry routes. Inquiry submission is
// public (contact form); everything else requires a session.
func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	public.POST("/inquiries", h.SubmitInquiry)

	api.POST("/feedback", h.SubmitFeedback, auth.RequireRole(auth.RoleDonor, auth.RoleHospital))
	api.GET("/feedback", h.ListFeedback, auth.RequireRole(auth.RoleManager))
	api.GET("/feedback/:id", h.GetFeedback, auth.RequireRole(auth.RoleManager))
	api.DELETE("/feedback/:id", h.DeleteFeedback, auth.RequireRole(auth.RoleManager))

	api.GET("/inquiries", h.ListInquiries, auth.RequireRole(auth.RoleManager))
	api.GET("/inquiries/:id", h.GetInquiry, auth.RequireRole(auth.RoleManager))
	api.PATCH("/inquiries/:id/resolve", h.ResolveInquiry, auth.RequireRole(auth.RoleManager))
	api.DELETE("/inquiries/:id", h.DeleteInquiry, auth.RequireRole(auth.RoleManager))
}

func (h *Handler) SubmitFeedback(c echo.Context) error {
	var f Feedback
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SubmitFeedback(c.Request().Context(), &f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) GetFeedback(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	f, err := h.svc.GetFeedback(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "feedback not found")
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) ListFeedback(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListFeedback(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) DeleteFeedback(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteFeedback(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SubmitInquiry(c echo.Context) error {
	var q Inquiry
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SubmitInquiry(c.Request().Context(), &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, q)
}

func (h *Handler) GetInquiry(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	q, err := h.svc.GetInquiry(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "inquiry not found")
	}
	return c.JSON(http.StatusOK, q)
}

func (h *Handler) ListInquiries(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListInquiries(c.Request().Context(), c.QueryParam("status"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type resolveRequest struct {
	Response string `json:"response"`
}

func (h *Handler) ResolveInquiry(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req resolveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.ResolveInquiry(c.Request().Context(), id, req.Response); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteInquiry(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteInquiry(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
