package emergency

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

// RegisterRoutes mounts emergency request routes. Creation and proof upload
// are public so requesters without an account can raise a request; everything
// else sits behind the authenticated API group.
func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	public.POST("/emergency-requests", h.CreateRequest)
	public.POST("/emergency-requests/:id/proof", h.UploadProof)

	api.GET("/emergency-requests", h.ListRequests, auth.RequireRole(auth.RoleHospital, auth.RoleHospitalAdmin, auth.RoleDonor))
	api.GET("/emergency-requests/:id", h.GetRequest)
	api.PUT("/emergency-requests/:id", h.UpdateRequest, auth.RequireRole(auth.RoleManager))
	api.DELETE("/emergency-requests/:id", h.DeleteRequest, auth.RequireRole(auth.RoleManager))
	api.PATCH("/emergency-requests/:id/active", h.SetActive, auth.RequireRole(auth.RoleManager))
	api.PATCH("/emergency-requests/:id/accept", h.Accept, auth.RequireRole(auth.RoleHospital, auth.RoleHospitalAdmin, auth.RoleDonor))
	api.PATCH("/emergency-requests/:id/decline", h.Decline, auth.RequireRole(auth.RoleHospital, auth.RoleHospitalAdmin))
}

func (h *Handler) CreateRequest(c echo.Context) error {
	var req EmergencyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateRequest(c.Request().Context(), &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, req)
}

func (h *Handler) GetRequest(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	req, err := h.svc.GetRequest(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "emergency request not found")
	}
	return c.JSON(http.StatusOK, req)
}

func (h *Handler) ListRequests(c echo.Context) error {
	pg := pagination.FromContext(c)

	params := map[string]string{}
	for _, key := range []string{"blood_type", "criticality", "accept_status", "active_status"} {
		if v := c.QueryParam(key); v != "" {
			params[key] = v
		}
	}

	var (
		reqs  []*EmergencyRequest
		total int
		err   error
	)
	if len(params) > 0 {
		reqs, total, err = h.svc.SearchRequests(c.Request().Context(), params, pg.Limit, pg.Offset)
	} else {
		reqs, total, err = h.svc.ListRequests(c.Request().Context(), pg.Limit, pg.Offset)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(reqs, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateRequest(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req EmergencyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.ID = id
	if err := h.svc.UpdateRequest(c.Request().Context(), &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, req)
}

func (h *Handler) DeleteRequest(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteRequest(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

type activeRequest struct {
	Active bool `json:"active"`
}

func (h *Handler) SetActive(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req activeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SetActive(c.Request().Context(), id, req.Active); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "emergency request not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Accept(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var by AcceptedBy
	if err := c.Bind(&by); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Accept(c.Request().Context(), id, by); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

type declineRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) Decline(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req declineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Decline(c.Request().Context(), id, req.Reason); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UploadProof(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to open uploaded file")
	}
	defer src.Close()

	meta, err := h.svc.AttachProof(c.Request().Context(), id, file.Filename, file.Header.Get("Content-Type"), src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, meta)
}
