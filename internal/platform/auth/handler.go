package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Credentials is the account data a sign-in lookup returns.
type Credentials struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
	Active       bool
}

// CredentialSource looks up an account by email for one role.
type CredentialSource interface {
	FindCredentials(ctx context.Context, email string) (*Credentials, error)
}

// Handler serves role-scoped sign-in.
type Handler struct {
	sources map[string]CredentialSource
	secret  []byte
	ttl     time.Duration
}

func NewHandler(secret []byte, ttl time.Duration) *Handler {
	return &Handler{
		sources: make(map[string]CredentialSource),
		secret:  secret,
		ttl:     ttl,
	}
}

// RegisterSource binds a credential source to a role name.
func (h *Handler) RegisterSource(role string, src CredentialSource) {
	h.sources[role] = src
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/login", h.Login)
}

type loginRequest struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string    `json:"token"`
	Role  string    `json:"role"`
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
}

// Login handles POST /auth/login. The same response is returned for unknown
// accounts and wrong passwords so the endpoint does not leak which emails
// exist.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	src, ok := h.sources[req.Role]
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
	}

	creds, err := src.FindCredentials(c.Request().Context(), req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if !CheckPassword(creds.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if !creds.Active {
		return echo.NewHTTPError(http.StatusForbidden, "account is disabled")
	}

	token, err := IssueToken(h.secret, creds.ID, req.Role, creds.Name, h.ttl)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue token")
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token: token,
		Role:  req.Role,
		ID:    creds.ID,
		Name:  creds.Name,
	})
}
