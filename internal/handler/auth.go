package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkarlsson/showtime/internal/config"
	"github.com/mkarlsson/showtime/internal/repository"
	"github.com/mkarlsson/showtime/internal/utils"
)

// AuthHandler serves registration, login and the current-user endpoint.
// Accounts exist to guard the catalog's mutating routes; there is no
// role model beyond authenticated or not.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

// Register creates a new account and returns a signed access token so the
// client can start mutating the catalog immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "invalid json body"})
	}
	var missing []string
	if strings.TrimSpace(req.Email) == "" {
		missing = append(missing, "email")
	}
	if req.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return missingFields(c, missing)
	}
	id, err := h.Users.Create(ctx, req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return httpError(c, err)
	}
	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, id, h.Cfg.AccessTTLMin)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"user_id":      id,
		"access_token": tok.Token,
		"expires_at":   tok.Exp.Format(time.RFC3339),
	})
}

// Login verifies credentials and issues a fresh access token. Both a
// missing account and a wrong password answer the same 401 so the
// endpoint does not leak which emails are registered.
func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "invalid json body"})
	}
	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "invalid credentials"})
	}
	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":      u.ID,
		"access_token": tok.Token,
		"expires_at":   tok.Exp.Format(time.RFC3339),
	})
}

// Me returns the account behind the presented access token.
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "invalid token"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":         u.ID,
		"email":      u.Email,
		"created_at": u.CreatedAt,
	})
}
