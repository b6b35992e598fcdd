package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	errs "github.com/l23212212/Sistema-Expedientes-Clinicos/internal/errors"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/middleware"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/service"
)

// AuthHandler handles login, registration and the session pages.
type AuthHandler struct {
	authService service.AuthService
	sessionTTL  time.Duration
	log         *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, sessionTTL time.Duration, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessionTTL:  sessionTTL,
		log:         log,
	}
}

// LoginRequest represents the login form.
type LoginRequest struct {
	Username string `form:"nombre_usuario" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// RegisterRequest represents the registration form.
type RegisterRequest struct {
	Username   string `form:"nombre_usuario" validate:"required"`
	Password   string `form:"password" validate:"required"`
	AccessCode string `form:"codigo_acceso" validate:"required"`
}

// Index renders the home page for an authenticated session.
func (h *AuthHandler) Index(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	return c.Render(http.StatusOK, "index.html", echo.Map{
		"Username": sess.Username,
		"Role":     sess.Role,
	})
}

// ShowLogin renders the login page, or goes home when already logged in.
func (h *AuthHandler) ShowLogin(c echo.Context) error {
	if middleware.SessionFrom(c) != nil {
		return c.Redirect(http.StatusFound, "/")
	}
	return c.Render(http.StatusOK, "login.html", echo.Map{})
}

// Login authenticates the form credentials and sets the session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return renderMessage(c, http.StatusBadRequest, "Solicitud inválida", "/login")
	}
	if err := c.Validate(&req); err != nil {
		return c.Render(http.StatusBadRequest, "login.html", echo.Map{
			"Error": "Todos los campos son obligatorios",
		})
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			// One message for unknown user and wrong password alike.
			return c.Render(http.StatusUnauthorized, "login.html", echo.Map{
				"Error": "Usuario o contraseña incorrectos",
			})
		}
		return renderError(c, h.log, err, "/login")
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, "/")
}

// Logout invalidates the session and clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.CookieName); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(c.Request().Context(), cookie.Value); err != nil {
			h.log.Error("logout failed", zap.Error(err))
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, "/login")
}

// ShowRegister renders the registration page.
func (h *AuthHandler) ShowRegister(c echo.Context) error {
	return c.Render(http.StatusOK, "registro.html", echo.Map{})
}

// Register creates a user from an access code. No session is opened; the
// user is sent to the login page.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return renderMessage(c, http.StatusBadRequest, "Solicitud inválida", "/registro")
	}
	if err := c.Validate(&req); err != nil {
		return c.Render(http.StatusBadRequest, "registro.html", echo.Map{
			"Error": "Todos los campos son obligatorios",
		})
	}

	if _, err := h.authService.Register(c.Request().Context(), req.Username, req.Password, req.AccessCode); err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidAccessCode):
			return c.Render(http.StatusBadRequest, "registro.html", echo.Map{
				"Error": "Código de acceso inválido",
			})
		case errors.Is(err, errs.ErrDuplicateUser):
			return c.Render(http.StatusConflict, "registro.html", echo.Map{
				"Error": "El nombre de usuario ya existe",
			})
		default:
			return renderError(c, h.log, err, "/registro")
		}
	}
	return c.Redirect(http.StatusFound, "/login")
}

// Menu serves the static navigation entries consumed by the front page.
func (h *AuthHandler) Menu(c echo.Context) error {
	return c.JSON(http.StatusOK, []echo.Map{
		{"nombre": "Inicio", "url": "/"},
		{"nombre": "Pacientes", "url": "/pacientes"},
		{"nombre": "Usuarios", "url": "/ver-usuarios"},
		{"nombre": "Búsqueda", "url": "/busqueda.html"},
	})
}

// UserType returns the role of the current session.
func (h *AuthHandler) UserType(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	return c.JSON(http.StatusOK, echo.Map{"tipo_usuario": sess.Role})
}
