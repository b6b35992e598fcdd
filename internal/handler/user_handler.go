package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/service"
)

// UserHandler handles the admin user-management screens.
type UserHandler struct {
	userService service.UserService
	log         *zap.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

// CreateUserRequest represents the admin "create user" form.
type CreateUserRequest struct {
	Username string `form:"nombre_usuario" validate:"required"`
	Password string `form:"password" validate:"required"`
	Role     string `form:"tipo_usuario" validate:"required,oneof=admin medico"`
}

// UpdateUserRequest represents the admin "edit user" form.
type UpdateUserRequest struct {
	Username string `form:"nombre_usuario" validate:"required"`
	Role     string `form:"tipo_usuario" validate:"required,oneof=admin medico"`
}

// List renders all users with their roles.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return renderError(c, h.log, err, "/")
	}
	return c.Render(http.StatusOK, "users.html", echo.Map{"Users": users})
}

// ShowCreate renders the empty user form.
func (h *UserHandler) ShowCreate(c echo.Context) error {
	return c.Render(http.StatusOK, "user_form.html", echo.Map{
		"Title":       "Crear Usuario",
		"Action":      "/usuarios/nuevo",
		"Submit":      "Crear Usuario",
		"Username":    "",
		"Role":        "medico",
		"AskPassword": true,
	})
}

// Create provisions a user with a role.
func (h *UserHandler) Create(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return renderMessage(c, http.StatusBadRequest, "Solicitud inválida", "/usuarios/nuevo")
	}
	if err := c.Validate(&req); err != nil {
		return renderMessage(c, http.StatusBadRequest, "Todos los campos son obligatorios", "/usuarios/nuevo")
	}

	if _, err := h.userService.Create(c.Request().Context(), req.Username, req.Password, req.Role); err != nil {
		return renderError(c, h.log, err, "/usuarios/nuevo")
	}
	return c.Redirect(http.StatusFound, "/ver-usuarios")
}

// ShowEdit renders the edit form for one user.
func (h *UserHandler) ShowEdit(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return renderError(c, h.log, err, "/ver-usuarios")
	}

	user, err := h.userService.Get(c.Request().Context(), id)
	if err != nil {
		return renderError(c, h.log, err, "/ver-usuarios")
	}
	return c.Render(http.StatusOK, "user_form.html", echo.Map{
		"Title":       "Editar Usuario",
		"Action":      fmt.Sprintf("/usuarios/editar/%d", user.ID),
		"Submit":      "Guardar cambios",
		"Username":    user.Username,
		"Role":        user.Role,
		"AskPassword": false,
	})
}

// Update rewrites username and role assignment.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return renderError(c, h.log, err, "/ver-usuarios")
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return renderMessage(c, http.StatusBadRequest, "Solicitud inválida", "/ver-usuarios")
	}
	if err := c.Validate(&req); err != nil {
		return renderMessage(c, http.StatusBadRequest, "Todos los campos son obligatorios", "/ver-usuarios")
	}

	if err := h.userService.Update(c.Request().Context(), id, req.Username, req.Role); err != nil {
		return renderError(c, h.log, err, "/ver-usuarios")
	}
	return c.Redirect(http.StatusFound, "/ver-usuarios")
}

// Delete removes a user. Repeating a delete is harmless.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return renderError(c, h.log, err, "/ver-usuarios")
	}

	if err := h.userService.Delete(c.Request().Context(), id); err != nil {
		return renderError(c, h.log, err, "/ver-usuarios")
	}
	return c.Redirect(http.StatusFound, "/ver-usuarios")
}
