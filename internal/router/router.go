package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/auth"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/handler"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/middleware"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/model"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/view"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	sessions auth.SessionStore,
	log *zap.Logger,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	patientHandler *handler.PatientHandler,
) {
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(middleware.LoadSession(sessions, log))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/styles.css", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "text/css; charset=utf-8", view.StylesCSS())
	})

	// Public routes
	e.GET("/login", authHandler.ShowLogin)
	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)
	e.GET("/registro", authHandler.ShowRegister)
	e.POST("/registro", authHandler.Register)
	e.GET("/menu", authHandler.Menu)

	// Any authenticated session
	authed := e.Group("", middleware.RequireAuthenticated)
	authed.GET("/", authHandler.Index)
	authed.GET("/tipo-usuario", authHandler.UserType)

	// Admin only
	admin := e.Group("", middleware.RequireAnyRole(model.RoleAdmin))
	admin.GET("/ver-usuarios", userHandler.List)
	admin.GET("/usuarios/nuevo", userHandler.ShowCreate)
	admin.POST("/usuarios/nuevo", userHandler.Create)
	admin.GET("/usuarios/editar/:id", userHandler.ShowEdit)
	admin.POST("/usuarios/editar/:id", userHandler.Update)
	admin.POST("/usuarios/eliminar/:id", userHandler.Delete)

	// Clinical staff
	clinical := e.Group("", middleware.RequireAnyRole(model.RoleAdmin, model.RoleMedico))
	clinical.POST("/submit-data", patientHandler.Create)
	clinical.GET("/pacientes", patientHandler.List)
	clinical.GET("/pacientes-ordenados", patientHandler.ListSorted)
	clinical.GET("/busqueda.html", patientHandler.SearchPage)
	clinical.GET("/buscar-pacientes", patientHandler.Search)
	clinical.POST("/buscar-pacientes", patientHandler.Search)
	clinical.GET("/api/pacientes/buscar", patientHandler.Typeahead)
	clinical.GET("/pacientes/editar/:id", patientHandler.ShowEdit)
	clinical.POST("/pacientes/editar/:id", patientHandler.Update)
	clinical.POST("/pacientes/eliminar/:id", patientHandler.Delete)
	clinical.POST("/importar-pacientes", patientHandler.Import)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
