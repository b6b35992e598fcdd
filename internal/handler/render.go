package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	errs "github.com/l23212212/Sistema-Expedientes-Clinicos/internal/errors"
)

// renderMessage renders the shared message page with a back affordance.
func renderMessage(c echo.Context, status int, message, backURL string) error {
	return c.Render(status, "message.html", echo.Map{
		"Title":   "Expedientes Clínicos",
		"Message": message,
		"BackURL": backURL,
	})
}

// renderError maps a domain error onto a user-facing message page. Store
// errors are logged and collapsed into a generic failure, the raw error
// text never reaches the client.
func renderError(c echo.Context, log *zap.Logger, err error, backURL string) error {
	var ve *errs.ValidationError
	switch {
	case errors.As(err, &ve):
		return renderMessage(c, http.StatusBadRequest, ve.Msg, backURL)
	case errors.Is(err, errs.ErrInvalidAccessCode):
		return renderMessage(c, http.StatusBadRequest, "Código de acceso inválido", backURL)
	case errors.Is(err, errs.ErrDuplicateUser):
		return renderMessage(c, http.StatusConflict, "El nombre de usuario ya existe", backURL)
	case errors.Is(err, errs.ErrInvalidRole):
		return renderMessage(c, http.StatusBadRequest, "Rol inválido", backURL)
	case errors.Is(err, errs.ErrNotFound):
		return renderMessage(c, http.StatusNotFound, "Registro no encontrado", backURL)
	default:
		log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return renderMessage(c, http.StatusInternalServerError, "Ocurrió un error, intenta de nuevo", backURL)
	}
}

// parseID parses a numeric path parameter.
func parseID(c echo.Context) (uint, error) {
	var id uint
	if err := echo.PathParamsBinder(c).Uint("id", &id).BindError(); err != nil {
		return 0, errs.ErrNotFound
	}
	return id, nil
}
