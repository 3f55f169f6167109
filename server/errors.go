package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brettbedarf/editorfs/adapters"
	"github.com/brettbedarf/editorfs/filesystem"
	"github.com/brettbedarf/editorfs/internal/util"
	"github.com/brettbedarf/editorfs/requests"
	"github.com/brettbedarf/editorfs/session"
)

var errBadRequest = errors.New("bad request")

// mapError translates domain errors into HTTP responses
func mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, filesystem.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, filesystem.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, adapters.ErrContentTooLarge):
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": err.Error()})
	case errors.Is(err, requests.ErrSourceUnavailable):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	case errors.Is(err, session.ErrTooManySessions):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
	case errors.Is(err, filesystem.ErrInvalidPath), errors.Is(err, errBadRequest):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		logger := util.GetLogger("Handler")
		logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Unhandled error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}
