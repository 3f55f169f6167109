// Package server exposes editor sessions and their file trees over HTTP.
package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/brettbedarf/editorfs/config"
	"github.com/brettbedarf/editorfs/internal/util"
)

// SetupRouter creates the echo router with all routes and middleware.
func SetupRouter(h *Handler, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.StdLogger = util.NewLogLogger("HTTPServer", util.ErrorLevel)

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))
	e.Use(RequestLogger())

	e.GET("/health", h.HandleHealth)

	api := e.Group("/api/sessions")
	api.GET("", h.HandleListSessions)
	api.POST("", h.HandleCreateSession)
	api.DELETE("/:id", h.HandleCloseSession)
	api.GET("/:id/tree", h.HandleTree)
	api.GET("/:id/node", h.HandleNode)
	api.POST("/:id/dirs", h.HandleMkdir)
	api.POST("/:id/files", h.HandleMkfile)

	return e
}
