package api

import (
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/simple-notes/frontend"
	"github.com/tphakala/simple-notes/internal/logger"
)

const (
	indexHTMLPath       = "index.html"
	cacheControlNoCache = "no-cache, no-store, must-revalidate"
)

// SPAHandler serves the browser client. The page talks to the JSON API under
// /api, so only the HTML shell is needed.
type SPAHandler struct {
	fsys fs.FS
}

// NewSPAHandler creates a handler serving index.html from fsys, or from the
// embedded frontend build when fsys is nil.
func NewSPAHandler(fsys fs.FS) *SPAHandler {
	if fsys == nil {
		fsys = frontend.DistFS
	}
	return &SPAHandler{fsys: fsys}
}

// ServeApp serves the HTML shell for all frontend routes.
func (h *SPAHandler) ServeApp(c echo.Context) error {
	content, err := fs.ReadFile(h.fsys, indexHTMLPath)
	if err != nil {
		GetLogger().Error("Failed to read index.html", logger.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load page")
	}

	// The shell is never cached so a redeploy is picked up immediately
	c.Response().Header().Set(echo.HeaderCacheControl, cacheControlNoCache)
	c.Response().Header().Set("Pragma", "no-cache")
	c.Response().Header().Set("Expires", "0")

	return c.HTMLBlob(http.StatusOK, content)
}
