package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

//go:embed templates/index.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// Mode selects the board layout rendered on the index page.
type Mode string

const (
	ModeTask Mode = "task"
	ModeKpt  Mode = "kpt"
)

// ParseMode maps the KANBAN_MODE value to a Mode, defaulting to task.
func ParseMode(v string) Mode {
	if strings.ToLower(v) == string(ModeKpt) {
		return ModeKpt
	}
	return ModeTask
}

type indexData struct {
	Mode     Mode
	ReadOnly bool
}

// Register wires the page, asset and health routes on the provided Echo
// instance.
func Register(e *echo.Echo, mode Mode, logger *log.Logger) error {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return err
	}
	e.GET("/", index(tmpl, mode, logger))
	e.StaticFS("/assets", echo.MustSubFS(assetFS, "assets"))
	e.GET("/healthz", healthz)
	return nil
}

func index(tmpl *template.Template, mode Mode, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		readonly, _ := strconv.ParseBool(c.QueryParam("readonly"))
		logger.WithFields(log.Fields{"mode": mode, "readonly": readonly}).Info("render index")

		c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, indexData{Mode: mode, ReadOnly: readonly}); err != nil {
			logger.WithError(err).Error("failed to render index")
			return c.String(http.StatusInternalServerError, "Failed to render index.")
		}
		return c.HTMLBlob(http.StatusOK, buf.Bytes())
	}
}

func healthz(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}
