package api

import (
	"embed"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// Embedded dashboard assets.
//
// The dashboard is a small hand-kept static page that renders the run
// ledger through the JSON API; there is no frontend build step.
//
//go:embed dist/*
var embeddedUI embed.FS

func getEmbedFs() static.ServeFileSystem {
	return static.EmbedFolder(embeddedUI, "dist")
}

// MountDashboard serves the embedded dashboard at /, leaving /api and
// /swagger untouched.
func MountDashboard(r *gin.Engine, logger *slog.Logger) {
	distFS := getEmbedFs()
	r.Use(static.Serve("/", distFS))

	r.NoRoute(func(c *gin.Context) {
		uri := c.Request.RequestURI
		if strings.HasPrefix(uri, "/api") || strings.HasPrefix(uri, "/swagger") {
			return
		}
		index, err := distFS.Open("index.html")
		if err != nil {
			if logger != nil {
				logger.Error("failed to open index.html", "error", err)
			}
			return
		}
		defer index.Close()
		stat, _ := index.Stat()
		http.ServeContent(c.Writer, c.Request, "index.html", stat.ModTime(), index)
	})
}
