package handler

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/duccv/webconf-gate/internal/middleware"
	"github.com/duccv/webconf-gate/util"
)

// Webconf sends an authenticated browser to the conferencing service.
func (h *Handler) Webconf(c *gin.Context) {
	room := c.Param("roomId")
	target := h.dispatcher.ResolveTarget(room)

	if claims, ok := middleware.ClaimsFrom(c); ok {
		zap.L().Info("Redirecting to webconf", zap.String("email", claims.Email), zap.String("room", room))
	}
	c.Redirect(http.StatusFound, target)
}

// Static serves embedded assets with an ETag so browsers can revalidate cheaply.
func (h *Handler) Static(c *gin.Context) {
	name := strings.TrimPrefix(path.Clean(c.Param("filepath")), "/")
	data, err := fs.ReadFile(h.static, name)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	etag := `"` + util.GenerateETag(data) + `"`
	c.Header("ETag", etag)
	c.Header("Cache-Control", "public, max-age=3600")
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	c.Data(http.StatusOK, util.ContentType(name), data)
}
