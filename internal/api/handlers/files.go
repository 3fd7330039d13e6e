package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/zonegit/internal/api/models"
	"github.com/jroosing/zonegit/internal/history"
)

// ListFiles godoc
// @Summary Latest verdict per zone file
// @Description Returns, for every path ever validated, the verdicts of the most recent run that touched it
// @Tags files
// @Produce json
// @Success 200 {object} models.FileListResponse
// @Failure 500 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /files [get]
func (h *Handler) ListFiles(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "run ledger disabled"})
		return
	}
	files, err := h.db.LatestFiles(c.Request.Context())
	if err != nil {
		h.logger.Error("latest files", "err", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "cannot list files"})
		return
	}
	if files == nil {
		files = []history.FileRow{}
	}
	c.JSON(http.StatusOK, models.FileListResponse{Files: files, Count: len(files)})
}

// SerialHistory godoc
// @Summary Serial timeline for one zone file
// @Description Returns the recorded serial numbers of a path, newest first
// @Tags files
// @Produce json
// @Param path query string true "Repository-relative zone file path"
// @Param limit query int false "Maximum entries" default(50)
// @Success 200 {object} models.SerialHistoryResponse
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /files/serials [get]
func (h *Handler) SerialHistory(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "run ledger disabled"})
		return
	}
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "path query parameter is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	points, err := h.db.SerialHistory(c.Request.Context(), path, limit)
	if err != nil {
		h.logger.Error("serial history", "path", path, "err", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "cannot load serial history"})
		return
	}
	if points == nil {
		points = []history.SerialPoint{}
	}
	c.JSON(http.StatusOK, models.SerialHistoryResponse{Path: path, Serials: points})
}
