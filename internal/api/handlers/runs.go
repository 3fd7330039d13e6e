package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/zonegit/internal/api/models"
	"github.com/jroosing/zonegit/internal/history"
)

// ListRuns godoc
// @Summary List validation runs
// @Description Returns recorded validation runs, newest first
// @Tags runs
// @Produce json
// @Param limit query int false "Maximum runs to return" default(20)
// @Param offset query int false "Runs to skip" default(0)
// @Success 200 {object} models.RunListResponse
// @Failure 500 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /runs [get]
func (h *Handler) ListRuns(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "run ledger disabled"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	runs, err := h.db.ListRuns(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list runs", "err", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "cannot list runs"})
		return
	}
	if runs == nil {
		runs = []history.Run{}
	}
	c.JSON(http.StatusOK, models.RunListResponse{Runs: runs, Count: len(runs)})
}

// GetRun godoc
// @Summary Get one validation run
// @Description Returns a run and the verdicts of every file it validated
// @Tags runs
// @Produce json
// @Param id path int true "Run ID"
// @Success 200 {object} models.RunDetailResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /runs/{id} [get]
func (h *Handler) GetRun(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "run ledger disabled"})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "run id must be an integer"})
		return
	}

	run, err := h.db.GetRun(c.Request.Context(), id)
	if errors.Is(err, history.ErrNoRun) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "run not found"})
		return
	}
	if err != nil {
		h.logger.Error("get run", "run_id", id, "err", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "cannot load run"})
		return
	}

	files, err := h.db.RunFiles(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("run files", "run_id", id, "err", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "cannot load run files"})
		return
	}
	if files == nil {
		files = []history.FileRow{}
	}
	c.JSON(http.StatusOK, models.RunDetailResponse{Run: run, Files: files})
}

// Check godoc
// @Summary Trigger a validation run
// @Description Runs validation against the repository and returns the report
// @Tags runs
// @Produce json
// @Success 200 {object} policy.Report
// @Failure 502 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /check [post]
func (h *Handler) Check(c *gin.Context) {
	run := h.getRunFunc()
	if run == nil {
		c.JSON(http.StatusNotImplemented, models.ErrorResponse{Error: "validation runs not wired"})
		return
	}
	report, err := run(c.Request.Context())
	if err != nil {
		h.logger.Error("triggered run failed", "err", err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
