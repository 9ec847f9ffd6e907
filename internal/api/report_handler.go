package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"waitstat/adapters/stats/engine"
	"waitstat/domain/core"
	"waitstat/internal"
	"waitstat/internal/errors"
	"waitstat/internal/report"
	"waitstat/ports"
)

// ReportHandler handles comparison and report lookup requests
type ReportHandler struct {
	engine *engine.StatsEngine
	repo   ports.ReportRepository
	logger *internal.Logger
}

// NewReportHandler creates a new report handler. repo may be nil, in which
// case reports are not persisted.
func NewReportHandler(eng *engine.StatsEngine, repo ports.ReportRepository, logger *internal.Logger) *ReportHandler {
	return &ReportHandler{engine: eng, repo: repo, logger: logger}
}

// Compare runs a comparison on the posted groups
func (h *ReportHandler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errors.InvalidInput("invalid JSON body: "+err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(c, errors.ValidationError(err.Error()))
		return
	}

	r, err := h.engine.Compare(c.Request.Context(), req.Input())
	if err != nil {
		h.fail(c, err)
		return
	}

	status := http.StatusOK
	if h.repo != nil {
		stored, err := r.Stored()
		if err == nil {
			err = h.repo.SaveReport(c.Request.Context(), stored)
		}
		if err != nil {
			h.fail(c, err)
			return
		}
		status = http.StatusCreated
		c.Header("Location", "/v1/reports/"+r.ID.String())
	}

	h.render(c, status, r)
}

// GetReport returns a stored report by ID
func (h *ReportHandler) GetReport(c *gin.Context) {
	id, err := core.ParseReportID(c.Param("id"))
	if err != nil {
		h.fail(c, errors.InvalidInput(err.Error()))
		return
	}

	stored, err := h.repo.GetReport(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	r, err := engine.DecodeReport(stored)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, r)
}

// ListReports returns the newest stored reports
func (h *ReportHandler) ListReports(c *gin.Context) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			h.fail(c, errors.InvalidInput("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	var (
		summaries []ports.ReportSummary
		err       error
	)
	if fp := c.Query("fingerprint"); fp != "" {
		summaries, err = h.repo.FindByFingerprint(c.Request.Context(), core.Hash(fp))
	} else {
		summaries, err = h.repo.ListReports(c.Request.Context(), limit)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	if summaries == nil {
		summaries = []ports.ReportSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"reports": summaries})
}

// render writes the report as JSON, Markdown or HTML per ?format=
func (h *ReportHandler) render(c *gin.Context, status int, r *engine.ComparisonReport) {
	switch c.DefaultQuery("format", "json") {
	case "markdown", "md":
		c.Data(status, "text/markdown; charset=utf-8", []byte(report.Markdown(r)))
	case "html":
		c.Data(status, "text/html; charset=utf-8", report.HTML(r))
	default:
		c.JSON(status, r)
	}
}

// fail maps an error onto its HTTP status and a JSON error body
func (h *ReportHandler) fail(c *gin.Context, err error) {
	code := errors.Classify(err)
	status := errors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		h.logger.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
	} else {
		h.logger.Debug("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "code": code})
}
