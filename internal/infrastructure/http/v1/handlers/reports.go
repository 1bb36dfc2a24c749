package handlers

import (
	"context"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stockreport/internal/core/apperror"
	"stockreport/internal/domain/reports"
	"stockreport/internal/infrastructure/http/v1/dto"
)

// ReportService is the report use case surface the handler needs.
type ReportService interface {
	Defaults() reports.Request
	Preview(ctx context.Context, req reports.Request) (*reports.Matrix, error)
	Generate(ctx context.Context, req reports.Request) (*reports.Result, error)
	Open(ctx context.Context, artifactID string) (*reports.Artifact, error)
	History(ctx context.Context, limit int) ([]reports.Run, error)
}

// ReportsHandler handles HTTP requests for the stock movement report.
type ReportsHandler struct {
	*BaseHandler
	service ReportService
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service ReportService) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Defaults handles GET /reports/stock-movement/defaults
func (h *ReportsHandler) Defaults(c *gin.Context) {
	h.OK(c, dto.FromDefaults(h.service.Defaults()))
}

// Generate handles POST /reports/stock-movement
func (h *ReportsHandler) Generate(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	res, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromResult(res))
}

// Preview handles POST /reports/stock-movement/preview
func (h *ReportsHandler) Preview(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	m, err := h.service.Preview(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromMatrix(m))
}

// Download handles GET /reports/stock-movement/:id/download
func (h *ReportsHandler) Download(c *gin.Context) {
	a, err := h.service.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	name := a.FileName
	if q := c.Query("filename"); q != "" {
		name = q
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	c.Data(http.StatusOK, a.ContentType, a.Data)
}

// History handles GET /reports/stock-movement/history
func (h *ReportsHandler) History(c *gin.Context) {
	limit := 0
	if q := c.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			h.Error(c, apperror.NewValidation("limit must be a positive integer").WithDetail("limit", q))
			return
		}
		limit = n
	}

	runs, err := h.service.History(c.Request.Context(), limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromRuns(runs))
}

func (h *ReportsHandler) bindRequest(c *gin.Context) (reports.Request, bool) {
	var body dto.StockMovementRequest
	if !h.BindJSON(c, &body) {
		return reports.Request{}, false
	}
	req, err := body.ToRequest(h.service.Defaults())
	if err != nil {
		h.Error(c, err)
		return reports.Request{}, false
	}
	return req, true
}
