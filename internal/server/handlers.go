package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rezonia/invoice-renderer/internal/compliance"
	"github.com/rezonia/invoice-renderer/internal/logger"
	"github.com/rezonia/invoice-renderer/internal/metrics"
	"github.com/rezonia/invoice-renderer/internal/model"
	"github.com/rezonia/invoice-renderer/internal/render"
	"github.com/rezonia/invoice-renderer/internal/schema"
)

const htmlContentType = "text/html; charset=utf-8"

// WarningHeader lists render warnings on HTML responses
const WarningHeader = "X-Invoice-Warning"

func (s *Server) handleListTemplates(c *gin.Context) {
	list, err := s.templates.List(c.Request.Context(), c.Param("branch"))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := TemplateListResponse{Templates: make([]TemplateResponse, 0, len(list))}
	for i := range list {
		tr, err := newTemplateResponse(&list[i])
		if err != nil {
			writeError(c, err)
			return
		}
		resp.Templates = append(resp.Templates, tr)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCreateTemplate(c *gin.Context) {
	t, ok := s.bindTemplate(c)
	if !ok {
		return
	}
	t.BranchID = c.Param("branch")

	created, err := s.templates.Create(c.Request.Context(), t, actor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	s.respondTemplate(c, http.StatusCreated, created)
}

func (s *Server) handleGetActiveTemplate(c *gin.Context) {
	branch := c.Param("branch")
	t, err := s.templates.GetActive(c.Request.Context(), branch)
	if err != nil {
		writeError(c, err)
		return
	}
	if t == nil {
		writeError(c, model.NewNotFoundError("active template", branch))
		return
	}
	s.respondTemplate(c, http.StatusOK, t)
}

func (s *Server) handleGetTemplate(c *gin.Context) {
	t, err := s.templates.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	s.respondTemplate(c, http.StatusOK, t)
}

func (s *Server) handleUpdateTemplate(c *gin.Context) {
	t, ok := s.bindTemplate(c)
	if !ok {
		return
	}
	t.ID = c.Param("id")

	updated, err := s.templates.Update(c.Request.Context(), t, actor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	s.respondTemplate(c, http.StatusOK, updated)
}

func (s *Server) handleDeleteTemplate(c *gin.Context) {
	if err := s.templates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDuplicateTemplate(c *gin.Context) {
	dup, err := s.templates.Duplicate(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	s.respondTemplate(c, http.StatusCreated, dup)
}

func (s *Server) handleActivateTemplate(c *gin.Context) {
	t, err := s.templates.SetActive(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	s.metrics.IncrementActivations()
	logger.FromContext(c.Request.Context()).Info().
		Str("template_id", t.ID).
		Str("branch_id", t.BranchID).
		Msg("template activated")
	s.respondTemplate(c, http.StatusOK, t)
}

func (s *Server) handleTemplatePreview(c *gin.Context) {
	ctx := c.Request.Context()
	t, err := s.templates.GetByID(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	// Templates of branches the provider does not know preview with the
	// sample seller.
	branch, err := s.branches.GetBranchInfo(ctx, t.BranchID)
	var notFound *model.NotFoundError
	if err != nil && !errors.As(err, &notFound) {
		writeError(c, err)
		return
	}

	start := time.Now()
	res, err := s.engine.RenderPreviewWithBranch(&t.Schema, branch)
	s.metrics.ObserveRender(metrics.KindPreview, start, err, 0)
	if err != nil {
		writeError(c, err)
		return
	}
	s.respondRender(c, res)
}

func (s *Server) handlePreview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	sch, err := schema.ParseJSON(req.Schema)
	if err != nil {
		writeError(c, err)
		return
	}

	var branch *model.Branch
	if req.BranchID != "" {
		if branch, err = s.branches.GetBranchInfo(c.Request.Context(), req.BranchID); err != nil {
			writeError(c, err)
			return
		}
	}

	start := time.Now()
	res, err := s.engine.RenderPreviewWithBranch(sch, branch)
	s.metrics.ObserveRender(metrics.KindPreview, start, err, 0)
	if err != nil {
		writeError(c, err)
		return
	}
	s.respondRender(c, res)
}

func (s *Server) handleInvoice(c *gin.Context) {
	ctx := c.Request.Context()
	branchID := c.Param("branch")

	t, err := s.templates.GetActive(ctx, branchID)
	if err != nil {
		writeError(c, err)
		return
	}
	if t == nil {
		writeError(c, model.NewNotFoundError("active template", branchID))
		return
	}
	sale, branch, ok := s.loadSale(c, branchID)
	if !ok {
		return
	}

	start := time.Now()
	res, err := s.engine.RenderInvoice(&t.Schema, sale, branch)
	warnings := 0
	if res != nil {
		warnings = len(res.Warnings)
	}
	s.metrics.ObserveRender(metrics.KindInvoice, start, err, warnings)
	if err != nil {
		writeError(c, err)
		return
	}
	for _, w := range res.Warnings {
		logger.FromContext(ctx).Warn().Str("sale_id", sale.ID).Msg(w)
	}
	s.respondRender(c, res)
}

func (s *Server) handleQR(c *gin.Context) {
	sale, branch, ok := s.loadSale(c, c.Param("branch"))
	if !ok {
		return
	}

	start := time.Now()
	payload, err := s.engine.GenerateComplianceQR(sale, branch)
	s.metrics.ObserveRender(metrics.KindQR, start, err, 0)
	if err != nil {
		writeError(c, err)
		return
	}

	if c.Query("format") == "png" {
		size := s.config.QRImageSize
		if v := c.Query("size"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 64 || n > 2048 {
				badRequest(c, "size must be an integer between 64 and 2048", nil)
				return
			}
			size = n
		}
		png, err := compliance.PNG(payload, size)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Data(http.StatusOK, "image/png", png)
		return
	}
	c.JSON(http.StatusOK, QRResponse{SaleID: sale.ID, Payload: payload})
}

func (s *Server) loadSale(c *gin.Context, branchID string) (*model.Sale, *model.Branch, bool) {
	ctx := c.Request.Context()
	branch, err := s.branches.GetBranchInfo(ctx, branchID)
	if err != nil {
		writeError(c, err)
		return nil, nil, false
	}
	sale, err := s.sales.GetSaleForRendering(ctx, c.Param("sale"))
	if err != nil {
		writeError(c, err)
		return nil, nil, false
	}
	// A sale never prints under another branch's seller identity.
	if sale.BranchID != "" && sale.BranchID != branch.ID {
		writeError(c, model.NewNotFoundError("sale", sale.ID))
		return nil, nil, false
	}
	return sale, branch, true
}

func (s *Server) bindTemplate(c *gin.Context) (*model.Template, bool) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return nil, false
	}
	sch, err := schema.ParseJSON(req.Schema)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return &model.Template{Name: req.Name, PaperSize: sch.PaperSize, Schema: *sch}, true
}

func (s *Server) respondTemplate(c *gin.Context, status int, t *model.Template) {
	resp, err := newTemplateResponse(t)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, resp)
}

// respondRender writes HTML unless the caller asks for JSON
func (s *Server) respondRender(c *gin.Context, res *render.Result) {
	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, newRenderResponse(res))
		return
	}
	for _, w := range res.Warnings {
		c.Writer.Header().Add(WarningHeader, w)
	}
	c.Data(http.StatusOK, htmlContentType, []byte(res.Markup))
}
