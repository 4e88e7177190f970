package handlers

import (
	"errors"
	"io"
	"net/http"

	"iajuridica-backend/models"
	"iajuridica-backend/service"

	"github.com/gin-gonic/gin"
)

// ResearchHandler handles HTTP requests for analyses, strategies and norm searches
type ResearchHandler struct {
	researchService *service.ResearchService
}

// NewResearchHandler creates a new research handler
func NewResearchHandler(researchService *service.ResearchService) *ResearchHandler {
	return &ResearchHandler{researchService: researchService}
}

// bindOptionalJSON binds the body into obj; an empty body keeps obj's zero value
func bindOptionalJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// AnalyzeCase handles POST /api/cases/:caseId/analyze
func (h *ResearchHandler) AnalyzeCase(c *gin.Context) {
	var req models.AnalysisRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.researchService.AnalyzeCase(c.Request.Context(), service.AnalyzeCaseRequest{
		CaseID:   c.Param("caseId"),
		Analysis: req,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, result.Response)
}

// PlanStrategy handles POST /api/cases/:caseId/strategy
func (h *ResearchHandler) PlanStrategy(c *gin.Context) {
	var req models.StrategyRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.researchService.PlanStrategy(c.Request.Context(), service.PlanStrategyRequest{
		CaseID:   c.Param("caseId"),
		Strategy: req,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, result.Response)
}

// SearchNorms handles POST /api/research/norms
func (h *ResearchHandler) SearchNorms(c *gin.Context) {
	var req models.NormSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.researchService.SearchNorms(c.Request.Context(), service.SearchNormsRequest{
		Search: req,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, result.Response)
}
