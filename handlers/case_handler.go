package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"iajuridica-backend/models"
	"iajuridica-backend/service"
	"iajuridica-backend/storage"

	"github.com/gin-gonic/gin"
)

// CaseHandler handles HTTP requests for cases and their documents
type CaseHandler struct {
	caseService *service.CaseService
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(caseService *service.CaseService) *CaseHandler {
	return &CaseHandler{caseService: caseService}
}

// RequireCase rejects requests for an unknown :caseId before the body is read
func (h *CaseHandler) RequireCase(c *gin.Context) {
	if _, err := h.caseService.GetCase(c.Request.Context(), service.GetCaseRequest{
		ID: c.Param("caseId"),
	}); err != nil {
		respondError(c, err)
		return
	}
	c.Next()
}

// CreateCase handles POST /api/cases
func (h *CaseHandler) CreateCase(c *gin.Context) {
	var req models.CreateCaseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.caseService.CreateCase(c.Request.Context(), service.CreateCaseRequest{
		Title:  req.Title,
		Matter: req.Matter,
		Notes:  req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, result.Case)
}

// GetCase handles GET /api/cases/:caseId
func (h *CaseHandler) GetCase(c *gin.Context) {
	result, err := h.caseService.GetCase(c.Request.Context(), service.GetCaseRequest{
		ID: c.Param("caseId"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, result.Case)
}

// AttachDocuments handles POST /api/cases/:caseId/documents
func (h *CaseHandler) AttachDocuments(c *gin.Context) {
	var req models.AttachDocumentsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	caseID := c.Param("caseId")
	result, err := h.caseService.AttachDocuments(c.Request.Context(), service.AttachDocumentsRequest{
		CaseID:    caseID,
		Documents: req.Documents,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"message": fmt.Sprintf("%d document(s) attached to %s", result.Count, caseID),
		"count":   result.Count,
	})
}

// ListDocuments handles GET /api/cases/:caseId/documents
func (h *CaseHandler) ListDocuments(c *gin.Context) {
	result, err := h.caseService.ListDocuments(c.Request.Context(), service.ListDocumentsRequest{
		CaseID: c.Param("caseId"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	docs := result.Documents
	if docs == nil {
		docs = []models.Document{}
	}
	respondOK(c, http.StatusOK, gin.H{
		"documents": docs,
	})
}

// GetDocumentContent handles GET /api/cases/:caseId/documents/:index/content
func (h *CaseHandler) GetDocumentContent(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid document index")
		return
	}

	result, err := h.caseService.GetDocumentContent(c.Request.Context(), service.GetDocumentContentRequest{
		CaseID: c.Param("caseId"),
		Index:  index,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	defer result.Content.Close()

	filename := fmt.Sprintf("document_%d.txt", index)
	if result.Document.Filename != nil && *result.Document.Filename != "" {
		filename = filepath.Base(*result.Document.Filename)
	}
	contentType := storage.ContentType(filename)

	c.DataFromReader(http.StatusOK, result.Size, contentType, result.Content, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", filename),
	})
}
