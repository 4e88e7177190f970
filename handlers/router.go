package handlers

import (
	"net/http"

	"iajuridica-backend/auth"
	"iajuridica-backend/logging"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"
)

// Unknown request fields are rejected rather than ignored
func init() {
	binding.EnableDecoderDisallowUnknownFields = true
}

// Router wires handlers to routes
type Router struct {
	Authenticator   *auth.Authenticator
	CaseHandler     *CaseHandler
	ResearchHandler *ResearchHandler
	Logger          zerolog.Logger
}

// Engine builds the gin engine. Every /api route requires a bearer token.
func (r Router) Engine() *gin.Engine {
	e := gin.New()
	e.Use(gin.Recovery(), logging.RequestLogger(r.Logger))

	e.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	api := e.Group("/api", auth.Middleware(r.Authenticator))
	{
		// Case endpoints
		requireCase := r.CaseHandler.RequireCase
		api.POST("/cases", r.CaseHandler.CreateCase)
		api.GET("/cases/:caseId", r.CaseHandler.GetCase)
		api.POST("/cases/:caseId/documents", requireCase, r.CaseHandler.AttachDocuments)
		api.GET("/cases/:caseId/documents", r.CaseHandler.ListDocuments)
		api.GET("/cases/:caseId/documents/:index/content", requireCase, r.CaseHandler.GetDocumentContent)

		// Derived artifacts
		api.POST("/cases/:caseId/analyze", requireCase, r.ResearchHandler.AnalyzeCase)
		api.POST("/cases/:caseId/strategy", requireCase, r.ResearchHandler.PlanStrategy)
		api.POST("/research/norms", r.ResearchHandler.SearchNorms)
	}

	return e
}
