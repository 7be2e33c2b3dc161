package handler

import (
	"fmt"
	"net/http"

	"docgen/internal/service"
	"docgen/pkg/response"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documentService service.DocumentService
}

func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

func (h *DocumentHandler) RegisterRoutes(router *gin.RouterGroup) {
	documents := router.Group("/api/documents")
	{
		documents.POST("/generate", h.GenerateDocument)
		documents.POST("/preview", h.GeneratePreview)
	}
}

// GenerateDocument renders a finalized invoice aggregate into a PDF
// @Summary      Generate document
// @Description  Renders a fully-resolved invoice or quote aggregate into a print-ready PDF with an embedded Swiss QR-bill payment slip
// @Tags         documents
// @Accept       json
// @Produce      application/pdf
// @Param        payload  body      service.GenerateDocumentRequest  true  "Invoice aggregate and options"
// @Success      200      {file}    file
// @Failure      400      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Router       /api/documents/generate [post]
func (h *DocumentHandler) GenerateDocument(c *gin.Context) {
	var req service.GenerateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	doc, err := h.documentService.GenerateDocument(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", req.Document.Number))
	c.Data(http.StatusOK, doc.ContentType, doc.Bytes)
}

// GeneratePreview renders a single-page raster preview of the document
// @Summary      Generate preview
// @Description  Renders a rasterized preview image of the first document page
// @Tags         documents
// @Accept       json
// @Produce      image/png
// @Param        payload  body      service.GenerateDocumentRequest  true  "Invoice aggregate and options"
// @Success      200      {file}    file
// @Failure      400      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Router       /api/documents/preview [post]
func (h *DocumentHandler) GeneratePreview(c *gin.Context) {
	var req service.GenerateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	doc, err := h.documentService.GeneratePreview(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), response.Error(statusFor(err), err.Error()))
		return
	}

	c.Data(http.StatusOK, doc.ContentType, doc.Bytes)
}
