package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soorozco/controldoc/internal/db/models"
	"github.com/soorozco/controldoc/internal/services"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	documentService *services.DocumentService
	logger          *zap.Logger
}

type transitionRequest struct {
	NewStatus string `json:"nuevo_estado" binding:"required"`
	Comments  string `json:"comentarios"`
}

type stepsRequest struct {
	Steps []models.ProcessStep `json:"pasos"`
}

func NewDocumentHandler(documentService *services.DocumentService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		logger:          logger.With(zap.String("handler", "document")),
	}
}

// Upload ingests one authoring-tool JSON object from the request body.
func (h *DocumentHandler) Upload(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error("read upload body failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read upload"})
		return
	}

	result, err := h.documentService.Upload(c.Request.Context(), raw)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateCode):
			c.JSON(http.StatusConflict, gin.H{"warning": "el documento ya existe en la base de datos"})
		default:
			h.logger.Error("upload failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documentService.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list documents failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error retrieving documents"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"documentos": docs})
}

func (h *DocumentHandler) Detail(c *gin.Context) {
	code := c.Param("codigo")

	detail, err := h.documentService.Detail(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "documento no encontrado"})
			return
		}
		h.logger.Error("document detail failed", zap.String("codigo", code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error retrieving document"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *DocumentHandler) UpdateSteps(c *gin.Context) {
	code := c.Param("codigo")

	var req stepsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.documentService.UpdateSteps(c.Request.Context(), code, req.Steps); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "documento no encontrado"})
			return
		}
		h.logger.Error("update steps failed", zap.String("codigo", code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save steps"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"codigo": code, "pasos": len(req.Steps)})
}

func (h *DocumentHandler) Transition(c *gin.Context) {
	code := c.Param("codigo")

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.documentService.Transition(c.Request.Context(), code, models.DocumentStatus(req.NewStatus), req.Comments)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "documento no encontrado"})
			return
		}
		h.logger.Error("status transition failed", zap.String("codigo", code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"codigo":          code,
		"estado_anterior": entry.PreviousStatus,
		"nuevo_estado":    entry.NewStatus,
	})
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	code := c.Param("codigo")

	if err := h.documentService.Delete(c.Request.Context(), code); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "documento no encontrado"})
			return
		}
		h.logger.Error("delete document failed", zap.String("codigo", code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete document"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"codigo": code, "eliminado": true})
}

func (h *DocumentHandler) UpcomingReviews(c *gin.Context) {
	reviews, err := h.documentService.UpcomingReviews(c.Request.Context(), time.Now())
	if err != nil {
		h.logger.Error("upcoming reviews failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error computing upcoming reviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"proximas_revisiones": reviews})
}

func (h *DocumentHandler) StatusLog(c *gin.Context) {
	entries, err := h.documentService.StatusLog(c.Request.Context(), c.Query("codigo"))
	if err != nil {
		h.logger.Error("status log listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error retrieving status log"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"log_estados": entries})
}
