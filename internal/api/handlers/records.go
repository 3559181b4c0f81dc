package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soorozco/controldoc/internal/db/models"
	"github.com/soorozco/controldoc/internal/services"
	"go.uber.org/zap"
)

type RecordHandler struct {
	recordService *services.RecordService
	logger        *zap.Logger
}

type createRecordRequest struct {
	Code             string `json:"codigo" binding:"required"`
	Name             string `json:"nombre"`
	Version          string `json:"version"`
	OriginDocument   string `json:"documento_origen"`
	CollectionOwner  string `json:"responsable_recoleccion"`
	StorageMedium    string `json:"medio_almacenamiento"`
	RetentionPeriod  string `json:"tiempo_retencion"`
	FinalDisposition string `json:"disposicion_final"`
	Status           string `json:"estado"`
}

func NewRecordHandler(recordService *services.RecordService, logger *zap.Logger) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
		logger:        logger.With(zap.String("handler", "record")),
	}
}

func (h *RecordHandler) Create(c *gin.Context) {
	var req createRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record := &models.Record{
		Code:             req.Code,
		Name:             req.Name,
		Version:          req.Version,
		OriginDocument:   req.OriginDocument,
		CollectionOwner:  req.CollectionOwner,
		StorageMedium:    models.StorageMedium(req.StorageMedium),
		RetentionPeriod:  req.RetentionPeriod,
		FinalDisposition: models.Disposition(req.FinalDisposition),
		Status:           req.Status,
	}

	if err := h.recordService.Create(c.Request.Context(), record); err != nil {
		if errors.Is(err, services.ErrDuplicateCode) {
			c.JSON(http.StatusConflict, gin.H{"warning": "el registro ya existe en la base de datos"})
			return
		}
		h.logger.Error("create record failed", zap.String("codigo", req.Code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save record"})
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *RecordHandler) List(c *gin.Context) {
	filter := services.RecordFilter{
		OriginDocument: c.Query("documento_origen"),
		Status:         c.Query("estado"),
	}

	records, err := h.recordService.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("list records failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error retrieving records"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"registros": records})
}

func (h *RecordHandler) Delete(c *gin.Context) {
	code := c.Param("codigo")

	if err := h.recordService.Delete(c.Request.Context(), code); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "registro no encontrado"})
			return
		}
		h.logger.Error("delete record failed", zap.String("codigo", code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete record"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"codigo": code, "eliminado": true})
}
