package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soorozco/controldoc/internal/db/models"
	"github.com/soorozco/controldoc/internal/services"
	"go.uber.org/zap"
)

type PersonnelHandler struct {
	personnelService *services.PersonnelService
	logger           *zap.Logger
}

type createPersonRequest struct {
	FullName string `json:"nombre_completo" binding:"required"`
	Title    string `json:"cargo"`
	Area     string `json:"area"`
	Email    string `json:"email"`
	Active   *bool  `json:"activo"`
}

func NewPersonnelHandler(personnelService *services.PersonnelService, logger *zap.Logger) *PersonnelHandler {
	return &PersonnelHandler{
		personnelService: personnelService,
		logger:           logger.With(zap.String("handler", "personnel")),
	}
}

func (h *PersonnelHandler) Create(c *gin.Context) {
	var req createPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	person := &models.Person{
		FullName: req.FullName,
		Title:    req.Title,
		Area:     req.Area,
		Email:    req.Email,
		Active:   active,
	}

	if err := h.personnelService.Create(c.Request.Context(), person); err != nil {
		if errors.Is(err, services.ErrDuplicateName) {
			c.JSON(http.StatusConflict, gin.H{"warning": "la persona ya existe en la base de datos"})
			return
		}
		h.logger.Error("create person failed", zap.String("nombre", req.FullName), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save person"})
		return
	}
	c.JSON(http.StatusCreated, person)
}

func (h *PersonnelHandler) List(c *gin.Context) {
	people, err := h.personnelService.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list personnel failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error retrieving personnel"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"personal": people})
}

func (h *PersonnelHandler) Delete(c *gin.Context) {
	fullName := c.Param("nombre")

	if err := h.personnelService.Delete(c.Request.Context(), fullName); err != nil {
		switch {
		case errors.Is(err, services.ErrPersonReferenced):
			c.JSON(http.StatusConflict, gin.H{"warning": "la persona es responsable de actualización de un documento"})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "persona no encontrada"})
		default:
			h.logger.Error("delete person failed", zap.String("nombre", fullName), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete person"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"nombre_completo": fullName, "eliminado": true})
}

func (h *PersonnelHandler) ExportCSV(c *gin.Context) {
	data, err := h.personnelService.ExportCSV(c.Request.Context())
	if err != nil {
		h.logger.Error("export personnel failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not export personnel"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="personal.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}
