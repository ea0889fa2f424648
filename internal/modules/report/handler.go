package report

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"farmavisitas/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports/daily", h.Daily)
	rg.GET("/reports/range", h.Range)
}

func (h *Handler) Daily(c *gin.Context) {
	fecha := c.Query("fecha")
	sum, err := h.service.Daily(c.Request.Context(), fecha)
	if err != nil {
		if err == ErrValidation {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "fecha query param is required")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Report generation failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"summary": sum})
}

func (h *Handler) Range(c *gin.Context) {
	desde, hasta := c.Query("desde"), c.Query("hasta")
	sum, err := h.service.Range(c.Request.Context(), desde, hasta)
	if err != nil {
		if err == ErrValidation {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "desde and hasta query params are required and must be ordered")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Report generation failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"summary": sum})
}
