package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"farmavisitas/internal/domain"
	"farmavisitas/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/appointments", h.List)
	rg.POST("/appointments", h.Create)
	rg.GET("/appointments/:id", h.Get)
	rg.PUT("/appointments/:id", h.Update)
	rg.DELETE("/appointments/:id", h.Delete)
}

func (h *Handler) handleErr(c *gin.Context, err error) {
	switch err {
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "APPOINTMENT_NOT_FOUND", "Appointment not found")
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid appointment data")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Appointment operation failed")
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a := domain.Appointment{
		ClienteID:     req.ClienteID,
		ClienteNombre: req.ClienteNombre,
		Fecha:         req.Fecha,
		Hora:          req.Hora,
		Motivo:        req.Motivo,
		Recordatorio:  req.Recordatorio,
	}
	if err := h.service.Create(c.Request.Context(), &a); err != nil {
		h.handleErr(c, err)
		return
	}
	response.Created(c, gin.H{"appointment": a})
}

func (h *Handler) Get(c *gin.Context) {
	a, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a := domain.Appointment{
		ID:            c.Param("id"),
		ClienteID:     req.ClienteID,
		ClienteNombre: req.ClienteNombre,
		Fecha:         req.Fecha,
		Hora:          req.Hora,
		Motivo:        req.Motivo,
		Recordatorio:  req.Recordatorio,
	}
	if err := h.service.Update(c.Request.Context(), &a); err != nil {
		h.handleErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()
	if fecha := c.Query("fecha"); fecha != "" {
		out, err := h.service.ListByDate(ctx, fecha)
		if err != nil {
			h.handleErr(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"appointments": out})
		return
	}

	out, err := h.service.ListAll(ctx)
	if err != nil {
		h.handleErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"appointments": out})
}
