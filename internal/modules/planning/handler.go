package planning

import (
	"net/http"
	"strconv"
	"time"

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
	rg.GET("/plans", h.Query)
	rg.POST("/plans", h.Create)
	rg.PUT("/plans/:id", h.Update)
	rg.DELETE("/plans/:id", h.Remove)
	rg.POST("/plans/week", h.GenerateWeek)
	rg.GET("/plans/today-targets", h.TodayTargets)
}

func (h *Handler) handleErr(c *gin.Context, err error) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid plan data")
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Plan entry not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Plan operation failed")
	}
}

func (h *Handler) Query(c *gin.Context) {
	dia, err1 := strconv.Atoi(c.Query("dia"))
	mes, err2 := strconv.Atoi(c.Query("mes"))
	anio, err3 := strconv.Atoi(c.Query("anio"))
	if err1 != nil || err2 != nil || err3 != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "dia, mes and anio query params are required")
		return
	}

	entries, err := h.service.Query(c.Request.Context(), dia, mes, anio)
	if err != nil {
		h.handleErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"plans": entries})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	entry := domain.PlanEntry{
		Gira:         req.Gira,
		Dia:          req.Dia,
		Mes:          req.Mes,
		Anio:         req.Anio,
		Horario:      req.Horario,
		Direccion:    req.Direccion,
		NombreMedico: req.NombreMedico,
		ClienteID:    req.ClienteID,
	}
	if err := h.service.Add(c.Request.Context(), &entry); err != nil {
		h.handleErr(c, err)
		return
	}
	response.Created(c, gin.H{"plan": entry})
}

func (h *Handler) Update(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	entry := domain.PlanEntry{
		ID:           c.Param("id"),
		Gira:         req.Gira,
		Dia:          req.Dia,
		Mes:          req.Mes,
		Anio:         req.Anio,
		Horario:      req.Horario,
		Direccion:    req.Direccion,
		NombreMedico: req.NombreMedico,
		ClienteID:    req.ClienteID,
	}
	if err := h.service.Update(c.Request.Context(), &entry); err != nil {
		h.handleErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"plan": entry})
}

func (h *Handler) Remove(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.handleErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": true})
}

func (h *Handler) GenerateWeek(c *gin.Context) {
	var req GenerateWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	start, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "fecha must be YYYY-MM-DD")
		return
	}

	created, err := h.service.GenerateWeek(c.Request.Context(), start, req.Gira, req.Slots)
	if err != nil {
		h.handleErr(c, err)
		return
	}
	response.Created(c, gin.H{"plans": created})
}

func (h *Handler) TodayTargets(c *gin.Context) {
	targets, err := h.service.ResolveTargetsForToday(c.Request.Context(), time.Now())
	if err != nil {
		h.handleErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"targets": targets})
}
