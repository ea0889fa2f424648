package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"farmavisitas/internal/domain"
	"farmavisitas/internal/pkg/response"
	"farmavisitas/internal/pkg/sheets"
	"farmavisitas/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/clients", h.ListClients)
	rg.POST("/clients", h.CreateClient)
	rg.GET("/clients/:id", h.GetClient)
	rg.PUT("/clients/:id", h.UpdateClient)
	rg.DELETE("/clients/:id", h.DeactivateClient)

	rg.GET("/medicines", h.ListMedicines)
	rg.POST("/medicines", h.CreateMedicine)
	rg.GET("/medicines/:id", h.GetMedicine)
	rg.PUT("/medicines/:id", h.UpdateMedicine)
	rg.DELETE("/medicines/:id", h.DeleteMedicine)

	rg.POST("/catalog/reload", h.Reload)
}

func (h *Handler) handleErr(c *gin.Context, err error, action string) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid "+action+" data")
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Record not found")
	case ErrDuplicate:
		response.Error(c, http.StatusConflict, "DUPLICATE_ID", "Record with this id already exists")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to "+action)
	}
}

func (h *Handler) ListClients(c *gin.Context) {
	out, err := h.service.ListClients(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.handleErr(c, err, "list clients")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"clients": out})
}

func (h *Handler) CreateClient(c *gin.Context) {
	var cl domain.Client
	if err := c.ShouldBindJSON(&cl); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(&cl); fields != nil {
		response.Validation(c, fields)
		return
	}
	if err := h.service.CreateClient(c.Request.Context(), &cl); err != nil {
		h.handleErr(c, err, "create client")
		return
	}
	response.Created(c, gin.H{"client": cl})
}

func (h *Handler) GetClient(c *gin.Context) {
	cl, err := h.service.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleErr(c, err, "get client")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"client": cl})
}

func (h *Handler) UpdateClient(c *gin.Context) {
	var cl domain.Client
	if err := c.ShouldBindJSON(&cl); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(&cl); fields != nil {
		response.Validation(c, fields)
		return
	}
	cl.ID = c.Param("id")
	if err := h.service.UpdateClient(c.Request.Context(), &cl); err != nil {
		h.handleErr(c, err, "update client")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"client": cl})
}

func (h *Handler) DeactivateClient(c *gin.Context) {
	if err := h.service.DeactivateClient(c.Request.Context(), c.Param("id")); err != nil {
		h.handleErr(c, err, "deactivate client")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deactivated": true})
}

func (h *Handler) ListMedicines(c *gin.Context) {
	out, err := h.service.ListMedicines(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.handleErr(c, err, "list medicines")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"medicines": out})
}

func (h *Handler) CreateMedicine(c *gin.Context) {
	var m domain.Medicine
	if err := c.ShouldBindJSON(&m); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(&m); fields != nil {
		response.Validation(c, fields)
		return
	}
	if err := h.service.CreateMedicine(c.Request.Context(), &m); err != nil {
		h.handleErr(c, err, "create medicine")
		return
	}
	response.Created(c, gin.H{"medicine": m})
}

func (h *Handler) GetMedicine(c *gin.Context) {
	m, err := h.service.GetMedicine(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleErr(c, err, "get medicine")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"medicine": m})
}

func (h *Handler) UpdateMedicine(c *gin.Context) {
	var m domain.Medicine
	if err := c.ShouldBindJSON(&m); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(&m); fields != nil {
		response.Validation(c, fields)
		return
	}
	m.ID = c.Param("id")
	if err := h.service.UpdateMedicine(c.Request.Context(), &m); err != nil {
		h.handleErr(c, err, "update medicine")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"medicine": m})
}

func (h *Handler) DeleteMedicine(c *gin.Context) {
	if err := h.service.DeleteMedicine(c.Request.Context(), c.Param("id")); err != nil {
		h.handleErr(c, err, "delete medicine")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Reload refreshes from the local store; ?source=remote pulls the
// Clientes and Medicamentos tables from the mirror instead.
func (h *Handler) Reload(c *gin.Context) {
	var err error
	source := c.DefaultQuery("source", "local")
	switch source {
	case "local":
		err = h.service.Reload(c.Request.Context())
	case "remote":
		err = h.service.ReloadFromSheets(c.Request.Context())
	default:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "source must be local or remote")
		return
	}
	if err != nil {
		switch {
		case errors.Is(err, ErrRemoteUnavailable):
			response.Error(c, http.StatusServiceUnavailable, "REMOTE_UNAVAILABLE", "Remote catalog source not configured")
		case errors.Is(err, sheets.ErrAuthExpired):
			response.Error(c, http.StatusUnauthorized, "AUTH_EXPIRED", "Remote session expired, interactive re-login required")
		default:
			h.handleErr(c, err, "reload catalogs")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reloaded": true, "source": source})
}
