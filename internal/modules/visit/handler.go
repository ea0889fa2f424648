package visit

import (
	"net/http"
	"strconv"

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
	rg.POST("/visits/start", h.Start)
	rg.GET("/visits/sessions/:id", h.GetSession)
	rg.PUT("/visits/sessions/:id/tier", h.SetTier)
	rg.POST("/visits/sessions/:id/items", h.AddItem)
	rg.PATCH("/visits/sessions/:id/items", h.UpdateQuantity)
	rg.GET("/visits/sessions/:id/bonus", h.BonusPreview)
	rg.POST("/visits/sessions/:id/finalize", h.Finalize)
	rg.POST("/visits/sessions/:id/abandon", h.Abandon)
	rg.GET("/visits", h.List)
}

func (h *Handler) handleErr(c *gin.Context, err error) {
	switch err {
	case ErrClientResolution:
		response.Error(c, http.StatusUnprocessableEntity, "CLIENT_RESOLUTION", "No client could be resolved for this visit")
	case ErrSessionNotFound:
		response.Error(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Visit session not found")
	case ErrSessionClosed:
		response.Error(c, http.StatusConflict, "SESSION_CLOSED", "Visit session is already closed")
	case ErrSessionActive:
		response.Error(c, http.StatusConflict, "SESSION_ACTIVE", "Client already has an active visit session")
	case ErrInvalidTier:
		response.Error(c, http.StatusBadRequest, "INVALID_TIER", "Price tier must be farmacia, medico or publico")
	case ErrMedicineNotFound:
		response.Error(c, http.StatusNotFound, "MEDICINE_NOT_FOUND", "Medicine not found")
	case ErrInvalidQuantity:
		response.Error(c, http.StatusBadRequest, "INVALID_QUANTITY", "Quantity must be positive")
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid visit data")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Visit operation failed")
	}
}

func (h *Handler) Start(c *gin.Context) {
	var req StartVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	sess, err := h.service.Start(req.ClienteID, req.NombreMedico, req.Gira)
	if err != nil {
		h.handleErr(c, err)
		return
	}
	response.Created(c, gin.H{"session": sess})
}

func (h *Handler) GetSession(c *gin.Context) {
	sess, err := h.service.Get(c.Param("id"))
	if err != nil {
		h.handleErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": sess, "total": sess.Total()})
}

func (h *Handler) SetTier(c *gin.Context) {
	var req SetTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	sess, err := h.service.SetPriceTier(c.Param("id"), domain.PriceTier(req.Tier))
	if err != nil {
		h.handleErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": sess})
}

func (h *Handler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if req.Cantidad == 0 {
		req.Cantidad = 1
	}

	sess, err := h.service.AddItem(c.Param("id"), req.MedicamentoID, req.Cantidad)
	if err != nil {
		h.handleErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": sess, "total": sess.Total()})
}

func (h *Handler) UpdateQuantity(c *gin.Context) {
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	sess, err := h.service.UpdateQuantity(c.Param("id"), req.MedicamentoID, req.Delta)
	if err != nil {
		h.handleErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": sess, "total": sess.Total()})
}

func (h *Handler) BonusPreview(c *gin.Context) {
	medID := c.Query("medicamento_id")
	qty, err := strconv.Atoi(c.DefaultQuery("cantidad", "1"))
	if medID == "" || err != nil || qty < 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "medicamento_id and numeric cantidad are required")
		return
	}

	bonus, err := h.service.BonusPreview(c.Param("id"), medID, qty)
	if err != nil {
		h.handleErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bonus": bonus})
}

func (h *Handler) Finalize(c *gin.Context) {
	var req FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	v, err := h.service.Finalize(c.Request.Context(), c.Param("id"), req.Notas)
	if err != nil {
		h.handleErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"visit": v})
}

func (h *Handler) Abandon(c *gin.Context) {
	if err := h.service.Abandon(c.Param("id")); err != nil {
		h.handleErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"abandoned": true})
}

func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()
	if fecha := c.Query("fecha"); fecha != "" {
		out, err := h.service.VisitsByDate(ctx, fecha)
		if err != nil {
			h.handleErr(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"visits": out})
		return
	}

	desde, hasta := c.Query("desde"), c.Query("hasta")
	if desde == "" || hasta == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "fecha or desde+hasta query params are required")
		return
	}
	out, err := h.service.VisitsByRange(ctx, desde, hasta)
	if err != nil {
		h.handleErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"visits": out})
}
