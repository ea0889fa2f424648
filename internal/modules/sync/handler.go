package sync

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"farmavisitas/internal/pkg/response"
	"farmavisitas/internal/pkg/sheets"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin filtering happens in the CORS middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	coordinator *Coordinator
	hub         *Hub
}

func NewHandler(coordinator *Coordinator, hub *Hub) *Handler {
	return &Handler{coordinator: coordinator, hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sync/all", h.SyncAll)
	rg.POST("/sync/:kind/:id", h.SyncOne)
	rg.GET("/sync/failed", h.Failed)
	rg.GET("/sync/ws", h.Subscribe)
}

func (h *Handler) SyncAll(c *gin.Context) {
	report, err := h.coordinator.SyncAll(c.Request.Context())
	if err != nil {
		if errors.Is(err, sheets.ErrAuthExpired) {
			// Partial counts are still worth returning with the condition.
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "AUTH_EXPIRED",
					"message": "Remote session expired, interactive re-login required",
				},
				"data": gin.H{"report": report},
			})
			return
		}
		response.Error(c, http.StatusInternalServerError, "SYNC_FAILED", "Synchronization failed")
		return
	}

	if h.hub != nil {
		h.hub.PublishReport(report)
	}
	response.Success(c, http.StatusOK, gin.H{"report": report})
}

func (h *Handler) SyncOne(c *gin.Context) {
	err := h.coordinator.SyncOne(c.Request.Context(), c.Param("kind"), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownKind):
			response.Error(c, http.StatusBadRequest, "UNKNOWN_KIND", "Unknown record kind")
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Record not found")
		case errors.Is(err, sheets.ErrAuthExpired):
			response.Error(c, http.StatusUnauthorized, "AUTH_EXPIRED", "Remote session expired, interactive re-login required")
		default:
			response.Error(c, http.StatusBadGateway, "REMOTE_WRITE", "Remote write failed")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"synced": true})
}

func (h *Handler) Failed(c *gin.Context) {
	statuses, err := h.coordinator.FailedStatuses(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list sync statuses")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"failed": statuses})
}

func (h *Handler) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("sync: websocket upgrade failed: %v", err)
		return
	}
	h.hub.Register(conn)
	log.Printf("sync: websocket subscriber connected, %d active", h.hub.SubscriberCount())

	// Reader loop only exists to notice the close.
	go func() {
		defer h.hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
