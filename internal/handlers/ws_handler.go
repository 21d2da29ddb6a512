package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/barberdesk/booking-api/internal/httperr"
	"github.com/barberdesk/booking-api/internal/models"
	"github.com/barberdesk/booking-api/internal/notify"
)

type WSHandler struct {
	db  *gorm.DB
	hub *notify.Hub
}

func NewWSHandler(db *gorm.DB, hub *notify.Hub) *WSHandler {
	return &WSHandler{db: db, hub: hub}
}

// Serve attaches a dashboard connection to the shop's event room.
func (h *WSHandler) Serve(c *gin.Context) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))

	var shop models.Barbershop
	if err := h.db.Where("slug = ?", slug).First(&shop).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbershop not found.")
		return
	}

	h.hub.Serve(c, shop.ID)
}
