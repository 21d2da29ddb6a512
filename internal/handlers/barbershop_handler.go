package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/barberdesk/booking-api/internal/httperr"
	"github.com/barberdesk/booking-api/internal/media"
	"github.com/barberdesk/booking-api/internal/middleware"
	"github.com/barberdesk/booking-api/internal/models"
	"github.com/barberdesk/booking-api/internal/timezone"
)

type BarbershopHandler struct {
	db       *gorm.DB
	uploader *media.Uploader
}

func NewBarbershopHandler(db *gorm.DB, uploader *media.Uploader) *BarbershopHandler {
	return &BarbershopHandler{db: db, uploader: uploader}
}

type UpdateBarbershopRequest struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	Timezone *string `json:"timezone,omitempty"`
}

func (h *BarbershopHandler) GetMeBarbershop(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var shop models.Barbershop
	if err := h.db.First(&shop, barbershopID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "barbershop_not_found", "Barbershop not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_barbershop", "Failed to load barbershop.")
		return
	}

	c.JSON(http.StatusOK, shop)
}

func (h *BarbershopHandler) UpdateMeBarbershop(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var shop models.Barbershop
	if err := h.db.First(&shop, barbershopID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "barbershop_not_found", "Barbershop not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_barbershop", "Failed to load barbershop.")
		return
	}

	var req UpdateBarbershopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Name != nil {
		shop.Name = *req.Name
	}
	if req.Phone != nil {
		shop.Phone = *req.Phone
	}
	if req.Address != nil {
		shop.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone.")
			return
		}
		shop.Timezone = *req.Timezone
	}

	if err := h.db.Save(&shop).Error; err != nil {
		httperr.Internal(c, "failed_to_update_barbershop", "Failed to save barbershop.")
		return
	}

	c.JSON(http.StatusOK, shop)
}

// UploadPhoto accepts a multipart "photo" (jpeg/png), converts it to webp
// and stores it on S3; the resulting URL lands on the shop profile.
func (h *BarbershopHandler) UploadPhoto(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	if h.uploader == nil || !h.uploader.Enabled() {
		httperr.Internal(c, "uploads_not_configured", "Photo storage is not configured.")
		return
	}

	var shop models.Barbershop
	if err := h.db.First(&shop, barbershopID).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbershop not found.")
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "A photo file is required.")
		return
	}

	const maxUpload = 8 << 20
	if file.Size > maxUpload {
		httperr.BadRequest(c, "photo_too_large", "Photo must be 8MB or less.")
		return
	}

	src, err := file.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_photo", "Failed to read upload.")
		return
	}
	defer src.Close()

	encoded, err := media.ToWebP(src)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Photo must be a valid JPEG or PNG.")
		return
	}

	key := fmt.Sprintf("barbershops/%d/photo-%d.webp", shop.ID, time.Now().Unix())
	url, err := h.uploader.Put(c.Request.Context(), key, encoded, "image/webp")
	if err != nil {
		httperr.Internal(c, "failed_to_store_photo", "Failed to store photo.")
		return
	}

	shop.PhotoURL = url
	if err := h.db.Save(&shop).Error; err != nil {
		httperr.Internal(c, "failed_to_update_barbershop", "Failed to save barbershop.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}
