package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/barberdesk/booking-api/internal/audit"
	"github.com/barberdesk/booking-api/internal/httperr"
	"github.com/barberdesk/booking-api/internal/httpresp"
	"github.com/barberdesk/booking-api/internal/middleware"
	"github.com/barberdesk/booking-api/internal/models"
)

type ReviewHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewReviewHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *ReviewHandler {
	return &ReviewHandler{db: db, audit: dispatcher}
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// Create posts a review on a shop. One review per client per shop; an
// out-of-range rating is a rule violation, not a malformed request.
func (h *ReviewHandler) Create(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextUserID).(uint)

	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))

	var shop models.Barbershop
	if err := h.db.Where("slug = ?", slug).First(&shop).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "barbershop_not_found", "Barbershop not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_barbershop", "Failed to load barbershop.")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "rating is required.")
		return
	}

	if req.Rating < 1 || req.Rating > 5 {
		httperr.Conflict(c, "invalid_rating", "Rating must be between 1 and 5.")
		return
	}

	// A client only gets to review a shop they were actually served by.
	var completed int64
	if err := h.db.Model(&models.Appointment{}).
		Where("barbershop_id = ? AND client_id = ? AND status = ?",
			shop.ID, clientID, "completed").
		Count(&completed).Error; err != nil {

		httperr.Internal(c, "failed_to_create_review", "Failed to create review.")
		return
	}
	if completed == 0 {
		httperr.Conflict(c, "no_completed_appointment", "Reviews require a completed appointment at this barbershop.")
		return
	}

	var existing int64
	h.db.Model(&models.Review{}).
		Where("barbershop_id = ? AND client_id = ?", shop.ID, clientID).
		Count(&existing)
	if existing > 0 {
		httperr.Conflict(c, "already_reviewed", "You have already reviewed this barbershop.")
		return
	}

	review := models.Review{
		BarbershopID: shop.ID,
		ClientID:     clientID,
		Rating:       req.Rating,
		Comment:      strings.TrimSpace(req.Comment),
	}

	if err := h.db.Create(&review).Error; err != nil {
		httperr.Internal(c, "failed_to_create_review", "Failed to create review.")
		return
	}

	h.audit.Dispatch(audit.Event{
		BarbershopID: shop.ID,
		ActorID:      &clientID,
		Action:       "review_created",
		Entity:       "review",
		EntityID:     &review.ID,
		Metadata:     map[string]any{"rating": req.Rating},
	})

	httpresp.Created(c, review)
}
