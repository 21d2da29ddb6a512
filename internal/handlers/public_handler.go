package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/barberdesk/booking-api/internal/domain/appointment"
	"github.com/barberdesk/booking-api/internal/httperr"
	"github.com/barberdesk/booking-api/internal/httpresp"
	"github.com/barberdesk/booking-api/internal/middleware"
	"github.com/barberdesk/booking-api/internal/models"
	"github.com/barberdesk/booking-api/internal/notify"
	ucAppointment "github.com/barberdesk/booking-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// PublicHandler serves the slug-scoped booking surface clients hit from a
// shop's public page: profile, services, availability and booking itself.
type PublicHandler struct {
	db             *gorm.DB
	availabilityUC *ucAppointment.GetAvailability
	createUC       *ucAppointment.CreateAppointment
	hub            *notify.Hub
}

func NewPublicHandler(
	db *gorm.DB,
	availabilityUC *ucAppointment.GetAvailability,
	createUC *ucAppointment.CreateAppointment,
	hub *notify.Hub,
) *PublicHandler {
	return &PublicHandler{
		db:             db,
		availabilityUC: availabilityUC,
		createUC:       createUC,
		hub:            hub,
	}
}

func (h *PublicHandler) shopBySlug(c *gin.Context) (*models.Barbershop, bool) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))

	var shop models.Barbershop
	if err := h.db.Where("slug = ?", slug).First(&shop).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "barbershop_not_found", "Barbershop not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_barbershop", "Failed to load barbershop.")
		return nil, false
	}

	return &shop, true
}

// ======================================================
// PROFILE + SERVICES
// ======================================================

func (h *PublicHandler) GetBarbershop(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	httpresp.OK(c, shopJSON(shop))
}

func (h *PublicHandler) ListServices(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	var services []models.Service
	if err := h.db.
		Where("barbershop_id = ? AND active = ?", shop.ID, true).
		Order("id ASC").
		Find(&services).Error; err != nil {

		httperr.Internal(c, "failed_to_list_services", "Failed to list services.")
		return
	}

	httpresp.List(c, services)
}

// ======================================================
// AVAILABILITY
// ======================================================

// GetAvailability lists the free half-hour slots of a day. Sits behind the
// response cache, so a freshly taken slot may linger here until the TTL
// runs out; the booking insert is what actually decides.
func (h *PublicHandler) GetAvailability(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Date is required (YYYY-MM-DD).")
		return
	}

	date, err := parseDateInShop(shop, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return
	}

	slots, err := h.availabilityUC.Execute(c.Request.Context(), domain.AvailabilityInput{
		BarbershopID: shop.ID,
		Date:         date,
	})
	if err != nil {
		httperr.Internal(c, "failed_to_get_availability", "Failed to compute availability.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

// ======================================================
// BOOKING
// ======================================================

type BookAppointmentRequest struct {
	ServiceID uint   `json:"service_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
	Notes     string `json:"notes"`
}

func (h *PublicHandler) BookAppointment(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextUserID).(uint)

	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "service_id, date and time are required.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		BarbershopID: shop.ID,
		ClientID:     clientID,
		ServiceID:    req.ServiceID,
		Date:         req.Date,
		Time:         req.Time,
		Notes:        req.Notes,
	})
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	h.hub.Broadcast(shop.ID, notify.Event{
		Type: "notification",
		Payload: gin.H{
			"event":          "appointment_created",
			"appointment_id": ap.ID,
			"date":           ap.Date.Format("2006-01-02"),
			"time":           ap.Time,
		},
	})
	h.hub.Broadcast(shop.ID, notify.Event{
		Type:    "metrics-update",
		Payload: gin.H{"reason": "appointment_created"},
	})

	httpresp.Created(c, gin.H{
		"id":        ap.ID,
		"reference": ap.Reference,
		"date":      ap.Date.Format("2006-01-02"),
		"time":      ap.Time,
		"status":    ap.Status,
	})
}

// ======================================================
// REVIEWS
// ======================================================

func (h *PublicHandler) ListReviews(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	var reviews []models.Review
	if err := h.db.
		Where("barbershop_id = ?", shop.ID).
		Order("created_at DESC").
		Limit(100).
		Find(&reviews).Error; err != nil {

		httperr.Internal(c, "failed_to_list_reviews", "Failed to list reviews.")
		return
	}

	var avg struct {
		Avg   float64
		Count int64
	}
	h.db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("barbershop_id = ?", shop.ID).
		Scan(&avg)

	c.JSON(http.StatusOK, gin.H{
		"average": avg.Avg,
		"total":   avg.Count,
		"reviews": reviews,
	})
}
