package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/barberdesk/booking-api/internal/httperr"
	"github.com/barberdesk/booking-api/internal/middleware"
	"github.com/barberdesk/booking-api/internal/models"
)

type AnalyticsHandler struct {
	db *gorm.DB
}

func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{db: db}
}

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type dayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// Summary aggregates a shop's booking activity over a period (?from=&to=,
// both YYYY-MM-DD; defaults to the last 30 days). Revenue only counts
// settled payments, in minor units.
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var shop models.Barbershop
	if err := h.db.First(&shop, barbershopID).Error; err != nil {
		httperr.Internal(c, "barbershop_not_found", "Barbershop not found.")
		return
	}

	to := time.Now().In(locationFromShop(&shop))
	from := to.AddDate(0, 0, -30)

	if s := c.Query("from"); s != "" {
		parsed, err := parseDateInShop(&shop, s)
		if err != nil {
			httperr.BadRequest(c, "invalid_from", "from must be YYYY-MM-DD.")
			return
		}
		from = parsed
	}
	if s := c.Query("to"); s != "" {
		parsed, err := parseDateInShop(&shop, s)
		if err != nil {
			httperr.BadRequest(c, "invalid_to", "to must be YYYY-MM-DD.")
			return
		}
		to = parsed.AddDate(0, 0, 1)
	}

	if !from.Before(to) {
		httperr.BadRequest(c, "invalid_period", "from must be before to.")
		return
	}

	var byStatus []statusCount
	if err := h.db.Model(&models.Appointment{}).
		Select("status, COUNT(*) AS count").
		Where("barbershop_id = ? AND date >= ? AND date < ?", barbershopID, from, to).
		Group("status").
		Scan(&byStatus).Error; err != nil {

		httperr.Internal(c, "failed_to_compute_analytics", "Failed to compute analytics.")
		return
	}

	var perDay []dayCount
	if err := h.db.Model(&models.Appointment{}).
		Select("TO_CHAR(date, 'YYYY-MM-DD') AS day, COUNT(*) AS count").
		Where("barbershop_id = ? AND date >= ? AND date < ? AND status <> ?",
			barbershopID, from, to, "cancelled").
		Group("day").
		Order("day ASC").
		Scan(&perDay).Error; err != nil {

		httperr.Internal(c, "failed_to_compute_analytics", "Failed to compute analytics.")
		return
	}

	var revenue struct {
		Total int64
	}
	h.db.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("barbershop_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			barbershopID, "completed", from, to).
		Scan(&revenue)

	var rating struct {
		Avg   float64
		Count int64
	}
	h.db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("barbershop_id = ?", barbershopID).
		Scan(&rating)

	c.JSON(http.StatusOK, gin.H{
		"period": gin.H{
			"from": from.Format("2006-01-02"),
			"to":   to.AddDate(0, 0, -1).Format("2006-01-02"),
		},
		"appointments_by_status": byStatus,
		"appointments_per_day":   perDay,
		"revenue_minor_units":    revenue.Total,
		"rating": gin.H{
			"average": rating.Avg,
			"total":   rating.Count,
		},
	})
}
