package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/barberdesk/booking-api/internal/httperr"
	"github.com/barberdesk/booking-api/internal/middleware"
	"github.com/barberdesk/booking-api/internal/models"
	"github.com/barberdesk/booking-api/internal/notify"
	ucAppointment "github.com/barberdesk/booking-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	createUC      *ucAppointment.CreateAppointment
	cancelUC      *ucAppointment.CancelAppointment
	completeUC    *ucAppointment.CompleteAppointment
	listByDateUC  *ucAppointment.ListAppointmentsByDate
	listByMonthUC *ucAppointment.ListAppointmentsByMonth
	listClientUC  *ucAppointment.ListAppointmentsForClient

	hub       *notify.Hub
	messenger notify.Messenger
}

func NewAppointmentHandler(
	db *gorm.DB,
	createUC *ucAppointment.CreateAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	completeUC *ucAppointment.CompleteAppointment,
	listByDateUC *ucAppointment.ListAppointmentsByDate,
	listByMonthUC *ucAppointment.ListAppointmentsByMonth,
	listClientUC *ucAppointment.ListAppointmentsForClient,
	hub *notify.Hub,
	messenger notify.Messenger,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:            db,
		createUC:      createUC,
		cancelUC:      cancelUC,
		completeUC:    completeUC,
		listByDateUC:  listByDateUC,
		listByMonthUC: listByMonthUC,
		listClientUC:  listClientUC,
		hub:           hub,
		messenger:     messenger,
	}
}

// ======================================================
// ERROR MAPPING
// ======================================================

// Business-rule violations are 409s per the API contract; malformed input
// is a 400. Nothing here is retried server-side.
func writeAppointmentError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "slot_taken"):
		httperr.Conflict(c, "slot_taken", "That time slot is already booked.")
	case httperr.IsBusiness(err, "slot_in_past"):
		httperr.Conflict(c, "slot_in_past", "That time slot has already passed.")
	case httperr.IsBusiness(err, "too_late_to_cancel"):
		httperr.Conflict(c, "too_late_to_cancel", "Appointments must be cancelled at least 1 hour in advance.")
	case httperr.IsBusiness(err, "invalid_state"):
		httperr.Conflict(c, "invalid_state", "The appointment is not in a state that allows this action.")
	case httperr.IsBusiness(err, "invalid_date_or_time"):
		httperr.BadRequest(c, "invalid_date_or_time", "Date must be YYYY-MM-DD and time a half-hour slot between 09:00 and 18:30.")
	case httperr.IsBusiness(err, "service_not_found"):
		httperr.BadRequest(c, "service_not_found", "Unknown or inactive service.")
	case httperr.IsBusiness(err, "appointment_not_found"):
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
	default:
		httperr.Internal(c, "appointment_error", "Something went wrong.")
	}
}

// ======================================================
// CLIENT
// ======================================================

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextUserID).(uint)

	aps, err := h.listClientUC.Execute(c.Request.Context(), clientID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Failed to list appointments.")
		return
	}

	c.JSON(http.StatusOK, aps)
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

func (h *AppointmentHandler) CancelMine(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	var req CancelAppointmentRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.cancelUC.Execute(c.Request.Context(), ucAppointment.CancelAppointmentInput{
		AppointmentID: uint(id),
		ActorID:       clientID,
		Reason:        req.Reason,
		AsClient:      true,
	})
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	h.broadcastBooking(ap, "appointment_cancelled")

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// OWNER
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}

	var shop models.Barbershop
	if err := h.db.First(&shop, barbershopID).Error; err != nil {
		httperr.Internal(c, "barbershop_not_found", "Barbershop not found.")
		return
	}

	date, err := parseDateInShop(&shop, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	out, err := h.listByDateUC.Execute(c.Request.Context(), barbershopID, date)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Failed to list appointments.")
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	out, err := h.listByMonthUC.Execute(c.Request.Context(), barbershopID, year, month)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Failed to list appointments.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": out,
	})
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	var req CancelAppointmentRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.cancelUC.Execute(c.Request.Context(), ucAppointment.CancelAppointmentInput{
		AppointmentID: uint(id),
		ActorID:       userID,
		Reason:        req.Reason,
		AsClient:      false,
		BarbershopID:  barbershopID,
	})
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	h.broadcastBooking(ap, "appointment_cancelled")
	h.notifyClient(c, ap, "Your appointment was cancelled by the barbershop.")

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	ap, err := h.completeUC.Execute(c.Request.Context(), barbershopID, userID, uint(id))
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	h.broadcastBooking(ap, "appointment_completed")

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// NOTIFICATIONS (fire-and-forget)
// ======================================================

func (h *AppointmentHandler) broadcastBooking(ap *models.Appointment, event string) {
	h.hub.Broadcast(ap.BarbershopID, notify.Event{
		Type: "notification",
		Payload: gin.H{
			"event":          event,
			"appointment_id": ap.ID,
			"date":           ap.Date.Format("2006-01-02"),
			"time":           ap.Time,
			"status":         ap.Status,
		},
	})
	h.hub.Broadcast(ap.BarbershopID, notify.Event{
		Type:    "metrics-update",
		Payload: gin.H{"reason": event},
	})
}

func (h *AppointmentHandler) notifyClient(c *gin.Context, ap *models.Appointment, body string) {
	var client models.User
	if err := h.db.First(&client, ap.ClientID).Error; err != nil || client.Phone == "" {
		return
	}
	h.messenger.Send(
		c.Request.Context(),
		client.Phone,
		fmt.Sprintf("%s (%s %s)", body, ap.Date.Format("2006-01-02"), ap.Time),
	)
}
