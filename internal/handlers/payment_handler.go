package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v79"
	"gorm.io/gorm"

	"github.com/barberdesk/booking-api/internal/audit"
	"github.com/barberdesk/booking-api/internal/httperr"
	"github.com/barberdesk/booking-api/internal/middleware"
	"github.com/barberdesk/booking-api/internal/models"
	"github.com/barberdesk/booking-api/internal/payments"
)

// ======================================================
// HANDLER
// ======================================================

type PaymentHandler struct {
	db      *gorm.DB
	gateway *payments.Gateway
	audit   *audit.Dispatcher
}

func NewPaymentHandler(db *gorm.DB, gateway *payments.Gateway, dispatcher *audit.Dispatcher) *PaymentHandler {
	return &PaymentHandler{db: db, gateway: gateway, audit: dispatcher}
}

// ======================================================
// CLIENT: open a payment intent
// ======================================================

type CreatePaymentRequest struct {
	AppointmentID uint `json:"appointment_id" binding:"required"`
}

func (h *PaymentHandler) Create(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextUserID).(uint)

	if h.gateway == nil || !h.gateway.Enabled() {
		httperr.Internal(c, "payments_not_configured", "Payments are not configured.")
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "appointment_id is required.")
		return
	}

	var ap models.Appointment
	if err := h.db.
		Preload("Service").
		Where("id = ? AND client_id = ?", req.AppointmentID, clientID).
		First(&ap).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_appointment", "Failed to load appointment.")
		return
	}

	if ap.Status == "cancelled" {
		httperr.Conflict(c, "invalid_state", "Cancelled appointments cannot be paid.")
		return
	}

	// One open payment per appointment. A failed one can be retried.
	var existing models.Payment
	err := h.db.
		Where("appointment_id = ? AND status IN ?", ap.ID, []string{"pending", "completed"}).
		First(&existing).Error
	if err == nil {
		httperr.Conflict(c, "payment_already_exists", "A payment for this appointment already exists.")
		return
	}
	if err != gorm.ErrRecordNotFound {
		httperr.Internal(c, "failed_to_create_payment", "Failed to create payment.")
		return
	}

	amount := payments.MinorUnits(ap.Service.Price)
	currency := "usd"

	intent, err := h.gateway.CreateIntent(amount, currency, ap.ID, ap.Reference)
	if err != nil {
		log.Error().Err(err).Uint("appointment_id", ap.ID).Msg("stripe intent creation failed")
		httperr.Internal(c, "failed_to_create_payment", "Payment provider rejected the request.")
		return
	}

	payment := models.Payment{
		AppointmentID:    ap.ID,
		BarbershopID:     ap.BarbershopID,
		Amount:           amount,
		Currency:         currency,
		Status:           "pending",
		ProviderIntentID: intent.ID,
	}

	if err := h.db.Create(&payment).Error; err != nil {
		httperr.Internal(c, "failed_to_create_payment", "Failed to create payment.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"payment_id":    payment.ID,
		"client_secret": intent.ClientSecret,
		"amount":        amount,
		"currency":      currency,
	})
}

// ======================================================
// OWNER: refund
// ======================================================

func (h *PaymentHandler) Refund(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	if h.gateway == nil || !h.gateway.Enabled() {
		httperr.Internal(c, "payments_not_configured", "Payments are not configured.")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid payment id.")
		return
	}

	var payment models.Payment
	if err := h.db.
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		First(&payment).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "payment_not_found", "Payment not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_payment", "Failed to load payment.")
		return
	}

	if payment.Status != "completed" {
		httperr.Conflict(c, "invalid_state", "Only completed payments can be refunded.")
		return
	}

	ref, err := h.gateway.Refund(payment.ProviderIntentID)
	if err != nil {
		log.Error().Err(err).Uint("payment_id", payment.ID).Msg("stripe refund failed")
		httperr.Internal(c, "failed_to_refund", "Payment provider rejected the refund.")
		return
	}

	payment.Status = "refunded"
	payment.ProviderRefundID = ref.ID
	if err := h.db.Save(&payment).Error; err != nil {
		httperr.Internal(c, "failed_to_refund", "Failed to record refund.")
		return
	}

	h.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		ActorID:      &userID,
		Action:       "payment_refunded",
		Entity:       "payment",
		EntityID:     &payment.ID,
		Metadata:     map[string]any{"refund_id": ref.ID},
	})

	c.JSON(http.StatusOK, payment)
}

// ======================================================
// STRIPE WEBHOOK
// ======================================================

// Webhook ingests Stripe's payment events. Auth is the signature header;
// unknown event types are acknowledged and dropped so Stripe stops
// redelivering them.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	if h.gateway == nil || !h.gateway.Enabled() {
		c.Status(http.StatusServiceUnavailable)
		return
	}

	const maxBody = 64 << 10
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBody))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	event, err := h.gateway.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		log.Warn().Err(err).Msg("stripe webhook signature rejected")
		c.Status(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		h.settleIntent(event, "completed")
	case "payment_intent.payment_failed":
		h.settleIntent(event, "failed")
	default:
		log.Debug().Str("type", string(event.Type)).Msg("ignoring stripe event")
	}

	c.Status(http.StatusOK)
}

func (h *PaymentHandler) settleIntent(event stripe.Event, status string) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		log.Error().Err(err).Msg("malformed stripe event payload")
		return
	}

	res := h.db.Model(&models.Payment{}).
		Where("provider_intent_id = ? AND status = ?", intent.ID, "pending").
		Update("status", status)
	if res.Error != nil {
		log.Error().Err(res.Error).Str("intent_id", intent.ID).Msg("failed to settle payment")
		return
	}
	if res.RowsAffected == 0 {
		log.Warn().Str("intent_id", intent.ID).Msg("stripe event for unknown or settled payment")
		return
	}

	log.Info().Str("intent_id", intent.ID).Str("status", status).Msg("payment settled")
}
