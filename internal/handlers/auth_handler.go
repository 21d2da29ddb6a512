package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/barberdesk/booking-api/internal/config"
	"github.com/barberdesk/booking-api/internal/httperr"
	"github.com/barberdesk/booking-api/internal/middleware"
	"github.com/barberdesk/booking-api/internal/models"
	"github.com/barberdesk/booking-api/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`

	// Present only when registering a barbershop owner.
	BarbershopName    string `json:"barbershop_name"`
	BarbershopSlug    string `json:"barbershop_slug"`
	BarbershopPhone   string `json:"barbershop_phone"`
	BarbershopAddress string `json:"barbershop_address"`
	BarbershopTZ      string `json:"barbershop_timezone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_email_domain"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         middleware.RoleClient,
	}

	var shop *models.Barbershop

	// A slug in the payload means owner registration: shop + owner account.
	// One transaction, so a failed user insert never leaves an orphan shop
	// holding the slug.
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if req.BarbershopSlug != "" {
			if req.BarbershopName == "" {
				return httperr.ErrBusiness("missing_barbershop_name")
			}

			slug := strings.ToLower(strings.TrimSpace(req.BarbershopSlug))

			var count int64
			if err := tx.Model(&models.Barbershop{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return httperr.ErrBusiness("slug_already_exists")
			}

			shop = &models.Barbershop{
				Name:     req.BarbershopName,
				Slug:     slug,
				Phone:    req.BarbershopPhone,
				Address:  req.BarbershopAddress,
				Timezone: req.BarbershopTZ,
			}
			if shop.Timezone == "" {
				shop.Timezone = h.config.DefaultTimezone
			}

			if err := tx.Create(shop).Error; err != nil {
				return err
			}

			user.Role = middleware.RoleOwner
			user.BarbershopID = &shop.ID
		}

		return tx.Create(&user).Error
	})
	if err != nil {
		status, body := registrationErrorBody(err)
		c.JSON(status, body)
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	resp := gin.H{
		"user":  userJSON(&user),
		"token": token,
	}
	if shop != nil {
		resp["barbershop"] = shopJSON(shop)
	}

	c.JSON(http.StatusCreated, resp)
}

// registrationErrorBody maps a failed registration transaction to a response:
// rule violations and duplicates are the caller's fault, the rest is ours.
func registrationErrorBody(err error) (int, gin.H) {
	switch {
	case httperr.IsBusiness(err, "missing_barbershop_name"):
		return http.StatusBadRequest, gin.H{"error": "missing_barbershop_name"}
	case httperr.IsBusiness(err, "slug_already_exists"):
		return http.StatusConflict, gin.H{"error": "slug_already_exists"}
	case httperr.IsUniqueViolation(err):
		// The only unique constraint left inside the transaction is the
		// user email; the slug was pre-checked above.
		return http.StatusConflict, gin.H{"error": "email_already_exists"}
	default:
		return http.StatusInternalServerError, gin.H{"error": "failed_to_register"}
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Preload("Barbershop").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	resp := gin.H{
		"user":  userJSON(&user),
		"token": token,
	}
	if user.Barbershop != nil {
		resp["barbershop"] = shopJSON(user.Barbershop)
	}

	c.JSON(http.StatusOK, resp)
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	if user.BarbershopID != nil {
		claims["barbershopId"] = *user.BarbershopID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

// --------- JSON shapes ---------

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":            u.ID,
		"name":          u.Name,
		"email":         u.Email,
		"phone":         u.Phone,
		"role":          u.Role,
		"barbershop_id": u.BarbershopID,
	}
}

func shopJSON(s *models.Barbershop) gin.H {
	return gin.H{
		"id":        s.ID,
		"name":      s.Name,
		"slug":      s.Slug,
		"phone":     s.Phone,
		"address":   s.Address,
		"timezone":  s.Timezone,
		"photo_url": s.PhotoURL,
	}
}
