package handlers

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifeblood-dev/lifeblood/db"
	"github.com/lifeblood-dev/lifeblood/internal/auth"
	"github.com/lifeblood-dev/lifeblood/internal/models"
	"github.com/lifeblood-dev/lifeblood/internal/services"
	"github.com/lifeblood-dev/lifeblood/internal/types"
	"github.com/lifeblood-dev/lifeblood/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	Mailer services.Mailer
}

type SendOtpRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Otp         string `json:"otp" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
	FullName    string `json:"full_name" binding:"required"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	BloodGroup  string `json:"blood_group" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

var (
	Domain = os.Getenv("DOMAIN")
)

const otpTTL = 10 * time.Minute

// SendOtp issues a six digit code to the email address and mails it. Any
// previous code for the address is invalidated.
func (h *AuthHandler) SendOtp(ctx *gin.Context) {
	var req SendOtpRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email address is required"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	code := fmt.Sprintf("%06d", rand.Intn(900000)+100000)

	if err := db.DB.Where("email = ?", email).Delete(&models.Otp{}).Error; err != nil {
		log.Printf("Failed to clear previous OTPs for %s: %v", email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	otp := models.Otp{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(otpTTL),
	}

	if err := db.DB.Create(&otp).Error; err != nil {
		log.Printf("Failed to store OTP for %s: %v", email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	body := fmt.Sprintf("<b>Your one-time password (OTP) is: %s</b><p>It is valid for 10 minutes.</p>", code)

	if err := h.Mailer.Send(email, "Your Verification Code for LifeBlood", body); err != nil {
		log.Printf("Failed to send OTP email to %s: %v", email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP email"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "OTP sent to your email address"})
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if !types.IsValidBloodGroup(req.BloodGroup) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid blood group"})
		return
	}

	var otp models.Otp

	err := db.DB.Where("email = ? AND code = ? AND expires_at > ?", req.Email, req.Otp, time.Now()).
		First(&otp).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP"})
			return
		}
		log.Printf("Database error when checking OTP: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var existingUser models.User

	err = db.DB.Where("email = ?", req.Email).First(&existingUser).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "User with this email already exists"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	role := types.RoleUser
	if req.Email == adminEmail() {
		role = types.RoleAdmin
	}

	newUser := models.User{
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		FullName:     req.FullName,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		BloodGroup:   req.BloodGroup,
		Role:         role,
	}

	if err := db.DB.Create(&newUser).Error; err != nil {
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := db.DB.Where("email = ?", req.Email).Delete(&models.Otp{}).Error; err != nil {
		log.Printf("Failed to clear OTPs for %s: %v", req.Email, err)
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User

	err := db.DB.Where("email = ?", req.Email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Role)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   Domain,
		MaxAge:   60 * 60 * 24,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})

	ctx.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": types.UserResponse{
			ID:          user.ID,
			FullName:    user.FullName,
			Email:       user.Email,
			Role:        user.Role,
			PhoneNumber: user.PhoneNumber,
			Address:     user.Address,
			BloodGroup:  user.BloodGroup,
		},
	})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:          user.ID,
			FullName:    user.FullName,
			Email:       user.Email,
			Role:        user.Role,
			PhoneNumber: user.PhoneNumber,
			Address:     user.Address,
			BloodGroup:  user.BloodGroup,
		},
	})
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		Domain:   Domain,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func adminEmail() string {
	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		return strings.ToLower(email)
	}
	return "admin@app.com"
}
