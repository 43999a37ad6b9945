package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/attorneycare/server/internal/apperr"
	"github.com/attorneycare/server/internal/db/models"
	"github.com/attorneycare/server/internal/services"
)

type AuthHandler struct {
	auth   *services.AuthService
	notify services.OtpSender
	audit  *services.AuditService
	logger *zap.Logger
}

func NewAuthHandler(auth *services.AuthService, notify services.OtpSender, audit *services.AuditService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		notify: notify,
		audit:  audit,
		logger: logger.With(zap.String("handler", "auth")),
	}
}

type signupRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	Phone        string `json:"phone"`
	Organization string `json:"organization"`
	Designation  string `json:"designation"`
	OtpEnabled   bool   `json:"otpEnabled"`
	OtpChannel   string `json:"otpChannel"`
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Otp        string `json:"otp"`
	OtpChannel string `json:"otpChannel"`
}

func userSummary(u *models.User) gin.H {
	return gin.H{"id": u.ID.Hex(), "name": u.Name, "role": u.Role, "email": u.Email}
}

// deliverOtp issues a fresh code and sends it over the requested channel.
// SMS needs a phone number on file.
func (h *AuthHandler) deliverOtp(c *gin.Context, user *models.User, channel string) error {
	if channel != services.ChannelSMS {
		channel = services.ChannelEmail
	}
	destination := user.Email
	if channel == services.ChannelSMS {
		destination = user.Phone
		if destination == "" {
			return apperr.Validation("Phone number required for SMS OTP")
		}
	}

	code, err := h.auth.IssueOtp(c.Request.Context(), user.ID)
	if err != nil {
		return err
	}
	return h.notify.SendOtp(c.Request.Context(), services.OtpMessage{
		Channel:     channel,
		Destination: destination,
		Code:        code,
	})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, apperr.Validation("Invalid request body"))
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		writeError(c, h.logger, apperr.Validation("Missing required fields"))
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		writeError(c, h.logger, apperr.Validation("Invalid role"))
		return
	}

	hash, err := h.auth.HashPassword(req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		Phone:        req.Phone,
		Organization: req.Organization,
		Designation:  req.Designation,
		OtpEnabled:   req.OtpEnabled,
	}
	if err := h.auth.CreateUser(c.Request.Context(), user); err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.audit.Record(services.AuditEntry{
		ActorID:    user.ID.Hex(),
		ActorRole:  string(user.Role),
		Action:     "USER_SIGNUP",
		EntityType: "USER",
		EntityID:   user.ID.Hex(),
		Metadata:   map[string]interface{}{"email": user.Email},
	})

	if user.OtpEnabled {
		if err := h.deliverOtp(c, user, req.OtpChannel); err != nil {
			writeError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":     "Signup successful. OTP required.",
			"otpRequired": true,
			"user":        userSummary(user),
		})
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": userSummary(user)})
}

// Login is a two-step protocol for OTP-enabled users: credentials alone
// trigger code delivery, credentials plus code complete the login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, apperr.Validation("Invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(c, h.logger, apperr.Validation("Email and password are required"))
		return
	}

	user, err := h.auth.FindUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if user == nil || !h.auth.CheckPassword(user, req.Password) {
		h.logger.Warn("Invalid credentials", zap.String("email", services.NormalizeEmail(req.Email)))
		writeError(c, h.logger, apperr.Auth("Invalid credentials"))
		return
	}

	if user.OtpEnabled {
		if req.Otp == "" {
			if err := h.deliverOtp(c, user, req.OtpChannel); err != nil {
				writeError(c, h.logger, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"otpRequired": true, "message": "OTP required for login"})
			return
		}

		ok, err := h.auth.VerifyOtp(c.Request.Context(), user.ID, req.Otp)
		if err != nil {
			writeError(c, h.logger, err)
			return
		}
		if !ok {
			writeError(c, h.logger, apperr.Auth("Invalid OTP"))
			return
		}
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.audit.Record(services.AuditEntry{
		ActorID:    user.ID.Hex(),
		ActorRole:  string(user.Role),
		Action:     "USER_LOGIN",
		EntityType: "USER",
		EntityID:   user.ID.Hex(),
		Metadata:   map[string]interface{}{"email": user.Email},
	})

	c.JSON(http.StatusOK, gin.H{"token": token, "user": userSummary(user)})
}

type otpRequest struct {
	Email      string `json:"email"`
	Otp        string `json:"otp"`
	OtpChannel string `json:"otpChannel"`
}

func (h *AuthHandler) RequestOtp(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		writeError(c, h.logger, apperr.Validation("Email is required"))
		return
	}

	user, err := h.auth.FindUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if user == nil || !user.OtpEnabled {
		writeError(c, h.logger, apperr.NotFound("OTP is not enabled for this user"))
		return
	}

	if err := h.deliverOtp(c, user, req.OtpChannel); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP generated", "otpRequired": true})
}

func (h *AuthHandler) VerifyOtp(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Otp == "" {
		writeError(c, h.logger, apperr.Validation("Email and OTP are required"))
		return
	}

	user, err := h.auth.FindUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if user == nil {
		writeError(c, h.logger, apperr.NotFound("User not found"))
		return
	}

	ok, err := h.auth.VerifyOtp(c.Request.Context(), user.ID, req.Otp)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if !ok {
		writeError(c, h.logger, apperr.Auth("Invalid OTP"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true})
}
