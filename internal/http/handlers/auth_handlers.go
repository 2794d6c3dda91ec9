package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/allospace/domain"
)

// AuthHandlers handles signup, login and password reset requests
type AuthHandlers struct {
	svc     domain.AccountService
	cookies CookiePolicy
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(svc domain.AccountService, cookies CookiePolicy) *AuthHandlers {
	return &AuthHandlers{svc: svc, cookies: cookies}
}

// SignupRequest represents signup request
type SignupRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	CompanyName string `json:"companyName"`
	Address     string `json:"address"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents login request. Presence is checked by the service
// so that both fields are reported with one message.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleLoginRequest carries the identity provider's ID token
type GoogleLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

// ForgotPasswordRequest represents a password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest carries the replacement password
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// Signup handles account registration
func (h *AuthHandlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(&domain.BodyError{Err: err})
		return
	}

	result, err := h.svc.Signup(c.Request.Context(), domain.SignupInput{
		Name:        req.Name,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
		Address:     req.Address,
		Country:     req.Country,
		City:        req.City,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.cookies.setSessionCookie(c, result.Token)
	c.JSON(http.StatusCreated, gin.H{
		"message": "User Registered successfully",
		"success": true,
		"email":   result.Account.Email,
		"token":   result.Token,
	})
}

// Login handles password authentication
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(&domain.BodyError{Err: err})
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.cookies.setSessionCookie(c, result.Token)
	c.JSON(http.StatusCreated, gin.H{
		"message": "User logged in successfully",
		"success": true,
		"role":    result.Account.Role,
		"token":   result.Token,
		"user":    newUserResponse(result.Account),
	})
}

// GoogleLogin handles federated login with a Google ID token
func (h *AuthHandlers) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(&domain.BodyError{Err: err})
		return
	}

	result, err := h.svc.FederatedLogin(c.Request.Context(), req.Token)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.cookies.setSessionCookie(c, result.Token)
	c.JSON(http.StatusOK, gin.H{
		"message": "User logged in successfully",
		"success": true,
		"token":   result.Token,
		"user":    newUserResponse(result.Account),
	})
}

// Logout clears the session cookie
func (h *AuthHandlers) Logout(c *gin.Context) {
	h.cookies.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

// ForgotPassword emails a single-use reset link
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(&domain.BodyError{Err: err})
		return
	}

	if err := h.svc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": "Email Sent"})
}

// ResetPassword redeems a reset token and signs the account in
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(&domain.BodyError{Err: err})
		return
	}

	result, err := h.svc.CompletePasswordReset(c.Request.Context(), c.Param("resetToken"), req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.cookies.setSessionCookie(c, result.Token)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    "Password Updated Success",
		"token":   result.Token,
	})
}
