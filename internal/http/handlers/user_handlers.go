package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/allospace/domain"
	"github.com/you/allospace/internal/http/middleware"
)

// UserHandlers serves the authenticated account's own profile
type UserHandlers struct {
	svc domain.AccountService
}

// NewUserHandlers creates new user handlers
func NewUserHandlers(svc domain.AccountService) *UserHandlers {
	return &UserHandlers{svc: svc}
}

// UpdateProfileRequest is a partial profile; absent fields are left untouched
type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	CompanyName *string `json:"companyName"`
	Address     *string `json:"address"`
	Country     *string `json:"country"`
	City        *string `json:"city"`
	Avatar      *string `json:"avatar"`
}

// PaymentRequest carries the settlement details for payment onboarding
type PaymentRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Bank          string `json:"bank"`
	AccountNumber string `json:"account_number"`
}

// Update applies a partial profile update
func (h *UserHandlers) Update(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(&domain.BodyError{Err: err})
		return
	}

	account, err := h.svc.UpdateProfile(c.Request.Context(), middleware.AccountID(c), domain.ProfileUpdate{
		Name:        req.Name,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
		Address:     req.Address,
		Country:     req.Country,
		City:        req.City,
		Avatar:      req.Avatar,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    newUserResponse(account),
		"message": "User updated successfully",
	})
}

// Me returns the caller's profile
func (h *UserHandlers) Me(c *gin.Context) {
	account, err := h.svc.GetProfile(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": newUserResponse(account)})
}

// Payment registers the caller with the payment provider
func (h *UserHandlers) Payment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(&domain.BodyError{Err: err})
		return
	}

	profile, err := h.svc.BeginPaymentOnboarding(c.Request.Context(), middleware.AccountID(c), domain.PaymentInput{
		BusinessName:  req.Name,
		Email:         req.Email,
		BankName:      req.Bank,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Payment details saved successfully",
		"paymentDetails": newPaymentDetails(profile),
	})
}
