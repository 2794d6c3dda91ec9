package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/you/allospace/domain"
	"github.com/you/allospace/internal/http/middleware"
)

// PaymentDetailsResponse is the public view of a payment profile
type PaymentDetailsResponse struct {
	BusinessName         string `json:"businessName"`
	BankName             string `json:"bankName"`
	BankAccountDetails   string `json:"bankAccountDetails"`
	PaystackSubaccountID string `json:"paystackSubaccountId"`
}

// UserResponse is the public view of an account. It never carries the
// password hash or reset credential.
type UserResponse struct {
	ID             string                  `json:"id"`
	Email          string                  `json:"email"`
	Name           string                  `json:"name"`
	PhoneNumber    string                  `json:"phoneNumber"`
	Role           domain.Role             `json:"role"`
	CompanyName    string                  `json:"companyName"`
	Address        string                  `json:"address"`
	Country        string                  `json:"country"`
	City           string                  `json:"city"`
	Avatar         string                  `json:"avatar,omitempty"`
	PaymentDetails *PaymentDetailsResponse `json:"paymentDetails,omitempty"`
	CreatedAt      time.Time               `json:"createdAt"`
}

func newPaymentDetails(p *domain.PaymentProfile) *PaymentDetailsResponse {
	if p == nil {
		return nil
	}
	return &PaymentDetailsResponse{
		BusinessName:         p.BusinessName,
		BankName:             p.BankName,
		BankAccountDetails:   p.AccountNumber,
		PaystackSubaccountID: p.SubaccountID,
	}
}

func newUserResponse(a *domain.Account) UserResponse {
	return UserResponse{
		ID:             a.ID,
		Email:          a.Email,
		Name:           a.Name,
		PhoneNumber:    a.Phone,
		Role:           a.Role,
		CompanyName:    a.CompanyName,
		Address:        a.Address,
		Country:        a.Country,
		City:           a.City,
		Avatar:         a.Avatar,
		PaymentDetails: newPaymentDetails(a.Payment),
		CreatedAt:      a.CreatedAt,
	}
}

// CookiePolicy decides the attributes of the session cookie
type CookiePolicy struct {
	Production bool
	MaxAge     time.Duration
}

func (p CookiePolicy) setSessionCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, p.cookie(token, int(p.MaxAge.Seconds())))
}

func (p CookiePolicy) clearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, p.cookie("", -1))
}

func (p CookiePolicy) cookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if p.Production {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   p.Production,
		SameSite: sameSite,
	}
}
