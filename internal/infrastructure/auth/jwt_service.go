package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/you/allospace/domain"
)

// JWTServiceImpl implements domain.TokenService
type JWTServiceImpl struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
	now       func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(secretKey string, issuer string, ttl time.Duration) *JWTServiceImpl {
	return &JWTServiceImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		ttl:       ttl,
		now:       time.Now,
	}
}

// generateJTI creates a unique JWT ID
func (j *JWTServiceImpl) generateJTI() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// Mint implements domain.TokenService
func (j *JWTServiceImpl) Mint(accountID string, role domain.Role) (string, time.Time, error) {
	jti, err := j.generateJTI()
	if err != nil {
		return "", time.Time{}, err
	}

	now := j.now()
	expiresAt := now.Add(j.ttl)
	claims := jwt.MapClaims{
		"sub":     accountID,
		"user_id": accountID,
		"role":    string(role),
		"iss":     j.issuer,
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
		"jti":     jti, // two tokens minted in the same second still differ
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify implements domain.TokenService
func (j *JWTServiceImpl) Verify(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenMalformed
		}
		return j.secretKey, nil
	},
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, domain.ErrTokenMalformed
		default:
			return nil, domain.ErrTokenInvalid
		}
	}

	if !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	accountID, ok := claims["user_id"].(string)
	if !ok || accountID == "" {
		return nil, domain.ErrTokenMalformed
	}

	role, _ := claims["role"].(string)
	iat, _ := claims["iat"].(float64)
	exp, _ := claims["exp"].(float64)
	jti, _ := claims["jti"].(string)

	return &domain.TokenClaims{
		ID:        jti,
		AccountID: accountID,
		Role:      domain.Role(role),
		IssuedAt:  int64(iat),
		ExpiresAt: int64(exp),
	}, nil
}

var _ domain.TokenService = (*JWTServiceImpl)(nil)
