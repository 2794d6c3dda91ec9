package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"github.com/you/allospace/domain"
)

const resetTokenBytes = 20

// ResetTokenServiceImpl implements domain.ResetTokenService
type ResetTokenServiceImpl struct{}

func NewResetTokenService() *ResetTokenServiceImpl {
	return &ResetTokenServiceImpl{}
}

// Generate implements domain.ResetTokenService
func (s *ResetTokenServiceImpl) Generate() (string, string, error) {
	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	plain := hex.EncodeToString(raw)
	return plain, s.Hash(plain), nil
}

// Hash implements domain.ResetTokenService
func (s *ResetTokenServiceImpl) Hash(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

var _ domain.ResetTokenService = (*ResetTokenServiceImpl)(nil)
