package auth

import (
	"context"
	"runtime"

	"github.com/you/allospace/domain"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// PasswordServiceImpl implements domain.PasswordService.
// bcrypt work is gated by a weighted semaphore so a burst of logins cannot
// occupy every CPU at once.
type PasswordServiceImpl struct {
	cost int
	gate *semaphore.Weighted
}

// NewPasswordService creates a new password service; cost <= 0 selects bcrypt.DefaultCost
func NewPasswordService(cost int) domain.PasswordService {
	return NewPasswordServiceWithWorkers(cost, runtime.GOMAXPROCS(0))
}

// NewPasswordServiceWithWorkers bounds concurrent hash operations to workers
func NewPasswordServiceWithWorkers(cost, workers int) domain.PasswordService {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if workers < 1 {
		workers = 1
	}
	return &PasswordServiceImpl{
		cost: cost,
		gate: semaphore.NewWeighted(int64(workers)),
	}
}

// Hash implements domain.PasswordService
func (p *PasswordServiceImpl) Hash(ctx context.Context, password string) (string, error) {
	if err := p.gate.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer p.gate.Release(1)

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.PasswordService
func (p *PasswordServiceImpl) Verify(ctx context.Context, hashedPassword, password string) bool {
	if hashedPassword == "" {
		return false
	}
	if err := p.gate.Acquire(ctx, 1); err != nil {
		return false
	}
	defer p.gate.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
