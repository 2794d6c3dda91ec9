package auth

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordServiceImpl_HashAndVerify(t *testing.T) {
	svc := NewPasswordServiceWithWorkers(bcrypt.MinCost, 2)
	ctx := context.Background()

	hash, err := svc.Hash(ctx, "secret123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "secret123" {
		t.Fatal("hash must not equal the plaintext")
	}

	tests := []struct {
		name     string
		hash     string
		password string
		want     bool
	}{
		{name: "matching password", hash: hash, password: "secret123", want: true},
		{name: "wrong password", hash: hash, password: "secret124", want: false},
		{name: "empty hash (federated account)", hash: "", password: "secret123", want: false},
		{name: "garbage hash", hash: "not-a-bcrypt-hash", password: "secret123", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.Verify(ctx, tt.hash, tt.password); got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPasswordServiceImpl_SaltedHashesDiffer(t *testing.T) {
	svc := NewPasswordServiceWithWorkers(bcrypt.MinCost, 1)
	ctx := context.Background()

	h1, err := svc.Hash(ctx, "samepassword")
	if err != nil {
		t.Fatal(err)
	}
	h2, err := svc.Hash(ctx, "samepassword")
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should differ")
	}
}

func TestPasswordServiceImpl_CancelledContext(t *testing.T) {
	svc := NewPasswordServiceWithWorkers(bcrypt.MinCost, 1).(*PasswordServiceImpl)

	// occupy the only worker slot
	if err := svc.gate.Acquire(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	defer svc.gate.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Hash(ctx, "secret123"); err == nil {
		t.Error("expected Hash to fail when the context is cancelled while waiting")
	}
	if svc.Verify(ctx, "$2a$04$abc", "secret123") {
		t.Error("expected Verify to fail closed when the context is cancelled")
	}
}
