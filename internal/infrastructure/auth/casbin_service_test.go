package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/allospace/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSeedDefaultPolicies_Memory(t *testing.T) {
	svc, err := NewMemoryCasbinService("")
	require.NoError(t, err)

	require.NoError(t, SeedDefaultPolicies(svc.E))
	require.NoError(t, SeedDefaultPolicies(svc.E))

	policies, err := svc.E.GetPolicy()
	require.NoError(t, err)
	assert.Len(t, policies, len(DefaultPolicies), "seeding twice must not duplicate policies")

	tests := []struct {
		sub, obj, act string
		want          bool
	}{
		{RoleSubject(domain.RoleCustomer), "/user/me", "GET", true},
		{RoleSubject(domain.RoleHost), "/user/update", "PUT", true},
		{RoleSubject(domain.RoleHost), "/user/payment", "POST", true},
		{RoleSubject(domain.RoleCustomer), "/user/me", "DELETE", false},
		{"role_admin", "/user/me", "GET", false},
	}
	for _, tt := range tests {
		ok, err := svc.E.Enforce(tt.sub, tt.obj, tt.act)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "%s %s %s", tt.sub, tt.act, tt.obj)
	}
}

func TestNewCasbinService_GormAdapter(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:casbin_gorm_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	svc, err := NewCasbinService(db, "")
	require.NoError(t, err)
	require.NoError(t, SeedDefaultPolicies(svc.E))

	// a fresh enforcer over the same db sees the persisted rules
	again, err := NewCasbinService(db, "")
	require.NoError(t, err)
	ok, err := again.E.Enforce(RoleSubject(domain.RoleCustomer), "/user/me", "GET")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewMemoryCasbinService_BadModelPath(t *testing.T) {
	_, err := NewMemoryCasbinService("/does/not/exist.conf")
	assert.Error(t, err)
}
