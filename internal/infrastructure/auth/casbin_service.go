package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/you/allospace/domain"
	"gorm.io/gorm"
)

// DefaultModel is a RESTful RBAC model; subjects are "role_<role>"
const DefaultModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// DefaultPolicies grant both marketplace roles access to their own profile routes
var DefaultPolicies = [][]string{
	{"role_customer", "/user/me", "GET"},
	{"role_customer", "/user/update", "PUT"},
	{"role_customer", "/user/payment", "POST"},
	{"role_host", "/user/me", "GET"},
	{"role_host", "/user/update", "PUT"},
	{"role_host", "/user/payment", "POST"},
}

// RoleSubject maps a role to its policy subject
func RoleSubject(role domain.Role) string {
	return "role_" + string(role)
}

type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService builds an enforcer persisted through the gorm adapter.
// An empty modelPath selects DefaultModel.
func NewCasbinService(db *gorm.DB, modelPath string) (*CasbinService, error) {
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("casbin adapter: %w", err)
	}
	m, err := loadModel(modelPath)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m, adp)
	if err != nil {
		return nil, err
	}
	if err := e.LoadPolicy(); err != nil {
		return nil, err
	}
	return &CasbinService{E: e}, nil
}

// NewMemoryCasbinService builds an enforcer without persistence, used with the document store
func NewMemoryCasbinService(modelPath string) (*CasbinService, error) {
	m, err := loadModel(modelPath)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	return &CasbinService{E: e}, nil
}

func loadModel(modelPath string) (model.Model, error) {
	if modelPath != "" {
		m, err := model.NewModelFromFile(modelPath)
		if err != nil {
			return nil, fmt.Errorf("casbin model %s: %w", modelPath, err)
		}
		return m, nil
	}
	return model.NewModelFromString(DefaultModel)
}

// SeedDefaultPolicies adds any missing DefaultPolicies; with an adapter each add is auto-saved
func SeedDefaultPolicies(e domain.CasbinEnforcer) error {
	existing, err := e.GetPolicy()
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, p := range existing {
		if len(p) >= 3 {
			have[p[0]+" "+p[1]+" "+p[2]] = true
		}
	}

	for _, p := range DefaultPolicies {
		if have[p[0]+" "+p[1]+" "+p[2]] {
			continue
		}
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return fmt.Errorf("add policy %v: %w", p, err)
		}
	}
	return nil
}
