package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const policyModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || p.act == "manage" || r.act == p.act)
`

// Policy answers can(identity, action, resource) from the in-code table.
type Policy struct {
	enforcer *casbin.SyncedEnforcer
}

func NewPolicy() (*Policy, error) {
	m, err := model.NewModelFromString(policyModel)
	if err != nil {
		return nil, fmt.Errorf("policy model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("policy enforcer: %w", err)
	}

	var rules [][]string
	for role, perms := range policyRows {
		for _, perm := range perms {
			rules = append(rules, []string{role, perm.Resource, perm.Action})
		}
	}
	if _, err := enforcer.AddPolicies(rules); err != nil {
		return nil, fmt.Errorf("policy rules: %w", err)
	}
	var groups [][]string
	for _, edge := range roleInheritance {
		groups = append(groups, []string{edge[0], edge[1]})
	}
	if _, err := enforcer.AddGroupingPolicies(groups); err != nil {
		return nil, fmt.Errorf("policy groups: %w", err)
	}
	return &Policy{enforcer: enforcer}, nil
}

func (p *Policy) Can(identity Identity, action, resource string) (bool, error) {
	if identity.UserID == "" || identity.Role == "" {
		return false, nil
	}
	return p.enforcer.Enforce(identity.Role, resource, action)
}
