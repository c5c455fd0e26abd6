package auth

// Resources and actions understood by the policy table.
const (
	ResProfile       = "profile"
	ResEmployees     = "employees"
	ResRoles         = "roles"
	ResPermissions   = "permissions"
	ResDepartments   = "departments"
	ResLeave         = "leave"
	ResDocuments     = "documents"
	ResAppraisals    = "appraisals"
	ResAttendance    = "attendance"
	ResOnboarding    = "onboarding"
	ResNotifications = "notifications"
	ResIntegrations  = "integrations"
	ResSettings      = "settings"
	ResSystem        = "system"

	ActRead   = "read"
	ActCreate = "create"
	ActUpdate = "update"
	ActDelete = "delete"
	ActReview = "review"
	ActAudit  = "audit"
	ActManage = "manage"
)

// Permission names a resource/action pair as stored with roles.
type Permission struct {
	Resource string
	Action   string
}

func (p Permission) Key() string {
	return p.Resource + "." + p.Action
}

// policyRows is the single source of truth for coarse route access. Ownership
// and approval-stage rules live in the domain services.
var policyRows = map[string][]Permission{
	RoleEmployee: {
		{ResProfile, ActRead}, {ResProfile, ActUpdate},
		{ResLeave, ActRead}, {ResLeave, ActCreate}, {ResLeave, ActUpdate}, {ResLeave, ActDelete},
		{ResDocuments, ActRead}, {ResDocuments, ActCreate}, {ResDocuments, ActDelete},
		{ResAppraisals, ActRead}, {ResAppraisals, ActUpdate},
		{ResAttendance, ActRead}, {ResAttendance, ActCreate},
		{ResOnboarding, ActRead}, {ResOnboarding, ActUpdate},
		{ResNotifications, ActRead}, {ResNotifications, ActUpdate},
	},
	RoleHR: {
		{ResEmployees, ActManage},
		{ResDepartments, ActManage},
		{ResDocuments, ActReview}, {ResDocuments, ActAudit},
		{ResAppraisals, ActCreate}, {ResAppraisals, ActDelete},
	},
	RoleAdmin: {
		{"*", "*"},
	},
}

// roleInheritance lists which roles pick up another role's rows.
var roleInheritance = [][2]string{
	{RoleLineManager, RoleEmployee},
	{RoleHeadOfUnit, RoleEmployee},
	{RoleHR, RoleEmployee},
}

// DefaultPermissions is the catalogue seeded into the permissions collection.
func DefaultPermissions() []Permission {
	seen := map[string]bool{}
	var out []Permission
	for _, role := range BuiltinRoles {
		for _, perm := range policyRows[role] {
			if perm.Resource == "*" || seen[perm.Key()] {
				continue
			}
			seen[perm.Key()] = true
			out = append(out, perm)
		}
	}
	for _, extra := range []Permission{
		{ResRoles, ActManage}, {ResPermissions, ActManage}, {ResIntegrations, ActManage},
		{ResSettings, ActManage}, {ResSystem, ActManage},
	} {
		if !seen[extra.Key()] {
			seen[extra.Key()] = true
			out = append(out, extra)
		}
	}
	return out
}

// RolePermissionKeys lists the permission keys a built-in role holds,
// including inherited ones. Admin holds every key.
func RolePermissionKeys(role string) []string {
	if role == RoleAdmin {
		var keys []string
		for _, perm := range DefaultPermissions() {
			keys = append(keys, perm.Key())
		}
		return keys
	}
	roles := []string{role}
	for _, edge := range roleInheritance {
		if edge[0] == role {
			roles = append(roles, edge[1])
		}
	}
	seen := map[string]bool{}
	var keys []string
	for _, r := range roles {
		for _, perm := range policyRows[r] {
			if !seen[perm.Key()] {
				seen[perm.Key()] = true
				keys = append(keys, perm.Key())
			}
		}
	}
	return keys
}
