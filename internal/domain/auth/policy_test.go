package auth

import "testing"

func TestPolicyTable(t *testing.T) {
	policy, err := NewPolicy()
	if err != nil {
		t.Fatalf("new policy: %v", err)
	}

	cases := []struct {
		role     string
		action   string
		resource string
		want     bool
	}{
		{RoleEmployee, ActCreate, ResLeave, true},
		{RoleEmployee, ActRead, ResEmployees, false},
		{RoleEmployee, ActReview, ResDocuments, false},
		{RoleLineManager, ActUpdate, ResLeave, true},
		{RoleLineManager, ActManage, ResEmployees, false},
		{RoleHeadOfUnit, ActRead, ResDocuments, true},
		{RoleHR, ActManage, ResEmployees, true},
		{RoleHR, ActRead, ResEmployees, true},
		{RoleHR, ActReview, ResDocuments, true},
		{RoleHR, ActCreate, ResLeave, true},
		{RoleHR, ActManage, ResSettings, false},
		{RoleHR, ActManage, ResRoles, false},
		{RoleAdmin, ActManage, ResSettings, true},
		{RoleAdmin, ActReview, ResDocuments, true},
	}

	for _, tc := range cases {
		t.Run(tc.role+"/"+tc.resource+"/"+tc.action, func(t *testing.T) {
			got, err := policy.Can(Identity{UserID: "u1", Role: tc.role}, tc.action, tc.resource)
			if err != nil {
				t.Fatalf("enforce: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestPolicyDeniesAnonymous(t *testing.T) {
	policy, err := NewPolicy()
	if err != nil {
		t.Fatalf("new policy: %v", err)
	}
	allowed, err := policy.Can(Identity{}, ActRead, ResLeave)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if allowed {
		t.Fatal("expected anonymous identity to be denied")
	}
}

func TestRolePermissionKeysIncludeInherited(t *testing.T) {
	keys := RolePermissionKeys(RoleHR)
	want := map[string]bool{"employees.manage": false, "leave.create": false}
	for _, key := range keys {
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for key, found := range want {
		if !found {
			t.Fatalf("expected hr to hold %s", key)
		}
	}
	if len(RolePermissionKeys(RoleAdmin)) != len(DefaultPermissions()) {
		t.Fatal("expected admin to hold every permission")
	}
}
