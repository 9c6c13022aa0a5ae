package rbac

import "testing"

func TestHasPermission(t *testing.T) {
	cases := []struct {
		role       string
		permission string
		want       bool
	}{
		{RoleAdmin, PermissionUpdateProgress, true},
		{RoleAdmin, PermissionConfirmPayment, true},
		{RoleProjectManager, PermissionUpdateProgress, true},
		{RoleProjectManager, PermissionRestockMaterial, true},
		{RoleVendor, PermissionUpdatePrice, true},
		{RoleVendor, PermissionUpdateProgress, false},
		{RoleVendor, PermissionConfirmPayment, false},
		{RoleViewer, PermissionReadProjects, true},
		{RoleViewer, PermissionUpdateProgress, false},
		{RoleViewer, PermissionRestockMaterial, false},
		{"SUPERUSER", PermissionUpdateProgress, false},
		{"", PermissionReadProjects, false},
	}
	for _, tc := range cases {
		if got := HasPermission(tc.role, tc.permission); got != tc.want {
			t.Errorf("HasPermission(%q, %q) = %v, want %v", tc.role, tc.permission, got, tc.want)
		}
	}
}

func TestCheckPermission(t *testing.T) {
	if err := CheckPermission(RoleAdmin, PermissionConfirmPayment); err != nil {
		t.Fatalf("admin should be allowed, got %v", err)
	}

	err := CheckPermission(RoleViewer, PermissionConfirmPayment)
	if err == nil {
		t.Fatal("viewer must not confirm payments")
	}
	denied, ok := err.(*PermissionDeniedError)
	if !ok {
		t.Fatalf("expected *PermissionDeniedError, got %T", err)
	}
	if denied.Role != RoleViewer || denied.Permission != PermissionConfirmPayment {
		t.Fatalf("unexpected error detail: %+v", denied)
	}
}

func TestRoleIn(t *testing.T) {
	if !RoleIn(RoleProjectManager, RoleAdmin, RoleProjectManager) {
		t.Fatal("project manager should match the allow list")
	}
	if RoleIn(RoleVendor, RoleAdmin, RoleProjectManager) {
		t.Fatal("vendor should not match the allow list")
	}
	if RoleIn("", RoleAdmin) {
		t.Fatal("empty role should never match")
	}
	if RoleIn(RoleAdmin) {
		t.Fatal("empty allow list should reject everyone")
	}
}
