package rbac

// 角色常量，来自 auth service 的角色定义
const (
	RoleAdmin          = "ADMIN"
	RoleProjectManager = "PROJECT_MANAGER"
	RoleVendor         = "VENDOR"
	RoleViewer         = "VIEWER"
)

// 权限常量
const (
	PermissionUpdateProgress  = "progress:update"
	PermissionConfirmPayment  = "payments:confirm"
	PermissionViewPayments    = "payments:read"
	PermissionRestockMaterial = "materials:restock"
	PermissionUpdatePrice     = "materials:update_price"
	PermissionManageProjects  = "projects:write"
	PermissionReadProjects    = "projects:read"
)

// 角色权限映射
var rolePermissions = map[string][]string{
	RoleAdmin: {
		PermissionUpdateProgress,
		PermissionConfirmPayment,
		PermissionViewPayments,
		PermissionRestockMaterial,
		PermissionUpdatePrice,
		PermissionManageProjects,
		PermissionReadProjects,
	},
	RoleProjectManager: {
		PermissionUpdateProgress,
		PermissionConfirmPayment,
		PermissionViewPayments,
		PermissionRestockMaterial,
		PermissionUpdatePrice,
		PermissionManageProjects,
		PermissionReadProjects,
	},
	RoleVendor: {
		PermissionUpdatePrice,
	},
	RoleViewer: {
		PermissionViewPayments,
		PermissionReadProjects,
	},
}

// HasPermission 检查角色是否有指定权限
func HasPermission(role string, permission string) bool {
	permissions, ok := rolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// CheckPermission 检查角色权限，失败返回类型化错误便于处理
func CheckPermission(role string, permission string) error {
	if !HasPermission(role, permission) {
		return &PermissionDeniedError{
			Role:       role,
			Permission: permission,
		}
	}
	return nil
}

// RoleIn 判断角色是否在允许列表中（网关按路径做白名单用）
func RoleIn(role string, allowed ...string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// PermissionDeniedError 表示权限不足的错误
type PermissionDeniedError struct {
	Role       string
	Permission string
}

func (e *PermissionDeniedError) Error() string {
	return "insufficient permissions"
}
