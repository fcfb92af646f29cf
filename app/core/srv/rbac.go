package srv

import (
	"github.com/mikespook/gorbac/v2"

	"github.com/modlearn/modlearn/pkg/types"
)

const (
	// 定义权限ID
	PermissionAdmin  = "admin"
	PermissionCreate = "create"
	PermissionView   = "view"
)

// SetupRBACSrv 平台角色继承关系 admin > creator > user
func SetupRBACSrv() *RBACSrv {
	rbac := gorbac.New()

	pAdmin := gorbac.NewStdPermission(PermissionAdmin)
	pCreate := gorbac.NewStdPermission(PermissionCreate)
	pView := gorbac.NewStdPermission(PermissionView)

	roleAdmin := gorbac.NewStdRole(types.USER_ROLE_ADMIN)
	roleAdmin.Assign(pAdmin)

	roleCreator := gorbac.NewStdRole(types.USER_ROLE_CREATOR)
	roleCreator.Assign(pCreate)

	roleUser := gorbac.NewStdRole(types.USER_ROLE_USER)
	roleUser.Assign(pView)

	rbac.Add(roleAdmin)
	rbac.Add(roleCreator)
	rbac.Add(roleUser)

	rbac.SetParent(types.USER_ROLE_CREATOR, types.USER_ROLE_USER)
	rbac.SetParent(types.USER_ROLE_ADMIN, types.USER_ROLE_CREATOR)

	return &RBACSrv{
		rbac: rbac,
	}
}

type RBACSrv struct {
	rbac *gorbac.RBAC
}

// CheckPermission 检查角色是否有某权限
func (a *RBACSrv) CheckPermission(roleID, permissionID string) bool {
	return a.rbac.IsGranted(roleID, gorbac.NewStdPermission(permissionID), nil)
}
