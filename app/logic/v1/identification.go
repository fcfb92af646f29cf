package v1

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/modlearn/modlearn/app/core"
	"github.com/modlearn/modlearn/pkg/errors"
	"github.com/modlearn/modlearn/pkg/i18n"
	"github.com/modlearn/modlearn/pkg/security"
)

type _userInfo struct {
	ctx  context.Context
	core *core.Core
	u    *security.TokenClaims
}

func (u *_userInfo) GetUserInfo() security.TokenClaims {
	return *u.u
}

// Identification 校验当前用户角色是否具备某权限
func (u *_userInfo) Identification(permission string) error {
	if !u.core.Srv().RBAC().CheckPermission(u.u.GetRole(), permission) {
		return errors.New("identification.permission", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden)
	}
	return nil
}

func SetupUserInfo(ctx context.Context, core *core.Core) UserInfo {
	userInfo, ok := InjectTokenClaim(ctx)
	if !ok {
		slog.Error("Not found user in context", slog.String("component", "logic.v1.setupUserInfo"))
		userInfo = security.TokenClaims{}
	}
	return &_userInfo{
		ctx:  ctx,
		u:    &userInfo,
		core: core,
	}
}

type UserInfo interface {
	GetUserInfo() security.TokenClaims
	Identification(permission string) error
}
