package v1

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/modlearn/modlearn/app/core"
	"github.com/modlearn/modlearn/app/core/srv"
	"github.com/modlearn/modlearn/pkg/auth"
	"github.com/modlearn/modlearn/pkg/errors"
	"github.com/modlearn/modlearn/pkg/i18n"
	"github.com/modlearn/modlearn/pkg/types"
	"github.com/modlearn/modlearn/pkg/utils"
)

type UserLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewUserLogic(ctx context.Context, core *core.Core) *UserLogic {
	l := &UserLogic{
		ctx:  ctx,
		core: core,
	}

	return l
}

func (l *UserLogic) Register(name, email, password string) (string, error) {
	exist, err := l.core.Store().UserStore().GetByEmail(l.ctx, email)
	if err != nil && err != sql.ErrNoRows {
		return "", errors.New("UserLogic.Register.UserStore.GetByEmail", i18n.ERROR_INTERNAL, err)
	}
	if exist != nil {
		return "", errors.New("UserLogic.Register.email_exist", i18n.ERROR_EMAIL_ALREADY_REGISTED, nil).Code(http.StatusBadRequest)
	}

	salt := utils.RandomStr(10)
	userID := utils.GenUniqIDStr()

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		err := l.core.Store().UserStore().Create(ctx, types.User{
			ID:        userID,
			Name:      name,
			Email:     email,
			Salt:      salt,
			Password:  utils.GenUserPassword(salt, password),
			Role:      types.USER_ROLE_USER,
			UpdatedAt: time.Now().Unix(),
			CreatedAt: time.Now().Unix(),
		})
		if err != nil {
			return errors.New("UserLogic.Register.UserStore.Create", i18n.ERROR_INTERNAL, err)
		}

		// 注册即建购物车，后续加购不再处理购物车缺失
		err = l.core.Store().CartStore().Create(ctx, types.Cart{
			ID:        utils.GenUniqIDStr(),
			UserID:    userID,
			CreatedAt: time.Now().Unix(),
		})
		if err != nil {
			return errors.New("UserLogic.Register.CartStore.Create", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return userID, nil
}

func (l *UserLogic) Login(email, password string) (string, error) {
	user, err := l.core.Store().UserStore().GetByEmail(l.ctx, email)
	if err != nil && err != sql.ErrNoRows {
		return "", errors.New("UserLogic.Login.UserStore.GetByEmail", i18n.ERROR_INTERNAL, err)
	}

	if user == nil || user.Password != utils.GenUserPassword(user.Salt, password) {
		return "", errors.New("UserLogic.Login.Password.check", i18n.ERROR_LOGIN_ACCOUNT_INCORRECT, err).Code(http.StatusBadRequest)
	}

	expiresAt := time.Now().Unix() + l.core.Cfg().Security.TokenExpire()
	accessToken := utils.MD5(user.ID + utils.GenRandomID())
	err = l.core.Store().AccessTokenStore().Create(l.ctx, types.AccessToken{
		UserID:    user.ID,
		Token:     accessToken,
		Version:   types.DEFAULT_ACCESS_TOKEN_VERSION,
		Info:      "login",
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().Unix(),
	})
	if err != nil {
		return "", errors.New("UserLogic.Login.AccessTokenStore.Create", i18n.ERROR_INTERNAL, err)
	}

	// 写缓存失败不影响登录，下次校验回源数据库
	if err = auth.SaveTokenToCache(l.ctx, accessToken, types.UserTokenMeta{
		UserID:    user.ID,
		Role:      user.Role,
		ExpiresAt: expiresAt,
	}, l.core.Cache()); err != nil {
		l.core.Metrics().StorageOpInc("token_cache", "error")
	}

	return accessToken, nil
}

type UserBaseInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
	Role      string `json:"role"`
	UpdatedAt int64  `json:"updated_at"`
	CreatedAt int64  `json:"created_at"`
}

func (l *UserLogic) GetUser(id string) (*UserBaseInfo, error) {
	user, err := l.core.Store().UserStore().GetUser(l.ctx, id)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("UserLogic.GetUser.UserStore.GetUser", i18n.ERROR_INTERNAL, err)
	}

	if user == nil {
		return nil, errors.New("UserLogic.GetUser.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	return &UserBaseInfo{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Avatar:    user.Avatar,
		Role:      user.Role,
		UpdatedAt: user.UpdatedAt,
		CreatedAt: user.CreatedAt,
	}, nil
}

type AuthedUserLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewAuthedUserLogic(ctx context.Context, core *core.Core) *AuthedUserLogic {
	l := &AuthedUserLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}

	return l
}

func (l *AuthedUserLogic) UpdateUserProfile(userName, avatar string) error {
	userID := l.GetUserInfo().User
	if err := l.core.Store().UserStore().UpdateProfile(l.ctx, userID, userName, avatar); err != nil {
		return errors.New("AuthedUserLogic.UpdateUserProfile", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

func (l *AuthedUserLogic) Logout(token string) error {
	if err := l.core.Store().AccessTokenStore().Delete(l.ctx, token); err != nil {
		return errors.New("AuthedUserLogic.Logout.AccessTokenStore.Delete", i18n.ERROR_INTERNAL, err)
	}
	if err := auth.RemoveTokenFromCache(l.ctx, token, l.core.Cache()); err != nil {
		l.core.Metrics().StorageOpInc("token_cache", "error")
	}
	return nil
}

// UpdateUserRole 管理员调整用户全局角色
func (l *AuthedUserLogic) UpdateUserRole(userID, role string) error {
	if err := l.Identification(srv.PermissionAdmin); err != nil {
		return err
	}

	switch role {
	case types.USER_ROLE_ADMIN, types.USER_ROLE_CREATOR, types.USER_ROLE_USER:
	default:
		return errors.New("AuthedUserLogic.UpdateUserRole.role", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	if err := l.core.Store().UserStore().UpdateRole(l.ctx, userID, role); err != nil {
		return errors.New("AuthedUserLogic.UpdateUserRole", i18n.ERROR_INTERNAL, err)
	}
	return nil
}
