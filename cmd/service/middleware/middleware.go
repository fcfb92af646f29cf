package middleware

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/modlearn/modlearn/app/core"
	v1 "github.com/modlearn/modlearn/app/logic/v1"
	"github.com/modlearn/modlearn/app/response"
	"github.com/modlearn/modlearn/pkg/auth"
	"github.com/modlearn/modlearn/pkg/errors"
	"github.com/modlearn/modlearn/pkg/i18n"
	"github.com/modlearn/modlearn/pkg/security"
	"github.com/modlearn/modlearn/pkg/types"
	"github.com/modlearn/modlearn/pkg/utils"
)

func I18n() gin.HandlerFunc {
	var allowList []string
	for k := range i18n.ALLOW_LANG {
		allowList = append(allowList, k)
	}
	l := i18n.NewLocalizer(allowList...)

	return response.ProvideResponseLocalizer(l)
}

// AcceptLanguage 目前服务端支持 en: English, zh-CN: 简体中文
func AcceptLanguage() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		lang := ctx.Request.Header.Get("Accept-Language")
		if lang == "" {
			ctx.Set(v1.LANGUAGE_KEY, types.LANGUAGE_EN_KEY)
			return
		}

		res := utils.ParseAcceptLanguage(lang)
		if len(res) == 0 {
			ctx.Set(v1.LANGUAGE_KEY, types.LANGUAGE_EN_KEY)
			return
		}

		ctx.Set(v1.LANGUAGE_KEY, lo.If(strings.Contains(res[0].Tag, "zh"), types.LANGUAGE_CN_KEY).Else(types.LANGUAGE_EN_KEY))
	}
}

const (
	ACCESS_TOKEN_HEADER_KEY = "X-Access-Token"
	AUTH_TOKEN_HEADER_KEY   = "X-Authorization"
)

// Authorization 先走 X-Access-Token，落空再尝试 X-Authorization JWT
func Authorization(core *core.Core) gin.HandlerFunc {
	tracePrefix := "middleware.Authorization"
	return func(ctx *gin.Context) {
		matched, err := checkAccessToken(ctx, core)
		if err != nil {
			response.APIError(ctx, errors.Trace(tracePrefix, err))
			return
		}

		if matched {
			return
		}

		if matched, err = checkAuthToken(ctx, core); err != nil {
			response.APIError(ctx, errors.Trace(tracePrefix, err))
			return
		}

		if !matched {
			response.APIError(ctx, errors.New(tracePrefix, i18n.ERROR_UNAUTHORIZED, err).Code(http.StatusUnauthorized))
		}
	}
}

// AuthorizationFromQuery 媒体播放等无法带header的场景从查询参数取token
func AuthorizationFromQuery(core *core.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed, err := ParseAccessToken(c, c.Query("token"), core)
		if err != nil {
			response.APIError(c, err)
			return
		}

		if !passed {
			response.APIError(c, errors.New("middleware.AuthorizationFromQuery", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized))
			return
		}
	}
}

func checkAccessToken(c *gin.Context, core *core.Core) (bool, error) {
	tokenValue := c.GetHeader(ACCESS_TOKEN_HEADER_KEY)
	if tokenValue == "" {
		return false, nil
	}

	return ParseAccessToken(c, tokenValue, core)
}

// ParseAccessToken 先查缓存，未命中回源数据库
func ParseAccessToken(c *gin.Context, tokenValue string, core *core.Core) (bool, error) {
	if tokenValue == "" {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second*10)
	defer cancel()

	if meta, err := auth.ValidateTokenFromCache(ctx, tokenValue, core.Cache()); err == nil {
		if meta.ExpiresAt > time.Now().Unix() {
			c.Set(v1.TOKEN_CONTEXT_KEY, security.NewTokenClaims(meta.UserID, meta.Role, meta.ExpiresAt))
			return true, nil
		}
	}

	token, err := core.Store().AccessTokenStore().GetAccessToken(ctx, tokenValue)
	if err != nil && err != sql.ErrNoRows {
		return false, errors.New("ParseAccessToken.AccessTokenStore.GetAccessToken", i18n.ERROR_INTERNAL, err)
	}

	if token == nil || token.ExpiresAt < time.Now().Unix() {
		return false, errors.New("ParseAccessToken.token.check", i18n.ERROR_UNAUTHORIZED, fmt.Errorf("nil token")).Code(http.StatusUnauthorized)
	}

	user, err := core.Store().UserStore().GetUser(ctx, token.UserID)
	if err != nil {
		return false, errors.New("ParseAccessToken.UserStore.GetUser", i18n.ERROR_INTERNAL, err)
	}

	// 回填缓存，失败不阻断请求
	_ = auth.SaveTokenToCache(ctx, tokenValue, types.UserTokenMeta{
		UserID:    user.ID,
		Role:      user.Role,
		ExpiresAt: token.ExpiresAt,
	}, core.Cache())

	c.Set(v1.TOKEN_CONTEXT_KEY, security.NewTokenClaims(user.ID, user.Role, token.ExpiresAt))
	return true, nil
}

func checkAuthToken(c *gin.Context, core *core.Core) (bool, error) {
	tokenValue := c.GetHeader(AUTH_TOKEN_HEADER_KEY)
	if tokenValue == "" {
		return false, nil
	}

	return ParseAuthToken(c, tokenValue, core)
}

// ParseAuthToken 服务端签发的JWT，供服务间调用
func ParseAuthToken(c *gin.Context, tokenValue string, core *core.Core) (bool, error) {
	if tokenValue == "" {
		return false, nil
	}

	claims, err := security.VerifyToken(tokenValue, []byte(core.Cfg().Security.JWTSecret))
	if err != nil {
		return false, errors.New("ParseAuthToken.VerifyToken", i18n.ERROR_INVALID_TOKEN, err).Code(http.StatusUnauthorized)
	}

	c.Set(v1.TOKEN_CONTEXT_KEY, *claims)
	return true, nil
}

// VerifyUserRole 要求当前用户持有指定角色之一
func VerifyUserRole(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, exists := c.Get(v1.TOKEN_CONTEXT_KEY)
		if !exists {
			response.APIError(c, errors.New("middleware.VerifyUserRole.GetToken", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized))
			return
		}

		tokenClaims, ok := claims.(security.TokenClaims)
		if !ok {
			response.APIError(c, errors.New("middleware.VerifyUserRole.TokenClaims", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized))
			return
		}

		for _, requiredRole := range requiredRoles {
			if tokenClaims.GetRole() == requiredRole {
				c.Next()
				return
			}
		}

		response.APIError(c, errors.New("middleware.VerifyUserRole.Check", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden))
	}
}

// VerifyPermission 按RBAC权限校验，admin > creator > user 逐级继承
func VerifyPermission(core *core.Core, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := v1.InjectTokenClaim(c)
		if !core.Srv().RBAC().CheckPermission(claims.GetRole(), permission) {
			response.APIError(c, errors.New("middleware.VerifyPermission.CheckPermission", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden))
			return
		}
	}
}

func Cors(c *gin.Context) {
	method := c.Request.Method
	origin := c.Request.Header.Get("Origin")
	if origin != "" {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, UPDATE")
		c.Header("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization, X-Access-Token, X-Authorization")
		c.Header("Access-Control-Expose-Headers", "Content-Length, Access-Control-Allow-Origin, Access-Control-Allow-Headers, Cache-Control, Content-Language, Content-Type")
		c.Header("Access-Control-Allow-Credentials", "true")
	}
	if method == "OPTIONS" {
		c.AbortWithStatus(http.StatusNoContent)
	}
	c.Next()
}
