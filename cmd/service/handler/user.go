package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/modlearn/modlearn/app/logic/v1"
	"github.com/modlearn/modlearn/app/response"
	"github.com/modlearn/modlearn/cmd/service/middleware"
	"github.com/modlearn/modlearn/pkg/utils"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
}

func (s *HttpSrv) Register(c *gin.Context) {
	var req RegisterRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	userID, err := v1.NewUserLogic(c, s.Core).Register(req.Name, req.Email, req.Password)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, RegisterResponse{UserID: userID})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

func (s *HttpSrv) Login(c *gin.Context) {
	var req LoginRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	token, err := v1.NewUserLogic(c, s.Core).Login(req.Email, req.Password)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, LoginResponse{AccessToken: token})
}

func (s *HttpSrv) Logout(c *gin.Context) {
	token := c.GetHeader(middleware.ACCESS_TOKEN_HEADER_KEY)
	if err := v1.NewAuthedUserLogic(c, s.Core).Logout(token); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.EmptyStruct{})
}

func (s *HttpSrv) GetUser(c *gin.Context) {
	claims, _ := v1.InjectTokenClaim(c)
	user, err := v1.NewUserLogic(c, s.Core).GetUser(claims.User)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, user)
}

type UpdateProfileRequest struct {
	UserName string `json:"user_name" binding:"required"`
	Avatar   string `json:"avatar"`
}

func (s *HttpSrv) UpdateUserProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err := v1.NewAuthedUserLogic(c, s.Core).UpdateUserProfile(req.UserName, req.Avatar); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.EmptyStruct{})
}

type UpdateUserRoleRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

func (s *HttpSrv) UpdateUserRole(c *gin.Context) {
	var req UpdateUserRoleRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err := v1.NewAuthedUserLogic(c, s.Core).UpdateUserRole(req.UserID, req.Role); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.EmptyStruct{})
}
