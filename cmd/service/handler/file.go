package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/modlearn/modlearn/app/logic/v1"
	"github.com/modlearn/modlearn/app/response"
	"github.com/modlearn/modlearn/pkg/utils"
)

func (s *HttpSrv) CreateUploadRequest(c *gin.Context) {
	var req v1.CreateUploadArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	timer := s.Core.Metrics().PresignTimer("upload")
	defer timer.ObserveDuration()

	result, err := v1.NewFileLogic(c, s.Core).CreateUploadRequest(req)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, result)
}

func (s *HttpSrv) CreateDownloadURL(c *gin.Context) {
	fileID, _ := c.Params.Get("fileid")

	timer := s.Core.Metrics().PresignTimer("download")
	defer timer.ObserveDuration()

	result, err := v1.NewFileLogic(c, s.Core).CreateDownloadURL(fileID)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, result)
}

func (s *HttpSrv) DeleteFile(c *gin.Context) {
	fileID, _ := c.Params.Get("fileid")

	if err := v1.NewFileLogic(c, s.Core).DeleteFile(fileID); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.EmptyStruct{})
}

func (s *HttpSrv) GetFileStatus(c *gin.Context) {
	fileID, _ := c.Params.Get("fileid")

	result, err := v1.NewFileLogic(c, s.Core).GetFileStatus(fileID)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, result)
}

type ListFilesRequest struct {
	Page     uint64 `form:"page,default=1"`
	PageSize uint64 `form:"pagesize,default=20"`
}

func (s *HttpSrv) ListFiles(c *gin.Context) {
	var req ListFilesRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, err := v1.NewFileLogic(c, s.Core).ListFiles(req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, gin.H{"list": list})
}
