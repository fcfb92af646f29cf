package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/modlearn/modlearn/app/logic/v1"
	"github.com/modlearn/modlearn/app/response"
	"github.com/modlearn/modlearn/pkg/types"
	"github.com/modlearn/modlearn/pkg/utils"
)

type CreateContentResponse struct {
	ContentID string `json:"content_id"`
}

func (s *HttpSrv) CreateContent(c *gin.Context) {
	var req v1.CreateContentArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	id, err := v1.NewContentLogic(c, s.Core).CreateContent(req)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, CreateContentResponse{ContentID: id})
}

func (s *HttpSrv) UpdateContent(c *gin.Context) {
	contentID, _ := c.Params.Get("contentid")

	var req types.UpdateContentArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err := v1.NewContentLogic(c, s.Core).UpdateContent(contentID, req); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.EmptyStruct{})
}

type PublishContentRequest struct {
	Publish *bool `json:"publish" binding:"required"`
}

func (s *HttpSrv) PublishContent(c *gin.Context) {
	contentID, _ := c.Params.Get("contentid")

	var req PublishContentRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err := v1.NewContentLogic(c, s.Core).PublishContent(contentID, *req.Publish); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.EmptyStruct{})
}

func (s *HttpSrv) GetContent(c *gin.Context) {
	contentID, _ := c.Params.Get("contentid")

	content, err := v1.NewContentLogic(c, s.Core).GetContent(contentID)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, content)
}

func (s *HttpSrv) DeleteContent(c *gin.Context) {
	contentID, _ := c.Params.Get("contentid")

	if err := v1.NewContentLogic(c, s.Core).DeleteContent(contentID); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.EmptyStruct{})
}

type ListContentsRequest struct {
	ContentType string `form:"content_type"`
	Keywords    string `form:"keywords"`
	CategoryID  string `form:"category_id"`
	GenreID     string `form:"genre_id"`
	Page        uint64 `form:"page,default=1"`
	PageSize    uint64 `form:"pagesize,default=20"`
}

func (s *HttpSrv) ListContents(c *gin.Context) {
	var req ListContentsRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	// 公开列表只露出已发布内容
	published := true
	opts := types.ListContentOptions{
		ContentType: types.ContentType(req.ContentType),
		Published:   &published,
		CategoryID:  req.CategoryID,
		GenreID:     req.GenreID,
		Keywords:    req.Keywords,
	}

	list, total, err := v1.NewContentLogic(c, s.Core).ListContents(opts, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, gin.H{
		"list": list,
		"meta": response.ListMeta{Total: total, Page: req.Page, PageSize: req.PageSize},
	})
}

// GetPlaybackURL 播放地址，带发布/购买校验
func (s *HttpSrv) GetPlaybackURL(c *gin.Context) {
	contentID, _ := c.Params.Get("contentid")

	timer := s.Core.Metrics().PresignTimer("playback")
	defer timer.ObserveDuration()

	url, err := v1.NewContentLogic(c, s.Core).GetPlaybackURL(contentID)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, url)
}

type CreateTaxonomyRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Slug        string `json:"slug" binding:"required"`
}

func (s *HttpSrv) CreateCategory(c *gin.Context) {
	var req CreateTaxonomyRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	id, err := v1.NewCategoryLogic(c, s.Core).CreateCategory(req.Title, req.Description, req.Slug)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, gin.H{"id": id})
}

func (s *HttpSrv) ListCategories(c *gin.Context) {
	list, err := v1.NewCategoryLogic(c, s.Core).ListCategories()
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, gin.H{"list": list})
}

func (s *HttpSrv) DeleteCategory(c *gin.Context) {
	id, _ := c.Params.Get("id")
	if err := v1.NewCategoryLogic(c, s.Core).DeleteCategory(id); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.EmptyStruct{})
}

func (s *HttpSrv) CreateGenre(c *gin.Context) {
	var req CreateTaxonomyRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	id, err := v1.NewCategoryLogic(c, s.Core).CreateGenre(req.Title, req.Description, req.Slug)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, gin.H{"id": id})
}

func (s *HttpSrv) ListGenres(c *gin.Context) {
	list, err := v1.NewCategoryLogic(c, s.Core).ListGenres()
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, gin.H{"list": list})
}

func (s *HttpSrv) DeleteGenre(c *gin.Context) {
	id, _ := c.Params.Get("id")
	if err := v1.NewCategoryLogic(c, s.Core).DeleteGenre(id); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.EmptyStruct{})
}
