package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/modlearn/modlearn/app/logic/v1"
	"github.com/modlearn/modlearn/app/response"
	"github.com/modlearn/modlearn/pkg/utils"
)

func (s *HttpSrv) CreatePlaylist(c *gin.Context) {
	var req v1.CreatePlaylistArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	id, err := v1.NewPlaylistLogic(c, s.Core).CreatePlaylist(req)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, gin.H{"playlist_id": id})
}

type UpdatePlaylistRequest struct {
	Title            string `json:"title" binding:"required"`
	Description      string `json:"description"`
	ThumbnailImageID string `json:"thumbnail_image_id"`
}

func (s *HttpSrv) UpdatePlaylist(c *gin.Context) {
	playlistID, _ := c.Params.Get("playlistid")

	var req UpdatePlaylistRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err := v1.NewPlaylistLogic(c, s.Core).UpdatePlaylist(playlistID, req.Title, req.Description, req.ThumbnailImageID); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.EmptyStruct{})
}

func (s *HttpSrv) DeletePlaylist(c *gin.Context) {
	playlistID, _ := c.Params.Get("playlistid")

	if err := v1.NewPlaylistLogic(c, s.Core).DeletePlaylist(playlistID); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.EmptyStruct{})
}

func (s *HttpSrv) GetPlaylist(c *gin.Context) {
	playlistID, _ := c.Params.Get("playlistid")

	detail, err := v1.NewPlaylistLogic(c, s.Core).GetWithEpisodes(playlistID)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, detail)
}

func (s *HttpSrv) ListMyPlaylists(c *gin.Context) {
	var req ListFilesRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, err := v1.NewPlaylistLogic(c, s.Core).ListMyPlaylists(req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, gin.H{"list": list})
}

func (s *HttpSrv) AddPlaylistEpisode(c *gin.Context) {
	playlistID, _ := c.Params.Get("playlistid")

	var req v1.AddEpisodeArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	id, err := v1.NewPlaylistLogic(c, s.Core).AddEpisode(playlistID, req)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, gin.H{"episode_id": id})
}

func (s *HttpSrv) RemovePlaylistEpisode(c *gin.Context) {
	playlistID, _ := c.Params.Get("playlistid")
	episodeID, _ := c.Params.Get("episodeid")

	if err := v1.NewPlaylistLogic(c, s.Core).RemoveEpisode(playlistID, episodeID); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.EmptyStruct{})
}
