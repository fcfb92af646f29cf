package v1

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/modlearn/modlearn/app/core"
	"github.com/modlearn/modlearn/app/core/srv"
	"github.com/modlearn/modlearn/pkg/errors"
	"github.com/modlearn/modlearn/pkg/i18n"
	"github.com/modlearn/modlearn/pkg/types"
	"github.com/modlearn/modlearn/pkg/utils"
)

type PlaylistLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewPlaylistLogic(ctx context.Context, core *core.Core) *PlaylistLogic {
	l := &PlaylistLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}

	return l
}

type CreatePlaylistArgs struct {
	Title            string `json:"title" binding:"required"`
	Description      string `json:"description"`
	ThumbnailImageID string `json:"thumbnail_image_id"`
	IsSeries         bool   `json:"is_series"`
	Price            int64  `json:"price"`
	Currency         string `json:"currency"`
}

func (l *PlaylistLogic) CreatePlaylist(args CreatePlaylistArgs) (string, error) {
	if err := l.Identification(srv.PermissionCreate); err != nil {
		return "", err
	}

	if args.Price < 0 {
		return "", errors.New("PlaylistLogic.CreatePlaylist.price", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	if args.Currency == "" {
		args.Currency = "USD"
	}

	playlistID := utils.GenUniqIDStr()
	err := l.core.Store().PlaylistStore().Create(l.ctx, types.Playlist{
		ID:               playlistID,
		CreatorID:        l.GetUserInfo().User,
		Title:            args.Title,
		Description:      args.Description,
		ThumbnailImageID: args.ThumbnailImageID,
		IsSeries:         args.IsSeries,
		Price:            args.Price,
		Currency:         args.Currency,
		UpdatedAt:        time.Now().Unix(),
		CreatedAt:        time.Now().Unix(),
	})
	if err != nil {
		return "", errors.New("PlaylistLogic.CreatePlaylist", i18n.ERROR_INTERNAL, err)
	}

	return playlistID, nil
}

func (l *PlaylistLogic) UpdatePlaylist(playlistID, title, description, thumbnailImageID string) error {
	if _, err := l.getOwnedPlaylist(playlistID); err != nil {
		return err
	}

	if err := l.core.Store().PlaylistStore().Update(l.ctx, playlistID, title, description, thumbnailImageID); err != nil {
		return errors.New("PlaylistLogic.UpdatePlaylist", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

// DeletePlaylist 连带删除全部单集关联，内容本身不受影响
func (l *PlaylistLogic) DeletePlaylist(playlistID string) error {
	if _, err := l.getOwnedPlaylist(playlistID); err != nil {
		return err
	}

	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().PlaylistEpisodeStore().DeleteAll(ctx, playlistID); err != nil {
			return errors.New("PlaylistLogic.DeletePlaylist.DeleteAll", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().PlaylistStore().Delete(ctx, playlistID); err != nil {
			return errors.New("PlaylistLogic.DeletePlaylist", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
}

type AddEpisodeArgs struct {
	ContentID     string `json:"content_id" binding:"required"`
	EpisodeOrder  int    `json:"episode_order" binding:"required"`
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
	Title         string `json:"title"`
}

// AddEpisode 同一列表内 episode_order 不允许重复
func (l *PlaylistLogic) AddEpisode(playlistID string, args AddEpisodeArgs) (string, error) {
	if _, err := l.getOwnedPlaylist(playlistID); err != nil {
		return "", err
	}

	if args.EpisodeOrder <= 0 {
		return "", errors.New("PlaylistLogic.AddEpisode.order", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	if _, err := l.core.Store().ContentStore().GetContent(l.ctx, args.ContentID); err != nil {
		if err == sql.ErrNoRows {
			return "", errors.New("PlaylistLogic.AddEpisode.content", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return "", errors.New("PlaylistLogic.AddEpisode.GetContent", i18n.ERROR_INTERNAL, err)
	}

	exist, err := l.core.Store().PlaylistEpisodeStore().GetByOrder(l.ctx, playlistID, args.EpisodeOrder)
	if err != nil && err != sql.ErrNoRows {
		return "", errors.New("PlaylistLogic.AddEpisode.GetByOrder", i18n.ERROR_INTERNAL, err)
	}
	if exist != nil {
		return "", errors.New("PlaylistLogic.AddEpisode.order_taken", i18n.ERROR_EPISODE_ORDER_TAKEN, nil).Code(http.StatusConflict)
	}

	episodeID := utils.GenUniqIDStr()
	err = l.core.Store().PlaylistEpisodeStore().Create(l.ctx, types.PlaylistEpisode{
		ID:            episodeID,
		PlaylistID:    playlistID,
		ContentID:     args.ContentID,
		EpisodeOrder:  args.EpisodeOrder,
		SeasonNumber:  args.SeasonNumber,
		EpisodeNumber: args.EpisodeNumber,
		Title:         args.Title,
		AddedAt:       time.Now().Unix(),
	})
	if err != nil {
		return "", errors.New("PlaylistLogic.AddEpisode", i18n.ERROR_INTERNAL, err)
	}

	return episodeID, nil
}

func (l *PlaylistLogic) RemoveEpisode(playlistID, episodeID string) error {
	if _, err := l.getOwnedPlaylist(playlistID); err != nil {
		return err
	}

	if err := l.core.Store().PlaylistEpisodeStore().Delete(l.ctx, playlistID, episodeID); err != nil {
		return errors.New("PlaylistLogic.RemoveEpisode", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

type PlaylistDetail struct {
	Playlist *types.Playlist         `json:"playlist"`
	Episodes []types.PlaylistEpisode `json:"episodes"`
}

func (l *PlaylistLogic) GetWithEpisodes(playlistID string) (PlaylistDetail, error) {
	playlist, err := l.getPlaylist(playlistID)
	if err != nil {
		return PlaylistDetail{}, err
	}

	episodes, err := l.core.Store().PlaylistEpisodeStore().ListByPlaylist(l.ctx, playlistID)
	if err != nil {
		return PlaylistDetail{}, errors.New("PlaylistLogic.GetWithEpisodes.ListByPlaylist", i18n.ERROR_INTERNAL, err)
	}

	return PlaylistDetail{
		Playlist: playlist,
		Episodes: episodes,
	}, nil
}

func (l *PlaylistLogic) ListMyPlaylists(page, pageSize uint64) ([]types.Playlist, error) {
	if pageSize > types.MAX_PAGE_SIZE {
		pageSize = types.MAX_PAGE_SIZE
	}

	list, err := l.core.Store().PlaylistStore().ListByCreator(l.ctx, l.GetUserInfo().User, page, pageSize)
	if err != nil {
		return nil, errors.New("PlaylistLogic.ListMyPlaylists", i18n.ERROR_INTERNAL, err)
	}
	return list, nil
}

func (l *PlaylistLogic) getPlaylist(playlistID string) (*types.Playlist, error) {
	playlist, err := l.core.Store().PlaylistStore().Get(l.ctx, playlistID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("PlaylistLogic.getPlaylist", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, errors.New("PlaylistLogic.getPlaylist", i18n.ERROR_INTERNAL, err)
	}
	return playlist, nil
}

// getOwnedPlaylist 创建者本人或管理员才允许改动
func (l *PlaylistLogic) getOwnedPlaylist(playlistID string) (*types.Playlist, error) {
	playlist, err := l.getPlaylist(playlistID)
	if err != nil {
		return nil, err
	}

	if playlist.CreatorID != l.GetUserInfo().User {
		if err = l.Identification(srv.PermissionAdmin); err != nil {
			return nil, err
		}
	}
	return playlist, nil
}
