package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/modlearn/modlearn/pkg/register"
	"github.com/modlearn/modlearn/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.PlaylistStore = NewPlaylistStore(provider)
		provider.stores.PlaylistEpisodeStore = NewPlaylistEpisodeStore(provider)
	})
}

type PlaylistStore struct {
	CommonFields
}

func NewPlaylistStore(provider SqlProviderAchieve) *PlaylistStore {
	repo := &PlaylistStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_PLAYLIST)
	repo.SetAllColumns("id", "creator_id", "title", "description", "thumbnail_image_id", "is_series",
		"price", "currency", "updated_at", "created_at")
	return repo
}

func (s *PlaylistStore) Create(ctx context.Context, data types.Playlist) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = data.CreatedAt
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "creator_id", "title", "description", "thumbnail_image_id", "is_series",
			"price", "currency", "updated_at", "created_at").
		Values(data.ID, data.CreatorID, data.Title, data.Description, data.ThumbnailImageID, data.IsSeries,
			data.Price, data.Currency, data.UpdatedAt, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *PlaylistStore) Get(ctx context.Context, id string) (*types.Playlist, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Playlist
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *PlaylistStore) Update(ctx context.Context, id string, title, description, thumbnailImageID string) error {
	query := sq.Update(s.GetTable()).
		Set("title", title).
		Set("description", description).
		Set("thumbnail_image_id", thumbnailImageID).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *PlaylistStore) Delete(ctx context.Context, id string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *PlaylistStore) ListByCreator(ctx context.Context, creatorID string, page, pageSize uint64) ([]types.Playlist, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"creator_id": creatorID}).
		OrderBy("created_at DESC")

	if page != types.NO_PAGINATION || pageSize != types.NO_PAGINATION {
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Playlist
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

type PlaylistEpisodeStore struct {
	CommonFields
}

func NewPlaylistEpisodeStore(provider SqlProviderAchieve) *PlaylistEpisodeStore {
	repo := &PlaylistEpisodeStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_PLAYLIST_EPISODE)
	repo.SetAllColumns("id", "playlist_id", "content_id", "episode_order", "season_number", "episode_number", "title", "added_at")
	return repo
}

func (s *PlaylistEpisodeStore) Create(ctx context.Context, data types.PlaylistEpisode) error {
	if data.AddedAt == 0 {
		data.AddedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "playlist_id", "content_id", "episode_order", "season_number", "episode_number", "title", "added_at").
		Values(data.ID, data.PlaylistID, data.ContentID, data.EpisodeOrder, data.SeasonNumber, data.EpisodeNumber, data.Title, data.AddedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *PlaylistEpisodeStore) Delete(ctx context.Context, playlistID, id string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"playlist_id": playlistID, "id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *PlaylistEpisodeStore) DeleteAll(ctx context.Context, playlistID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"playlist_id": playlistID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *PlaylistEpisodeStore) ListByPlaylist(ctx context.Context, playlistID string) ([]types.PlaylistEpisode, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"playlist_id": playlistID}).
		OrderBy("episode_order ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.PlaylistEpisode
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *PlaylistEpisodeStore) GetByOrder(ctx context.Context, playlistID string, episodeOrder int) (*types.PlaylistEpisode, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"playlist_id": playlistID, "episode_order": episodeOrder})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.PlaylistEpisode
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}
