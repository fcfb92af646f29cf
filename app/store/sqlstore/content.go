package sqlstore

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/modlearn/modlearn/pkg/register"
	"github.com/modlearn/modlearn/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.ContentStore = NewContentStore(provider)
		provider.stores.ContentCategoryStore = NewContentCategoryStore(provider)
		provider.stores.ContentGenreStore = NewContentGenreStore(provider)
	})
}

type ContentStore struct {
	CommonFields
}

func NewContentStore(provider SqlProviderAchieve) *ContentStore {
	repo := &ContentStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_CONTENT)
	repo.SetAllColumns("id", "title", "description", "content_type", "thumbnail_image_id", "file_id",
		"duration", "price", "currency", "is_available", "is_published", "published_at",
		"release_date", "view_count", "updated_by", "updated_at", "created_at")
	return repo
}

func (s *ContentStore) Create(ctx context.Context, data types.Content) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = data.CreatedAt
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "title", "description", "content_type", "thumbnail_image_id", "file_id",
			"duration", "price", "currency", "is_available", "is_published", "published_at",
			"release_date", "view_count", "updated_by", "updated_at", "created_at").
		Values(data.ID, data.Title, data.Description, data.ContentType, data.ThumbnailImageID, data.FileID,
			data.Duration, data.Price, data.Currency, data.IsAvailable, data.IsPublished, data.PublishedAt,
			data.ReleaseDate, data.ViewCount, data.UpdatedBy, data.UpdatedAt, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ContentStore) GetContent(ctx context.Context, id string) (*types.Content, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Content
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

// Update 局部更新，nil字段不动
func (s *ContentStore) Update(ctx context.Context, id, updatedBy string, data types.UpdateContentArgs) error {
	query := sq.Update(s.GetTable()).
		Set("updated_by", updatedBy).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"id": id})

	if data.Title != nil {
		query = query.Set("title", *data.Title)
	}
	if data.Description != nil {
		query = query.Set("description", *data.Description)
	}
	if data.ThumbnailImageID != nil {
		query = query.Set("thumbnail_image_id", *data.ThumbnailImageID)
	}
	if data.FileID != nil {
		query = query.Set("file_id", *data.FileID)
	}
	if data.Duration != nil {
		query = query.Set("duration", *data.Duration)
	}
	if data.Price != nil {
		query = query.Set("price", *data.Price)
	}
	if data.Currency != nil {
		query = query.Set("currency", *data.Currency)
	}
	if data.IsAvailable != nil {
		query = query.Set("is_available", *data.IsAvailable)
	}
	if data.ReleaseDate != nil {
		query = query.Set("release_date", *data.ReleaseDate)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ContentStore) UpdatePublish(ctx context.Context, id string, published bool, publishedAt int64) error {
	query := sq.Update(s.GetTable()).
		Set("is_published", published).
		Set("published_at", publishedAt).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ContentStore) IncrViewCount(ctx context.Context, id string) error {
	query := sq.Update(s.GetTable()).
		Set("view_count", sq.Expr("view_count + 1")).
		Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ContentStore) ListContents(ctx context.Context, opts types.ListContentOptions, page, pageSize uint64) ([]types.Content, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("created_at DESC")
	query = s.applyListOptions(query, opts)

	if page != types.NO_PAGINATION || pageSize != types.NO_PAGINATION {
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Content
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ContentStore) Total(ctx context.Context, opts types.ListContentOptions) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	query = s.applyListOptions(query, opts)

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	var total int64
	if err = s.GetReplica(ctx).Get(&total, queryString, args...); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *ContentStore) applyListOptions(query sq.SelectBuilder, opts types.ListContentOptions) sq.SelectBuilder {
	if opts.ContentType != "" {
		query = query.Where(sq.Eq{"content_type": opts.ContentType})
	}
	if opts.Published != nil {
		query = query.Where(sq.Eq{"is_published": *opts.Published})
	}
	if opts.Keywords != "" {
		query = query.Where(sq.ILike{"title": fmt.Sprintf("%%%s%%", opts.Keywords)})
	}
	if opts.CategoryID != "" {
		query = query.Where(sq.Expr("id IN (SELECT content_id FROM "+types.TABLE_CONTENT_CATEGORY.Name()+" WHERE category_id = ?)", opts.CategoryID))
	}
	if opts.GenreID != "" {
		query = query.Where(sq.Expr("id IN (SELECT content_id FROM "+types.TABLE_CONTENT_GENRE.Name()+" WHERE genre_id = ?)", opts.GenreID))
	}
	return query
}

func (s *ContentStore) Delete(ctx context.Context, id string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

type ContentCategoryStore struct {
	CommonFields
}

func NewContentCategoryStore(provider SqlProviderAchieve) *ContentCategoryStore {
	repo := &ContentCategoryStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_CONTENT_CATEGORY)
	repo.SetAllColumns("id", "content_id", "category_id")
	return repo
}

func (s *ContentCategoryStore) Bind(ctx context.Context, data types.ContentCategory) error {
	query := sq.Insert(s.GetTable()).
		Columns("id", "content_id", "category_id").
		Values(data.ID, data.ContentID, data.CategoryID).
		Suffix("ON CONFLICT (content_id, category_id) DO NOTHING")

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ContentCategoryStore) Unbind(ctx context.Context, contentID, categoryID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"content_id": contentID, "category_id": categoryID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ContentCategoryStore) ListByContent(ctx context.Context, contentID string) ([]types.ContentCategory, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"content_id": contentID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.ContentCategory
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

type ContentGenreStore struct {
	CommonFields
}

func NewContentGenreStore(provider SqlProviderAchieve) *ContentGenreStore {
	repo := &ContentGenreStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_CONTENT_GENRE)
	repo.SetAllColumns("id", "content_id", "genre_id")
	return repo
}

func (s *ContentGenreStore) Bind(ctx context.Context, data types.ContentGenre) error {
	query := sq.Insert(s.GetTable()).
		Columns("id", "content_id", "genre_id").
		Values(data.ID, data.ContentID, data.GenreID).
		Suffix("ON CONFLICT (content_id, genre_id) DO NOTHING")

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ContentGenreStore) Unbind(ctx context.Context, contentID, genreID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"content_id": contentID, "genre_id": genreID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ContentGenreStore) ListByContent(ctx context.Context, contentID string) ([]types.ContentGenre, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"content_id": contentID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.ContentGenre
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}
