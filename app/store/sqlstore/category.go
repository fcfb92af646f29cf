package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/modlearn/modlearn/pkg/register"
	"github.com/modlearn/modlearn/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.CategoryStore = NewCategoryStore(provider)
		provider.stores.GenreStore = NewGenreStore(provider)
	})
}

type CategoryStore struct {
	CommonFields
}

func NewCategoryStore(provider SqlProviderAchieve) *CategoryStore {
	repo := &CategoryStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_CATEGORY)
	repo.SetAllColumns("id", "title", "description", "slug")
	return repo
}

func (s *CategoryStore) Create(ctx context.Context, data types.Category) error {
	query := sq.Insert(s.GetTable()).
		Columns("id", "title", "description", "slug").
		Values(data.ID, data.Title, data.Description, data.Slug)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *CategoryStore) Get(ctx context.Context, id string) (*types.Category, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Category
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *CategoryStore) GetBySlug(ctx context.Context, slug string) (*types.Category, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"slug": slug})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Category
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *CategoryStore) List(ctx context.Context) ([]types.Category, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("slug ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Category
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

type GenreStore struct {
	CommonFields
}

func NewGenreStore(provider SqlProviderAchieve) *GenreStore {
	repo := &GenreStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_GENRE)
	repo.SetAllColumns("id", "title", "description", "slug")
	return repo
}

func (s *GenreStore) Create(ctx context.Context, data types.Genre) error {
	query := sq.Insert(s.GetTable()).
		Columns("id", "title", "description", "slug").
		Values(data.ID, data.Title, data.Description, data.Slug)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *GenreStore) Get(ctx context.Context, id string) (*types.Genre, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Genre
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *GenreStore) GetBySlug(ctx context.Context, slug string) (*types.Genre, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"slug": slug})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Genre
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *GenreStore) List(ctx context.Context) ([]types.Genre, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("slug ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Genre
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *GenreStore) Delete(ctx context.Context, id string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}
