package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/modlearn/modlearn/pkg/register"
	"github.com/modlearn/modlearn/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.StorageStore = NewStorageStore(provider)
	})
}

// StorageStore 文件与对象存储位置的映射
type StorageStore struct {
	CommonFields
}

func NewStorageStore(provider SqlProviderAchieve) *StorageStore {
	repo := &StorageStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_STORAGE)
	repo.SetAllColumns("id", "file_id", "storage_provider", "bucket", "storage_key", "cdn_url")
	return repo
}

func (s *StorageStore) Create(ctx context.Context, data types.Storage) error {
	query := sq.Insert(s.GetTable()).
		Columns("id", "file_id", "storage_provider", "bucket", "storage_key", "cdn_url").
		Values(data.ID, data.FileID, data.StorageProvider, data.Bucket, data.StorageKey, data.CdnURL)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *StorageStore) GetByFileID(ctx context.Context, fileID string) (*types.Storage, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"file_id": fileID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Storage
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}
