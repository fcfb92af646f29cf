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
		provider.stores.FileStore = NewFileStore(provider)
	})
}

type FileStore struct {
	CommonFields
}

func NewFileStore(provider SqlProviderAchieve) *FileStore {
	repo := &FileStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_FILE)
	repo.SetAllColumns("id", "uploader_id", "name", "size", "mime_type", "extension", "checksum", "is_deleted", "deleted_at", "created_at")
	return repo
}

// Create 创建文件记录
func (s *FileStore) Create(ctx context.Context, data types.File) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "uploader_id", "name", "size", "mime_type", "extension", "checksum", "is_deleted", "deleted_at", "created_at").
		Values(data.ID, data.UploaderID, data.Name, data.Size, data.MimeType, data.Extension, data.Checksum, data.IsDeleted, data.DeletedAt, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *FileStore) GetFile(ctx context.Context, id string) (*types.File, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.File
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

// MarkDeleted 软删除，条件更新保证并发删除只有一方成功
func (s *FileStore) MarkDeleted(ctx context.Context, id string, deletedAt int64) (bool, error) {
	query := sq.Update(s.GetTable()).
		Set("is_deleted", true).
		Set("deleted_at", deletedAt).
		Where(sq.Eq{"id": id, "is_deleted": false})

	queryString, args, err := query.ToSql()
	if err != nil {
		return false, ErrorSqlBuild(err)
	}

	result, err := s.GetMaster(ctx).Exec(queryString, args...)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *FileStore) ListFiles(ctx context.Context, uploaderID string, page, pageSize uint64) ([]types.File, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"uploader_id": uploaderID, "is_deleted": false}).
		OrderBy("created_at DESC")

	if page != types.NO_PAGINATION || pageSize != types.NO_PAGINATION {
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.File
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}
