package v1

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/modlearn/modlearn/app/core"
	"github.com/modlearn/modlearn/pkg/errors"
	"github.com/modlearn/modlearn/pkg/i18n"
	"github.com/modlearn/modlearn/pkg/objectstorage/s3"
	"github.com/modlearn/modlearn/pkg/types"
	"github.com/modlearn/modlearn/pkg/utils"
)

type FileLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewFileLogic(ctx context.Context, core *core.Core) *FileLogic {
	l := &FileLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}

	return l
}

type CreateUploadArgs struct {
	Name      string `json:"name" binding:"required"`
	Size      int64  `json:"size" binding:"required"`
	MimeType  string `json:"mime_type" binding:"required"`
	Extension string `json:"extension" binding:"required"`
	Checksum  string `json:"checksum"`
}

type UploadRequest struct {
	FileID     string `json:"file_id"`
	StorageKey string `json:"storage_key"`
	UploadURL  string `json:"upload_url"`
	ExpiresAt  int64  `json:"expires_at"`
}

// CreateUploadRequest 文件记录与存储记录在同一事务中落库，
// 预签名失败时整体回滚，不会留下孤儿记录
func (l *FileLogic) CreateUploadRequest(args CreateUploadArgs) (UploadRequest, error) {
	userID := l.GetUserInfo().User

	if args.Size > s3.MaxContentLength {
		return UploadRequest{}, errors.New("FileLogic.CreateUploadRequest.size", i18n.ERROR_FILE_TOO_LARGE, nil).Code(http.StatusForbidden)
	}

	fileID := utils.GenUniqIDStr()
	storageKey := types.GenStorageKey(fileID, args.Extension)

	var result UploadRequest
	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		err := l.core.Store().FileStore().Create(ctx, types.File{
			ID:         fileID,
			UploaderID: userID,
			Name:       args.Name,
			Size:       args.Size,
			MimeType:   args.MimeType,
			Extension:  args.Extension,
			Checksum:   args.Checksum,
			CreatedAt:  time.Now().Unix(),
		})
		if err != nil {
			return errors.New("FileLogic.CreateUploadRequest.FileStore.Create", i18n.ERROR_INTERNAL, err)
		}

		err = l.core.Store().StorageStore().Create(ctx, types.Storage{
			ID:              utils.GenUniqIDStr(),
			FileID:          fileID,
			StorageProvider: types.STORAGE_PROVIDER_S3,
			Bucket:          l.core.DefaultBucket(),
			StorageKey:      storageKey,
		})
		if err != nil {
			return errors.New("FileLogic.CreateUploadRequest.StorageStore.Create", i18n.ERROR_INTERNAL, err)
		}

		presigned, err := l.core.FileStorage().CreateUploadURL(ctx, s3.UploadURLArgs{
			Key:           storageKey,
			ContentType:   args.MimeType,
			ContentLength: args.Size,
			Checksum:      args.Checksum,
		})
		if err != nil {
			return mapStorageError("FileLogic.CreateUploadRequest.CreateUploadURL", err)
		}

		result = UploadRequest{
			FileID:     fileID,
			StorageKey: storageKey,
			UploadURL:  presigned.URL,
			ExpiresAt:  presigned.ExpiresAt,
		}
		return nil
	})
	if err != nil {
		return UploadRequest{}, err
	}

	return result, nil
}

type DownloadURL struct {
	URL       string `json:"url"`
	ExpiresAt int64  `json:"expires_at"`
}

// CreateDownloadURL 只读路径，不开事务
func (l *FileLogic) CreateDownloadURL(fileID string) (DownloadURL, error) {
	file, storage, err := l.lookupActiveFile(fileID)
	if err != nil {
		return DownloadURL{}, err
	}

	presigned, err := l.core.FileStorage().CreateDownloadURL(l.ctx, s3.DownloadURLArgs{
		Key:      storage.StorageKey,
		Filename: file.Name,
	})
	if err != nil {
		return DownloadURL{}, mapStorageError("FileLogic.CreateDownloadURL", err)
	}

	return DownloadURL{
		URL:       presigned.URL,
		ExpiresAt: presigned.ExpiresAt,
	}, nil
}

// DeleteFile 软删除。对象删除在事务提交前执行，提交失败会留下
// 对象已删但记录仍活跃的状态，由调用方重试删除收敛
func (l *FileLogic) DeleteFile(fileID string) error {
	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		file, err := l.core.Store().FileStore().GetFile(ctx, fileID)
		if err != nil {
			if err == sql.ErrNoRows {
				return errors.New("FileLogic.DeleteFile.GetFile", i18n.ERROR_FILE_NOT_FOUND, err).Code(http.StatusNotFound)
			}
			return errors.New("FileLogic.DeleteFile.GetFile", i18n.ERROR_INTERNAL, err)
		}

		if file.IsDeleted {
			return errors.New("FileLogic.DeleteFile.deleted", i18n.ERROR_FILE_ALREADY_DELETED, nil).Code(http.StatusConflict)
		}

		storage, err := l.core.Store().StorageStore().GetByFileID(ctx, fileID)
		if err != nil {
			if err == sql.ErrNoRows {
				slog.Error("storage record missing for active file",
					slog.String("file_id", fileID),
					slog.String("component", "FileLogic.DeleteFile"))
				return errors.New("FileLogic.DeleteFile.GetByFileID", i18n.ERROR_STORAGE_RECORD_MISSING, err)
			}
			return errors.New("FileLogic.DeleteFile.GetByFileID", i18n.ERROR_INTERNAL, err)
		}

		if err = l.core.FileStorage().DeleteObject(ctx, storage.StorageKey); err != nil {
			return mapStorageError("FileLogic.DeleteFile.DeleteObject", err)
		}

		updated, err := l.core.Store().FileStore().MarkDeleted(ctx, fileID, time.Now().Unix())
		if err != nil {
			return errors.New("FileLogic.DeleteFile.MarkDeleted", i18n.ERROR_INTERNAL, err)
		}
		// 并发删除时另一方先提交，这里不算成功
		if !updated {
			return errors.New("FileLogic.DeleteFile.raced", i18n.ERROR_FILE_ALREADY_DELETED, nil).Code(http.StatusConflict)
		}
		return nil
	})
}

type FileStatus struct {
	File     *types.File    `json:"file"`
	Uploaded bool           `json:"uploaded"`
	Object   *s3.ObjectMeta `json:"object,omitempty"`
}

// GetFileStatus 查询文件记录及对象实际是否已上传
func (l *FileLogic) GetFileStatus(fileID string) (FileStatus, error) {
	file, storage, err := l.lookupActiveFile(fileID)
	if err != nil {
		return FileStatus{}, err
	}

	meta, err := l.core.FileStorage().ObjectExists(l.ctx, storage.StorageKey)
	if err != nil {
		return FileStatus{}, mapStorageError("FileLogic.GetFileStatus.ObjectExists", err)
	}

	return FileStatus{
		File:     file,
		Uploaded: meta.Exists,
		Object:   meta,
	}, nil
}

func (l *FileLogic) ListFiles(page, pageSize uint64) ([]types.File, error) {
	userID := l.GetUserInfo().User
	list, err := l.core.Store().FileStore().ListFiles(l.ctx, userID, page, pageSize)
	if err != nil {
		return nil, errors.New("FileLogic.ListFiles", i18n.ERROR_INTERNAL, err)
	}
	return list, nil
}

func (l *FileLogic) lookupActiveFile(fileID string) (*types.File, *types.Storage, error) {
	file, err := l.core.Store().FileStore().GetFile(l.ctx, fileID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, errors.New("FileLogic.lookupActiveFile.GetFile", i18n.ERROR_FILE_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, nil, errors.New("FileLogic.lookupActiveFile.GetFile", i18n.ERROR_INTERNAL, err)
	}

	if file.IsDeleted {
		return nil, nil, errors.New("FileLogic.lookupActiveFile.deleted", i18n.ERROR_FILE_DELETED, nil).Code(http.StatusGone)
	}

	storage, err := l.core.Store().StorageStore().GetByFileID(l.ctx, fileID)
	if err != nil {
		if err == sql.ErrNoRows {
			// 文件活跃但存储记录缺失属于数据完整性问题
			slog.Error("storage record missing for active file",
				slog.String("file_id", fileID),
				slog.String("component", "FileLogic.lookupActiveFile"))
			return nil, nil, errors.New("FileLogic.lookupActiveFile.GetByFileID", i18n.ERROR_STORAGE_RECORD_MISSING, err)
		}
		return nil, nil, errors.New("FileLogic.lookupActiveFile.GetByFileID", i18n.ERROR_INTERNAL, err)
	}

	return file, storage, nil
}

// mapStorageError 网关封闭错误码映射到接口错误
func mapStorageError(trace string, err error) error {
	switch s3.ErrCode(err) {
	case s3.ErrCodeInvalidParameters:
		return errors.New(trace, i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest)
	case s3.ErrCodeAccessDenied:
		return errors.New(trace, i18n.ERROR_FORBIDDEN, err).Code(http.StatusForbidden)
	case s3.ErrCodeNetworkError:
		return errors.New(trace, i18n.ERROR_INTERNAL, err).Code(http.StatusBadGateway)
	default:
		return errors.New(trace, i18n.ERROR_INTERNAL, err)
	}
}
