package core

import (
	"context"

	"github.com/modlearn/modlearn/pkg/objectstorage/s3"
)

// FileStorage 对象存储网关，测试中用假实现替换
type FileStorage interface {
	CreateUploadURL(ctx context.Context, args s3.UploadURLArgs) (*s3.PresignResult, error)
	CreateDownloadURL(ctx context.Context, args s3.DownloadURLArgs) (*s3.PresignResult, error)
	DeleteObject(ctx context.Context, key string) error
	ObjectExists(ctx context.Context, key string) (*s3.ObjectMeta, error)
	EnsureBucketExists(ctx context.Context, bucket string) (bool, error)
}

func setupFileStorage(cfg ObjectStorageDriver) FileStorage {
	if cfg.S3 == nil {
		panic("object_storage.s3 config missing")
	}
	return s3.NewS3Client(
		cfg.S3.Endpoint,
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKey,
		cfg.S3.SecretKey,
		s3.WithPathStyle(cfg.S3.UsePathStyle),
	)
}
