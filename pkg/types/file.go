package types

import "fmt"

// File 逻辑文件记录，上传请求创建时写入，之后只允许软删除
type File struct {
	ID         string `json:"id" db:"id"`                   // 文件唯一标识，创建时生成
	UploaderID string `json:"uploader_id" db:"uploader_id"` // 上传者用户ID
	Name       string `json:"name" db:"name"`               // 原始文件名
	Size       int64  `json:"size" db:"size"`               // 文件大小，单位字节，必须大于0
	MimeType   string `json:"mime_type" db:"mime_type"`     // 文件MIME类型
	Extension  string `json:"extension" db:"extension"`     // 文件扩展名，不含点
	Checksum   string `json:"checksum" db:"checksum"`       // 内容SHA-256，64位小写hex
	IsDeleted  bool   `json:"is_deleted" db:"is_deleted"`   // 软删除标记，与 deleted_at 同时生效
	DeletedAt  int64  `json:"deleted_at" db:"deleted_at"`   // 删除时间戳，未删除为0
	CreatedAt  int64  `json:"created_at" db:"created_at"`   // 上传请求创建时间
}

// Storage 文件的物理存储位置，与 File 同事务创建，创建后不再更新
type Storage struct {
	ID              string `json:"id" db:"id"`
	FileID          string `json:"file_id" db:"file_id"`                   // 所属文件ID，一对一
	StorageProvider string `json:"storage_provider" db:"storage_provider"` // 存储后端标识，当前固定 s3
	Bucket          string `json:"bucket" db:"bucket"`                     // 存储桶，provider相关，可为空
	StorageKey      string `json:"storage_key" db:"storage_key"`           // 对象在存储后端内的key
	CdnURL          string `json:"cdn_url" db:"cdn_url"`                   // CDN加速地址，可为空
}

const STORAGE_PROVIDER_S3 = "s3"

// GenStorageKey 由文件ID派生对象key，保证可重建、不冲突
func GenStorageKey(fileID, extension string) string {
	return fmt.Sprintf("files/%s.%s", fileID, extension)
}
