package s3

import (
	"regexp"
	"strings"
	"time"
)

// 校验规则全部是数据，不做任何IO
var (
	objectKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9!\-_.*'()/]+$`)
	bucketPattern    = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*[a-z0-9]$`)
	checksumPattern  = regexp.MustCompile(`^[a-f0-9]{64}$`)

	allowedContentTypes = map[string]struct{}{
		"image/jpeg":      {},
		"image/png":       {},
		"image/webp":      {},
		"image/gif":       {},
		"video/mp4":       {},
		"video/webm":      {},
		"video/quicktime": {},
		"application/pdf": {},
		"text/plain":      {},
	}
)

const (
	MaxObjectKeyLength = 1024
	MaxContentLength   = 500 << 20 // 500 MiB

	UploadExpireDefault   = 15 * time.Minute
	UploadExpireMax       = time.Hour
	DownloadExpireDefault = time.Hour
	DownloadExpireMax     = 24 * time.Hour
)

func ValidateObjectKey(key string) error {
	if key == "" || len(key) > MaxObjectKeyLength {
		return invalidParams("object key length must be 1-%d, got %d", MaxObjectKeyLength, len(key))
	}
	if strings.HasPrefix(key, "/") || strings.HasSuffix(key, "/") {
		return invalidParams("object key must not start or end with '/'")
	}
	if !objectKeyPattern.MatchString(key) {
		return invalidParams("object key contains invalid characters")
	}
	return nil
}

func ValidateBucketName(bucket string) error {
	if len(bucket) < 3 || len(bucket) > 63 {
		return invalidParams("bucket name length must be 3-63, got %d", len(bucket))
	}
	if !bucketPattern.MatchString(bucket) {
		return invalidParams("bucket name contains invalid characters")
	}
	return nil
}

func ValidateContentType(contentType string) error {
	if _, ok := allowedContentTypes[contentType]; !ok {
		return invalidParams("content type %q is not allowed", contentType)
	}
	return nil
}

func ValidateContentLength(length int64) error {
	if length <= 0 {
		return invalidParams("content length must be positive, got %d", length)
	}
	if length > MaxContentLength {
		return invalidParams("content length %d exceeds limit %d", length, MaxContentLength)
	}
	return nil
}

// ValidateChecksum 校验sha256十六进制串，空值表示不带校验和
func ValidateChecksum(checksum string) error {
	if checksum == "" {
		return nil
	}
	if !checksumPattern.MatchString(checksum) {
		return invalidParams("checksum must be a lowercase hex sha256")
	}
	return nil
}

// normalizeExpire 零值取默认，越界拒绝
func normalizeExpire(expire, def, max time.Duration) (time.Duration, error) {
	if expire == 0 {
		return def, nil
	}
	if expire < time.Second || expire > max {
		return 0, invalidParams("expire must be between 1s and %s, got %s", max, expire)
	}
	return expire, nil
}
