package types

import (
	"context"
	"time"
)

const (
	NO_PAGINATION = 0

	DEFAULT_PAGE_SIZE = 20
	MAX_PAGE_SIZE     = 100
)

const (
	LANGUAGE_EN_KEY = "en"
	LANGUAGE_CN_KEY = "zh-CN"
)

// Cache 缓存抽象，登录态等热点数据走这里
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	SetEx(ctx context.Context, key, value string, expire time.Duration) error
	Del(ctx context.Context, key string) error
}
