package core

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/modlearn/modlearn/app/core/srv"
	"github.com/modlearn/modlearn/app/store"
	"github.com/modlearn/modlearn/app/store/sqlstore"
	"github.com/modlearn/modlearn/pkg/types"
)

type Core struct {
	cfg CoreConfig
	srv *srv.Srv

	stores      func() store.Provider
	httpClient  *http.Client
	httpEngine  *gin.Engine
	metrics     *Metrics
	redis       redis.UniversalClient
	fileStorage FileStorage
}

func MustSetupCore(cfg CoreConfig) *Core {
	{
		var writer io.Writer = os.Stdout
		if cfg.Log.Path != "" {
			writer = &lumberjack.Logger{
				Filename:   cfg.Log.Path,
				MaxSize:    500, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
		}
		l := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: cfg.Log.SlogLevel(),
		}))
		slog.SetDefault(l)
	}

	core := &Core{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Second * 3},
		metrics:    NewMetrics("modlearn", "core"),
		httpEngine: gin.New(),
		srv:        srv.SetupSrvs(),
	}

	setupSqlStore(core)

	if cfg.Redis.Addr != "" {
		core.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	core.fileStorage = setupFileStorage(cfg.ObjectStorage)

	// bucket在启动阶段就绪，失败直接退出，不在请求路径上重试
	{
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		created, err := core.fileStorage.EnsureBucketExists(ctx, cfg.ObjectStorage.S3.Bucket)
		if err != nil {
			panic(err)
		}
		slog.Info("object storage bucket ready",
			slog.String("bucket", cfg.ObjectStorage.S3.Bucket),
			slog.Bool("created", created))
	}

	return core
}

// NewWith 测试用构造，数据层与对象存储可注入
func NewWith(cfg CoreConfig, provider store.Provider, storage FileStorage) *Core {
	return &Core{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Second * 3},
		metrics:    NewMetrics("modlearn", "test"),
		httpEngine: gin.New(),
		srv:        srv.SetupSrvs(),
		stores: func() store.Provider {
			return provider
		},
		fileStorage: storage,
	}
}

func setupSqlStore(core *Core) {
	get := sqlstore.MustSetup(core.cfg.Postgres)
	if err := get().Install(); err != nil {
		panic(err)
	}
	core.stores = func() store.Provider {
		return get()
	}
}

func (s *Core) Cfg() CoreConfig {
	return s.cfg
}

func (s *Core) Srv() *srv.Srv {
	return s.srv
}

func (s *Core) Store() store.Provider {
	return s.stores()
}

func (s *Core) HttpEngine() *gin.Engine {
	return s.httpEngine
}

func (s *Core) Metrics() *Metrics {
	return s.metrics
}

func (s *Core) FileStorage() FileStorage {
	return s.fileStorage
}

// DefaultBucket 文件记录落库时使用的bucket
func (s *Core) DefaultBucket() string {
	if s.cfg.ObjectStorage.S3 == nil {
		return ""
	}
	return s.cfg.ObjectStorage.S3.Bucket
}

func (s *Core) Cache() types.Cache {
	if s.redis == nil {
		return &EmptyCache{}
	}
	return &Cache{redis: s.redis}
}

type Cache struct {
	redis redis.UniversalClient
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	return c.redis.Get(ctx, key).Result()
}

func (c *Cache) SetEx(ctx context.Context, key, value string, expire time.Duration) error {
	return c.redis.SetEx(ctx, key, value, expire).Err()
}

func (c *Cache) Del(ctx context.Context, key string) error {
	return c.redis.Del(ctx, key).Err()
}

// EmptyCache redis未配置时的空实现，读取永远未命中
type EmptyCache struct{}

func (c *EmptyCache) Get(ctx context.Context, key string) (string, error) {
	return "", nil
}

func (c *EmptyCache) SetEx(ctx context.Context, key, value string, expire time.Duration) error {
	return nil
}

func (c *EmptyCache) Del(ctx context.Context, key string) error {
	return nil
}
