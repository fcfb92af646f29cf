package core

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	conf := &CoreConfig{}
	if err = toml.Unmarshal(raw, conf); err != nil {
		panic(err)
	}

	return *conf
}

func LoadBaseConfigFromENV() CoreConfig {
	var c CoreConfig
	c.FromENV()
	return c
}

type CoreConfig struct {
	Addr          string              `toml:"addr"`
	Log           Log                 `toml:"log"`
	Postgres      PGConfig            `toml:"postgres"`
	Redis         RedisConfig         `toml:"redis"`
	ObjectStorage ObjectStorageDriver `toml:"object_storage"`
	Security      Security            `toml:"security"`
	Order         OrderConfig         `toml:"order"`
}

type ObjectStorageDriver struct {
	StaticDomain string    `toml:"static_domain"`
	Driver       string    `toml:"driver"`
	S3           *S3Config `toml:"s3"`
}

type S3Config struct {
	Bucket       string `toml:"bucket"`
	Region       string `toml:"region"`
	Endpoint     string `toml:"endpoint"`
	AccessKey    string `toml:"access_key"`
	SecretKey    string `toml:"secret_key"`
	UsePathStyle bool   `toml:"use_path_style"`
}

type Security struct {
	// JWTSecret 服务端签发JWT使用的密钥
	JWTSecret string `toml:"jwt_secret"`
	// TokenExpireSeconds 登录token有效期，默认30天
	TokenExpireSeconds int64 `toml:"token_expire_seconds"`
}

const DEFAULT_TOKEN_EXPIRE_SECONDS = 30 * 24 * 3600

func (s Security) TokenExpire() int64 {
	if s.TokenExpireSeconds <= 0 {
		return DEFAULT_TOKEN_EXPIRE_SECONDS
	}
	return s.TokenExpireSeconds
}

type OrderConfig struct {
	// PendingExpireSeconds 待支付订单超时时间，默认30分钟
	PendingExpireSeconds int64 `toml:"pending_expire_seconds"`
	// SweepCron 超时订单清理任务cron表达式
	SweepCron string `toml:"sweep_cron"`
}

func (o OrderConfig) PendingExpire() int64 {
	if o.PendingExpireSeconds <= 0 {
		return 30 * 60
	}
	return o.PendingExpireSeconds
}

func (o OrderConfig) Cron() string {
	if o.SweepCron == "" {
		return "@every 1m"
	}
	return o.SweepCron
}

func (c *CoreConfig) FromENV() {
	c.Addr = os.Getenv("MODLEARN_API_SERVICE_ADDRESS")
	c.Log.FromENV()
	c.Postgres.FromENV()
	c.Redis.FromENV()
	c.Security.JWTSecret = os.Getenv("MODLEARN_JWT_SECRET")
	c.ObjectStorage = ObjectStorageDriver{
		StaticDomain: os.Getenv("MODLEARN_S3_STATIC_DOMAIN"),
		Driver:       "s3",
		S3: &S3Config{
			Bucket:       os.Getenv("MODLEARN_S3_BUCKET"),
			Region:       os.Getenv("MODLEARN_S3_REGION"),
			Endpoint:     os.Getenv("MODLEARN_S3_ENDPOINT"),
			AccessKey:    os.Getenv("MODLEARN_S3_ACCESS_KEY"),
			SecretKey:    os.Getenv("MODLEARN_S3_SECRET_KEY"),
			UsePathStyle: os.Getenv("MODLEARN_S3_PATH_STYLE") == "true",
		},
	}
}

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("MODLEARN_POSTGRESQL_DSN")
}

func (c PGConfig) FormatDSN() string {
	return c.DSN
}

type RedisConfig struct {
	Addr     string `toml:"addr"` // host:port
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

func (r *RedisConfig) FromENV() {
	r.Addr = os.Getenv("MODLEARN_REDIS_ADDR")
	r.Password = os.Getenv("MODLEARN_REDIS_PASSWORD")
	if dbStr := os.Getenv("MODLEARN_REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			r.DB = db
		}
	}
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

func (l *Log) FromENV() {
	l.Level = os.Getenv("MODLEARN_API_LOG_LEVEL")
	l.Path = os.Getenv("MODLEARN_API_LOG_PATH")
}

func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
