package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Redis     RedisConfig     `yaml:"redis"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	Mode         string   `yaml:"mode"` // gin 的 debug / release / test
	AllowOrigins []string `yaml:"allowOrigins"`
}

type RedisConfig struct {
	Addr        string        `yaml:"addr"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	SnapshotTTL time.Duration `yaml:"snapshotTTL"`
}

// ArchiveConfig 已结束对局的归档库，driver 为 sqlite 或 mysql
type ArchiveConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type AuthConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"tokenTTL"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8000",
			Mode:         "release",
			AllowOrigins: []string{"*"},
		},
		Redis: RedisConfig{
			Addr:        "127.0.0.1:6379",
			SnapshotTTL: 24 * time.Hour,
		},
		Archive: ArchiveConfig{
			Driver: "sqlite",
			DSN:    "acquire.db",
		},
		Auth: AuthConfig{
			Secret:   "access-secret",
			TokenTTL: 12 * time.Hour,
		},
		RateLimit: RateLimitConfig{RPS: 10, Burst: 20},
		Log:       LogConfig{Level: "info"},
	}
}

// Load 读取 YAML 配置，path 为空时只用默认值；最后应用 ACQUIRE_* 环境变量
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"ACQUIRE_ADDR":           &c.Server.Addr,
		"ACQUIRE_GIN_MODE":       &c.Server.Mode,
		"ACQUIRE_REDIS_ADDR":     &c.Redis.Addr,
		"ACQUIRE_REDIS_PASSWORD": &c.Redis.Password,
		"ACQUIRE_ARCHIVE_DRIVER": &c.Archive.Driver,
		"ACQUIRE_ARCHIVE_DSN":    &c.Archive.DSN,
		"ACQUIRE_JWT_SECRET":     &c.Auth.Secret,
		"ACQUIRE_LOG_LEVEL":      &c.Log.Level,
	}
	for key, field := range strs {
		if v, ok := lookup(key); ok {
			*field = v
		}
	}
	if v, ok := lookup("ACQUIRE_REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ACQUIRE_REDIS_DB 不是整数: %w", err)
		}
		c.Redis.DB = db
	}
	return nil
}

// Build 按配置创建 zap logger
func (l LogConfig) Build() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", l.Level, err)
	}
	cfg := zap.NewProductionConfig()
	if l.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = level
	return cfg.Build()
}
