package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	AdminAddr         string
	IdleTimeout       time.Duration // 空闲连接保留时间，超时没有新请求就关闭
	ShutdownTimeout   time.Duration // 优雅关闭的最长等待时间，超过后强制断开
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration

	// 日志配置信息
	LogLevel    slog.Level
	LogFormat   string
	ServiceName string

	PprofEnabled bool

	// 表格数据源
	SheetCSVURL     string        // 发布的 CSV 导出地址
	FetchTimeout    time.Duration // 单次拉取上限，超时按网络错误分类
	CacheFreshTTL   time.Duration // fresh 窗口：期间零网络请求
	CacheStaleTTL   time.Duration // stale 上限：超过算 expired
	RefreshInterval time.Duration // 后台刷新周期，0 = 关闭后台刷新

	// Redis（快照持久化 + 限流）
	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// RateLimit
	RateLimitEnabled bool
	RateLimitPerMin  int

	// QR
	QRCacheMaxBytes int64

	// Tracing
	TracingEnabled   bool
	OtlpGrpcEndpoint string
	OtlpServiceName  string
}

func Load() Config {
	cfg := Config{
		Addr:              ":8080",
		AdminAddr:         "127.0.0.1:6060",
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,

		LogLevel:    slog.LevelInfo,
		LogFormat:   "json",
		ServiceName: "sheetlink-api",

		PprofEnabled: false,

		FetchTimeout:    5 * time.Second,
		CacheFreshTTL:   5 * time.Minute,
		CacheStaleTTL:   15 * time.Minute,
		RefreshInterval: 5 * time.Minute,

		RedisEnabled:  false,
		RedisAddr:     "localhost:6379",
		RedisPassword: "",
		RedisDB:       0,

		RateLimitEnabled: true,
		RateLimitPerMin:  120,

		QRCacheMaxBytes: 1 << 24, // 16MB

		TracingEnabled:   false,
		OtlpGrpcEndpoint: "127.0.0.1:4317",
		OtlpServiceName:  "sheetlink-api",
	}

	_ = godotenv.Load(".env")

	if v, ok := os.LookupEnv("ADDR"); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := os.LookupEnv("ADMIN_ADDR"); ok && v != "" {
		cfg.AdminAddr = v
	}
	if v, ok := os.LookupEnv("IDLE_TIMEOUT"); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.IdleTimeout = d
		}
	}
	if v, ok := os.LookupEnv("SHUTDOWN_TIMEOUT"); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ShutdownTimeout = d
		}
	}
	if v, ok := os.LookupEnv("READ_HEADER_TIMEOUT"); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ReadHeaderTimeout = d
		}
	}
	if v, ok := os.LookupEnv("READ_TIMEOUT"); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ReadTimeout = d
		}
	}
	if v, ok := os.LookupEnv("WRITE_TIMEOUT"); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.WriteTimeout = d
		}
	}

	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		switch strings.ToLower(v) {
		case "debug":
			cfg.LogLevel = slog.LevelDebug
		case "info":
			cfg.LogLevel = slog.LevelInfo
		case "warn", "warning":
			cfg.LogLevel = slog.LevelWarn
		case "error":
			cfg.LogLevel = slog.LevelError
		default:
			cfg.LogLevel = slog.LevelInfo
		}
	}
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok && v != "" {
		cfg.LogFormat = v
	}
	if v, ok := os.LookupEnv("SERVICE_NAME"); ok && v != "" {
		cfg.ServiceName = v
	}

	if v, ok := os.LookupEnv("PPROF_ENABLED"); ok && v != "" {
		cfg.PprofEnabled = strings.ToLower(v) == "true"
	}

	if v, ok := os.LookupEnv("SHEET_CSV_URL"); ok && v != "" {
		cfg.SheetCSVURL = v
	}
	if v, ok := os.LookupEnv("FETCH_TIMEOUT"); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.FetchTimeout = d
		}
	}
	if v, ok := os.LookupEnv("CACHE_FRESH_TTL"); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CacheFreshTTL = d
		}
	}
	if v, ok := os.LookupEnv("CACHE_STALE_TTL"); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CacheStaleTTL = d
		}
	}
	if v, ok := os.LookupEnv("REFRESH_INTERVAL"); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RefreshInterval = d
		}
	}

	if v, ok := os.LookupEnv("REDIS_ENABLED"); ok && v != "" {
		cfg.RedisEnabled = strings.ToLower(v) == "true"
	}
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok && v != "" {
		cfg.RedisAddr = v
	}
	if v, ok := os.LookupEnv("REDIS_PASSWORD"); ok && v != "" {
		cfg.RedisPassword = v
	}
	if v, ok := os.LookupEnv("REDIS_DB"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RedisDB = n
		}
	}

	if v, ok := os.LookupEnv("RATELIMIT_ENABLED"); ok && v != "" {
		cfg.RateLimitEnabled = strings.ToLower(v) == "true"
	}
	if v, ok := os.LookupEnv("RATELIMIT_PER_MIN"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitPerMin = n
		}
	}

	if v, ok := os.LookupEnv("QR_CACHE_MAX_BYTES"); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.QRCacheMaxBytes = n
		}
	}

	if v, ok := os.LookupEnv("TRACING_ENABLED"); ok && v != "" {
		cfg.TracingEnabled = strings.ToLower(v) == "true"
	}
	if v, ok := os.LookupEnv("OTLP_GRPC_ENDPOINT"); ok && v != "" {
		cfg.OtlpGrpcEndpoint = v
	}
	if v, ok := os.LookupEnv("OTLP_SERVICE_NAME"); ok && v != "" {
		cfg.OtlpServiceName = v
	}

	return cfg
}
