package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"sheetlink.local/internal/app/sheetlink"
	slcache "sheetlink.local/internal/app/sheetlink/cache"
	"sheetlink.local/internal/app/sheetlink/fetch"
	"sheetlink.local/internal/app/sheetlink/httpapi"
	"sheetlink.local/internal/app/sheetlink/qr"
	"sheetlink.local/internal/app/sheetlink/repo"
	"sheetlink.local/internal/platform/config"
	"sheetlink.local/internal/platform/httpserver"
	"sheetlink.local/internal/platform/metrics"
	"sheetlink.local/internal/platform/ratelimit"
	"sheetlink.local/internal/platform/trace"
)

var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	cfg := config.Load()

	var h slog.Handler
	if cfg.LogFormat == "text" {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})
	} else {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})
	}
	slog.SetDefault(slog.New(h))

	if cfg.SheetCSVURL == "" {
		log.Fatal("SHEET_CSV_URL is required")
	}

	// Redis（可选：快照持久化 + 限流）
	var redisClient *redis.Client
	if cfg.RedisEnabled {
		rctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		client, err := slcache.NewRedisClient(rctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		cancel()
		if err != nil {
			log.Fatal(err)
		}
		redisClient = client
		defer redisClient.Close()
		slog.Info("redis 连接成功", "addr", cfg.RedisAddr)
	} else {
		slog.Info("redis 未启用，快照只存内存")
	}

	// 限流器
	var limiter *ratelimit.Limiter
	if cfg.RateLimitEnabled && redisClient != nil {
		limiter = ratelimit.NewLimiter(redisClient)
	} else if cfg.RateLimitEnabled {
		slog.Warn("RateLimit 需要 redis，已跳过", "REDIS_ENABLED", cfg.RedisEnabled)
	}

	// 数据服务：fetch -> parse -> validate -> cache
	store := slcache.NewStore(cfg.CacheFreshTTL, cfg.CacheStaleTTL, redisClient)
	fetcher := fetch.New(cfg.SheetCSVURL, cfg.FetchTimeout, cfg.TracingEnabled)
	sheetRepo := repo.NewSheetRepo(fetcher, store)
	resolver := sheetlink.NewResolver(sheetRepo)

	// 二维码渲染（带 ristretto 字节缓存）
	qrCache, errQR := qr.NewCache(qr.NewRenderer(), cfg.QRCacheMaxBytes)
	if errQR != nil {
		log.Fatal(errQR)
	}
	defer qrCache.Close()

	metrics.Init()

	var shutdown func(context.Context) error
	if cfg.TracingEnabled {
		shutdown = trace.InitTrace(cfg.OtlpGrpcEndpoint, cfg.OtlpServiceName)
		if shutdown == nil {
			slog.Error("Trace init failed")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					slog.Error(err.Error())
				}
			}()
		}
	}

	// 对外业务
	mux := http.NewServeMux()
	httpapi.RegisterPublicRoutes(mux, resolver, qrCache, httpapi.RouteConfig{
		Limiter:         limiter,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	publicHandler := http.Handler(mux)
	if cfg.TracingEnabled {
		publicHandler = otelhttp.NewHandler(mux, "http")
	}
	publicSrv := httpserver.New(cfg, cfg.Addr, publicHandler)

	// 仅本机/内网
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	adminMux.Handle("GET /api/v1/records", httpapi.NewRecordsHandler(sheetRepo))
	adminMux.Handle("POST /api/v1/invalidate", httpapi.NewInvalidateHandler(sheetRepo))

	// 表格可达性检测
	adminMux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if _, err := sheetRepo.GetAllRecords(ctx); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("sheet not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("sheet ready"))
	})

	adminMux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"service_name": cfg.ServiceName,
			"version":      version,
			"commit":       commit,
			"build_time":   buildTime,
			"go_version":   runtime.Version(),
		})
	})

	if cfg.PprofEnabled {
		adminMux.HandleFunc("/debug/pprof/", pprof.Index)
		adminMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		adminMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		adminMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		adminMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	adminSrv := httpserver.New(cfg, cfg.AdminAddr, adminMux)

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 后台周期刷新，让 stale 窗口大多在请求路径之外补上
	if cfg.RefreshInterval > 0 {
		go sheetRepo.Run(stopCtx, cfg.RefreshInterval)
	}

	errch := make(chan error, 2)
	go func() {
		errch <- httpserver.RunWithGracefulShutdownContext(publicSrv, cfg.ShutdownTimeout, stopCtx)
	}()
	go func() {
		errch <- httpserver.RunWithGracefulShutdownContext(adminSrv, cfg.ShutdownTimeout, stopCtx)
	}()

	err := <-errch
	if err != nil {
		stop()
		select {
		case <-errch:
		case <-time.After(cfg.ShutdownTimeout + time.Second):
		}
		log.Fatal(err)
	}

	stop()
	<-errch
}
