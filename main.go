package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"graf-doodle-server/modules/catalog"
	"graf-doodle-server/modules/common/config"
	"graf-doodle-server/modules/common/database"
	"graf-doodle-server/modules/common/gemini"
	"graf-doodle-server/modules/common/logger"
	"graf-doodle-server/modules/common/redis"
	"graf-doodle-server/modules/encoder"
	"graf-doodle-server/modules/gallery"
	"graf-doodle-server/modules/session"
	"graf-doodle-server/modules/stylize"
)

// CORS 헤더 추가
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Api-Key")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// 헬스 체크 엔드포인트
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "graf-doodle",
	})
}

// 서버 메트릭 조회 엔드포인트
func metricsHandler(m *session.Manager, history *gallery.History) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"sessions": m.Metrics(),
			"gallery": map[string]int{
				"items": history.Len(),
				"cap":   history.Cap(),
			},
		})
	}
}

// 세션 강제 정리 (관리자용)
func forceCleanupHandler(m *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cleaned := m.Cleanup()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "Cleanup completed",
			"cleaned": cleaned,
		})
	}
}

// openGalleryStore - GALLERY_BACKEND에 따라 저장소 선택
func openGalleryStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (gallery.Store, func(), error) {
	switch cfg.GalleryBackend {
	case config.GalleryRedis:
		rdb, err := redis.Connect(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return gallery.NewRedisStore(rdb, cfg.GallerySlot), func() { rdb.Close() }, nil
	case config.GallerySupabase:
		db, err := database.NewClient(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return gallery.NewSupabaseStore(db, cfg.GallerySlot), func() {}, nil
	default:
		log.Warn().Msg("⚠️ Using in-memory gallery; results are lost on restart")
		return gallery.NewMemoryStore(), func() {}, nil
	}
}

// newRouter - 전체 라우트 구성
// CORS wraps the router itself so preflights reach it before method matching.
func newRouter(manager *session.Manager, history *gallery.History, maxUploadBytes int64, log zerolog.Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(logger.Middleware(log))

	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/metrics", metricsHandler(manager, history)).Methods("GET")
	r.HandleFunc("/admin/cleanup", forceCleanupHandler(manager)).Methods("POST")

	r.HandleFunc("/api/styles", catalog.HandleStyles).Methods("GET")
	r.HandleFunc("/api/palettes", catalog.HandlePalettes).Methods("GET")

	galleryHandler := gallery.NewHandler(history)
	r.HandleFunc("/api/gallery", galleryHandler.HandleList).Methods("GET")
	r.HandleFunc("/api/gallery", galleryHandler.HandleClear).Methods("DELETE")

	session.NewHandler(manager, maxUploadBytes, log).Register(r)

	return enableCORS(r)
}

func main() {
	// 환경변수 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("❌ Failed to load config")
	}
	log := logger.New(cfg.AppEnv)
	if !cfg.EnvFileLoaded {
		log.Debug().Msg("No .env file found, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Gemini 클라이언트 팩토리
	factory := gemini.NewClientFactory(gemini.Options{
		Backend:  cfg.GeminiBackend,
		Project:  cfg.GoogleProject,
		Location: cfg.GoogleLocation,
		Logger:   log,
	})
	stylizer := stylize.NewService(factory, stylize.Config{
		DefaultAPIKey: cfg.GeminiAPIKey,
		Model:         cfg.GeminiModel,
		HDModel:       cfg.GeminiHDModel,
		HDImageSize:   cfg.GeminiHDImageSize,
	}, log)

	// 갤러리 로드 (시작 시 한 번)
	store, closeStore, err := openGalleryStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.GalleryBackend).Msg("❌ Failed to open gallery store")
	}
	defer closeStore()
	history := gallery.Open(ctx, store, cfg.GalleryCap, log)

	manager := session.NewManager(session.Deps{
		Stylizers: func(keys stylize.KeySource) session.Stylizer {
			return stylizer.WithKeys(keys)
		},
		Gallery:       history,
		Encoder:       encoder.New(cfg.MaxUploadBytes),
		DefaultAPIKey: cfg.GeminiAPIKey,
		Logger:        log,
	}, cfg.SessionIdleTimeout, cfg.SessionMaxAge)

	// 정리 루틴 시작
	manager.StartCleanupRoutine(ctx, 30*time.Minute)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(manager, history, cfg.MaxUploadBytes, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("🚀 GRAF DOODLE server starting")
		log.Info().Msgf("📡 WebSocket endpoint: ws://localhost:%s/ws?session=<id>", cfg.Port)
		log.Info().Msgf("❤️  Health check: http://localhost:%s/health", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("❌ Server failed to start")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("❌ Failed to shutdown server")
	}
	log.Info().Msg("👋 Server stopped")
}
