package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"youtools-catalog/internal/api"
	"youtools-catalog/internal/blobcache"
	"youtools-catalog/internal/cache"
	"youtools-catalog/internal/clock"
	"youtools-catalog/internal/config"
	"youtools-catalog/internal/db"
	"youtools-catalog/internal/featureflags"
	mw "youtools-catalog/internal/http/middleware"
	"youtools-catalog/internal/localstore"
	"youtools-catalog/internal/logger"
	"youtools-catalog/internal/mockapi"
	"youtools-catalog/internal/service"
)

func main() {
	// 1) Configuration
	cfg := config.Load()

	// 2) Hosted DB init (non-fatal: the fallback chain covers an absent or
	// unreachable hosted backend)
	var hostedDB *sql.DB
	if cfg.HostedConfigured() {
		conn, err := db.Init(cfg.HostedDSN())
		if err != nil {
			log.Printf("hosted database unavailable, falling back: %v", err)
		} else {
			hostedDB = conn
			defer hostedDB.Close()
		}
	} else {
		log.Printf("hosted database not configured, running on mock/local backends")
	}

	// 3) Feature flags init (non-fatal)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := featureflags.Init(ctx, cfg.RolloutAPIKey); err != nil {
		log.Printf("feature flags init warning: %v", err)
	} else {
		log.Printf("feature flags ready: offline=%v, logLevel=%s",
			featureflags.Values().Offline.IsEnabled(nil),
			featureflags.Values().LogLevel.GetValue(nil))
	}
	defer featureflags.Shutdown()

	// 3a) Initialize levelled logger from flag & watch for flips
	logger.Init(featureflags.Values().LogLevel.GetValue(nil))
	logger.Infof("log level set to %s", logger.GetLevel())

	go func() {
		prev := featureflags.Values().LogLevel.GetValue(nil)
		for {
			time.Sleep(5 * time.Second)
			cur := featureflags.Values().LogLevel.GetValue(nil)
			if cur != prev {
				logger.SetLevel(cur)
				logger.Infof("log level changed to %s", logger.GetLevel())
				prev = cur
			}
		}
	}()

	// 4) Local snapshot store and blob side-cache
	store, err := localstore.Open(cfg.LocalDBPath)
	if err != nil {
		log.Fatalf("local store init failed: %v", err)
	}
	defer store.Close()

	blobs, err := blobcache.Open(cfg.BlobCachePath)
	if err != nil {
		// nil cache is a no-op: images just stay uncached
		logger.Warnf("blob cache unavailable: %v", err)
		blobs = nil
	} else {
		defer blobs.Close()
	}

	// 5) Mock backend (in process; skippable by env or flag)
	backends := service.Backends{Hosted: hostedDB, Local: store}
	if cfg.DisableMockAPI || featureflags.Values().DisableMockAPI.IsEnabled(nil) {
		logger.Infof("mock backend disabled")
	} else {
		mock := mockapi.New(store)
		if err := mock.Seed(context.Background()); err != nil {
			logger.Warnf("mock backend seed: %v", err)
		}
		backends.Mock = mock.Client()
		backends.MockURL = mockapi.BaseURL
	}

	// 6) Services
	clk := clock.NewRealClock()
	resultCache := cache.New(cache.DefaultTTL, clk)
	products := service.NewProducts(backends, resultCache)
	brands := service.NewBrands(backends, blobs)
	posters := service.NewPosters(backends, blobs)
	categories := service.NewCategories(backends)

	// 7) Router
	r := mux.NewRouter()

	// 7a) Offline kill-switch middleware (placed immediately after router creation)
	offlineGate := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// always allow health checks
			if r.URL.Path == "/health" || r.URL.Path == "/ready" {
				next.ServeHTTP(w, r)
				return
			}
			// block all other requests when Offline flag is ON
			if featureflags.Values().Offline.IsEnabled(nil) {
				http.Error(w, "service temporarily offline", http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
	r.Use(offlineGate)

	// 7b) Request logger (skip noisy health endpoints)
	r.Use(mw.LogRequests(mw.WithSkips("/health", "/ready")))

	// 8) Health endpoints
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/ready", func(w http.ResponseWriter, _ *http.Request) {
		// readiness tracks the local store only: the service is built to run
		// with the hosted backend down
		if v, err := store.SchemaVersion(); err != nil || v == 0 {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}).Methods(http.MethodGet)

	// 9) Inspect current flag values
	r.HandleFunc("/_flags", func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]interface{}{
			"offline":        featureflags.Values().Offline.IsEnabled(nil),
			"disableMockApi": featureflags.Values().DisableMockAPI.IsEnabled(nil),
			"logLevel":       featureflags.Values().LogLevel.GetValue(nil),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}).Methods(http.MethodGet)

	// 10) Catalog endpoints
	api.NewHandler(products, brands, posters, categories, clk).Register(r)

	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Infof("youtools-catalog listening on %s", s.Addr)
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown: %v", err)
	}
	logger.Infof("youtools-catalog stopped")
}
