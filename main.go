// Package main, dojohub backend uygulamasının giriş noktasıdır.
//
// Bu dosyanın görevi — Dependency Injection "wire-up":
//  1. Config'i yükle
//  2. Logger'ı kur
//  3. MongoDB'ye bağlan, index'leri garanti et
//  4. Abuse guard store'unu seç (Redis varsa Redis, yoksa in-memory)
//  5. Service'leri oluştur
//  6. Handler + middleware'ları oluştur, route'ları bağla
//  7. CORS yapılandır
//  8. HTTP server'ı başlat, graceful shutdown
//
// Global değişken YOK — her şey burada oluşturulup birbirine bağlanır.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emreakn/dojohub/config"
	"github.com/emreakn/dojohub/handlers"
	"github.com/emreakn/dojohub/middleware"
	"github.com/emreakn/dojohub/pkg/abuseguard"
	"github.com/emreakn/dojohub/pkg/logger"
	"github.com/emreakn/dojohub/pkg/sessioncookie"
	"github.com/emreakn/dojohub/repository"
	"github.com/emreakn/dojohub/services"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		// Logger henüz yok — stderr'e yaz ve çık
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// ─── 2. Logger ───
	log, err := logger.New(cfg.Server.IsProduction())
	if err != nil {
		os.Stderr.WriteString("failed to init logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("dojohub server starting",
		zap.String("env", cfg.Server.Env),
		zap.Int("port", cfg.Server.Port))

	// ─── 3. MongoDB ───
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn("mongodb disconnect error", zap.Error(err))
		}
	}()

	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatal("mongodb ping failed", zap.Error(err))
	}

	db := mongoClient.Database(cfg.Mongo.Database)
	userRepo := repository.NewMongoUserRepo(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("failed to ensure indexes", zap.Error(err))
	}

	// ─── 4. Abuse Guard Store ───
	//
	// REDIS_ADDR set edilmişse sayaçlar Redis'te paylaşılır (yatay ölçek).
	// Edilmemişse in-memory store — tek instance deploy için yeterli,
	// sweep goroutine'i bayat kayıtları temizler.
	retention := abuseguard.Retention(cfg.Guard.Window, cfg.Guard.Lockout)

	var attemptStore abuseguard.AttemptStore
	if cfg.Redis.Addr != "" {
		redisStore, err := abuseguard.NewRedisStore(ctx, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, retention)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisStore.Close() //nolint:errcheck
		attemptStore = redisStore
		log.Info("login guard using redis store", zap.String("addr", cfg.Redis.Addr))
	} else {
		memStore := abuseguard.NewMemoryStore(retention, time.Minute)
		defer memStore.Close()
		attemptStore = memStore
		log.Info("login guard using in-memory store")
	}

	guard := abuseguard.NewGuard(attemptStore, cfg.Guard.Threshold, cfg.Guard.Window, cfg.Guard.Lockout)

	// ─── 5. Service Layer ───
	sessionService := services.NewSessionService(
		cfg.Session.Secret,
		cfg.Session.TTL,
		cfg.Session.Issuer,
		cfg.Session.Audience,
		log,
	)
	signatureVerifier := services.NewSignatureVerifier(cfg.Signature.Secret, cfg.Signature.MaxAge, log)
	authService := services.NewAuthService(userRepo, sessionService, signatureVerifier, log)

	// ─── 6. Handler + Middleware + Routes ───
	cookies := sessioncookie.NewWriter(
		cfg.Session.CookieName,
		cfg.Session.TTL,
		cfg.Server.IsProduction(),
	)

	authHandler := handlers.NewAuthHandler(authService, guard, cookies, log)
	accountHandler := handlers.NewAccountHandler(authService, userRepo, log)

	authMw := middleware.NewAuthMiddleware(
		sessionService,
		userRepo,
		cfg.Session.CookieName,
		log,
		!cfg.Server.IsProduction(),
	)

	mux := http.NewServeMux()
	initRoutes(mux, authHandler, accountHandler, authMw)

	// ─── 7. CORS ───
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000", // admin UI dev server
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true, // session cookie için zorunlu
	})

	handler := corsHandler.Handler(mux)

	// ─── 8. HTTP Server + Graceful Shutdown ───
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("server listening", zap.String("addr", cfg.Server.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-done
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("forced shutdown", zap.Error(err))
	}

	log.Info("server stopped gracefully")
}
