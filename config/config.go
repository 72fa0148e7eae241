// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Config struct'ı tüm ayarları tek bir yerde toplar, böylece
// her yerde ayrı ayrı os.Getenv() çağırmak yerine tek bir Config nesnesi taşırız.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
// Her alt bölüm ayrı bir struct — her struct tek bir concern'ü temsil eder.
type Config struct {
	Server    ServerConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Session   SessionConfig
	Guard     GuardConfig
	Signature SignatureConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string
	Port int
	Env  string // "development" | "production"
}

// MongoConfig, kullanıcı kayıtlarının tutulduğu document database ayarları.
type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig, failed-attempt store'un opsiyonel Redis backend ayarları.
// Addr boşsa in-memory store kullanılır (tek instance deploy).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SessionConfig, session token ve cookie ayarları.
type SessionConfig struct {
	Secret     string        // Token imzalama anahtarı — GİZLİ TUTULMALI
	TTL        time.Duration // Token ömrü (varsayılan: 7 gün)
	CookieName string        // Session cookie adı
	Issuer     string
	Audience   string
}

// GuardConfig, login abuse guard (brute-force koruması) ayarları.
type GuardConfig struct {
	Threshold int           // Pencere içinde izin verilen başarısız deneme (varsayılan: 5)
	Window    time.Duration // Deneme sayma penceresi (varsayılan: 15 dakika)
	Lockout   time.Duration // Kilitleme süresi (varsayılan: 15 dakika)
}

// SignatureConfig, imzalı login payload doğrulama ayarları.
type SignatureConfig struct {
	Secret string        // Client ile paylaşılan HMAC anahtarı
	MaxAge time.Duration // timestamp için kabul edilen maksimum yaş (varsayılan: 5 dakika)
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler (development kolaylığı için).
// Production'da bu dosya olmaz, gerçek env variable'lar kullanılır.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "9090"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	sessionTTLDays, err := strconv.Atoi(getEnv("SESSION_TTL_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL_DAYS: %w", err)
	}

	guardThreshold, err := strconv.Atoi(getEnv("LOGIN_GUARD_THRESHOLD", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_GUARD_THRESHOLD: %w", err)
	}

	guardWindow, err := strconv.Atoi(getEnv("LOGIN_GUARD_WINDOW_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_GUARD_WINDOW_MINUTES: %w", err)
	}

	guardLockout, err := strconv.Atoi(getEnv("LOGIN_GUARD_LOCKOUT_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_GUARD_LOCKOUT_MINUTES: %w", err)
	}

	signatureMaxAge, err := strconv.Atoi(getEnv("LOGIN_SIGNATURE_MAX_AGE_MINUTES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_SIGNATURE_MAX_AGE_MINUTES: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	// İki ayrı secret zorunlu: session token imzası ile login payload
	// imzası aynı anahtarı PAYLAŞMAZ — biri sızarsa diğeri etkilenmez.
	sessionSecret := getEnv("SESSION_SECRET", "")
	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
	}

	signingSecret := getEnv("LOGIN_SIGNING_SECRET", "")
	if signingSecret == "" {
		return nil, fmt.Errorf("LOGIN_SIGNING_SECRET environment variable is required")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
			Env:  getEnv("APP_ENV", "development"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "dojohub"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Session: SessionConfig{
			Secret:     sessionSecret,
			TTL:        time.Duration(sessionTTLDays) * 24 * time.Hour,
			CookieName: getEnv("SESSION_COOKIE_NAME", "dojohub_session"),
			Issuer:     getEnv("SESSION_ISSUER", "dojohub"),
			Audience:   getEnv("SESSION_AUDIENCE", "dojohub-admin"),
		},
		Guard: GuardConfig{
			Threshold: guardThreshold,
			Window:    time.Duration(guardWindow) * time.Minute,
			Lockout:   time.Duration(guardLockout) * time.Minute,
		},
		Signature: SignatureConfig{
			Secret: signingSecret,
			MaxAge: time.Duration(signatureMaxAge) * time.Minute,
		},
	}

	return cfg, nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:9090").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsProduction, APP_ENV=production olup olmadığını döner.
// Secure cookie flag'i ve generic 500 mesajları buna göre belirlenir.
func (c *ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
