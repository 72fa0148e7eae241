// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Error ayrımı ASLA mesaj metni karşılaştırarak yapılmaz —
// her hata sınıfı sabit bir sentinel değer taşır ve
// errors.Is() ile kontrol edilir:
//
//	if errors.Is(err, pkg.ErrInvalidSession) { ... }
//
// Handler katmanı bu sentinel'leri HTTP status code + makine-okunur
// error code'a map'ler (response.go).
package pkg

import "errors"

// Domain-level error'lar — auth alt sistemi taksonomisi.
//
// Güvenlik notu: ErrInvalidCreds tek bir mesaj olarak döner.
// "email yanlış" / "şifre yanlış" / "imza yanlış" ayrımı response'tan
// ASLA anlaşılamamalı — account enumeration koruması.
// Aynı şekilde ErrInvalidSession, "expired" ile "tampered" ayrımını
// dışarı sızdırmaz (oracle koruması) — gerçek sebep sadece log'a yazılır.
var (
	ErrBadRequest      = errors.New("bad request")
	ErrInvalidSession  = errors.New("authentication required")
	ErrInvalidCreds    = errors.New("invalid email or password")
	ErrForbidden       = errors.New("insufficient permissions")
	ErrAccountDisabled = errors.New("account deactivated")
	ErrLoginLocked     = errors.New("too many failed login attempts")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrInternal        = errors.New("internal error")
)
