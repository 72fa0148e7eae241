package models

import (
	"fmt"
	"strings"
)

// SignedLoginPayload, login isteğinin anti-replay zarfı.
//
// Client şifreyi düz metin göndermez: client-side hash + timestamp + nonce
// üzerinden HMAC imzası hesaplar. Server aynı imzayı kendi secret'ı ile
// yeniden hesaplayıp karşılaştırır (services.SignatureVerifier).
//
// timestamp + nonce, payload'ın bayat kopyalarının yaş kontrolünden
// geçememesini sağlar. Nonce store tutulmaz — yaş penceresi İÇİNDEKİ
// replay bilinen bir açıktır, kabul edilmiş trade-off.
type SignedLoginPayload struct {
	Email           string `json:"email"`
	PasswordHash    string `json:"passwordHash"`
	TimestampMillis int64  `json:"timestampMillis"`
	Nonce           string `json:"nonce"`
	Signature       string `json:"signature"`
}

// Validate, payload'ın alan bazlı (imza öncesi) kontrollerini yapar.
// İmza ve yaş kontrolü burada DEĞİL, SignatureVerifier'dadır —
// model sadece şekil doğrular.
//
// Email normalize edilir (trim + lowercase) çünkü imza hesaplaması da
// normalize edilmiş email üzerinden yapılır — client ile sözleşme bu.
func (p *SignedLoginPayload) Validate() error {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if p.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !EmailRegex().MatchString(p.Email) {
		return fmt.Errorf("invalid email format")
	}

	if p.PasswordHash == "" {
		return fmt.Errorf("passwordHash is required")
	}

	if p.TimestampMillis <= 0 {
		return fmt.Errorf("timestampMillis is required")
	}

	if p.Nonce == "" {
		return fmt.Errorf("nonce is required")
	}

	if p.Signature == "" {
		return fmt.Errorf("signature is required")
	}

	return nil
}

// LoginResult, başarılı login sonrası handler'a dönen sonuç.
// Token cookie'ye yazılır, Role + RedirectTo response body'sinde döner.
type LoginResult struct {
	Token      string `json:"-"`
	Role       Role   `json:"role"`
	RedirectTo string `json:"redirectTo"`
}
