package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/emreakn/dojohub/models"
	"github.com/emreakn/dojohub/pkg"
	"go.uber.org/zap"
)

// SignatureVerifier, imzalı login payload'ını doğrular.
//
// Client, login isteğini şu alanlarla imzalar:
//
//	HMAC-SHA256(secret, lower(trim(email)) + passwordHash + timestamp + nonce)
//
// Server aynı imzayı kendi secret'ı ile yeniden hesaplar ve karşılaştırır.
// timestamp yaş kontrolü, bayat payload replay'lerini reddeder.
// Tamamen stateless'tır — nonce store tutulmaz.
type SignatureVerifier interface {
	// Validate, alan + yaş + imza kontrollerini sırayla yapar ve
	// normalize edilmiş payload'ı döner. İlk başarısız kontrol işlemi keser.
	Validate(payload *models.SignedLoginPayload) (*models.SignedLoginPayload, error)
}

// signatureVerifier, SignatureVerifier implementasyonu.
type signatureVerifier struct {
	secret []byte
	maxAge time.Duration
	log    *zap.Logger

	// now, testlerde zamanı kontrol edebilmek için enjekte edilir.
	now func() time.Time
}

// NewSignatureVerifier, constructor.
func NewSignatureVerifier(secret string, maxAge time.Duration, log *zap.Logger) SignatureVerifier {
	return &signatureVerifier{
		secret: []byte(secret),
		maxAge: maxAge,
		log:    log,
		now:    time.Now,
	}
}

// Validate, kontrol sırası: alan doğrulama → yaş → imza.
//
// Yaş penceresi SİMETRİKTİR: |now - timestamp| <= maxAge.
// Gelecek tarihli timestamp da pencere içindeyse kabul edilir —
// client clock skew toleransı. Bunun replay yüzeyini genişlettiği
// biliniyor ve kabul edilmiş durumda; pencere config ile daraltılabilir.
func (v *signatureVerifier) Validate(payload *models.SignedLoginPayload) (*models.SignedLoginPayload, error) {
	if err := payload.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	now := v.now()
	ts := time.UnixMilli(payload.TimestampMillis)
	age := now.Sub(ts)
	if age < 0 {
		age = -age
	}
	if age > v.maxAge {
		v.log.Debug("login payload rejected",
			zap.String("reason", "timestamp outside window"),
			zap.Duration("age", age))
		return nil, fmt.Errorf("%w: request expired, please retry", pkg.ErrBadRequest)
	}

	expected := v.compute(payload)
	// hmac.Equal: constant-time karşılaştırma — timing saldırısına karşı.
	if !hmac.Equal([]byte(expected), []byte(payload.Signature)) {
		// Hangi alanın uyumsuz olduğu response'tan ASLA anlaşılmamalı.
		v.log.Debug("login payload rejected", zap.String("reason", "signature mismatch"))
		return nil, fmt.Errorf("%w: signature verification failed", pkg.ErrInvalidCreds)
	}

	return payload, nil
}

// compute, beklenen imzayı hesaplar. Email, payload.Validate() içinde
// zaten normalize edildi (trim + lowercase) — client sözleşmesi ile aynı.
func (v *signatureVerifier) compute(p *models.SignedLoginPayload) string {
	mac := hmac.New(sha256.New, v.secret)
	fmt.Fprintf(mac, "%s%s%d%s", p.Email, p.PasswordHash, p.TimestampMillis, p.Nonce)
	return hex.EncodeToString(mac.Sum(nil))
}
