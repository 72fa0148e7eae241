// Package services, business logic katmanını barındırır.
//
// Service, handler (HTTP) ile repository (DB) arasında oturur:
// tüm iş kuralları burada yaşar. Service ASLA http.Request/Response
// bilmez — sadece domain modelleri alır/verir.
package services

import (
	"fmt"
	"time"

	"github.com/emreakn/dojohub/models"
	"github.com/emreakn/dojohub/pkg"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionService, stateless session token üretir ve doğrular.
//
// Token login'de basılır, ömrü boyunca değişmez. Server tarafında
// session kaydı TUTULMAZ — doğrulama tamamen imza + temporal claim
// kontrolüdür, her iki yön de saf CPU işidir ve koordinasyonsuz
// eşzamanlı çağrılabilir.
type SessionService interface {
	// Issue, claims'ten imzalı bir token basar (exp = now + TTL).
	Issue(claims *models.SessionClaims) (string, error)
	// Verify, token'ı doğrular ve içindeki claims'i döner.
	// HER doğrulama hatası tek bir opak pkg.ErrInvalidSession olarak döner —
	// caller (ve dolayısıyla client) "expired" ile "tampered" ayrımını
	// yapamamalıdır. Gerçek sebep sadece debug log'a yazılır.
	Verify(tokenString string) (*models.SessionClaims, error)
	// Refresh, verify + issue kısayoludur: mevcut token'ı uzatmaz,
	// doğrulanan claims'ten taze expiry'li YENİ bir token basar.
	Refresh(tokenString string) (string, error)
}

// sessionService, SessionService implementasyonu.
type sessionService struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	audience string
	log      *zap.Logger
}

// NewSessionService, constructor.
func NewSessionService(secret string, ttl time.Duration, issuer, audience string, log *zap.Logger) SessionService {
	return &sessionService{
		secret:   []byte(secret),
		ttl:      ttl,
		issuer:   issuer,
		audience: audience,
		log:      log,
	}
}

// Issue, claims'i sabit issuer/audience ve taze temporal alanlarla imzalar.
func (s *sessionService) Issue(claims *models.SessionClaims) (string, error) {
	now := time.Now()

	tokenClaims := *claims
	tokenClaims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.Subject,
		Issuer:    s.issuer,
		Audience:  jwt.ClaimStrings{s.audience},
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &tokenClaims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify, imza + issuer + audience + expiry kontrollerinin TAMAMINI yapar.
func (s *sessionService) Verify(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&models.SessionClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		// Ayrıntı SADECE log'a — response'ta hep aynı opak hata.
		s.log.Debug("session token rejected", zap.Error(err))
		return nil, pkg.ErrInvalidSession
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid {
		s.log.Debug("session token rejected", zap.String("reason", "invalid claims"))
		return nil, pkg.ErrInvalidSession
	}

	return claims, nil
}

// Refresh, verify-then-issue. Verify başarısızsa aynı opak hata döner.
// Claims attacker-controlled değildir (imza zaten doğrulandı), bu yüzden
// escalation mümkün değildir — yeni token aynı kimlikle basılır.
func (s *sessionService) Refresh(tokenString string) (string, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return "", err
	}
	return s.Issue(claims)
}
